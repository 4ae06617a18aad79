package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// applySort applies a whitelisted ORDER BY clause. Column names outside the
// whitelist fall back to the default ordering so callers can never inject
// arbitrary SQL through sort parameters.
func applySort(query *gorm.DB, orderBy, orderDir string, allowed map[string]bool, fallback string) *gorm.DB {
	if orderBy == "" || !allowed[orderBy] {
		return query.Order(fallback)
	}
	dir := "ASC"
	if strings.EqualFold(orderDir, "desc") {
		dir = "DESC"
	}
	return query.Order(orderBy + " " + dir)
}

// applyPagination applies offset/limit pagination with sane bounds.
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
