package handler

import (
	"time"

	"github.com/google/uuid"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// parseDate parses a required date field
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// parseOptionalDate parses a date field that may be absent
func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseOptionalUUID parses a UUID field that may be absent
func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseUUIDOrNil parses a UUID field, treating absent as uuid.Nil
func parseUUIDOrNil(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(value)
}
