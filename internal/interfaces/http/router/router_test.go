package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	paymentapp "github.com/aqarcrm/backend/internal/application/payment"
	settingsapp "github.com/aqarcrm/backend/internal/application/settings"
	"github.com/aqarcrm/backend/internal/domain/settings"
	"github.com/aqarcrm/backend/internal/domain/supply"
	"github.com/aqarcrm/backend/internal/infrastructure/cache"
	"github.com/aqarcrm/backend/internal/infrastructure/config"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence"
	"github.com/aqarcrm/backend/internal/infrastructure/persistence/models"
	"github.com/aqarcrm/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRouter wires the full stack over an in-memory database, the same
// composition main performs against postgres.
func setupRouter(t *testing.T) *gin.Engine {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CollectionPaymentModel{},
		&models.SupplyPaymentModel{},
		&models.SettingModel{},
		&models.LedgerEntryModel{},
	))

	settingRepo := persistence.NewGormSettingRepository(db)
	store := settings.NewCachedStore(settingRepo, cache.NewInMemorySettingsCache())

	collectionRepo := persistence.NewGormCollectionPaymentRepository(db)
	supplyRepo := persistence.NewGormSupplyPaymentRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	collectionService := paymentapp.NewCollectionPaymentService(collectionRepo, store, scope)
	supplyService := paymentapp.NewSupplyPaymentService(supplyRepo, supply.NewStandardFeeCalculator(), store)
	settingsService := settingsapp.NewService(store)

	cfg := &config.Config{}
	cfg.App.Env = "test"

	return Setup(cfg, zap.NewNop(), Handlers{
		Collection: handler.NewCollectionPaymentHandler(collectionService),
		Supply:     handler.NewSupplyPaymentHandler(supplyService),
		Settings:   handler.NewSettingsHandler(settingsService),
		System:     handler.NewSystemHandler(nil),
	})
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var parsed map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func TestRouter_Health(t *testing.T) {
	engine := setupRouter(t)

	rec, body := doJSON(t, engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_CollectionPaymentLifecycle(t *testing.T) {
	engine := setupRouter(t)
	contractID := uuid.New()
	tenantID := uuid.New()
	dueDate := time.Now().AddDate(0, 0, 10).Format("2006-01-02")

	createBody := fmt.Sprintf(`{
		"contract_id": %q,
		"tenant_id": %q,
		"amount": 2500,
		"due_date_start": %q
	}`, contractID, tenantID, dueDate)

	rec, body := doJSON(t, engine, http.MethodPost, "/api/v1/collection-payments", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := body["data"].(map[string]any)
	paymentID := data["id"].(string)
	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("PAY-%d-000001", year), data["payment_number"])
	assert.Equal(t, "UPCOMING", data["status"])

	t.Run("missing tenant is rejected by validation", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodPost, "/api/v1/collection-payments",
			fmt.Sprintf(`{"contract_id": %q, "amount": 100, "due_date_start": %q}`, contractID, dueDate))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("collect issues receipt and becomes terminal", func(t *testing.T) {
		rec, body := doJSON(t, engine, http.MethodPost, "/api/v1/collection-payments/"+paymentID+"/collect", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		data := body["data"].(map[string]any)
		assert.Equal(t, "COLLECTED", data["status"])
		assert.Equal(t, fmt.Sprintf("REC-%d-000001", year), data["receipt_number"])

		rec, body = doJSON(t, engine, http.MethodPost, "/api/v1/collection-payments/"+paymentID+"/collect", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "ILLEGAL_TRANSITION", errInfo["code"])
	})

	t.Run("delete is always refused", func(t *testing.T) {
		rec, body := doJSON(t, engine, http.MethodDelete, "/api/v1/collection-payments/"+paymentID, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "DELETION_NOT_ALLOWED", errInfo["code"])
	})

	t.Run("list filters by derived status", func(t *testing.T) {
		rec, body := doJSON(t, engine, http.MethodGet, "/api/v1/collection-payments?status=COLLECTED", "")
		require.Equal(t, http.StatusOK, rec.Code)
		items := body["data"].([]any)
		require.Len(t, items, 1)

		rec, body = doJSON(t, engine, http.MethodGet, "/api/v1/collection-payments?status=OVERDUE", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, body["data"])
	})

	t.Run("unknown status value is rejected", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/collection-payments?status=BOGUS", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/collection-payments/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_Settings(t *testing.T) {
	engine := setupRouter(t)

	t.Run("unwritten key falls back to default", func(t *testing.T) {
		rec, body := doJSON(t, engine, http.MethodGet, "/api/v1/settings/payment_due_days", "")
		require.Equal(t, http.StatusOK, rec.Code)
		data := body["data"].(map[string]any)
		assert.Equal(t, "7", data["value"])
	})

	t.Run("write then read back", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodPut, "/api/v1/settings/payment_due_days", `{"value": "3"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec, body := doJSON(t, engine, http.MethodGet, "/api/v1/settings/payment_due_days", "")
		require.Equal(t, http.StatusOK, rec.Code)
		data := body["data"].(map[string]any)
		assert.Equal(t, "3", data["value"])
	})

	t.Run("invalid grace period is rejected", func(t *testing.T) {
		rec, body := doJSON(t, engine, http.MethodPut, "/api/v1/settings/payment_due_days", `{"value": "soon"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "INVALID_CONFIGURATION", errInfo["code"])
	})
}

func TestRouter_SupplyPayments(t *testing.T) {
	engine := setupRouter(t)
	ownerID := uuid.New()
	dueDate := time.Now().AddDate(0, 0, 14).Format("2006-01-02")

	createBody := fmt.Sprintf(`{
		"owner_id": %q,
		"gross_amount": 10000,
		"maintenance_deduction": 200,
		"other_deductions": 150,
		"due_date": %q
	}`, ownerID, dueDate)

	rec, body := doJSON(t, engine, http.MethodPost, "/api/v1/supply-payments", createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := body["data"].(map[string]any)
	paymentID := data["id"].(string)
	assert.Equal(t, "pending", data["status"])
	// Default 5% commission on 10000 gross, minus 350 of deductions.
	assert.Equal(t, "9150", data["net_amount"])

	t.Run("mark paid is terminal", func(t *testing.T) {
		rec, body := doJSON(t, engine, http.MethodPost, "/api/v1/supply-payments/"+paymentID+"/pay", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := body["data"].(map[string]any)
		assert.Equal(t, "collected", data["status"])
	})

	t.Run("collected payment cannot be deleted", func(t *testing.T) {
		rec, body := doJSON(t, engine, http.MethodDelete, "/api/v1/supply-payments/"+paymentID, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "ILLEGAL_TRANSITION", errInfo["code"])
	})
}
