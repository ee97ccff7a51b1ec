package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	"github.com/gyamfidev/phoneshop-backend/internal/phones"
	pkgauth "github.com/gyamfidev/phoneshop-backend/pkg/auth"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func testConfig() *config.Config {
	return &config.Config{
		App:        config.AppConfig{Env: "test", Port: "0"},
		JWT:        config.JWTConfig{Secret: "router-test-secret", Issuer: "phoneshop-test", ExpirationMinutes: 60},
		Identifier: config.IdentifierConfig{MaxAttempts: 5},
	}
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:routertest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS phones (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  imei TEXT UNIQUE,
  category TEXT,
  condition TEXT NOT NULL,
  status TEXT NOT NULL,
  cost_price_cents INTEGER NOT NULL,
  value_cents INTEGER,
  is_available INTEGER NOT NULL,
  is_swappable INTEGER NOT NULL,
  current_owner_type TEXT NOT NULL,
  current_owner_id INTEGER,
  swapped_from_id INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS phone_ownership_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  phone_id INTEGER NOT NULL,
  owner_type TEXT NOT NULL,
  owner_id INTEGER,
  reason TEXT NOT NULL,
  transaction_type TEXT,
  transaction_id INTEGER,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS id_sequences (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"phones", "phone_ownership_history", "id_sequences"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	db := setupRouterTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	ids := identifier.NewService(identifier.NewRepository(), nil, cfg.Identifier)
	phoneSvc := phones.NewService(phones.NewRepository(db), ids, gormTxRunner{db: db}, nil, logg)

	return NewRouter(Deps{
		Config: cfg,
		Logger: logg,
		Phones: phoneSvc,
	})
}

func mintToken(t *testing.T, cfg *config.Config, role enums.StaffRole) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		StaffID:  1,
		Username: "tester",
		Role:     role,
		JTI:      "router-test-jti",
	})
	require.NoError(t, err)
	return token
}

func TestHealthLiveNeedsNoAuth(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "live")
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/phones", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestStaffRoutesNeedAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/staff", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.StaffRoleSales))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestPhoneRegisterAndListRoundTrip(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)
	token := mintToken(t, cfg, enums.StaffRoleManager)

	body := `{"brand":"Samsung","model":"Galaxy S21","condition":"new","cost_price_cents":4000000,"is_swappable":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/phones", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Contains(t, resp.Body.String(), "PHON-0001")

	list := httptest.NewRequest(http.MethodGet, "/api/v1/phones?status=available", nil)
	list.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, list)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Galaxy S21")
}

func TestUnknownPhoneStatusFilterRejected(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/phones?status=melted", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.StaffRoleSales))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}
