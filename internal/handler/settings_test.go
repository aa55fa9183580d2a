package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/editor"
	"bizpos-backend/internal/handler"
	"bizpos-backend/internal/repository"
	"bizpos-backend/internal/server/authctx"
	"bizpos-backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSettingsRepo struct {
	docs   map[string]*domain.BusinessSettings
	getErr error
}

func (r *memSettingsRepo) Get(_ context.Context, businessID string) (*domain.BusinessSettings, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.docs[businessID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *memSettingsRepo) Save(_ context.Context, businessID string, s *domain.BusinessSettings) error {
	r.docs[businessID] = s
	return nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code int `json:"code"`
	} `json:"error"`
}

type testEnv struct {
	repo   *memSettingsRepo
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := &memSettingsRepo{docs: map[string]*domain.BusinessSettings{}}
	h := handler.SettingsHandler{Service: service.SettingsService{
		Store:            service.SettingsStore{Repo: repo},
		Editor:           editor.New(editor.WithClock(func() time.Time { return time.UnixMilli(1717243200000) })),
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		DefaultIndustry:  domain.IndustryRetail,
		DefaultCurrency:  "USD",
		StrictValidation: true,
	}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if role := req.Header.Get("X-Test-Role"); role != "" {
				req = req.WithContext(authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{
					ID:         "user-1",
					Role:       domain.UserRole(role),
					BusinessID: req.Header.Get("X-Test-Business"),
				}))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.RegisterReadRoutes(r)
	h.RegisterWriteRoutes(r)
	return &testEnv{repo: repo, router: r}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("X-Test-Role", string(domain.RoleManager))
	req.Header.Set("X-Test-Business", "biz-1")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestGetSettings_DefaultsForNewBusiness(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/businesses/biz-1/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)

	var snap service.Snapshot
	require.NoError(t, json.Unmarshal(body.Data, &snap))
	assert.False(t, snap.Persisted)
	assert.Equal(t, "biz-1", snap.BusinessID)
	assert.Equal(t, "USD", snap.Settings.General.Currency.Code)
}

func TestGetSettings_LoadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.repo.getErr = errors.New("connection reset")

	rec, body := env.do(t, http.MethodGet, "/businesses/biz-1/settings", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to load settings", body.Message)
}

func TestBusinessAuthorization(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/businesses/biz-2/settings", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/businesses/biz-2/settings", nil)
	req.Header.Set("X-Test-Role", string(domain.RoleAdmin))
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/businesses/biz-1/settings", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetField(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPatch, "/businesses/biz-1/settings/section/inventory", `{"field":"reorderPoint","value":12}`)
	require.Equal(t, http.StatusOK, rec.Code, body.Message)
	assert.Equal(t, 12, env.repo.docs["biz-1"].Inventory.ReorderPoint)

	rec, _ = env.do(t, http.MethodPatch, "/businesses/biz-1/settings/section/general.localization", `{"field":"timezone","value":"Asia/Jakarta"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asia/Jakarta", env.repo.docs["biz-1"].General.Localization.Timezone)
}

func TestSetField_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"unknown section", "/businesses/biz-1/settings/section/kitchen", `{"field":"x","value":1}`, http.StatusBadRequest},
		{"unknown field", "/businesses/biz-1/settings/section/inventory", `{"field":"nope","value":1}`, http.StatusBadRequest},
		{"wrong type", "/businesses/biz-1/settings/section/inventory", `{"field":"reorderPoint","value":"ten"}`, http.StatusBadRequest},
		{"missing field", "/businesses/biz-1/settings/section/inventory", `{"value":1}`, http.StatusBadRequest},
		{"malformed body", "/businesses/biz-1/settings/section/inventory", `{`, http.StatusBadRequest},
		{"out of range", "/businesses/biz-1/settings/section/inventory", `{"field":"reorderPoint","value":-1}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.do(t, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
	assert.Empty(t, env.repo.docs)
}

func TestValidationErrorCarriesViolations(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPatch, "/businesses/biz-1/settings/section/taxation", `{"field":"roundingMode","value":"banker"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, http.StatusUnprocessableEntity, body.Error.Code)

	var violations []map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &violations))
	require.Len(t, violations, 1)
	assert.Equal(t, "taxation.roundingMode", violations[0]["path"])
	assert.Equal(t, "error", violations[0]["severity"])
}

func TestListItemRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/businesses/biz-1/settings/section/pricing/priceLevels", `{"name":"Wholesale","type":"percentage","value":-10,"enabled":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, body.Message)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "price-level-1717243200000", created.ID)

	rec, _ = env.do(t, http.MethodPatch, "/businesses/biz-1/settings/section/pricing/priceLevels/"+created.ID, `{"field":"value","value":-15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	levels := env.repo.docs["biz-1"].Pricing.PriceLevels
	require.Len(t, levels, 2)
	assert.Equal(t, -15.0, levels[1].Value)
	assert.Equal(t, "Wholesale", levels[1].Name)

	rec, _ = env.do(t, http.MethodPatch, "/businesses/biz-1/settings/section/pricing/priceLevels/missing", `{"field":"value","value":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/businesses/biz-1/settings/section/pricing/priceLevels/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.repo.docs["biz-1"].Pricing.PriceLevels, 1)

	rec, _ = env.do(t, http.MethodPost, "/businesses/biz-1/settings/section/pricing/priceLevels", `{"name":"x","bogus":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetExclusiveFlag(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPut, "/businesses/biz-1/settings/section/payment/methods/payment-method-card/exclusive/isDefault", "")
	require.Equal(t, http.StatusOK, rec.Code)
	methods := env.repo.docs["biz-1"].Payment.Methods
	assert.False(t, methods[0].IsDefault)
	assert.True(t, methods[1].IsDefault)

	rec, _ = env.do(t, http.MethodPut, "/businesses/biz-1/settings/section/payment/methods/payment-method-card/exclusive/name", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplaceAndSection(t *testing.T) {
	env := newTestEnv(t)
	doc := domain.DefaultBusinessSettings(domain.IndustryHotel, "EUR")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	rec, _ := env.do(t, http.MethodPut, "/businesses/biz-1/settings", string(raw))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/businesses/biz-1/settings/section/hotel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hotel domain.HotelSettings
	require.NoError(t, json.Unmarshal(body.Data, &hotel))
	assert.Equal(t, "14:00", hotel.CheckInTime)

	rec, body = env.do(t, http.MethodGet, "/businesses/biz-1/settings/sectors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report service.SectorReport
	require.NoError(t, json.Unmarshal(body.Data, &report))
	assert.Equal(t, []domain.SectorSection{domain.SectorHotel}, report.Active)

	rec, _ = env.do(t, http.MethodPut, "/businesses/biz-1/settings", `{"general":{},"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	doc := domain.DefaultBusinessSettings(domain.IndustryRetail, "USD")
	doc.Hotel = domain.DefaultHotelSettings()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	rec, body := env.do(t, http.MethodPost, "/businesses/biz-1/settings/validate", string(raw))
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Valid      bool `json:"valid"`
		Violations []struct {
			Path     string `json:"path"`
			Severity string `json:"severity"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &out))
	assert.True(t, out.Valid)
	require.Len(t, out.Violations, 1)
	assert.Equal(t, "hotel", out.Violations[0].Path)
	assert.Equal(t, "warning", out.Violations[0].Severity)
	assert.Empty(t, env.repo.docs, "validate never saves")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/businesses/biz-1/settings/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "settings_biz-1_")
	assert.Contains(t, rec.Body.String(), "general,general.currency.code,USD")

	rec, _ = env.do(t, http.MethodGet, "/businesses/biz-1/settings/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditWithoutRepository(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/businesses/biz-1/settings/audit?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(body.Data))

	rec, _ = env.do(t, http.MethodGet, "/businesses/biz-1/settings/audit?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSchema(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/settings/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &schema))
	assert.Equal(t, "Business settings", schema["title"])
}
