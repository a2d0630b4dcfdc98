package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ushersync/attendance-backend/internal/config"
	"github.com/ushersync/attendance-backend/internal/data/repos/testutil"
	types "github.com/ushersync/attendance-backend/internal/domain"
)

type routerFixture struct {
	db     *gorm.DB
	router *gin.Engine
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	att, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg := &config.Config{Env: "test", Attendance: att}

	reposet := wireRepos(gdb, log)
	serviceset := wireServices(gdb, log, cfg, reposet, nil)
	handlerset := wireHandlers(log, serviceset)
	return &routerFixture{db: gdb, router: wireRouter(log, cfg.Env, handlerset, nil)}
}

func (fx *routerFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestHealthcheck(t *testing.T) {
	fx := newRouterFixture(t)
	w := fx.do(t, http.MethodGet, "/healthcheck", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUserRegistrationFlow(t *testing.T) {
	fx := newRouterFixture(t)

	body := map[string]any{
		"first_name": "Ada",
		"last_name":  "Obi",
		"email":      "ada@example.com",
		"password":   "longenough",
	}
	w := fx.do(t, http.MethodPost, "/api/v1/users", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Same email again conflicts.
	w = fx.do(t, http.MethodPost, "/api/v1/users", body, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Short password is a validation failure.
	body["email"] = "other@example.com"
	body["password"] = "short"
	w = fx.do(t, http.MethodPost, "/api/v1/users", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	w = fx.do(t, http.MethodGet, "/api/v1/users", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestEventEndpoints(t *testing.T) {
	fx := newRouterFixture(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, ctx, fx.db, "admin@example.com", types.RoleAdmin)

	w := fx.do(t, http.MethodPost, "/api/v1/events", map[string]any{
		"title":                "Summit",
		"date":                 "2099-04-05",
		"time":                 "10:00:00",
		"grace_period_minutes": 20,
		"venue":                "doa",
	}, map[string]string{"X-Acting-User": admin.ID.String()})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Event types.Event `json:"event"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = fx.do(t, http.MethodGet, "/api/v1/events/"+created.Event.ID.String(), nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = fx.do(t, http.MethodGet, "/api/v1/events?scope=upcoming", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = fx.do(t, http.MethodGet, "/api/v1/events/"+uuid.NewString(), nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckInEndpointValidation(t *testing.T) {
	fx := newRouterFixture(t)

	// Neither user_id nor identifier.
	w := fx.do(t, http.MethodPost, "/api/v1/checkin", map[string]any{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown identifier resolves to 404.
	w = fx.do(t, http.MethodPost, "/api/v1/checkin", map[string]any{
		"identifier": "ghost@example.com",
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}

	// Out-of-range coordinates never reach the engine.
	w = fx.do(t, http.MethodPost, "/api/v1/checkin", map[string]any{
		"identifier": "ghost@example.com",
		"location":   map[string]any{"lat": 120.0, "lng": 7.43},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckInEndpointEventFlow(t *testing.T) {
	fx := newRouterFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, fx.db, "member@example.com", types.RoleUser)

	// Schedule the event around the current wall clock so the window is
	// open when the request lands.
	att, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	start := time.Now().In(att.Location()).Add(-5 * time.Minute)
	e := testutil.SeedEvent(t, ctx, fx.db, u.ID,
		start.Format(types.DateLayout), start.Format(types.TimeLayout), 60)

	body := map[string]any{
		"user_id":  u.ID.String(),
		"event_id": e.ID.String(),
		"location": map[string]any{"lat": 9.076560214946829, "lng": 7.431590122491971},
	}
	w := fx.do(t, http.MethodPost, "/api/v1/checkin", body, map[string]string{"X-Acting-User": u.ID.String()})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// The retry is answered 200 with the original record.
	w = fx.do(t, http.MethodPost, "/api/v1/checkin", body, map[string]string{"X-Acting-User": u.ID.String()})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d: %s", w.Code, w.Body.String())
	}
	var dup struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &dup); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dup.Code != "already_checked_in" {
		t.Fatalf("expected already_checked_in, got %q", dup.Code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	fx := newRouterFixture(t)

	w := fx.do(t, http.MethodGet, "/api/v1/analytics/day-stats?date=not-a-date", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	w = fx.do(t, http.MethodGet, "/api/v1/analytics/day-stats?date=2025-03-16", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = fx.do(t, http.MethodGet, "/api/v1/analytics/event-report/"+uuid.NewString(), nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	w = fx.do(t, http.MethodGet, "/api/v1/analytics/attendance-rates", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = fx.do(t, http.MethodGet, "/api/v1/analytics/upcoming-birthdays", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
