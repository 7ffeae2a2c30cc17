package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/member-store/internal/api/httpx"
	"github.com/baharkarakas/member-store/internal/auth"
	"github.com/baharkarakas/member-store/internal/config"
	"github.com/baharkarakas/member-store/internal/db"
	"github.com/baharkarakas/member-store/internal/models"
	"github.com/baharkarakas/member-store/internal/repository/sqldb"
	"github.com/baharkarakas/member-store/internal/services"
)

type testAPI struct {
	t   *testing.T
	srv *httptest.Server
	tm  *auth.TokenManager
}

func newTestAPI(t *testing.T, env string) *testAPI {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Config{
		Env: env,
		Database: config.Database{
			Driver:         "sqlite",
			URL:            filepath.Join(t.TempDir(), "member.db") + "?_pragma=busy_timeout(5000)",
			MaxPoolSize:    4,
			PoolName:       "api-test",
			AcquireTimeout: 2 * time.Second,
		},
	}
	src, err := db.Open(ctx, cfg.Database, log)
	require.NoError(t, err)
	t.Cleanup(src.Close)
	require.NoError(t, db.RunMigrations(ctx, src, log))

	tm := auth.NewTokenManager("a", "r", time.Minute, time.Hour)
	repos := sqldb.NewRepositories(src, log)
	h := NewRouter(RouterDeps{
		Cfg:       cfg,
		Log:       log,
		TM:        tm,
		MemberSvc: services.NewMemberService(repos.Members, log),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testAPI{t: t, srv: srv, tm: tm}
}

func (a *testAPI) do(method, path, token string, body any) *http.Response {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testAPI) token(role string) string {
	a.t.Helper()
	p, err := a.tm.GeneratePair("tester", role)
	require.NoError(a.t, err)
	return p.AccessToken
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestMembersAPI_Lifecycle(t *testing.T) {
	a := newTestAPI(t, "dev")
	user, admin := a.token(auth.RoleUser), a.token(auth.RoleAdmin)

	resp := a.do(http.MethodPost, "/api/v1/members", user, map[string]any{"member_id": "memberV100", "money": 10000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.NewMember("memberV100", 10000), decodeBody[models.Member](t, resp))

	resp = a.do(http.MethodPost, "/api/v1/members", user, map[string]any{"member_id": "memberV100", "money": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/v1/members/memberV100", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10000, decodeBody[models.Member](t, resp).Money)

	resp = a.do(http.MethodPut, "/api/v1/members/memberV100", user, map[string]any{"money": 20000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int64{"updated": 1}, decodeBody[map[string]int64](t, resp))

	resp = a.do(http.MethodGet, "/api/v1/members/memberV100", "", nil)
	assert.Equal(t, 20000, decodeBody[models.Member](t, resp).Money)

	resp = a.do(http.MethodDelete, "/api/v1/members/memberV100", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(http.MethodDelete, "/api/v1/members/memberV100", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(http.MethodDelete, "/api/v1/members/memberV100", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/v1/members/memberV100", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "member not found, memberId=memberV100", decodeBody[httpx.APIError](t, resp).Error)
}

func TestMembersAPI_UpdateUnknownIsNotFound(t *testing.T) {
	a := newTestAPI(t, "dev")
	resp := a.do(http.MethodPut, "/api/v1/members/ghost", "dev-alice", map[string]any{"money": 5})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMembersAPI_Validation(t *testing.T) {
	a := newTestAPI(t, "dev")

	resp := a.do(http.MethodPost, "/api/v1/members", "dev-alice", map[string]any{"member_id": "memberV100xx", "money": 1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_failed", decodeBody[httpx.APIError](t, resp).Code)

	resp = a.do(http.MethodPost, "/api/v1/members", "dev-alice", map[string]any{"member_id": "m1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMembersAPI_WritesNeedToken(t *testing.T) {
	a := newTestAPI(t, "dev")

	resp := a.do(http.MethodPost, "/api/v1/members", "", map[string]any{"member_id": "m1", "money": 1})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(http.MethodPost, "/api/v1/members", "not-a-jwt", map[string]any{"member_id": "m1", "money": 1})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthAPI_TokenAndRefresh(t *testing.T) {
	a := newTestAPI(t, "dev")

	resp := a.do(http.MethodPost, "/api/v1/auth/token", "", map[string]string{"subject": "ops", "role": "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pair := decodeBody[auth.Pair](t, resp)
	assert.NotEmpty(t, pair.AccessToken)

	resp = a.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthAPI_TokenEndpointOnlyInDev(t *testing.T) {
	a := newTestAPI(t, "prod")
	resp := a.do(http.MethodPost, "/api/v1/auth/token", "", map[string]string{"subject": "ops"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(http.MethodPost, "/api/v1/members", "dev-alice", map[string]any{"member_id": "m1", "money": 1})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestAPI(t, "dev")

	resp := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
