package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fleetease-rental/internal/config"
	"github.com/iliyamo/fleetease-rental/internal/model"
)

type resolverFunc func(ctx context.Context, raw string) (*model.User, error)

func (f resolverFunc) Resolve(ctx context.Context, raw string) (*model.User, error) {
	return f(ctx, raw)
}

var errNoSession = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")

func newCtx(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionToken_CookieWinsOverBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer from-header")
	c, _ := newCtx(req)
	require.Equal(t, "from-header", SessionToken(c))

	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	c, _ = newCtx(req)
	require.Equal(t, "from-cookie", SessionToken(c))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	c, _ = newCtx(req)
	require.Empty(t, SessionToken(c))
}

func TestRequireSession(t *testing.T) {
	users := map[string]*model.User{"good": {ID: "user_1"}}
	mw := RequireSession(resolverFunc(func(_ context.Context, raw string) (*model.User, error) {
		if u, ok := users[raw]; ok {
			return u, nil
		}
		return nil, errNoSession
	}))
	var seen string
	h := mw(func(c echo.Context) error {
		seen = CurrentUser(c).ID
		require.Equal(t, "user_1", CurrentUserID(c))
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	c, _ := newCtx(req)
	require.NoError(t, h(c))
	require.Equal(t, "user_1", seen)

	c, _ = newCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, h(c), errNoSession)
	require.Nil(t, CurrentUser(c))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/auth/login")

	cfg := config.RateLimitConfig{Prefix: "fleetease:rl", KeyStrategy: "ip_route"}
	require.Equal(t, "fleetease:rl:ip:10.0.0.7:route:POST /api/auth/login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	require.Equal(t, "fleetease:rl:user:anon", buildRateKey(cfg, c))
	c.Set(ctxUserID, "user_9")
	require.Equal(t, "fleetease:rl:user:user_9", buildRateKey(cfg, c))

	require.Equal(t, 2, retryAfterSeconds(1500))
	require.Equal(t, 0, retryAfterSeconds(-10))
	require.EqualValues(t, 7, asInt64("7"))
}

func TestTokenBucket_PassThroughWithoutRedis(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil)
	called := false
	c, _ := newCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, mw(func(echo.Context) error { called = true; return nil })(c))
	require.True(t, called)
}

func TestCacheKey(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "fleetease:cache", KeyStrategy: "route_query"}
	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/api/vehicles/:id")
		return cacheKeyFrom(cfg, c)
	}
	require.Regexp(t, `^fleetease:cache:[0-9a-f]{40}$`, key("/api/vehicles/v001"))
	require.NotEqual(t, key("/api/vehicles/v001"), key("/api/vehicles/v002"))
	require.Equal(t, key("/api/vehicles/v001?a=1&b=2"), key("/api/vehicles/v001?b=2&a=1"))
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "application/json", got.Get("Content-Type"))
	require.JSONEq(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	require.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	require.False(t, ok)

	require.True(t, replayable("content-type"))
	require.False(t, replayable("Access-Control-Allow-Origin"))
	require.False(t, replayable("X-Request-Id"))
}

func TestCaptureWriter_Overflow(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	require.False(t, cw.overflowed)
	_, _ = cw.Write([]byte("de"))
	require.True(t, cw.overflowed)
	require.Equal(t, "abcde", rec.Body.String())
}

func TestResponseCache_InactiveIsNoop(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true}, nil, nil)
	require.NoError(t, rc.Purge(context.Background()))

	c, rec := newCtx(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, rc.Middleware()(func(c echo.Context) error { return c.String(http.StatusOK, "x") })(c))
	require.Empty(t, rec.Header().Get("X-Cache"))

	var nilCache *ResponseCache
	require.NoError(t, nilCache.Purge(context.Background()))
}
