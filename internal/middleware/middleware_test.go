package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/access"
	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/logger"
	"github.com/iliyamo/theatre-booking/internal/utils"
)

const secret = "mw-secret"

func newContext(method, target, auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func captureActor(got *access.Actor) echo.HandlerFunc {
	return func(c echo.Context) error {
		*got = ActorFrom(c)
		if a := access.FromContext(c.Request().Context()); a != *got {
			return echo.NewHTTPError(http.StatusInternalServerError, "context actor mismatch")
		}
		return c.NoContent(http.StatusOK)
	}
}

func TestAuthenticate(t *testing.T) {
	staffTok, err := utils.NewAccessToken(secret, 7, utils.RoleStaff, time.Hour)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(secret, 7, utils.RoleCustomer, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		actor  access.Actor
	}{
		{"no header is anonymous", "", http.StatusOK, access.Anonymous},
		{"staff token", "Bearer " + staffTok, http.StatusOK, access.Actor{UserID: 7, Staff: true, Authenticated: true}},
		{"not bearer", "Basic abc", http.StatusUnauthorized, access.Anonymous},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, access.Anonymous},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, access.Anonymous},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/v1/plays", tc.header)
			var got access.Actor
			require.NoError(t, Authenticate(secret)(captureActor(&got))(c))
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.actor, got)
		})
	}
}

func TestAuthorizeMapsDenials(t *testing.T) {
	customer := access.Actor{UserID: 3, Authenticated: true}
	staff := access.Actor{UserID: 4, Staff: true, Authenticated: true}

	tests := []struct {
		method   string
		resource access.Resource
		actor    access.Actor
		status   int
	}{
		{http.MethodGet, access.Catalog, access.Anonymous, http.StatusUnauthorized},
		{http.MethodGet, access.Catalog, customer, http.StatusOK},
		{http.MethodPost, access.Catalog, access.Anonymous, http.StatusUnauthorized},
		{http.MethodPut, access.Catalog, customer, http.StatusForbidden},
		{http.MethodDelete, access.Catalog, staff, http.StatusOK},
		{http.MethodGet, access.Reservation, access.Anonymous, http.StatusUnauthorized},
		{http.MethodPost, access.Reservation, customer, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.resource.String(), func(t *testing.T) {
			c, rec := newContext(tc.method, "/", "")
			setActor(c, tc.actor)
			h := Authorize(tc.resource)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
			require.NoError(t, h(c))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestLimiterAndCacheAreNoopsWithoutRedis(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	called := 0
	next := func(c echo.Context) error { called++; return c.NoContent(http.StatusOK) }

	c, _ := newContext(http.MethodGet, "/v1/plays", "")
	require.NoError(t, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log)(next)(c))
	require.NoError(t, NewRedisCache(config.CacheConfig{Enabled: true}, nil, log)(next)(c))
	assert.Equal(t, 2, called)
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/reservations", "")
	c.SetPath("/v1/reservations")
	c.Request().RemoteAddr = "10.0.0.1:1234"
	setActor(c, access.Actor{UserID: 42, Authenticated: true})

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:42:route:POST /v1/reservations", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))

	setActor(c, access.Anonymous)
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
}

func TestParseDecision(t *testing.T) {
	d, ok := parseDecision([]interface{}{int64(1), int64(59), int64(0)})
	require.True(t, ok)
	assert.Equal(t, bucketDecision{allowed: true, remaining: 59}, d)

	d, ok = parseDecision([]interface{}{int64(0), "0", int64(750)})
	require.True(t, ok)
	assert.False(t, d.allowed)
	assert.Equal(t, int64(750), d.retryMs)

	_, ok = parseDecision("nope")
	assert.False(t, ok)
}

func TestCacheKeySeparatesPathsAndQueries(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	key := func(target string) string {
		c, _ := newContext(http.MethodGet, target, "")
		c.SetPath("/v1/plays/:id")
		return cacheKeyFrom(cfg, c)
	}
	assert.True(t, strings.HasPrefix(key("/v1/plays/1"), "cache:"))
	assert.NotEqual(t, key("/v1/plays/1"), key("/v1/plays/2"))
	assert.NotEqual(t, key("/v1/plays/1"), key("/v1/plays/1?x=1"))
	assert.Equal(t, key("/v1/plays/1"), key("/v1/plays/1"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"id":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, echo.MIMEApplicationJSON, gotHdr.Get(echo.HeaderContentType))
	assert.Equal(t, `{"id":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCaptureWriterTruncation(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated())
	_, _ = cw.Write([]byte("de"))
	assert.True(t, cw.truncated())
	assert.Equal(t, "abc", cw.buf.String())
}

func TestRequestLoggerRecordsOutcome(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	e := echo.New()
	e.Use(RequestID(), RequestLogger(log), Authenticate(secret))
	e.GET("/v1/plays/:id", func(c echo.Context) error {
		require.NotNil(t, logger.FromContext(c.Request().Context()))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/plays/9", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "/v1/plays/:id", entry.Data["route"])
	assert.Equal(t, "anon", entry.Data["actor"])
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), entry.Data["request_id"])
}
