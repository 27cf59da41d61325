package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskoo-project/backend/models"
	"taskoo-project/backend/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func decodeEnvelope(t *testing.T, body io.Reader) utils.Envelope {
	t.Helper()
	var env utils.Envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func TestSession(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour)
	var got models.AccountInfo
	h := Session(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := AccountInfoFromContext(r.Context())
		require.True(t, ok)
		got = info
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/task/list", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, http.StatusUnauthorized, decodeEnvelope(t, rec.Body).Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/task/list", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token of another issuer", func(t *testing.T) {
		other := utils.NewTokenIssuer("other", time.Hour)
		token, err := other.GenerateToken(primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "p", "a@b.c")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/task/list", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("claims that are not object ids", func(t *testing.T) {
		token, err := tokens.GenerateToken("nope", "nope", "p", "a@b.c")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/task/list", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		want := models.AccountInfo{ID: primitive.NewObjectID(), Bucket: primitive.NewObjectID(), Position: models.ManagerPositionID, Email: "ana@taskoo.com"}
		token, err := tokens.GenerateToken(want.ID.Hex(), want.Bucket.Hex(), want.Position, want.Email)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/task/list", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, want, got)
	})
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS("http://localhost:5173")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/project/create", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/account/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:1000"), "other clients keep their own budget")
}

func TestRateLimiterKeysByAccount(t *testing.T) {
	info := models.AccountInfo{ID: primitive.NewObjectID()}
	req := httptest.NewRequest(http.MethodGet, "/task/list", nil)
	req = req.WithContext(WithAccountInfo(req.Context(), info))

	assert.Equal(t, "account:"+info.ID.Hex(), clientKey(req))
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := NewMetrics()
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/project/{section}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/list", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, `taskoo_http_requests_total{method="GET",route="/project/{section}",status="418"} 1`)
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusBadRequest, "id is required")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/detail", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	assert.Equal(t, "id is required", env.Message)
	assert.Nil(t, env.Data)
}
