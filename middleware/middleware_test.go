package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/tournament-structure/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func actorEcho(t *testing.T, got *models.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		require.NoError(t, err)
		*got = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	valid := jwt.MapClaims{"user_id": 7, "role": "organizer", "exp": time.Now().Add(time.Hour).Unix()}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, valid), http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", jwt.SigningMethodHS256, valid), http.StatusUnauthorized},
		{"wrong method", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS512, valid), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256,
			jwt.MapClaims{"user_id": 7, "role": "organizer", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"bad role", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256,
			jwt.MapClaims{"user_id": 7, "role": "root"}), http.StatusUnauthorized},
		{"string user id", "Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256,
			jwt.MapClaims{"user_id": "7", "role": "organizer"}), http.StatusNoContent},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got models.Actor
			req := httptest.NewRequest(http.MethodPut, "/", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()
			auth.Authenticate(actorEcho(t, &got)).ServeHTTP(rec, req)

			assert.Equal(t, c.status, rec.Code)
			if c.status == http.StatusNoContent {
				assert.Equal(t, models.Actor{UserID: 7, Role: models.RoleOrganizer}, got)
			}
		})
	}
}

func TestActorFromContextWithoutClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ActorFromContext(req.Context())
	assert.ErrorIs(t, err, ErrNoActor)

	ctx := WithClaims(req.Context(), jwt.MapClaims{"user_id": 1.5, "role": "admin"})
	_, err = ActorFromContext(ctx)
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := RateLimit(4, time.Hour)(ok)

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// burst is half the window budget
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001").Code)
	limited := do("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "3600", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000").Code)
}
