package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganttplan/ganttplan-backend/internal/auth"
)

func newEngine(verifier TokenVerifier, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Authenticate(verifier)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": auth.UserEmail(c), "id": auth.UserID(c), "role": auth.UserRole(c)})
	})
	r.GET("/me", handlers...)
	return r
}

func call(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	jwtm := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtm.Issue(auth.Identity{Email: "ada@example.com", UserID: "u-1", Role: "Developer"})
	require.NoError(t, err)
	r := newEngine(jwtm)

	w := call(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"ada@example.com","id":"u-1","role":"Developer"}`, w.Body.String())

	w = call(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"missing authorization token"}`, w.Body.String())

	w = call(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

func TestAuthenticateRejectsForeignSecret(t *testing.T) {
	token, err := auth.NewJWTManager("other", time.Hour).Issue(auth.Identity{Email: "ada@example.com"})
	require.NoError(t, err)

	w := call(newEngine(auth.NewJWTManager("secret", time.Hour)), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type failingVerifier struct{ err error }

func (f failingVerifier) Verify(context.Context, string) (auth.Identity, error) {
	return auth.Identity{}, f.err
}

func TestAuthenticateSeparatesOutagesFromBadTokens(t *testing.T) {
	w := call(newEngine(failingVerifier{err: errors.New("users table unreachable")}), "Bearer t")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "unreachable")

	w = call(newEngine(failingVerifier{err: fmt.Errorf("%w: expired", auth.ErrInvalidToken)}), "Bearer t")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

type fixedVerifier auth.Identity

func (f fixedVerifier) Verify(context.Context, string) (auth.Identity, error) {
	return auth.Identity(f), nil
}

func TestRequireRole(t *testing.T) {
	admin := newEngine(fixedVerifier{Email: "a@x", Role: "admin"}, RequireRole("Admin"))
	assert.Equal(t, http.StatusOK, call(admin, "Bearer t").Code)

	dev := newEngine(fixedVerifier{Email: "d@x", Role: "Developer"}, RequireRole("Admin"))
	w := call(dev, "Bearer t")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
