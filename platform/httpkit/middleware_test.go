package httpkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type jwtConfig struct{ issuer string }

func (c jwtConfig) GetJWTSecret() string { return testSecret }
func (c jwtConfig) GetJWTIssuer() string { return c.issuer }

type fakeChecker struct {
	admins map[uuid.UUID]bool
	err    error
	calls  int
}

func (f *fakeChecker) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.admins[userID], nil
}

func signToken(t *testing.T, sub string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub":   sub,
		"email": "admin@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// adminRouter mounts AuthRequired + RequireAdmin and records whether the
// guarded handler ran.
func adminRouter(checker AdminChecker, reached *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthRequired(jwtConfig{}), RequireAdmin(checker, nil), func(c *gin.Context) {
		*reached = true
		id := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID().String(), "admin": id.IsAdmin()})
	})
	return r
}

func serve(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	checker := &fakeChecker{}
	reached := false

	w := serve(adminRouter(checker, &reached), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errMissingToken, errorBody(t, w))
	assert.Equal(t, 0, checker.calls)
	assert.False(t, reached)
}

func TestAuthRequiredRejectsBadTokens(t *testing.T) {
	checker := &fakeChecker{}
	reached := false
	r := adminRouter(checker, &reached)

	for _, token := range []string{
		"not-a-jwt",
		signToken(t, "not-a-uuid", jwt.SigningMethodHS256),
		signToken(t, uuid.NewString(), jwt.SigningMethodHS512),
	} {
		w := serve(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, errInvalidToken, errorBody(t, w))
	}
	assert.Equal(t, 0, checker.calls)
	assert.False(t, reached)
}

func TestAuthRequiredChecksIssuer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthRequired(jwtConfig{issuer: "jobboard"}), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, signToken(t, uuid.NewString(), jwt.SigningMethodHS256))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	checker := &fakeChecker{admins: map[uuid.UUID]bool{}}
	reached := false

	w := serve(adminRouter(checker, &reached), signToken(t, uuid.NewString(), jwt.SigningMethodHS256))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, errForbidden, errorBody(t, w))
	assert.Equal(t, 1, checker.calls)
	assert.False(t, reached)
}

func TestRequireAdminRejectsOnCheckerError(t *testing.T) {
	checker := &fakeChecker{err: errors.New("connection refused")}
	reached := false

	w := serve(adminRouter(checker, &reached), signToken(t, uuid.NewString(), jwt.SigningMethodHS256))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)
}

func TestRequireAdminWithoutAuthIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	checker := &fakeChecker{}
	r := gin.New()
	r.GET("/admin", RequireAdmin(checker, nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, checker.calls)
}

func TestRequireAdminPassesAdmin(t *testing.T) {
	userID := uuid.New()
	checker := &fakeChecker{admins: map[uuid.UUID]bool{userID: true}}
	reached := false

	w := serve(adminRouter(checker, &reached), signToken(t, userID.String(), jwt.SigningMethodHS256))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	var body struct {
		UserID string `json:"userId"`
		Admin  bool   `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body.UserID)
	assert.True(t, body.Admin)
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got *uuid.UUID
	r.GET("/admin", OptionalAuth(jwtConfig{}), func(c *gin.Context) {
		got = OptionalUserID(c)
		c.Status(http.StatusNoContent)
	})

	w := serve(r, "garbage")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, got)

	userID := uuid.New()
	w = serve(r, signToken(t, userID.String(), jwt.SigningMethodHS256))
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, userID, *got)
}
