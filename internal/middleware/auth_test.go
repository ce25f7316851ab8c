package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/config"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSigningKey = "0123456789abcdef0123456789abcdef"

func testJwtSettings() config.JwtSettings {
	return config.JwtSettings{
		Issuer:   "accounts-balance-viewer",
		Audience: "accounts-balance-viewer-web",
		Key:      testSigningKey,
		Lifetime: time.Hour,
	}
}

func mintToken(t *testing.T, key string, mutate func(jwt.MapClaims)) string {
	t.Helper()
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":         uuid.NewString(),
		"unique_name": "admin",
		"email":       "admin@example.com",
		"jti":         uuid.NewString(),
		"roles":       []string{models.RoleAdmin},
		"iss":         "accounts-balance-viewer",
		"aud":         "accounts-balance-viewer-web",
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour).Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

type capturedIdentity struct {
	userID uuid.UUID
	roles  []string
}

func authRouter(settings config.JwtSettings) (*gin.Engine, *capturedIdentity) {
	r := gin.New()
	captured := &capturedIdentity{}
	r.GET("/protected", Authenticate(settings), func(c *gin.Context) {
		captured.userID = CallerID(c)
		captured.roles = CallerRoles(c)
		c.Status(http.StatusOK)
	})
	return r, captured
}

func doAuth(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	r, captured := authRouter(testJwtSettings())
	token := mintToken(t, testSigningKey, func(c jwt.MapClaims) {
		c["sub"] = userID.String()
	})

	w := doAuth(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, captured.userID)
	assert.Equal(t, []string{models.RoleAdmin}, captured.roles)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	r, _ := authRouter(testJwtSettings())

	w := doAuth(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized access")
}

func TestAuthenticateRejectsNonBearerScheme(t *testing.T) {
	r, _ := authRouter(testJwtSettings())

	w := doAuth(r, "Basic YWRtaW46cGFzcw==")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsWrongSigningKey(t *testing.T) {
	r, _ := authRouter(testJwtSettings())
	token := mintToken(t, "another-signing-key-32-bytes-long!", nil)

	w := doAuth(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	r, _ := authRouter(testJwtSettings())
	token := mintToken(t, testSigningKey, func(c jwt.MapClaims) {
		c["exp"] = time.Now().Add(-time.Minute).Unix()
	})

	w := doAuth(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsWrongIssuer(t *testing.T) {
	r, _ := authRouter(testJwtSettings())
	token := mintToken(t, testSigningKey, func(c jwt.MapClaims) {
		c["iss"] = "someone-else"
	})

	w := doAuth(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMalformedSubject(t *testing.T) {
	r, _ := authRouter(testJwtSettings())
	token := mintToken(t, testSigningKey, func(c jwt.MapClaims) {
		c["sub"] = "not-a-uuid"
	})

	w := doAuth(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHasAnyRole(t *testing.T) {
	assert.True(t, HasAnyRole([]string{models.RoleUser, models.RoleAdmin}, models.RoleAdmin))
	assert.True(t, HasAnyRole([]string{models.RoleUser}, models.RoleAdmin, models.RoleUser))
	assert.False(t, HasAnyRole([]string{models.RoleUser}, models.RoleAdmin))
	assert.False(t, HasAnyRole(nil, models.RoleAdmin))
	assert.False(t, HasAnyRole([]string{models.RoleUser}))
}

func TestRequireRolesForbidsCallerWithoutRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(ctxRoles, []string{models.RoleUser})
	}, RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission")
}

func TestRequireRolesPassesCallerWithRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(ctxRoles, []string{models.RoleAdmin})
	}, RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCallerIDDefaultsToNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, CallerID(c))
}
