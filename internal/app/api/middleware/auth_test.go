package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/suniorfit/backend/pkg/config"
)

func authRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: secret}}

	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := AuthUserID(c)
		coachID, isCoach := CoachProfileID(c)
		traineeID, isTrainee := TraineeProfileID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":    userID,
			"coach_id":   coachID,
			"is_coach":   isCoach,
			"trainee_id": traineeID,
			"is_trainee": isTrainee,
		})
	})
	return r
}

func signToken(t *testing.T, secret string, claims *ActorClaims) string {
	t.Helper()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_CoachToken(t *testing.T) {
	r := authRouter("test-secret")
	token := signToken(t, "test-secret", &ActorClaims{UserID: 30, CoachProfileID: 3})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"coach_id":3`)
	require.Contains(t, w.Body.String(), `"is_coach":true`)
	require.Contains(t, w.Body.String(), `"is_trainee":false`)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := authRouter("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := authRouter("test-secret")
	token := signToken(t, "other-secret", &ActorClaims{UserID: 30, CoachProfileID: 3})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r := authRouter("test-secret")

	claims := &ActorClaims{UserID: 30}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
