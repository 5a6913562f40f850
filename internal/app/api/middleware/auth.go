package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/suniorfit/backend/pkg/config"
	"github.com/suniorfit/backend/pkg/response"
)

const (
	ctxKeyUserID    = "authUserID"
	ctxKeyCoachID   = "authCoachProfileID"
	ctxKeyTraineeID = "authTraineeProfileID"
)

// ActorClaims is the token payload issued by the identity service. Profile
// ids are present only for the roles the user actually has.
type ActorClaims struct {
	UserID           int64 `json:"user_id"`
	CoachProfileID   int64 `json:"coach_profile_id,omitempty"`
	TraineeProfileID int64 `json:"trainee_profile_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the resolved actor
// identity on the context. Downstream handlers pass explicit coach/trainee
// ids into services; nothing below the handler layer reads session state.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing bearer token"))
			return
		}

		claims := &ActorClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid or expired token"))
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		if claims.CoachProfileID > 0 {
			c.Set(ctxKeyCoachID, claims.CoachProfileID)
		}
		if claims.TraineeProfileID > 0 {
			c.Set(ctxKeyTraineeID, claims.TraineeProfileID)
		}
		c.Next()
	}
}

// AuthUserID returns the authenticated user id.
func AuthUserID(c *gin.Context) (int64, bool) {
	return int64Value(c, ctxKeyUserID)
}

// CoachProfileID returns the caller's coach profile id; false when the
// caller is not a coach.
func CoachProfileID(c *gin.Context) (int64, bool) {
	return int64Value(c, ctxKeyCoachID)
}

// TraineeProfileID returns the caller's trainee profile id; false when the
// caller is not a trainee.
func TraineeProfileID(c *gin.Context) (int64, bool) {
	return int64Value(c, ctxKeyTraineeID)
}

func int64Value(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
