package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"streamflix/pkg/utils"
)

func JWTAuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			utils.Logger(c).WithError(err).Debug("rejected bearer token")
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Parse guarantees a uuid subject
		userID := uuid.MustParse(claims.Subject)
		c.Set(utils.UserIDKey, userID)
		c.Set(utils.EmailKey, claims.Email)
		c.Set(utils.LoggerKey, utils.Logger(c).WithField("user_id", userID))
		c.Next()
	}
}

// CurrentUserID returns the subject set by JWTAuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(utils.UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

