package middleware

import (
	"errors"
	"net/http"
	"strings"

	"marketplace_back_end/internal/errs"
	"marketplace_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserIDKey is the gin context key holding the authenticated caller id.
const UserIDKey = "user_id"

func AuthRequired(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := log.Ctx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug().Str("component", "AuthRequired").Msg("missing authorization header")
			unauthorized(c)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			logger.Debug().Str("component", "AuthRequired").Msg("malformed authorization header")
			unauthorized(c)
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Info().Str("component", "AuthRequired").Str("reason", tokenFailure(err)).Msg("token rejected")
			unauthorized(c)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CallerID returns the id stored by AuthRequired.
func CallerID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errs.PublicMessage(errs.ErrUnauthorized)})
}

func tokenFailure(err error) string {
	switch {
	case errors.Is(err, utils.ErrTokenExpired):
		return "expired"
	case errors.Is(err, utils.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
