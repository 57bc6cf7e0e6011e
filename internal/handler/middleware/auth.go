package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"travelid/internal/pkg/config"
	"travelid/internal/pkg/errs"
)

const ctxUserIDKey = "user_id"

var (
	errInvalidToken     = errs.New("invalid or expired token")
	errInvalidSubject   = errs.New("token subject is not a valid user id")
	errUnexpectedMethod = errs.New("unexpected token signing method")
)

// AuthMiddleware validates bearer tokens issued by the identity service and
// puts the user id on the request context. Token issuance lives outside this
// service.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(cfg.Secret)}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		userID, err := m.validateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func (m *AuthMiddleware) validateToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedMethod
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errs.Mark(err, errInvalidToken)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, errs.Mark(err, errInvalidSubject)
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errInvalidSubject)
	}
	return userID, nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}
