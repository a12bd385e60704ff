package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orexam/orexam-backend/internal/model"
	"github.com/orexam/orexam-backend/internal/response"
	"github.com/orexam/orexam-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// RequireJWT validates a JWT from the Authorization header without any
// role restriction (profile/logout endpoints).
func RequireJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireRole(authService, "")
}

// RequireStudentJWT validates a JWT and requires the student role.
func RequireStudentJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireRole(authService, model.RoleStudent)
}

// RequireLecturerJWT validates a JWT and requires the lecturer role.
func RequireLecturerJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireRole(authService, model.RoleLecturer)
}

// requireRole is the single role guard at the operation boundary. Role
// dispatch happens here, never as ad hoc field comparisons in handlers.
func requireRole(authService *service.AuthService, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if role != "" && claims.Role != role {
			code := response.ErrLecturerAccessOnly
			if role == model.RoleStudent {
				code = response.ErrStudentAccessOnly
			}
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header required")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, fmt.Errorf("authorization header must be a bearer token")
	}
	return authService.ValidateToken(parts[1])
}
