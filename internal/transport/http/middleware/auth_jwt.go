package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/core/auth"
	"go-workout-tracker/internal/domain"
	resp "go-workout-tracker/internal/transport/http/response"
)

const KeyPrincipal = "principal"

// AuthJWT 解析 Bearer token，把 Principal 放进 gin 上下文；
// requireRole 非空时要求该角色
func AuthJWT(j *auth.JWTer, requireRole domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		role := domain.Role(claims.Role)
		if requireRole != "" && role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(KeyPrincipal, domain.Principal{UserID: claims.UID, Role: role})
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// PrincipalFrom 从上下文取已认证主体
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(KeyPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
