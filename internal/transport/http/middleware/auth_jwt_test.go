package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/core/auth"
	"go-workout-tracker/internal/domain"
)

func newAuthRouter(requireRole domain.Role) (*gin.Engine, *auth.JWTer) {
	gin.SetMode(gin.TestMode)
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "workout-api", TTL: time.Hour}
	r := gin.New()
	r.GET("/protected", AuthJWT(j, requireRole), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no principal")
			return
		}
		c.String(http.StatusOK, "%s:%s", p.UserID, p.Role)
	})
	return r, j
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWTMissingToken(t *testing.T) {
	r, _ := newAuthRouter("")
	if rec := do(r, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthJWTInvalidToken(t *testing.T) {
	r, _ := newAuthRouter("")
	if rec := do(r, "not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthJWTSetsPrincipal(t *testing.T) {
	r, j := newAuthRouter("")
	tok, err := j.Issue("user-1", string(domain.RoleUser))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := do(r, tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "user-1:USER" {
		t.Fatalf("principal = %q, want user-1:USER", got)
	}
}

func TestAuthJWTRoleGate(t *testing.T) {
	r, j := newAuthRouter(domain.RoleAdmin)

	userTok, err := j.Issue("user-1", string(domain.RoleUser))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec := do(r, userTok); rec.Code != http.StatusForbidden {
		t.Fatalf("plain user on admin route: status = %d, want 403", rec.Code)
	}

	adminTok, err := j.Issue("admin-1", string(domain.RoleAdmin))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec := do(r, adminTok); rec.Code != http.StatusOK {
		t.Fatalf("admin on admin route: status = %d, want 200", rec.Code)
	}
}
