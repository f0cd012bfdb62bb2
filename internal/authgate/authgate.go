package authgate

import (
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/eshop/internal/logging"
	"github.com/nstepanov/eshop/internal/token"
)

const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
	CtxClaims  = "claims"
)

// ExemptRule lets a request through without a token. A nil Pattern means
// exact path match. An empty Methods list allows any method; otherwise the
// match is exact and case-sensitive.
type ExemptRule struct {
	Pattern *regexp.Regexp
	Path    string
	Methods []string
}

func (r ExemptRule) Matches(method, path string) bool {
	if r.Pattern != nil {
		if !r.Pattern.MatchString(path) {
			return false
		}
	} else if r.Path != path {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	return slices.Contains(r.Methods, method)
}

type Gate struct {
	Tokens *token.Service
	Exempt []ExemptRule

	// IsRevoked is consulted after a token passes signature and expiry
	// checks. A revoked token is rejected with 403.
	IsRevoked func(*token.Claims) bool
}

// AdminOnly revokes every token whose isAdmin claim is false, so all
// non-exempt routes require administrator privilege.
func AdminOnly(c *token.Claims) bool {
	return !c.IsAdmin
}

// DefaultExemptRules mirrors the public surface: uploaded files, product
// and category reads, search, login and registration.
func DefaultExemptRules(apiPrefix string) []ExemptRule {
	readOnly := []string{http.MethodGet, http.MethodOptions}
	return []ExemptRule{
		{Pattern: regexp.MustCompile(`^/public/uploads(.*)`), Methods: readOnly},
		{Pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(apiPrefix) + `/products(.*)`), Methods: readOnly},
		{Pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(apiPrefix) + `/categories(.*)`), Methods: readOnly},
		{Path: apiPrefix + "/users/login"},
		{Path: apiPrefix + "/users/register"},
	}
}

func New(tokens *token.Service, apiPrefix string) *Gate {
	return &Gate{
		Tokens:    tokens,
		Exempt:    DefaultExemptRules(apiPrefix),
		IsRevoked: AdminOnly,
	}
}

// Middleware authorizes every request before it reaches a handler. The
// exemption table is checked first; everything else needs a valid bearer
// token that survives the revocation predicate. Any ambiguity fails
// closed with 401.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method, path := req.Method, req.URL.Path

			for _, rule := range g.Exempt {
				if rule.Matches(method, path) {
					return next(c)
				}
			}

			raw, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed token")
			}

			claims, err := g.Tokens.Verify(raw)
			if err != nil {
				logging.FromContext(req.Context()).Warn("authorize_failed",
					"status", 401, "method", method, "path", path, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			if g.IsRevoked(claims) {
				logging.FromContext(req.Context()).Warn("authorize_failed",
					"status", 403, "method", method, "path", path, "user_id", claims.UserID)
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxIsAdmin, claims.IsAdmin)
			c.Set(CtxClaims, claims)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
