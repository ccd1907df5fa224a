package auth

import (
	"net/http"
	"strings"
)

// Policy determines required roles by request.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds a default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request should skip auth/RBAC.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// RequiredRole resolves required role for the request. Billing runs are
// admin-only here; the billing handler additionally accepts the shared cron
// secret, which is why /api/v1/billing/ is wired as an exempt prefix and
// enforced inside the handler.
func (p Policy) RequiredRole(r *http.Request) (Role, bool) {
	if r == nil {
		return "", false
	}
	path := r.URL.Path
	method := r.Method

	switch {
	case strings.HasPrefix(path, "/api/v1/billing/"):
		return RoleAdmin, true
	case path == "/api/v1/rent-roll":
		return RoleOwner, true
	case path == "/api/v1/rent-roll/export":
		return RoleOwner, true
	case path == "/api/v1/rent-roll/aging":
		return RoleOwner, true
	case strings.HasPrefix(path, "/api/v1/properties/"):
		return RoleOwner, true
	case path == "/api/v1/reports/epm-pl":
		return RoleAdmin, true
	case path == "/api/v1/reports/owner-pl":
		return RoleOwner, true
	case strings.HasPrefix(path, "/api/v1/reports/property-pl"):
		return RoleOwner, true
	case path == "/api/v1/expenses/import":
		return RoleAdmin, true
	}

	if strings.HasPrefix(path, "/api/") {
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return RoleTenant, true
		}
		return RoleOwner, true
	}
	return "", false
}
