package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	gen "github.com/kailas-cloud/talentdex/internal/transport/generated"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

const tenantsPrefix = "/v1/tenants/"

// apiKey is one configured credential. An empty tenant grants every tenant.
type apiKey struct {
	token  []byte
	tenant string
}

// parseAPIKeys reads "token" (all tenants) and "tenant=token" (one tenant)
// entries. Empty entries are ignored.
func parseAPIKeys(entries []string) []apiKey {
	keys := make([]apiKey, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		k := apiKey{token: []byte(e)}
		if tenant, token, ok := strings.Cut(e, "="); ok && tenant != "" && token != "" {
			k = apiKey{token: []byte(token), tenant: tenant}
		}
		keys = append(keys, k)
	}
	return keys
}

// match returns the key for token. Every key is compared in constant time.
func match(keys []apiKey, token string) (apiKey, bool) {
	var found apiKey
	ok := false
	t := []byte(token)
	for _, k := range keys {
		if subtle.ConstantTimeCompare(k.token, t) == 1 {
			found, ok = k, true
		}
	}
	return found, ok
}

// tenantFromPath extracts {tenant} from /v1/tenants/{tenant}/...
func tenantFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, tenantsPrefix)
	if !ok {
		return ""
	}
	tenant, _, _ := strings.Cut(rest, "/")
	return tenant
}

// BearerAuthMiddleware validates Bearer tokens. A tenant-bound key only
// reaches /v1/tenants/{its tenant}/...; other tenants get 403.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := parseAPIKeys(apiKeys)

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				unauthorized(w, "authorization header must use Bearer scheme")
				return
			}

			key, ok := match(keys, auth[len(bearerPrefix):])
			if !ok {
				unauthorized(w, "invalid api key")
				return
			}
			if key.tenant != "" && key.tenant != tenantFromPath(r.URL.Path) {
				writeError(w, http.StatusForbidden, gen.ErrorResponseCodeForbidden,
					"api key is not valid for this tenant")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="talentdex"`)
	writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized, message)
}
