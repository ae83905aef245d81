package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength  = 4096
	MaxTenantLength = 64
	MaxFilters      = 32
	MaxLimit        = 100
)

// Request is a validated search query for one tenant.
type Request struct {
	tenant  string
	query   string
	filters []filter.Raw
	limit   int
}

// New validates search parameters. Filters stay raw: malformed ones are
// dropped later by the splitter instead of failing the request.
// A zero limit means "use the configured maximum".
func New(tenant, query string, filters []filter.Raw, limit int) (Request, error) {
	tenant = strings.TrimSpace(tenant)
	if err := ValidateTenant(tenant); err != nil {
		return Request{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if len(filters) > MaxFilters {
		return Request{}, fmt.Errorf("too many filters (max %d)", MaxFilters)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must not be negative")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		tenant:  tenant,
		query:   query,
		filters: filters,
		limit:   limit,
	}, nil
}

// ValidateTenant checks that a tenant id is safe to embed in index and key names.
func ValidateTenant(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant is required")
	}
	if len(tenant) > MaxTenantLength {
		return fmt.Errorf("tenant too long (max %d chars)", MaxTenantLength)
	}
	for _, c := range tenant {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' && c != '-' {
			return fmt.Errorf("tenant %q contains invalid character %q", tenant, c)
		}
	}
	return nil
}

// Tenant returns the tenant id.
func (r *Request) Tenant() string { return r.tenant }

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Filters returns the raw filters as supplied.
func (r *Request) Filters() []filter.Raw { return r.filters }

// Limit returns the requested result count, 0 when unset.
func (r *Request) Limit() int { return r.limit }
