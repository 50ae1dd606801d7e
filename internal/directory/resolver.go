package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/paydesk/payroll-engine/internal/domain"
)

// Client resolves an opaque account identifier to routable account details.
type Client interface {
	Resolve(ctx context.Context, accountID string) (*domain.Identity, error)
}

// HTTPClient talks to the account directory service.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Resolve(ctx context.Context, accountID string) (*domain.Identity, error) {
	url := fmt.Sprintf("%s/accounts/%s", c.baseURL, accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d for account %s", resp.StatusCode, accountID)
	}

	var identity domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, err
	}

	return &identity, nil
}

// Resolver caches directory lookups and never fails: resolution only feeds
// display names next to raw ids, so on any error the raw id is shown instead.
type Resolver struct {
	client Client
	cache  *gocache.Cache
}

func NewResolver(client Client, ttl time.Duration) *Resolver {
	return &Resolver{
		client: client,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

// Resolve returns the directory identity for an account, falling back to the
// raw id as display name when the directory is unavailable or unaware of it.
func (r *Resolver) Resolve(ctx context.Context, accountID string) *domain.Identity {
	if cached, found := r.cache.Get(accountID); found {
		return cached.(*domain.Identity)
	}

	identity, err := r.client.Resolve(ctx, accountID)
	if err != nil {
		log.Printf("directory lookup failed for %s, falling back to raw id: %v", accountID, err)
		return &domain.Identity{ID: accountID, DisplayName: accountID}
	}

	r.cache.SetDefault(accountID, identity)
	return identity
}
