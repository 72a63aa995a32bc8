package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

const requestTimeout = 10 * time.Second

var _ port.PageFetcher = (*Client)(nil)

// A Client fetches catalog pages from the remote JSON endpoint.
// Pure transport: it holds no cache and no pagination state.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) Client {
	return Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

// FetchPage requests one page via the page/limit query parameters.
//
// A record missing any required field rejects the whole page with
// [domain.ErrDecoding]: pages are never partially reconstructed.
func (c Client) FetchPage(
	ctx context.Context, page, limit int,
) ([]domain.Product, error) {
	const op = "Client.FetchPage"
	log := slog.With("op", op)

	endpoint, err := c.pageURL(page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidEndpoint, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, endpoint, http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrInvalidEndpoint, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf(
			"%s: %w", op, domain.StatusError{Code: resp.StatusCode},
		)
	}

	var ps []product
	if err := json.NewDecoder(resp.Body).Decode(&ps); err != nil {
		log.Warn("failed to decode page", "page", page, "err", err)
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrDecoding, err)
	}

	return toDomain(op, ps)
}

func (c Client) pageURL(page, limit int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address %q has no scheme or host", c.baseURL)
	}

	u = u.JoinPath("products")
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func toDomain(op string, ps []product) ([]domain.Product, error) {
	domainPs := make([]domain.Product, 0, len(ps))
	for i, p := range ps {
		if p.ID == "" || p.Name == "" || p.Price == "" {
			return nil, fmt.Errorf(
				"%s: %w: record %d misses a required field",
				op, domain.ErrDecoding, i,
			)
		}
		domainPs = append(domainPs, domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ImageRef:    p.Image,
			Model:       p.Model,
			Brand:       p.Brand,
			Price:       p.Price,
			CreatedAt:   p.CreatedAt,
		})
	}
	return domainPs, nil
}
