package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terrviz/terrviz/pkg/httputil"
	"github.com/terrviz/terrviz/pkg/territory"
)

// DefaultAPIVersion is the Salesforce REST API version used when none is
// configured.
const DefaultAPIVersion = "v60.0"

// DefaultTerritoryQuery is the SOQL query that fetches the territory
// hierarchy fields the visualizer needs. Extra fields in custom queries
// are ignored by the decoder.
const DefaultTerritoryQuery = "SELECT Id, Name, ParentTerritory2Id FROM Territory2"

// Client queries a Salesforce org's REST API with bearer-token auth.
// It retries transient failures and follows query pagination; it holds no
// mutable state and is safe for concurrent use.
type Client struct {
	http    *http.Client
	auth    Auth
	version string
}

// NewClient creates a Client for the org described by auth.
// An empty version selects [DefaultAPIVersion].
func NewClient(auth Auth, version string) *Client {
	if version == "" {
		version = DefaultAPIVersion
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		auth:    auth,
		version: version,
	}
}

// queryResponse is one page of a Salesforce query result.
type queryResponse struct {
	TotalSize      int               `json:"totalSize"`
	Done           bool              `json:"done"`
	NextRecordsURL string            `json:"nextRecordsUrl"`
	Records        []territoryResult `json:"records"`
}

// territoryResult mirrors the Territory2 fields returned by SOQL.
type territoryResult struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	ParentID string `json:"ParentTerritory2Id"`
}

// QueryTerritories fetches the full territory hierarchy using
// [DefaultTerritoryQuery].
func (c *Client) QueryTerritories(ctx context.Context) ([]territory.Record, error) {
	return c.Query(ctx, DefaultTerritoryQuery)
}

// Query executes a SOQL query and returns all matching territory records,
// following nextRecordsUrl pagination until the API reports done.
// Records are returned in API order, which downstream code relies on for
// deterministic traversal.
func (c *Client) Query(ctx context.Context, soql string) ([]territory.Record, error) {
	endpoint := fmt.Sprintf("%s/services/data/%s/query/?q=%s",
		strings.TrimSuffix(c.auth.InstanceURL, "/"), c.version, url.QueryEscape(soql))

	var records []territory.Record
	for endpoint != "" {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var page queryResponse
		if err := c.getJSON(ctx, endpoint, &page); err != nil {
			return nil, fmt.Errorf("query territories: %w", err)
		}

		for _, r := range page.Records {
			records = append(records, territory.Record{
				ID:       r.ID,
				Name:     r.Name,
				ParentID: r.ParentID,
			})
		}

		endpoint = ""
		if !page.Done && page.NextRecordsURL != "" {
			endpoint = strings.TrimSuffix(c.auth.InstanceURL, "/") + page.NextRecordsURL
		}
	}

	return records, nil
}

// getJSON performs an authenticated GET with retries and decodes the JSON
// response into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.auth.AccessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		}
		defer resp.Body.Close()

		if err := checkStatus(resp.StatusCode); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(v)
	})
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
