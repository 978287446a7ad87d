package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hoardmap/pkg/config"
	"hoardmap/pkg/model"
	"hoardmap/pkg/request"
)

// Client talks to the processor that owns the raw device-state history.
// It exposes the two capabilities the aggregator consumes: enumerate
// devices, and walk one device's history page by page.
type Client struct {
	http        *request.Client
	baseURL     string
	deviceLimit int
	pageLimit   int
}

// HistoryPage is one page of delta records, newest first, plus the link
// to the next (older) page when there is one.
type HistoryPage struct {
	Data       []model.DeltaRecord `json:"data"`
	Navigation struct {
		NextPage string `json:"next_page"`
	} `json:"navigation"`
}

// New creates a source client on top of the shared request client.
func New(httpClient *request.Client, cfg config.SourceConfig) *Client {
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		deviceLimit: cfg.DeviceLimit,
		pageLimit:   cfg.PageLimit,
	}
}

// ListDevices returns the processor's device descriptors. Never cached:
// the run must see the current fleet.
func (c *Client) ListDevices(ctx context.Context) ([]model.Device, error) {
	u := fmt.Sprintf("%s/data/devices?limit=%d", c.baseURL, c.deviceLimit)

	body, err := c.http.Get(ctx, u, "")
	if err != nil {
		return nil, fmt.Errorf("device list fetch failed: %w", err)
	}

	var devices []model.Device
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("device list decode failed: %w", err)
	}
	return devices, nil
}

// HistoryStart returns the first page URL for a device's history, or ""
// if the device does not advertise a history link.
func (c *Client) HistoryStart(dev model.Device) string {
	link := dev.HistoryURL()
	if link == "" {
		return ""
	}
	link = c.absolute(link)

	sep := "&"
	if !strings.Contains(link, "?") {
		sep = "?"
	}
	return fmt.Sprintf("%s%slimit=%d", link, sep, c.pageLimit)
}

// FetchPage retrieves one history page. The entry page reflects the live
// head of the history and is fetched fresh every run; deeper cursor pages
// are settled and may be replayed from cache.
func (c *Client) FetchPage(ctx context.Context, pageURL string, cacheable bool) (*HistoryPage, error) {
	u := c.absolute(pageURL)

	cacheKey := ""
	if cacheable {
		cacheKey = u
	}

	body, err := c.http.Get(ctx, u, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("history page fetch failed: %w", err)
	}

	var page HistoryPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("history page decode failed: %w", err)
	}
	return &page, nil
}

// Latest proxies the processor's current-state endpoint for one device.
// Used by the republisher, not by the aggregation pipeline.
func (c *Client) Latest(ctx context.Context, deviceID string) ([]byte, error) {
	u := fmt.Sprintf("%s/data/latest/%s", c.baseURL, deviceID)
	return c.http.Get(ctx, u, "")
}

// absolute resolves processor-relative links against the base URL.
func (c *Client) absolute(link string) string {
	if strings.HasPrefix(link, "/") {
		return c.baseURL + link
	}
	return link
}
