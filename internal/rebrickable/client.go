// Package rebrickable is a minimal client for the Rebrickable LEGO
// catalog API (https://rebrickable.com/api/).
package rebrickable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://rebrickable.com/"

	defaultTimeout = 30 * time.Second
)

// TokenSource supplies the current API token. The token lives in the
// settings store and can change between requests, so it is resolved
// per call rather than captured at construction.
type TokenSource func() string

// Client interfaces with the Rebrickable API.
type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
}

// NewClient creates a new Rebrickable API client.
func NewClient(token TokenSource) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// PartCategory is a category descriptor from /lego/part_categories/{id}.
type PartCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Set is a set descriptor from /lego/sets/{set_num}.
type Set struct {
	SetNum    string `json:"set_num"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	NumParts  int    `json:"num_parts"`
	SetImgURL string `json:"set_img_url"`
}

// Color describes the color of a part in a set.
type Color struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	IsTrans bool   `json:"is_trans"`
}

// PartDetail is the nested part record inside a set part.
type PartDetail struct {
	PartNum    string `json:"part_num"`
	Name       string `json:"name"`
	PartCatID  int    `json:"part_cat_id"`
	PartImgURL string `json:"part_img_url"`
}

// SetPart is one entry of /lego/sets/{set_num}/parts.
type SetPart struct {
	ID       int        `json:"id"`
	Quantity int        `json:"quantity"`
	IsSpare  bool       `json:"is_spare"`
	Part     PartDetail `json:"part"`
	Color    Color      `json:"color"`
}

// SetMinifig is one entry of /lego/sets/{set_num}/minifigs.
type SetMinifig struct {
	ID        int    `json:"id"`
	Quantity  int    `json:"quantity"`
	SetNum    string `json:"set_num"`
	SetName   string `json:"set_name"`
	SetImgURL string `json:"set_img_url"`
}

// page is one page of a cursor-paginated collection endpoint.
type page[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// GetPartCategory fetches a part category descriptor by remote id.
func (c *Client) GetPartCategory(ctx context.Context, id int) (*PartCategory, error) {
	var category PartCategory
	if err := c.get(ctx, fmt.Sprintf("api/v3/lego/part_categories/%d/", id), &category); err != nil {
		return nil, fmt.Errorf("fetch part category %d: %w", id, err)
	}
	return &category, nil
}

// GetSet fetches a set descriptor by set number.
func (c *Client) GetSet(ctx context.Context, num string) (*Set, error) {
	var set Set
	if err := c.get(ctx, "api/v3/lego/sets/"+num+"/", &set); err != nil {
		return nil, fmt.Errorf("fetch set %s: %w", num, err)
	}
	return &set, nil
}

// SetParts walks every part entry of a set, in page order, invoking
// process once per entry. The first error aborts the walk.
func (c *Client) SetParts(ctx context.Context, num string, process func(SetPart) error) error {
	return paginate(ctx, c, "api/v3/lego/sets/"+num+"/parts/", process)
}

// SetMinifigs walks every minifigure entry of a set, in page order.
func (c *Client) SetMinifigs(ctx context.Context, num string, process func(SetMinifig) error) error {
	return paginate(ctx, c, "api/v3/lego/sets/"+num+"/minifigs/", process)
}

// paginate drives repeated fetch-and-process cycles over a paginated
// collection endpoint until the "next" cursor runs out. An explicit
// loop keeps stack usage flat on arbitrarily large collections.
func paginate[T any](ctx context.Context, c *Client, firstPath string, process func(T) error) error {
	next := firstPath
	for next != "" {
		var p page[T]
		if err := c.get(ctx, next, &p); err != nil {
			return err
		}

		for _, item := range p.Results {
			if err := process(item); err != nil {
				return err
			}
		}

		// "next" is an absolute URL and is fetched verbatim.
		if p.Next == nil {
			return nil
		}
		next = *p.Next
	}
	return nil
}

// get issues an authenticated GET against a relative API path or an
// absolute URL (next-page cursors) and decodes the JSON response.
func (c *Client) get(ctx context.Context, pathOrURL string, out any) error {
	url := pathOrURL
	if !strings.HasPrefix(pathOrURL, "http://") && !strings.HasPrefix(pathOrURL, "https://") {
		url = c.baseURL + pathOrURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "key "+c.token())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrInvalidToken
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
