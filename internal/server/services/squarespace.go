package services

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	sc "github.com/ruedaverde/backend/internal/server/config"
)

const squarespaceBaseURL = "https://api.squarespace.com/1.0"

// SquarespacePage is the subset of the Squarespace page resource this backend
// reads and writes during content synchronization.
type SquarespacePage struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SquarespaceWebsite describes the CMS site the backend synchronizes with.
type SquarespaceWebsite struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SquarespaceService pushes and pulls content pages of the public Rueda Verde
// site through the Squarespace 1.0 API. It is glue: failures are reported to
// the caller and never affect identity or CRUD operations.
type SquarespaceService struct {
	client    *resty.Client
	websiteID string
}

// NewSquarespaceService builds the client against the public Squarespace API.
func NewSquarespaceService(cfg *sc.Config) *SquarespaceService {
	return newSquarespaceService(cfg.SquarespaceAPIKey, cfg.SquarespaceWebsiteID, squarespaceBaseURL)
}

func newSquarespaceService(apiKey, websiteID, baseURL string) *SquarespaceService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("User-Agent", "Rueda Verde Integration").
		SetHeader("Content-Type", "application/json")

	return &SquarespaceService{client: client, websiteID: websiteID}
}

// Enabled reports whether CMS credentials are configured.
func (s *SquarespaceService) Enabled() bool {
	return s.websiteID != ""
}

// GetWebsiteInfo fetches the synchronized website's metadata.
func (s *SquarespaceService) GetWebsiteInfo(ctx context.Context) (*SquarespaceWebsite, error) {
	var website SquarespaceWebsite

	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&website).
		Get(fmt.Sprintf("/websites/%s", s.websiteID))
	if err != nil {
		return nil, fmt.Errorf("squarespace request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("squarespace: unexpected status %s", resp.Status())
	}

	return &website, nil
}

// GetPages lists all pages of the synchronized website.
func (s *SquarespaceService) GetPages(ctx context.Context) ([]SquarespacePage, error) {
	var pages []SquarespacePage

	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&pages).
		Get(fmt.Sprintf("/websites/%s/pages", s.websiteID))
	if err != nil {
		return nil, fmt.Errorf("squarespace request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("squarespace: unexpected status %s", resp.Status())
	}

	return pages, nil
}

// CreatePage publishes a new page.
func (s *SquarespaceService) CreatePage(ctx context.Context, page *SquarespacePage) (*SquarespacePage, error) {
	var created SquarespacePage

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(page).
		SetResult(&created).
		Post(fmt.Sprintf("/websites/%s/pages", s.websiteID))
	if err != nil {
		return nil, fmt.Errorf("squarespace request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("squarespace: unexpected status %s", resp.Status())
	}

	return &created, nil
}

// UpdatePage replaces the content of an existing page.
func (s *SquarespaceService) UpdatePage(ctx context.Context, pageID string, page *SquarespacePage) (*SquarespacePage, error) {
	var updated SquarespacePage

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(page).
		SetResult(&updated).
		Put(fmt.Sprintf("/websites/%s/pages/%s", s.websiteID, pageID))
	if err != nil {
		return nil, fmt.Errorf("squarespace request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("squarespace: unexpected status %s", resp.Status())
	}

	return &updated, nil
}
