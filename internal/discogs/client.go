// Package discogs provides the minimal Discogs API client used to look up
// release metadata.
//
// It exposes the database search endpoint with type, barcode and catalog
// number filters, plus full release detail retrieval. Responses are strongly
// typed so the catalog mapping can consume them directly. A client built
// without a token is usable but not configured: every call fails before any
// network I/O is attempted.
package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.discogs.com"
	defaultPerPage = 20
	userAgent      = "vinylkeep/1.0"
)

// Type restricts a search to one class of catalog entry.
type Type string

const (
	TypeRelease Type = "release"
	TypeMaster  Type = "master"
	TypeArtist  Type = "artist"
	TypeLabel   Type = "label"
)

// Valid reports whether t is one of the search types Discogs accepts.
func (t Type) Valid() bool {
	switch t {
	case TypeRelease, TypeMaster, TypeArtist, TypeLabel:
		return true
	default:
		return false
	}
}

// SearchResult is a single match from the Discogs database search.
type SearchResult struct {
	ID          int64    `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Country     string   `json:"country"`
	Label       []string `json:"label"`
	Genre       []string `json:"genre"`
	Style       []string `json:"style"`
	Format      []string `json:"format"`
	Catno       string   `json:"catno"`
	Barcode     []string `json:"barcode"`
	Thumb       string   `json:"thumb"`
	CoverImage  string   `json:"cover_image"`
	ResourceURL string   `json:"resource_url"`
	URI         string   `json:"uri"`
}

// Pagination describes the page window of a search response.
type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// SearchResponse models the paginated search payload.
type SearchResponse struct {
	Pagination Pagination     `json:"pagination"`
	Results    []SearchResult `json:"results"`
}

// Artist is a credited artist on a release.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Label is a label credit with its catalog number.
type Label struct {
	Name  string `json:"name"`
	Catno string `json:"catno"`
}

// Format describes the physical format of a release.
type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Descriptions []string `json:"descriptions"`
}

// Identifier is a free-form type/value pair attached to a release, such as a
// "Matrix / Runout" etching or a barcode.
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Image is one release image with its full-size and thumbnail URIs.
type Image struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	URI150 string `json:"uri150"`
}

// Track is one tracklist entry.
type Track struct {
	Position string `json:"position"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// Release is the full metadata payload for one release.
type Release struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Year        int          `json:"year"`
	Country     string       `json:"country"`
	Genres      []string     `json:"genres"`
	Styles      []string     `json:"styles"`
	Artists     []Artist     `json:"artists"`
	Labels      []Label      `json:"labels"`
	Formats     []Format     `json:"formats"`
	Identifiers []Identifier `json:"identifiers"`
	Images      []Image      `json:"images"`
	Tracklist   []Track      `json:"tracklist"`
	Notes       string       `json:"notes"`
	URI         string       `json:"uri"`
}

// Client provides access to the Discogs API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// New creates a Discogs client. An empty token is allowed: the client
// constructs fine but reports itself as not configured and refuses calls.
func New(token string, opts ...Option) *Client {
	client := &Client{
		token:      strings.TrimSpace(token),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the client holds an API token.
func (c *Client) Configured() bool {
	return c.token != ""
}

// SearchOptions contains the optional parameters of a database search.
type SearchOptions struct {
	Type    Type
	Page    int
	PerPage int
	Barcode string
	Catno   string
}

// Search performs a database search. Page defaults to 1 and PerPage to 20.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	params := url.Values{}
	if query = strings.TrimSpace(query); query != "" {
		params.Set("q", query)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	if opts.Type != "" {
		params.Set("type", string(opts.Type))
	}
	if opts.Barcode != "" {
		params.Set("barcode", opts.Barcode)
	}
	if opts.Catno != "" {
		params.Set("catno", opts.Catno)
	}

	var payload SearchResponse
	err := c.get(ctx, "/database/search", params, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchByArtistAndAlbum searches releases matching the artist and album
// joined into a single free-text query.
func (c *Client) SearchByArtistAndAlbum(ctx context.Context, artist, album string, page int) (*SearchResponse, error) {
	query := strings.TrimSpace(artist + " " + album)
	return c.Search(ctx, query, SearchOptions{Type: TypeRelease, Page: page})
}

// SearchByBarcode searches releases carrying the given barcode.
func (c *Client) SearchByBarcode(ctx context.Context, code string) (*SearchResponse, error) {
	return c.Search(ctx, "", SearchOptions{Type: TypeRelease, Barcode: code})
}

// SearchByCatalogNumber searches releases by label catalog number.
func (c *Client) SearchByCatalogNumber(ctx context.Context, catno string, page int) (*SearchResponse, error) {
	return c.Search(ctx, "", SearchOptions{Type: TypeRelease, Page: page, Catno: catno})
}

// GetRelease fetches the full metadata for one release.
func (c *Client) GetRelease(ctx context.Context, id int64) (*Release, error) {
	if id <= 0 {
		return nil, errors.New("release id must be positive")
	}

	var payload Release
	err := c.get(ctx, fmt.Sprintf("/releases/%d", id), url.Values{}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse discogs url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Discogs token="+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("decode discogs response: %w", err)
	}
	return nil
}
