package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// APIError is a decoded error envelope from the server.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (%s, status %d)", e.Message, e.Code, e.Status)
}

// # Wire Types

// OrderEntry pins one filename to a display rank.
type OrderEntry struct {
	Filename string `json:"filename"`
	Order    int    `json:"order"`
}

// GalleryOrder is the persisted manual order document.
type GalleryOrder struct {
	Entries   []OrderEntry `json:"order"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Album is the album shape as the API serves it.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Order       int      `json:"order"`
	Featured    bool     `json:"featured"`
}

// Client is a typed HTTP client for the portfolio API. The session cookie
// from Login is carried automatically on subsequent calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL (e.g. "https://lumina.app").
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("syncer: cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// # Session

// Login authenticates the admin session.
func (client *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return client.do(ctx, http.MethodPost, "/api/auth/login", body, nil)
}

// Logout drops the session cookie server-side.
func (client *Client) Logout(ctx context.Context) error {
	return client.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// # Cover

// GetCover fetches the current cover set.
func (client *Client) GetCover(ctx context.Context) ([]string, error) {
	var response struct {
		CoverImages []string `json:"coverImages"`
	}
	if err := client.do(ctx, http.MethodGet, "/api/cover", nil, &response); err != nil {
		return nil, err
	}
	return response.CoverImages, nil
}

// MarkCover toggles one filename's cover flag and returns the canonical
// cover set.
func (client *Client) MarkCover(ctx context.Context, filename string, marked bool) ([]string, error) {
	body := map[string]interface{}{"filename": filename, "marked": marked}

	var response struct {
		CoverImages []string `json:"coverImages"`
	}
	if err := client.do(ctx, http.MethodPost, "/api/cover", body, &response); err != nil {
		return nil, err
	}
	return response.CoverImages, nil
}

// # Gallery Order

// GetGalleryOrder fetches the persisted manual order.
func (client *Client) GetGalleryOrder(ctx context.Context) (GalleryOrder, error) {
	var order GalleryOrder
	if err := client.do(ctx, http.MethodGet, "/api/gallery/order", nil, &order); err != nil {
		return GalleryOrder{}, err
	}
	return order, nil
}

// SaveGalleryOrder persists a manual order and returns the canonical one
// (the server drops entries for deleted files).
func (client *Client) SaveGalleryOrder(ctx context.Context, entries []OrderEntry) (GalleryOrder, error) {
	body := map[string]interface{}{"imageOrder": entries}

	var order GalleryOrder
	if err := client.do(ctx, http.MethodPut, "/api/gallery/order", body, &order); err != nil {
		return GalleryOrder{}, err
	}
	return order, nil
}

// # Albums

// ListAlbums fetches every album in display order.
func (client *Client) ListAlbums(ctx context.Context) ([]Album, error) {
	var albums []Album
	if err := client.do(ctx, http.MethodGet, "/api/albums", nil, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// ReorderAlbums persists album display order and returns the canonical
// list.
func (client *Client) ReorderAlbums(ctx context.Context, albumIDs []string) ([]Album, error) {
	body := map[string]interface{}{"albumsOrder": albumIDs}

	var response struct {
		Albums []Album `json:"albums"`
	}
	if err := client.do(ctx, http.MethodPut, "/api/albums/reorder", body, &response); err != nil {
		return nil, err
	}
	return response.Albums, nil
}

// AddAlbumImage adds a filename to an album and returns the updated album.
func (client *Client) AddAlbumImage(ctx context.Context, albumID, filename string) (Album, error) {
	body := map[string]string{"imageId": filename}

	var response struct {
		Album Album `json:"album"`
	}
	if err := client.do(ctx, http.MethodPost, "/api/albums/"+albumID+"/images", body, &response); err != nil {
		return Album{}, err
	}
	return response.Album, nil
}

// RemoveAlbumImage removes a filename from an album.
func (client *Client) RemoveAlbumImage(ctx context.Context, albumID, filename string) (Album, error) {
	var response struct {
		Album Album `json:"album"`
	}
	err := client.do(ctx, http.MethodDelete, "/api/albums/"+albumID+"/images/"+filename, nil, &response)
	if err != nil {
		return Album{}, err
	}
	return response.Album, nil
}

// do runs one JSON round trip. Non-2xx responses decode into *APIError.
func (client *Client) do(ctx context.Context, method, path string, body, out interface{}) error {

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("syncer: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("syncer: build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.http.Do(request)
	if err != nil {
		return fmt.Errorf("syncer: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		apiError := &APIError{Status: response.StatusCode, Code: "UNKNOWN"}
		_ = json.NewDecoder(response.Body).Decode(apiError)
		return apiError
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("syncer: decode response: %w", err)
	}

	return nil
}
