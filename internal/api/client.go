// Package api is the client for the wavecast backend REST API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/llehouerou/wavecast/internal/playlist"
)

// ErrNotFound is returned when the backend has no such resource.
var ErrNotFound = errors.New("not found")

// Client provides access to the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client. An empty token sends anonymous
// requests.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: NewHTTPClient(token, 30*time.Second),
	}
}

// NewHTTPClient returns a client that sends token as a bearer credential
// on every request, for media downloads outside the API.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: bearerTransport{token: token, base: http.DefaultTransport},
	}
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" || req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(req)
}

// IncrementSongListenCount records one listen of a song.
func (c *Client) IncrementSongListenCount(ctx context.Context, songID string) error {
	return c.post(ctx, "/songs/"+url.PathEscape(songID)+"/listen")
}

// IncrementPlaylistListenCount records one listen of a playlist.
func (c *Client) IncrementPlaylistListenCount(ctx context.Context, playlistID string) error {
	return c.post(ctx, "/playlists/"+url.PathEscape(playlistID)+"/listen")
}

// Song fetches a song by id.
func (c *Client) Song(ctx context.Context, id string) (playlist.Song, error) {
	var result Song
	if err := c.get(ctx, "/songs/"+url.PathEscape(id), &result); err != nil {
		return playlist.Song{}, err
	}
	return result.ToSong(), nil
}

// Playlist fetches a playlist with its songs.
func (c *Client) Playlist(ctx context.Context, id string) (playlist.Playlist, error) {
	var result Playlist
	if err := c.get(ctx, "/playlists/"+url.PathEscape(id), &result); err != nil {
		return playlist.Playlist{}, err
	}
	return result.ToPlaylist(), nil
}

// Songs lists the catalog.
func (c *Client) Songs(ctx context.Context) ([]Song, error) {
	var result []Song
	if err := c.get(ctx, "/songs", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do executes req and turns non-2xx responses into errors.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrNotFound)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
