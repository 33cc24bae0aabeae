package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavecast/internal/playback"
)

var _ playback.Backend = (*Client)(nil)

type recordedRequest struct {
	method string
	path   string
	auth   string
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recordedRequest{r.Method, r.URL.Path, r.Header.Get("Authorization")})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestClient_IncrementListenCounts(t *testing.T) {
	srv, requests := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := NewClient(srv.URL+"/api/", "tok")

	require.NoError(t, c.IncrementSongListenCount(context.Background(), "s 1"))
	require.NoError(t, c.IncrementPlaylistListenCount(context.Background(), "p1"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, recordedRequest{http.MethodPost, "/api/songs/s 1/listen", "Bearer tok"}, reqs[0])
	assert.Equal(t, recordedRequest{http.MethodPost, "/api/playlists/p1/listen", "Bearer tok"}, reqs[1])
}

func TestClient_AnonymousSendsNoAuthorization(t *testing.T) {
	srv, requests := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := NewClient(srv.URL, "")

	require.NoError(t, c.IncrementSongListenCount(context.Background(), "a"))
	assert.Empty(t, requests()[0].auth)
}

func TestNewHTTPClient_SendsBearerToken(t *testing.T) {
	srv, requests := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"signed in", "tok", "Bearer tok"},
		{"anonymous", "", ""},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewHTTPClient(tt.token, time.Second).Get(srv.URL + "/media/premium/p.mp3")
			require.NoError(t, err)
			resp.Body.Close()

			reqs := requests()
			require.Len(t, reqs, i+1)
			assert.Equal(t, tt.want, reqs[i].auth)
		})
	}
}

func TestClient_Song(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/songs/42" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(Song{
			ID:        "42",
			Title:     "Answer",
			Singers:   []string{"Deep", "Thought"},
			FilePath:  "42.mp3",
			IsPremium: true,
			Duration:  90.5,
		})
	})
	c := NewClient(srv.URL, "")

	song, err := c.Song(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Answer", song.Title)
	assert.Equal(t, []string{"Deep", "Thought"}, song.Singers)
	assert.True(t, song.IsPremium)
	assert.Equal(t, 90*time.Second+500*time.Millisecond, song.Duration)

	_, err = c.Song(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Playlist(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Playlist{
			ID:    "p",
			Name:  "Mix",
			Songs: []Song{{ID: "a", FilePath: "a.mp3"}, {ID: "b", FilePath: "b.mp3"}},
		})
	})
	c := NewClient(srv.URL, "")

	p, err := c.Playlist(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Mix", p.Name)
	require.Len(t, p.Songs, 2)
	assert.Equal(t, "b", p.Songs[1].ID)
}

func TestClient_Songs(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]Song{{ID: "a", ListenCount: 3}})
	})
	c := NewClient(srv.URL, "")

	songs, err := c.Songs(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, int64(3), songs[0].ListenCount)
}

func TestClient_ServerError(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c := NewClient(srv.URL, "")

	err := c.IncrementSongListenCount(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_DecodeError(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	c := NewClient(srv.URL, "")

	_, err := c.Song(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSongConversionRoundTrip(t *testing.T) {
	dto := Song{ID: "x", Title: "T", FilePath: "x.flac", Duration: 12}
	song := dto.ToSong()
	assert.Equal(t, 12*time.Second, song.Duration)

	back := FromSong(song, 7)
	assert.Equal(t, dto.Duration, back.Duration)
	assert.Equal(t, int64(7), back.ListenCount)
}
