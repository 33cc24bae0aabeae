// Package server is the reference backend: the catalog REST API and the
// media files the stream sink plays.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/llehouerou/wavecast/internal/api"
	"github.com/llehouerou/wavecast/internal/catalog"
)

const shutdownTimeout = 5 * time.Second

// Store is the catalog the API serves.
type Store interface {
	Song(ctx context.Context, id string) (catalog.Song, error)
	Songs(ctx context.Context) ([]catalog.Song, error)
	Playlist(ctx context.Context, id string) (catalog.Playlist, error)
	IncrementSongListenCount(ctx context.Context, id string) error
	IncrementPlaylistListenCount(ctx context.Context, id string) error
}

// Options configures the handler.
type Options struct {
	// MediaDir is served under /media/. Empty disables media serving.
	MediaDir string
	// JWTSecret enables bearer token verification. Requests without a
	// token stay anonymous.
	JWTSecret string
	Logger    zerolog.Logger
}

type handler struct {
	store Store
	log   zerolog.Logger
}

// New returns the backend HTTP handler.
func New(store Store, opts Options) http.Handler {
	h := &handler{store: store, log: opts.Logger}

	r := mux.NewRouter()
	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/songs", h.listSongs).Methods(http.MethodGet)
	a.HandleFunc("/songs/{id}", h.getSong).Methods(http.MethodGet)
	a.HandleFunc("/songs/{id}/listen", h.songListen).Methods(http.MethodPost)
	a.HandleFunc("/playlists/{id}", h.getPlaylist).Methods(http.MethodGet)
	a.HandleFunc("/playlists/{id}/listen", h.playlistListen).Methods(http.MethodPost)
	a.Use(authenticate(opts.JWTSecret))

	if opts.MediaDir != "" {
		// FileServer answers Range requests, which seeking relies on.
		files := http.FileServer(http.Dir(opts.MediaDir))
		media := authenticate(opts.JWTSecret)(requireAccountForPremium(opts.JWTSecret, files))
		r.PathPrefix("/media/").Handler(http.StripPrefix("/media/", media)).
			Methods(http.MethodGet, http.MethodHead)
	}
	r.Use(logRequests(opts.Logger))

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Range"},
		ExposedHeaders: []string{"Accept-Ranges", "Content-Length", "Content-Range"},
	})
	return c.Handler(r)
}

func (h *handler) listSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.store.Songs(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]api.Song, len(songs))
	for i, s := range songs {
		out[i] = api.FromSong(s.Song, s.ListenCount)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *handler) getSong(w http.ResponseWriter, r *http.Request) {
	song, err := h.store.Song(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, api.FromSong(song.Song, song.ListenCount))
}

func (h *handler) getPlaylist(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Playlist(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := api.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Songs:       make([]api.Song, len(p.Songs)),
		ListenCount: p.ListenCount,
	}
	for i, s := range p.Songs {
		out.Songs[i] = api.FromSong(s.Song, s.ListenCount)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *handler) songListen(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.IncrementSongListenCount(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	if c := ClaimsFrom(r.Context()); c != nil {
		h.log.Debug().Str("user", c.Subject).Str("song", id).Msg("listen")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) playlistListen(w http.ResponseWriter, r *http.Request) {
	if err := h.store.IncrementPlaylistListenCount(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	respondWithError(w, http.StatusInternalServerError, "internal error")
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func respondWithError(w http.ResponseWriter, status int, reason string) {
	respondWithJSON(w, status, map[string]string{"error": reason})
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
