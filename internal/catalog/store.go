// Package catalog stores the songs and playlists served to clients,
// along with their listen counters.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	dbutil "github.com/llehouerou/wavecast/internal/db"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// ErrNotFound is returned when a song or playlist id is unknown.
var ErrNotFound = errors.New("not found")

// singerSep joins singers in the singers column. Names may contain commas.
const singerSep = "\n"

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	singers      TEXT NOT NULL DEFAULT '',
	file_path    TEXT NOT NULL UNIQUE,
	is_premium   INTEGER NOT NULL DEFAULT 0,
	duration_ms  INTEGER,
	listen_count INTEGER NOT NULL DEFAULT 0,
	mtime        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS playlists (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	listen_count INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS playlist_songs (
	playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	song_id     TEXT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
	PRIMARY KEY (playlist_id, position)
);
`

// Song is a catalog song with its listen counter.
type Song struct {
	playlist.Song
	ListenCount int64
}

// Playlist is a catalog playlist with its songs in order.
type Playlist struct {
	ID          string
	Name        string
	Songs       []Song
	ListenCount int64
}

// ToPlaylist converts to the playback model.
func (p Playlist) ToPlaylist() playlist.Playlist {
	songs := make([]playlist.Song, len(p.Songs))
	for i, s := range p.Songs {
		songs[i] = s.Song
	}
	return playlist.Playlist{ID: p.ID, Name: p.Name, Songs: songs}
}

// Store provides database operations for the catalog.
type Store struct {
	db *sql.DB
}

// Open opens the catalog database at path and creates the schema.
func Open(path string) (*Store, error) {
	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const songColumns = `s.id, s.title, s.singers, s.file_path, s.is_premium, s.duration_ms, s.listen_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (Song, error) {
	var (
		song     Song
		singers  string
		duration sql.NullInt64
	)
	err := row.Scan(&song.ID, &song.Title, &singers, &song.FilePath, &song.IsPremium, &duration, &song.ListenCount)
	if err != nil {
		return Song{}, err
	}
	if singers != "" {
		song.Singers = strings.Split(singers, singerSep)
	}
	song.Duration = time.Duration(dbutil.NullInt64Value(duration)) * time.Millisecond
	return song, nil
}

// Song returns the song with id.
func (s *Store) Song(ctx context.Context, id string) (Song, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs s WHERE s.id = ?`, id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, fmt.Errorf("song %s: %w", id, ErrNotFound)
	}
	return song, err
}

// Songs returns every song ordered by title.
func (s *Store) Songs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs s ORDER BY s.title COLLATE NOCASE, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Playlist returns the playlist with id and its songs.
func (s *Store) Playlist(ctx context.Context, id string) (Playlist, error) {
	var p Playlist
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, listen_count FROM playlists WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.ListenCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, fmt.Errorf("playlist %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Playlist{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+`
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.position
	`, id)
	if err != nil {
		return Playlist{}, err
	}
	defer rows.Close()

	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return Playlist{}, err
		}
		p.Songs = append(p.Songs, song)
	}
	return p, rows.Err()
}

// IncrementSongListenCount adds one listen to the song.
func (s *Store) IncrementSongListenCount(ctx context.Context, id string) error {
	return s.increment(ctx, "songs", id)
}

// IncrementPlaylistListenCount adds one listen to the playlist.
func (s *Store) IncrementPlaylistListenCount(ctx context.Context, id string) error {
	return s.increment(ctx, "playlists", id)
}

func (s *Store) increment(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET listen_count = listen_count + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(table, "s"), id, ErrNotFound)
	}
	return nil
}

// UpsertSong inserts song, or updates the song stored at the same file
// path. An empty id gets a fresh one. The stored id is returned, and the
// listen counter of an existing row is kept.
func (s *Store) UpsertSong(ctx context.Context, song playlist.Song) (string, error) {
	return s.upsertSong(ctx, song, 0)
}

func (s *Store) upsertSong(ctx context.Context, song playlist.Song, mtime int64) (string, error) {
	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	var duration sql.NullInt64
	if song.Duration > 0 {
		duration = sql.NullInt64{Int64: song.Duration.Milliseconds(), Valid: true}
	}

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (id, title, singers, file_path, is_premium, duration_ms, mtime)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			title = excluded.title,
			singers = excluded.singers,
			is_premium = excluded.is_premium,
			duration_ms = COALESCE(excluded.duration_ms, songs.duration_ms),
			mtime = excluded.mtime
		RETURNING id
	`, song.ID, song.Title, strings.Join(song.Singers, singerSep), song.FilePath,
		song.IsPremium, duration, mtime).Scan(&id)
	return id, err
}

// CreatePlaylist stores a playlist of the given song ids, in order, and
// returns its id.
func (s *Store) CreatePlaylist(ctx context.Context, name string, songIDs []string) (string, error) {
	id := uuid.NewString()
	err := dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO playlists (id, name, created_at) VALUES (?, ?, ?)`,
			id, name, time.Now().Unix(),
		); err != nil {
			return err
		}
		for i, songID := range songIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO playlist_songs (playlist_id, position, song_id) VALUES (?, ?, ?)`,
				id, i, songID,
			); err != nil {
				return fmt.Errorf("add song %s: %w", songID, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// fileTimes maps stored file paths to their recorded mtime.
func (s *Store) fileTimes(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_path, mtime FROM songs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		times[path] = mtime
	}
	return times, rows.Err()
}

func (s *Store) deleteByPath(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE file_path = ?`, path)
	return err
}
