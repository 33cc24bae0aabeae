package api

import (
	"time"

	"github.com/llehouerou/wavecast/internal/playlist"
)

// Song is the wire form of a song. Duration is in seconds.
type Song struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Singers     []string `json:"singers"`
	FilePath    string   `json:"filePath"`
	IsPremium   bool     `json:"isPremium"`
	Duration    float64  `json:"duration,omitempty"`
	ListenCount int64    `json:"listenCount"`
}

// Playlist is the wire form of a playlist with its songs.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Songs       []Song `json:"songs"`
	ListenCount int64  `json:"listenCount"`
}

// ToSong converts to the playback model.
func (s Song) ToSong() playlist.Song {
	return playlist.Song{
		ID:        s.ID,
		Title:     s.Title,
		Singers:   s.Singers,
		FilePath:  s.FilePath,
		IsPremium: s.IsPremium,
		Duration:  time.Duration(s.Duration * float64(time.Second)),
	}
}

// FromSong converts from the playback model.
func FromSong(s playlist.Song, listens int64) Song {
	return Song{
		ID:          s.ID,
		Title:       s.Title,
		Singers:     s.Singers,
		FilePath:    s.FilePath,
		IsPremium:   s.IsPremium,
		Duration:    s.Duration.Seconds(),
		ListenCount: listens,
	}
}

// ToPlaylist converts to the playback model.
func (p Playlist) ToPlaylist() playlist.Playlist {
	songs := make([]playlist.Song, len(p.Songs))
	for i, s := range p.Songs {
		songs[i] = s.ToSong()
	}
	return playlist.Playlist{ID: p.ID, Name: p.Name, Songs: songs}
}
