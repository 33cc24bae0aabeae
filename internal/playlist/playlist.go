package playlist

import (
	"strings"
	"time"
)

// Song is a streamable track as served by the backend.
type Song struct {
	ID        string
	Title     string
	Singers   []string
	FilePath  string // relative to the media base URL
	IsPremium bool
	Duration  time.Duration // 0 until known
}

// Artist joins the singers for display.
func (s Song) Artist() string {
	return strings.Join(s.Singers, ", ")
}

// Playlist is a named, ordered collection of songs.
type Playlist struct {
	ID    string
	Name  string
	Songs []Song
}

// Len returns the number of songs.
func (p Playlist) Len() int {
	return len(p.Songs)
}

// First returns the first song, or nil if the playlist is empty.
func (p Playlist) First() *Song {
	if len(p.Songs) == 0 {
		return nil
	}
	s := p.Songs[0]
	return &s
}
