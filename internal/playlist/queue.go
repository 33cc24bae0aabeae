package playlist

import "github.com/samber/lo"

// Rand picks random indexes; *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Queue is the ordered list of songs eligible for playback plus the
// position of the current one. Songs are identified by position, so the
// same song may appear more than once.
type Queue struct {
	songs        []Song
	currentIndex int // -1 if nothing selected
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{currentIndex: -1}
}

// Current returns the song at the current index, or nil if none.
func (q *Queue) Current() *Song {
	return q.Song(q.currentIndex)
}

// CurrentIndex returns the index of the current song (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Song returns the song at index, or nil if out of bounds.
func (q *Queue) Song(index int) *Song {
	if index < 0 || index >= len(q.songs) {
		return nil
	}
	s := q.songs[index]
	return &s
}

// Songs returns a copy of all songs.
func (q *Queue) Songs() []Song {
	result := make([]Song, len(q.songs))
	copy(result, q.songs)
	return result
}

// Len returns the number of songs.
func (q *Queue) Len() int {
	return len(q.songs)
}

// IsEmpty returns true if the queue has no songs.
func (q *Queue) IsEmpty() bool {
	return len(q.songs) == 0
}

// IndexOf returns the position of the first song with the given id, or -1.
func (q *Queue) IndexOf(id string) int {
	_, idx, ok := lo.FindIndexOf(q.songs, func(s Song) bool { return s.ID == id })
	if !ok {
		return -1
	}
	return idx
}

// Contains returns true if a song with the given id is queued.
func (q *Queue) Contains(id string) bool {
	return lo.ContainsBy(q.songs, func(s Song) bool { return s.ID == id })
}

// JumpTo sets the current index to the specified position.
// Returns the song at that position, or nil if invalid.
func (q *Queue) JumpTo(index int) *Song {
	if index < 0 || index >= len(q.songs) {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Replace swaps the whole queue for songs and points at the first song
// with currentID, falling back to the first song.
// Returns the current song, or nil if songs is empty.
func (q *Queue) Replace(songs []Song, currentID string) *Song {
	q.songs = append(make([]Song, 0, len(songs)), songs...)
	q.currentIndex = -1
	if len(q.songs) == 0 {
		return nil
	}
	q.currentIndex = max(q.IndexOf(currentID), 0)
	return q.Current()
}

// Append adds song at the end without checking for duplicates.
// Returns the index of the new song.
func (q *Queue) Append(song Song) int {
	q.songs = append(q.songs, song)
	return len(q.songs) - 1
}

// Add appends song unless a song with the same id is already queued.
// Returns false if the song was already present.
func (q *Queue) Add(song Song) bool {
	if q.Contains(song.ID) {
		return false
	}
	q.Append(song)
	return true
}

// RemoveAt removes the song at index and keeps the current index on the
// same logical song. When the current song itself is removed the index
// keeps its value, now pointing at the following song, and wraps to 0
// if the removed song was the last one.
// Returns false if index is out of bounds.
func (q *Queue) RemoveAt(index int) bool {
	if index < 0 || index >= len(q.songs) {
		return false
	}
	q.songs = append(q.songs[:index], q.songs[index+1:]...)

	switch {
	case len(q.songs) == 0:
		q.currentIndex = -1
	case q.currentIndex > index:
		q.currentIndex--
	case q.currentIndex == index && q.currentIndex >= len(q.songs):
		q.currentIndex = 0
	}
	return true
}

// Clear removes all songs and resets the current index.
func (q *Queue) Clear() {
	q.songs = nil
	q.currentIndex = -1
}

// NextIndex returns the index that follows the current one: sequential
// with wraparound, or a random other index when shuffle is on.
// Returns -1 if the queue is empty.
func (q *Queue) NextIndex(shuffle bool, r Rand) int {
	n := len(q.songs)
	if n == 0 {
		return -1
	}
	if shuffle {
		return q.shufflePick(r)
	}
	return (q.currentIndex + 1) % n
}

// PreviousIndex mirrors NextIndex backwards.
func (q *Queue) PreviousIndex(shuffle bool, r Rand) int {
	n := len(q.songs)
	if n == 0 {
		return -1
	}
	if shuffle {
		return q.shufflePick(r)
	}
	if q.currentIndex <= 0 {
		return n - 1
	}
	return q.currentIndex - 1
}

// shufflePick draws a uniform index and re-rolls once among the other
// indexes when it hits the current one.
func (q *Queue) shufflePick(r Rand) int {
	n := len(q.songs)
	idx := r.IntN(n)
	if idx != q.currentIndex || n == 1 {
		return idx
	}
	idx = r.IntN(n - 1)
	if idx >= q.currentIndex {
		idx++
	}
	return idx
}
