package player

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKind_String(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventTimeUpdate, "timeupdate"},
		{EventLoadedMetadata, "loadedmetadata"},
		{EventEnded, "ended"},
		{EventLoadStart, "loadstart"},
		{EventCanPlayThrough, "canplaythrough"},
		{EventPlay, "play"},
		{EventPause, "pause"},
		{EventKind(42), "event(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestLevelToVolume(t *testing.T) {
	assert.InDelta(t, 0, levelToVolume(1), 1e-9)
	assert.InDelta(t, -1, levelToVolume(0.5), 1e-9)
	assert.InDelta(t, -2, levelToVolume(0.25), 1e-9)
	assert.InDelta(t, -10, levelToVolume(0), 1e-9)
}

func TestSourceExt(t *testing.T) {
	assert.Equal(t, ".mp3", sourceExt("http://host/media/a/b.MP3"))
	assert.Equal(t, ".flac", sourceExt("http://host/media/song.flac?sig=abc"))
	assert.Equal(t, ".mp3", sourceExt("songs/local.mp3"))
	assert.Empty(t, sourceExt("http://host/media/noext"))

	assert.True(t, IsStreamable("x/y.flac"))
	assert.False(t, IsStreamable("x/y.ogg"))
}

func TestSkipID3v2(t *testing.T) {
	t.Run("no tag rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("fLaC0123456789"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("tag is skipped", func(t *testing.T) {
		header := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5}
		data := append(header, []byte("12345fLaC")...)
		r := bytes.NewReader(data)
		require.NoError(t, skipID3v2(r))
		rest, _ := io.ReadAll(r)
		assert.Equal(t, "fLaC", string(rest))
	})

	t.Run("short input rewinds", func(t *testing.T) {
		r := bytes.NewReader([]byte("ID3"))
		require.NoError(t, skipID3v2(r))
		pos, _ := r.Seek(0, io.SeekCurrent)
		assert.Equal(t, int64(0), pos)
	})
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, _, err := decode("http://host/song.wav", []byte("RIFF"))
	assert.Error(t, err)
}

// collector records events delivered by a sink.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) add(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) kinds() []EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]EventKind, len(c.events))
	for i, ev := range c.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func TestStreamSink_PlayWithoutSource(t *testing.T) {
	s := NewStreamSink(nil)
	defer s.Close()

	err := <-s.Play()
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestStreamSink_FailedFetchRejectsPlay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	s := NewStreamSink(srv.Client())
	defer s.Close()

	c := &collector{}
	s.OnEvent(c.add)
	s.Load(srv.URL + "/media/missing.mp3")

	select {
	case err := <-s.Play():
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for play promise")
	}

	require.Eventually(t, func() bool {
		return len(c.kinds()) > 0
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, EventLoadStart, c.kinds()[0])
	assert.Equal(t, Stopped, s.State())
}

func TestStreamSink_EventsCarryLoadedSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewStreamSink(srv.Client())
	defer s.Close()
	c := &collector{}
	s.OnEvent(c.add)

	first := s.Load(srv.URL + "/a.mp3")
	second := s.Load(srv.URL + "/b.mp3")
	assert.Greater(t, second, first)

	require.Eventually(t, func() bool {
		return len(c.kinds()) == 2
	}, time.Second, 10*time.Millisecond)
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, first, c.events[0].Source)
	assert.Equal(t, second, c.events[1].Source)
}

func TestMock_EmitStampsCurrentSource(t *testing.T) {
	m := NewMock()
	c := &collector{}
	m.OnEvent(c.add)

	old := m.Load("http://host/a.mp3")
	cur := m.Load("http://host/b.mp3")
	m.Emit(Event{Kind: EventTimeUpdate, Position: time.Second})
	m.Emit(Event{Kind: EventTimeUpdate, Position: time.Minute, Source: old})

	c.mu.Lock()
	assert.Equal(t, cur, c.events[0].Source)
	assert.Equal(t, old, c.events[1].Source)
	c.mu.Unlock()
	assert.Equal(t, time.Second, m.Position(), "stale events leave the position alone")
}

func TestStreamSink_LoadSupersedesPendingPlay(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()
	defer close(release)

	s := NewStreamSink(srv.Client())
	defer s.Close()

	s.Load(srv.URL + "/slow.mp3")
	promise := s.Play()
	s.Load("")

	select {
	case err := <-promise:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for superseded promise")
	}
}

func TestStreamSink_VolumeClamped(t *testing.T) {
	s := NewStreamSink(nil)
	defer s.Close()

	s.SetVolume(1.5)
	assert.InDelta(t, 1, s.Volume(), 1e-9)
	s.SetVolume(-0.2)
	assert.InDelta(t, 0, s.Volume(), 1e-9)
	s.SetVolume(0.4)
	assert.InDelta(t, 0.4, s.Volume(), 1e-9)
}

func TestMock_PlayPromise(t *testing.T) {
	m := NewMock()
	m.Load("http://host/a.mp3")

	assert.NoError(t, <-m.Play())
	assert.Equal(t, Playing, m.State())

	m.SetPlayError(errors.New("autoplay blocked"))
	assert.Error(t, <-m.Play())
}

func TestMock_HeldPromiseResolvesInOrder(t *testing.T) {
	m := NewMock()
	m.HoldPlay(true)
	m.Load("http://host/a.mp3")

	first := m.Play()
	second := m.Play()

	require.True(t, m.ResolvePlay(nil))
	require.True(t, m.ResolvePlay(errors.New("rejected")))
	assert.False(t, m.ResolvePlay(nil))

	assert.NoError(t, <-first)
	assert.Error(t, <-second)
}

func TestMock_EmitDeliversToListener(t *testing.T) {
	m := NewMock()
	c := &collector{}
	m.OnEvent(c.add)

	m.Emit(Event{Kind: EventTimeUpdate, Position: 3 * time.Second})
	m.OnEvent(nil)
	m.Emit(Event{Kind: EventEnded})

	assert.Equal(t, []EventKind{EventTimeUpdate}, c.kinds())
	assert.Equal(t, 3*time.Second, m.Position())
}
