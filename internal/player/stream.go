package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
)

// maxSourceSize bounds how much audio a single source may buffer.
const maxSourceSize = 512 << 20

// Load swaps the source to rawURL. Decoding happens in the background;
// loadedmetadata and canplaythrough follow once the source is playable.
func (s *StreamSink) Load(rawURL string) uint64 {
	s.mu.Lock()
	s.releaseLocked()
	s.gen++
	gen := s.gen

	if rawURL == "" {
		s.ready = nil
		s.mu.Unlock()
		return gen
	}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	s.cancel = cancel
	s.ready = ready
	s.mu.Unlock()

	s.emit(gen, Event{Kind: EventLoadStart})
	go s.fetch(ctx, gen, rawURL, ready)
	return gen
}

func (s *StreamSink) fetch(ctx context.Context, gen uint64, rawURL string, ready chan struct{}) {
	defer close(ready)

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	data, err := s.download(ctx, rawURL)
	if err == nil {
		streamer, format, err = decode(rawURL, data)
	}
	if err == nil {
		err = initSpeaker(format.SampleRate)
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		if streamer != nil {
			streamer.Close()
		}
		return
	}
	if err != nil {
		if streamer != nil {
			streamer.Close()
		}
		s.loadErr = err
		s.mu.Unlock()
		return
	}

	// Resample if the source's sample rate differs from the speaker's
	var playStreamer beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	s.streamer = streamer
	s.format = format
	s.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: true}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2}
	s.applyVolumeLocked()
	s.state = Paused
	s.playSeqLocked()
	duration := format.SampleRate.D(streamer.Len())
	s.mu.Unlock()

	s.emit(gen, Event{Kind: EventLoadedMetadata, Duration: duration})
	s.emit(gen, Event{Kind: EventCanPlayThrough})
}

func (s *StreamSink) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch source: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceSize))
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}

// memFile gives decoders a seekable view of a downloaded source.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func decode(rawURL string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	ext := sourceExt(rawURL)
	f := memFile{bytes.NewReader(data)}

	switch ext {
	case extMP3:
		return mp3.Decode(f)
	case extFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC files)
		if err := skipID3v2(f); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %q", ext)
	}
}

func sourceExt(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}

// IsStreamable reports whether the sink can decode the file at p.
func IsStreamable(p string) bool {
	switch sourceExt(p) {
	case extMP3, extFLAC:
		return true
	default:
		return false
	}
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the stream.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n < 10 {
		// Too small to carry a tag, seek back to start
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	if string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
