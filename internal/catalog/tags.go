package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	goflac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacvorbis"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
)

// supported reports whether path has an extension the stream sink decodes.
func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC:
		return true
	}
	return false
}

// fileTags holds the metadata the catalog keeps from an audio file.
type fileTags struct {
	Title   string
	Singers []string
}

// readTags reads title and artist from an audio file. The title falls back
// to the file name without extension.
func readTags(path string) (fileTags, error) {
	t, err := readWithTag(path)
	if err != nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case extMP3:
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			t, err = readMP3(path)
		case extFLAC:
			t, err = readFLAC(path)
		}
		if err != nil {
			return fileTags{}, err
		}
	}
	if t.Title == "" {
		t.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

func readWithTag(path string) (fileTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileTags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return fileTags{}, err
	}
	return fileTags{Title: m.Title(), Singers: splitSingers(m.Artist())}, nil
}

func readMP3(path string) (fileTags, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fileTags{}, err
	}
	defer t.Close()
	return fileTags{Title: t.Title(), Singers: splitSingers(t.Artist())}, nil
}

func readFLAC(path string) (fileTags, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return fileTags{}, err
	}
	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return fileTags{}, err
		}
		var t fileTags
		if v, _ := cmts.Get(flacvorbis.FIELD_TITLE); len(v) > 0 {
			t.Title = v[0]
		}
		artists, _ := cmts.Get(flacvorbis.FIELD_ARTIST)
		for _, a := range artists {
			t.Singers = append(t.Singers, splitSingers(a)...)
		}
		return t, nil
	}
	return fileTags{}, nil
}

// splitSingers splits a tag artist field on semicolons.
func splitSingers(artist string) []string {
	var singers []string
	for _, part := range strings.Split(artist, ";") {
		if part = strings.TrimSpace(part); part != "" {
			singers = append(singers, part)
		}
	}
	return singers
}
