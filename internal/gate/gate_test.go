package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/wavecast/internal/playlist"
)

func TestDecide(t *testing.T) {
	free := playlist.Song{ID: "f"}
	premium := playlist.Song{ID: "p", IsPremium: true}

	tests := []struct {
		name string
		song playlist.Song
		auth Auth
		want Access
	}{
		{"free anonymous", free, Static{}, Full},
		{"free nil auth", free, nil, Full},
		{"premium anonymous", premium, Static{}, Blocked},
		{"premium nil auth", premium, nil, Blocked},
		{"premium free user", premium, Static{Authenticated: true}, Preview},
		{"premium premium user", premium, Static{Authenticated: true, Premium: true}, Full},
		{"resolving beats free", free, Static{Resolving: true}, Pending},
		{"resolving beats premium", premium, Static{Authenticated: true, Resolving: true}, Pending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.song, tt.auth))
		})
	}
}

func TestAccess_String(t *testing.T) {
	assert.Equal(t, "Full", Full.String())
	assert.Equal(t, "Preview", Preview.String())
	assert.Equal(t, "Blocked", Blocked.String())
	assert.Equal(t, "Pending", Pending.String())
	assert.Equal(t, "Unknown", Access(9).String())

	assert.True(t, Full.Playable())
	assert.True(t, Preview.Playable())
	assert.False(t, Blocked.Playable())
	assert.False(t, Pending.Playable())
}

func TestPreviewLimit(t *testing.T) {
	assert.Equal(t, 30*time.Second, PreviewLimit(200*time.Second))
	assert.Equal(t, 9*time.Second, PreviewLimit(time.Minute))
	assert.Equal(t, time.Duration(0), PreviewLimit(0))
}

func TestExpired(t *testing.T) {
	d := 200 * time.Second
	assert.False(t, Expired(29*time.Second, d))
	assert.True(t, Expired(30*time.Second, d))
	assert.True(t, Expired(31*time.Second, d))
	assert.False(t, Expired(time.Hour, 0), "unknown duration never expires")
}

func TestClampSeek(t *testing.T) {
	d := 200 * time.Second
	assert.Equal(t, 30*time.Second, ClampSeek(190*time.Second, d))
	assert.Equal(t, 10*time.Second, ClampSeek(10*time.Second, d))
	assert.Equal(t, 190*time.Second, ClampSeek(190*time.Second, 0))
}

func TestSession_PreviewToUpsell(t *testing.T) {
	var s Session
	d := 200 * time.Second

	s.Start(Preview)
	assert.True(t, s.Previewing())
	assert.Equal(t, 30*time.Second, s.Clamp(190*time.Second, d))

	assert.False(t, s.Check(10*time.Second, d))
	assert.True(t, s.Check(30*time.Second, d))
	assert.False(t, s.Previewing())
	assert.True(t, s.PlayingUpsell())

	// Later ticks do not trigger again.
	assert.False(t, s.Check(31*time.Second, d))

	assert.True(t, s.FinishUpsell())
	assert.False(t, s.PlayingUpsell())
	assert.False(t, s.FinishUpsell())
}

func TestSession_FullNeverExpires(t *testing.T) {
	var s Session
	s.Start(Full)

	assert.False(t, s.Check(time.Hour, time.Minute))
	assert.Equal(t, 190*time.Second, s.Clamp(190*time.Second, 200*time.Second))
}

func TestSession_StartAndResetClearUpsell(t *testing.T) {
	var s Session
	s.Start(Preview)
	s.Check(time.Minute, time.Minute)
	assert.True(t, s.PlayingUpsell())

	s.Start(Full)
	assert.False(t, s.PlayingUpsell())

	s.Start(Preview)
	s.Reset()
	assert.False(t, s.Previewing())
	assert.False(t, s.PlayingUpsell())
}
