package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSearchDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		live    bool
		want    string
	}{
		{"short", 225, false, "3:45"},
		{"padded seconds", 605, false, "10:05"},
		{"over an hour stays minutes", 3700, false, "61:40"},
		{"live without duration", 0, true, "Live"},
		{"live with duration keeps the clock", 225, true, "3:45"},
		{"unknown", 0, false, "N/A"},
		{"negative", -1, false, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSearchDuration(tt.seconds, tt.live))
		})
	}
}

func TestFormatViews(t *testing.T) {
	tests := []struct {
		views int64
		want  string
	}{
		{-1, "N/A"},
		{0, "0 views"},
		{999, "999 views"},
		{1000, "1.0K views"},
		{1500, "1.5K views"},
		{999999, "1000.0K views"},
		{1000000, "1.0M views"},
		{2340000, "2.3M views"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatViews(tt.views))
	}
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "Uploader", channelName("Uploader", "Channel"))
	assert.Equal(t, "Channel", channelName("", "Channel"))
	assert.Equal(t, "Unknown Channel", channelName("", ""))
}

func TestThumbnailOrDefault(t *testing.T) {
	assert.Equal(t, "https://example.com/t.jpg", thumbnailOrDefault("https://example.com/t.jpg", "abc"))
	assert.Equal(t, "https://img.youtube.com/vi/abc/maxresdefault.jpg", thumbnailOrDefault("", "abc"))
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", watchURL("dQw4w9WgXcQ"))
}

func TestParseISO8601Duration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT3M45S", 225},
		{"PT1H1M40S", 3700},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT0S", 0},
		{"P1DT2H", 0}, // day component is not supported
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseISO8601Duration(tt.in), "input %q", tt.in)
	}
}
