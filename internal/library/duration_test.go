package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClockDuration(t *testing.T) {
	tests := []struct {
		in      string
		seconds int
		ok      bool
	}{
		{"3:45", 225, true},
		{"0:30", 30, true},
		{"0:00", 0, true},
		{"61:40", 3700, true},
		{"10:05", 605, true},
		{"1:02:03", 0, false}, // hours form is not accepted
		{"Live", 0, false},
		{"N/A", 0, false},
		{"", 0, false},
		{"345", 0, false},
		{"3:xx", 0, false},
		{"x:45", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			secs, ok := parseClockDuration(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.seconds, secs)
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3700, "01:01:40"},
		{3790, "01:03:10"},
		{86400, "24:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatClock(tt.seconds))
	}
}
