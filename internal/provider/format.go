package provider

import (
	"fmt"
	"regexp"
	"strconv"
)

const watchURLTemplate = "https://www.youtube.com/watch?v=%s"
const defaultThumbnailTemplate = "https://img.youtube.com/vi/%s/maxresdefault.jpg"

func watchURL(videoID string) string {
	return fmt.Sprintf(watchURLTemplate, videoID)
}

// channelName applies the uploader -> channel -> "Unknown Channel" fallback
// chain.
func channelName(uploader, channel string) string {
	if uploader != "" {
		return uploader
	}
	if channel != "" {
		return channel
	}
	return "Unknown Channel"
}

// formatSearchDuration renders seconds as "m:ss". Without a usable duration
// live entries show "Live" and everything else "N/A".
func formatSearchDuration(seconds int, live bool) string {
	if seconds > 0 {
		return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
	}
	if live {
		return "Live"
	}
	return "N/A"
}

// formatViews renders a view count with unit suffixes. A negative count
// means the source did not report one.
func formatViews(views int64) string {
	switch {
	case views < 0:
		return "N/A"
	case views >= 1000000:
		return fmt.Sprintf("%.1fM views", float64(views)/1000000)
	case views >= 1000:
		return fmt.Sprintf("%.1fK views", float64(views)/1000)
	default:
		return fmt.Sprintf("%d views", views)
	}
}

// thumbnailOrDefault falls back to the platform's deterministic thumbnail
// URL when the source offered none.
func thumbnailOrDefault(thumbnail, videoID string) string {
	if thumbnail != "" {
		return thumbnail
	}
	return fmt.Sprintf(defaultThumbnailTemplate, videoID)
}

var iso8601DurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration converts the video API's "PT#H#M#S" form to seconds.
// Unparseable input yields 0.
func parseISO8601Duration(duration string) int {
	matches := iso8601DurationRe.FindStringSubmatch(duration)
	if matches == nil {
		return 0
	}
	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	s, _ := strconv.Atoi(matches[3])
	return h*3600 + m*60 + s
}
