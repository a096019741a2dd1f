package provider

// SearchResult is one entry of a keyword search, already formatted for
// display (duration, views) the way the UI consumes it.
type SearchResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Duration  string `json:"duration"` // "m:ss", "Live" or "N/A"
	Views     string `json:"views"`    // "1.2M views", "3.4K views", "512 views" or "N/A"
	Thumbnail string `json:"thumbnail,omitempty"`
	URL       string `json:"url"`
}

// AudioStream describes a resolved, directly playable audio URL.
type AudioStream struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"` // seconds
	AudioURL string `json:"audio_url"`
	VideoID  string `json:"video_id"`
}

// MediaFormat is the neutral shape the audio selection policy works on.
// Empty or "none" codec strings mean the stream lacks that track.
type MediaFormat struct {
	URL        string
	AudioCodec string
	VideoCodec string
	AvgBitrate int // abr, preferred when declared
	Bitrate    int // tbr fallback
}
