package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubeClient performs keyword search against the platform's data API and
// enriches the hits with durations, view counts and live state from the
// videos endpoint.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

func NewYouTubeClient(apiKey, baseURL string, logger *log.Logger) *YouTubeClient {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title                string `json:"title"`
			ChannelTitle         string `json:"channelTitle"`
			LiveBroadcastContent string `json:"liveBroadcastContent"`
			Thumbnails           struct {
				Default  ytThumbnail `json:"default"`
				Medium   ytThumbnail `json:"medium"`
				High     ytThumbnail `json:"high"`
				Standard ytThumbnail `json:"standard"`
				MaxRes   ytThumbnail `json:"maxres"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type videoDetail struct {
	durationSeconds int
	views           int64
}

// Search returns up to limit formatted results. Entries the source returns
// without an id are dropped before the cap is applied.
func (c *YouTubeClient) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("maxResults", strconv.Itoa(limit))
	val.Set("q", query)
	val.Set("key", c.apiKey)

	var body ytSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search?"+val.Encode(), &body); err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	var videoIDs []string
	for _, it := range body.Items {
		if it.ID.VideoID != "" {
			videoIDs = append(videoIDs, it.ID.VideoID)
		}
	}

	details := map[string]videoDetail{}
	if len(videoIDs) > 0 {
		var err error
		details, err = c.fetchDetails(ctx, videoIDs)
		if err != nil {
			// Return results without duration/view enrichment.
			c.logger.Warn("fetch video details", "err", err)
			details = map[string]videoDetail{}
		}
	}

	out := make([]SearchResult, 0, len(videoIDs))
	for _, it := range body.Items {
		id := it.ID.VideoID
		if id == "" {
			continue
		}
		detail, enriched := details[id]
		live := it.Snippet.LiveBroadcastContent == "live"

		duration := formatSearchDuration(0, live)
		views := "N/A"
		if enriched {
			duration = formatSearchDuration(detail.durationSeconds, live)
			views = formatViews(detail.views)
		}

		thumbs := it.Snippet.Thumbnails
		thumb := thumbs.MaxRes.URL
		if thumb == "" {
			thumb = thumbs.Standard.URL
		}
		if thumb == "" {
			thumb = thumbs.High.URL
		}
		if thumb == "" {
			thumb = thumbs.Medium.URL
		}
		if thumb == "" {
			thumb = thumbs.Default.URL
		}

		out = append(out, SearchResult{
			ID:        id,
			Title:     it.Snippet.Title,
			Channel:   channelName(it.Snippet.ChannelTitle, ""),
			Duration:  duration,
			Views:     views,
			Thumbnail: thumbnailOrDefault(thumb, id),
			URL:       watchURL(id),
		})
		if len(out) == limit {
			break
		}
	}

	return out, nil
}

func (c *YouTubeClient) fetchDetails(ctx context.Context, ids []string) (map[string]videoDetail, error) {
	val := url.Values{}
	val.Set("part", "contentDetails,statistics")
	val.Set("id", strings.Join(ids, ","))
	val.Set("key", c.apiKey)

	var body ytVideosResponse
	if err := c.getJSON(ctx, c.baseURL+"/videos?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	details := make(map[string]videoDetail, len(body.Items))
	for _, item := range body.Items {
		views := int64(-1)
		if v, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64); err == nil {
			views = v
		}
		details[item.ID] = videoDetail{
			durationSeconds: parseISO8601Duration(item.ContentDetails.Duration),
			views:           views,
		}
	}
	return details, nil
}

func (c *YouTubeClient) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
