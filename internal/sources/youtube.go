package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/logging"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	maxVideosPerSearch    = 5
	maxCommentsPerVideo   = 20
)

// YouTubeConfig holds YouTube source construction parameters.
type YouTubeConfig struct {
	APIKey  string
	BaseURL string // defaults to the public Data API v3 endpoint
	Timeout time.Duration
}

// YouTube fetches top-level comments from the most relevant videos for a
// keyword via the YouTube Data API v3.
type YouTube struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewYouTube creates a YouTube source.
func NewYouTube(cfg YouTubeConfig, logger logging.Logger) *YouTube {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	return &YouTube{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  newHTTPClient(cfg.Timeout),
		logger:  logger,
	}
}

// Name returns the source tag stored on records.
func (y *YouTube) Name() string { return "youtube" }

// Fetch searches for videos matching the keyword and returns their top
// comments. Every failure degrades to an empty or partial batch.
func (y *YouTube) Fetch(ctx context.Context, keyword string) []domain.RawItem {
	if y.apiKey == "" {
		y.logger.Debug("YouTube source disabled, no API key")
		return nil
	}

	videoIDs, err := y.searchVideos(ctx, keyword)
	if err != nil {
		y.logger.Warn("YouTube search failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		return nil
	}

	var items []domain.RawItem
	for _, videoID := range videoIDs {
		comments, commentsErr := y.comments(ctx, videoID)
		if commentsErr != nil {
			y.logger.Warn("YouTube comments fetch failed",
				logging.String("video_id", videoID),
				logging.Error(commentsErr))
			continue
		}
		items = append(items, comments...)
	}

	return items
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

func (y *YouTube) searchVideos(ctx context.Context, keyword string) ([]string, error) {
	query := url.Values{}
	query.Set("part", "id")
	query.Set("q", keyword)
	query.Set("type", "video")
	query.Set("maxResults", fmt.Sprint(maxVideosPerSearch))
	query.Set("key", y.apiKey)

	var resp ytSearchResponse
	if err := getJSON(ctx, y.client, y.baseURL+"/search?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

type ytCommentsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay       string `json:"textDisplay"`
					AuthorDisplayName string `json:"authorDisplayName"`
					PublishedAt       string `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

func (y *YouTube) comments(ctx context.Context, videoID string) ([]domain.RawItem, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("videoId", videoID)
	query.Set("maxResults", fmt.Sprint(maxCommentsPerVideo))
	query.Set("textFormat", "plainText")
	query.Set("key", y.apiKey)

	var resp ytCommentsResponse
	if err := getJSON(ctx, y.client, y.baseURL+"/commentThreads?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	items := make([]domain.RawItem, 0, len(resp.Items))
	for _, thread := range resp.Items {
		snippet := thread.Snippet.TopLevelComment.Snippet
		items = append(items, domain.RawItem{
			ID:        "yt_" + thread.ID,
			Source:    y.Name(),
			Author:    snippet.AuthorDisplayName,
			Text:      snippet.TextDisplay,
			CreatedAt: snippet.PublishedAt,
		})
	}
	return items, nil
}
