package sources

import (
	"context"
	"crypto/md5" //nolint:gosec // non-cryptographic, stable article ID
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/logging"
)

const (
	defaultNewsAPIBaseURL = "https://newsapi.org/v2"
	maxArticlesPerFetch   = 30
)

// NewsAPIConfig holds NewsAPI source construction parameters.
type NewsAPIConfig struct {
	APIKey  string
	BaseURL string // defaults to the public newsapi.org endpoint
	Timeout time.Duration
}

// NewsAPI fetches recent articles mentioning a keyword from newsapi.org.
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewNewsAPI creates a NewsAPI source.
func NewNewsAPI(cfg NewsAPIConfig, logger logging.Logger) *NewsAPI {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultNewsAPIBaseURL
	}
	return &NewsAPI{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  newHTTPClient(cfg.Timeout),
		logger:  logger,
	}
}

// Name returns the source tag stored on records.
func (n *NewsAPI) Name() string { return "news" }

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch returns recent articles as raw items. The article URL keys the
// item ID, so re-fetching the same article stays idempotent. Any failure
// degrades to an empty batch.
func (n *NewsAPI) Fetch(ctx context.Context, keyword string) []domain.RawItem {
	if n.apiKey == "" {
		n.logger.Debug("NewsAPI source disabled, no API key")
		return nil
	}

	query := url.Values{}
	query.Set("q", keyword)
	query.Set("pageSize", fmt.Sprint(maxArticlesPerFetch))
	query.Set("sortBy", "publishedAt")
	query.Set("apiKey", n.apiKey)

	var resp newsResponse
	if err := getJSON(ctx, n.client, n.baseURL+"/everything?"+query.Encode(), &resp); err != nil {
		n.logger.Warn("NewsAPI fetch failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		return nil
	}

	items := make([]domain.RawItem, 0, len(resp.Articles))
	for _, article := range resp.Articles {
		author := article.Source.Name
		if author == "" {
			author = "news"
		}
		text := article.Title
		if article.Description != "" {
			text += ". " + article.Description
		}
		items = append(items, domain.RawItem{
			ID:        "nw_" + articleID(article.URL, article.Title),
			Source:    n.Name(),
			Author:    author,
			Text:      text,
			CreatedAt: article.PublishedAt,
		})
	}
	return items
}

func articleID(articleURL, title string) string {
	key := articleURL
	if key == "" {
		key = title
	}
	sum := md5.Sum([]byte(key)) //nolint:gosec // non-cryptographic, stable article ID
	return hex.EncodeToString(sum[:])
}
