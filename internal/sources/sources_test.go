package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/globalpulse/internal/logging"
	"github.com/jonesrussell/globalpulse/internal/sources"
)

func TestYouTube_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search"):
			assert.Equal(t, "coffee", r.URL.Query().Get("q"))
			assert.Equal(t, "video", r.URL.Query().Get("type"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			_, _ = w.Write([]byte(`{"items": [
				{"id": {"videoId": "vid1"}},
				{"id": {"videoId": "vid2"}}
			]}`))
		case strings.HasPrefix(r.URL.Path, "/commentThreads"):
			videoID := r.URL.Query().Get("videoId")
			_, _ = w.Write([]byte(`{"items": [{
				"id": "thread-` + videoID + `",
				"snippet": {"topLevelComment": {"snippet": {
					"textDisplay": "Great video about coffee",
					"authorDisplayName": "viewer42",
					"publishedAt": "2026-02-01T09:00:00Z"
				}}}
			}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	yt := sources.NewYouTube(sources.YouTubeConfig{APIKey: "test-key", BaseURL: server.URL}, logging.NewNop())

	items := yt.Fetch(context.Background(), "coffee")
	require.Len(t, items, 2)

	assert.Equal(t, "yt_thread-vid1", items[0].ID)
	assert.Equal(t, "youtube", items[0].Source)
	assert.Equal(t, "viewer42", items[0].Author)
	assert.Equal(t, "Great video about coffee", items[0].Text)
	assert.Equal(t, "2026-02-01T09:00:00Z", items[0].CreatedAt)
	assert.Equal(t, "yt_thread-vid2", items[1].ID)
}

func TestYouTube_Fetch_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search"):
			_, _ = w.Write([]byte(`{"items": [
				{"id": {"videoId": "good"}},
				{"id": {"videoId": "bad"}}
			]}`))
		case r.URL.Query().Get("videoId") == "bad":
			w.WriteHeader(http.StatusForbidden)
		default:
			_, _ = w.Write([]byte(`{"items": [{
				"id": "t1",
				"snippet": {"topLevelComment": {"snippet": {"textDisplay": "nice"}}}
			}]}`))
		}
	}))
	defer server.Close()

	yt := sources.NewYouTube(sources.YouTubeConfig{APIKey: "k", BaseURL: server.URL}, logging.NewNop())

	items := yt.Fetch(context.Background(), "anything")
	require.Len(t, items, 1)
	assert.Equal(t, "yt_t1", items[0].ID)
}

func TestYouTube_Fetch_SearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	yt := sources.NewYouTube(sources.YouTubeConfig{APIKey: "k", BaseURL: server.URL}, logging.NewNop())
	assert.Empty(t, yt.Fetch(context.Background(), "anything"))
}

func TestYouTube_Fetch_NoAPIKey(t *testing.T) {
	yt := sources.NewYouTube(sources.YouTubeConfig{}, logging.NewNop())
	assert.Empty(t, yt.Fetch(context.Background(), "anything"))
}

func TestNewsAPI_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "coffee", r.URL.Query().Get("q"))
		assert.Equal(t, "30", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{"articles": [
			{
				"title": "Coffee prices surge",
				"description": "Global supply tightens.",
				"url": "https://example.com/a1",
				"publishedAt": "2026-02-01T08:00:00Z",
				"source": {"name": "Example Times"}
			},
			{
				"title": "Untitled brief",
				"description": "",
				"url": "https://example.com/a2",
				"publishedAt": "2026-02-01T07:00:00Z",
				"source": {}
			}
		]}`))
	}))
	defer server.Close()

	news := sources.NewNewsAPI(sources.NewsAPIConfig{APIKey: "k", BaseURL: server.URL}, logging.NewNop())

	items := news.Fetch(context.Background(), "coffee")
	require.Len(t, items, 2)

	assert.True(t, strings.HasPrefix(items[0].ID, "nw_"))
	assert.Equal(t, "news", items[0].Source)
	assert.Equal(t, "Example Times", items[0].Author)
	assert.Equal(t, "Coffee prices surge. Global supply tightens.", items[0].Text)
	assert.Equal(t, "2026-02-01T08:00:00Z", items[0].CreatedAt)

	// Missing source name and description degrade to defaults.
	assert.Equal(t, "news", items[1].Author)
	assert.Equal(t, "Untitled brief", items[1].Text)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestNewsAPI_Fetch_StableIDs(t *testing.T) {
	payload := `{"articles": [{
		"title": "Same story",
		"url": "https://example.com/story",
		"publishedAt": "2026-02-01T08:00:00Z",
		"source": {"name": "Wire"}
	}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	news := sources.NewNewsAPI(sources.NewsAPIConfig{APIKey: "k", BaseURL: server.URL}, logging.NewNop())

	first := news.Fetch(context.Background(), "story")
	second := news.Fetch(context.Background(), "story")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestNewsAPI_Fetch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	news := sources.NewNewsAPI(sources.NewsAPIConfig{APIKey: "k", BaseURL: server.URL}, logging.NewNop())
	assert.Empty(t, news.Fetch(context.Background(), "anything"))
}

func TestNewsAPI_Fetch_NoAPIKey(t *testing.T) {
	news := sources.NewNewsAPI(sources.NewsAPIConfig{}, logging.NewNop())
	assert.Empty(t, news.Fetch(context.Background(), "anything"))
}
