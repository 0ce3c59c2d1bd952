// Package youtube searches videos through the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("youtube api key not configured")
	// ErrUpstream wraps non-2xx answers from the API
	ErrUpstream = errors.New("youtube api error")
)

// AllowedResults are the page sizes a search may ask for
var AllowedResults = []int{10, 15, 20, 25, 30, 50}

// IsAllowedResults reports whether n is one of AllowedResults
func IsAllowedResults(n int) bool {
	for _, a := range AllowedResults {
		if a == n {
			return true
		}
	}
	return false
}

// Video is one search hit
type Video struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channel"`
	URL         string `json:"url"`
}

// Config configures a Client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the search endpoint
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient creates a Client; an empty API key yields a client whose searches fail with ErrNotConfigured
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		apiKey: cfg.APIKey,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search returns up to maxResults videos matching query
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	var result searchResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"type":       "video",
			"q":          query,
			"maxResults": strconv.Itoa(maxResults),
			"key":        c.apiKey,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode(), apiErr.Error.Message)
	}

	videos := make([]Video, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   pickThumbnail(item.Snippet.Thumbnails),
			Channel:     item.Snippet.ChannelTitle,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}
	return videos, nil
}

func pickThumbnail(thumbs map[string]struct {
	URL string `json:"url"`
}) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
