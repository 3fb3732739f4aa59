package ytvideodata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultOEmbedURL = "https://www.youtube.com/oembed"
	defaultPageURL   = "https://youtu.be/"
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type Config struct {
	OEmbedURL string
	PageURL   string
	Timeout   time.Duration
}

type Client struct {
	httpClient *http.Client
	oembedURL  string
	pageURL    string
}

func New(cfg *Config) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		oembedURL:  defaultOEmbedURL,
		pageURL:    defaultPageURL,
	}
	if cfg == nil {
		return c
	}

	if cfg.OEmbedURL != "" {
		c.oembedURL = cfg.OEmbedURL
	}
	if cfg.PageURL != "" {
		c.pageURL = cfg.PageURL
	}
	if cfg.Timeout > 0 {
		c.httpClient.Timeout = cfg.Timeout
	}

	return c
}

// Get looks the video up through oEmbed and falls back to scraping the watch page
// for videos that refuse embedding.
func (c *Client) Get(ctx context.Context, videoId string) (*VideoData, error) {
	videoData, err := c.getVideoWithEmbed(ctx, videoId)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, videoId)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	return videoData, nil
}

// Title returns only the title, ErrVideoNotFound when the lookup yields none.
func (c *Client) Title(ctx context.Context, videoId string) (string, error) {
	videoData, err := c.Get(ctx, videoId)
	if err != nil {
		return "", err
	}

	if videoData.Title == "" {
		return "", ErrVideoNotFound
	}

	return videoData.Title, nil
}
