package youtube

import (
	"context"
	"fmt"
	"html"
	"strings"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"benri/internal/logging"
)

// DefaultMaxResults matches the API default page size the searcher asks for.
const DefaultMaxResults = 10

// Video is one search hit.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	URL          string `json:"url"`
}

// Searcher wraps the YouTube Data API search endpoint.
type Searcher struct {
	service *youtubeapi.Service
	logger  logging.Logger
}

// NewSearcher builds a Searcher from an API key.
func NewSearcher(ctx context.Context, apiKey string, logger logging.Logger) (*Searcher, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("youtube searcher requires an API key")
	}
	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("build youtube service: %w", err)
	}
	return &Searcher{service: service, logger: logging.OrNop(logger)}, nil
}

// Search returns up to maxResults videos for a keyword, most relevant first.
func (s *Searcher) Search(ctx context.Context, keyword string, maxResults int) ([]Video, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	call := s.service.Search.List([]string{"snippet"}).
		Q(keyword).
		Type("video").
		MaxResults(int64(maxResults)).
		Order("relevance").
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", keyword, err)
	}

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		videos = append(videos, Video{
			ID:           item.Id.VideoId,
			Title:        html.UnescapeString(item.Snippet.Title),
			ChannelTitle: item.Snippet.ChannelTitle,
			URL:          "https://www.youtube.com/watch?v=" + item.Id.VideoId,
		})
	}
	s.logger.Debug("youtube search %q returned %d videos", keyword, len(videos))
	return videos, nil
}

// FormatResults renders hits the way the CLI prints them.
func FormatResults(videos []Video) string {
	if len(videos) == 0 {
		return "検索結果が見つかりませんでした。"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "=== 検索結果 (%d件) ===\n\n", len(videos))
	for i, v := range videos {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, v.Title, v.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}
