package platform

import (
	"context"
	"net/http"

	"agency-pulse/internal/entity"
)

const (
	defaultXBaseURL = "https://api.twitter.com"

	// XContentLimit is the platform's character limit per post.
	XContentLimit = 280

	xEllipsis = "..."
)

// TruncateForX tail-truncates content over the platform limit and appends an
// ellipsis, deterministically: the same input always yields the same output.
// Counting is rune-based so multibyte content is never split mid-character.
func TruncateForX(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit-len(xEllipsis)]) + xEllipsis
}

// NewXAdapter posts a single tweet. Content is truncated before send; the
// truncation happens regardless of network outcome.
func NewXAdapter(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultXBaseURL
	}

	return &Adapter{
		Platform: entity.PlatformX,
		Strategies: []Strategy{
			{
				Name: "tweet",
				Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
					payload := map[string]string{
						"text": TruncateForX(content, XContentLimit),
					}

					body, err := postJSON(ctx, client, baseURL+"/2/tweets", payload, bearer(conn.AccessToken))
					if err != nil {
						return "", err
					}

					// v2 wraps the created tweet in a data object.
					return decodeNestedID(body)
				},
			},
		},
	}
}
