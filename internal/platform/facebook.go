package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"agency-pulse/internal/entity"
)

const defaultFacebookBaseURL = "https://graph.facebook.com/v19.0"

// NewFacebookAdapter posts through the subscriber's managed Page first and
// falls back to their personal feed.
func NewFacebookAdapter(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultFacebookBaseURL
	}

	return &Adapter{
		Platform: entity.PlatformFacebook,
		Strategies: []Strategy{
			{
				Name: "page_post",
				Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
					if conn.PageID == "" {
						return "", &connectionError{Reason: "no managed page on connection"}
					}

					params := url.Values{}
					params.Set("message", content)
					params.Set("access_token", conn.AccessToken)

					body, err := postForm(ctx, client, fmt.Sprintf("%s/%s/feed", baseURL, conn.PageID), params, nil)
					if err != nil {
						return "", err
					}
					return decodeID(body, "id")
				},
			},
			{
				Name: "user_feed_post",
				Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
					params := url.Values{}
					params.Set("message", content)
					params.Set("access_token", conn.AccessToken)

					body, err := postForm(ctx, client, fmt.Sprintf("%s/me/feed", baseURL), params, nil)
					if err != nil {
						return "", err
					}
					return decodeID(body, "id")
				},
			},
		},
	}
}
