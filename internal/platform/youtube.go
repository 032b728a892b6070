package platform

import (
	"context"
	"fmt"
	"net/http"

	"agency-pulse/internal/entity"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// NewYouTubeAdapter posts to the subscriber's channel community tab. A
// connection without a channel is a hard failure.
func NewYouTubeAdapter(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}

	return &Adapter{
		Platform: entity.PlatformYouTube,
		Strategies: []Strategy{
			{
				Name: "community_post",
				Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
					if conn.ChannelID == "" {
						return "", &connectionError{Reason: "no channel on connection"}
					}

					payload := map[string]interface{}{
						"snippet": map[string]interface{}{
							"channelId":   conn.ChannelID,
							"description": content,
						},
					}

					body, err := postJSON(ctx, client, fmt.Sprintf("%s/communityPosts?part=snippet", baseURL), payload, bearer(conn.AccessToken))
					if err != nil {
						return "", err
					}
					return decodeID(body, "id")
				},
			},
		},
	}
}
