package platform

import (
	"context"
	"net/http"

	"agency-pulse/internal/entity"
)

const defaultLinkedInBaseURL = "https://api.linkedin.com"

// NewLinkedInAdapter posts a profile-authored UGC post. A 401-class response
// classifies as auth_expired so the enforcer waits for a reconnect instead
// of hammering a dead token.
func NewLinkedInAdapter(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultLinkedInBaseURL
	}

	return &Adapter{
		Platform: entity.PlatformLinkedIn,
		Strategies: []Strategy{
			{
				Name: "profile_ugc_post",
				Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
					if conn.ProfileURN == "" {
						return "", &connectionError{Reason: "no profile urn on connection"}
					}

					payload := map[string]interface{}{
						"author":         conn.ProfileURN,
						"lifecycleState": "PUBLISHED",
						"specificContent": map[string]interface{}{
							"com.linkedin.ugc.ShareContent": map[string]interface{}{
								"shareCommentary":    map[string]string{"text": content},
								"shareMediaCategory": "NONE",
							},
						},
						"visibility": map[string]string{
							"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
						},
					}

					headers := bearer(conn.AccessToken)
					headers["X-Restli-Protocol-Version"] = "2.0.0"

					body, err := postJSON(ctx, client, baseURL+"/v2/ugcPosts", payload, headers)
					if err != nil {
						return "", err
					}
					return decodeID(body, "id")
				},
			},
		},
	}
}
