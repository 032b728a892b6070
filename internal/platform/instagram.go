package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"agency-pulse/internal/entity"
)

// NewInstagramAdapter publishes via the Business Account linked through the
// Facebook connection. There is no fallback: an unlinked business account is
// a hard failure the user fixes by reconnecting, not something to retry.
func NewInstagramAdapter(client *http.Client, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultFacebookBaseURL
	}

	return &Adapter{
		Platform: entity.PlatformInstagram,
		Strategies: []Strategy{
			{
				Name: "business_account_post",
				Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
					if conn.BusinessAccountID == "" {
						return "", &connectionError{Reason: "no business account linked to facebook connection"}
					}

					// Two-step Graph flow: create a media container,
					// then publish it.
					params := url.Values{}
					params.Set("caption", content)
					params.Set("access_token", conn.AccessToken)

					body, err := postForm(ctx, client, fmt.Sprintf("%s/%s/media", baseURL, conn.BusinessAccountID), params, nil)
					if err != nil {
						return "", err
					}
					creationID, err := decodeID(body, "id")
					if err != nil {
						return "", err
					}

					publishParams := url.Values{}
					publishParams.Set("creation_id", creationID)
					publishParams.Set("access_token", conn.AccessToken)

					body, err = postForm(ctx, client, fmt.Sprintf("%s/%s/media_publish", baseURL, conn.BusinessAccountID), publishParams, nil)
					if err != nil {
						return "", err
					}
					return decodeID(body, "id")
				},
			},
		},
	}
}
