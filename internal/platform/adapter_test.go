package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agency-pulse/internal/entity"

	"github.com/stretchr/testify/assert"
)

func stubStrategy(name string, id string, err error, calls *[]string) Strategy {
	return Strategy{
		Name: name,
		Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
			*calls = append(*calls, name)
			if err != nil {
				return "", err
			}
			return id, nil
		},
	}
}

func TestAdapter_FirstStrategyWins(t *testing.T) {
	var calls []string
	adapter := &Adapter{
		Platform: entity.PlatformFacebook,
		Strategies: []Strategy{
			stubStrategy("primary", "id-1", nil, &calls),
			stubStrategy("fallback", "id-2", nil, &calls),
		},
	}

	res := adapter.Attempt(context.Background(), &entity.PlatformConnection{}, "hello")

	assert.True(t, res.Success)
	assert.Equal(t, "id-1", res.PlatformPostID)
	assert.Equal(t, "primary", res.StrategyUsed)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, []string{"primary"}, calls)
}

func TestAdapter_FallbackOrdering(t *testing.T) {
	var calls []string
	adapter := &Adapter{
		Platform: entity.PlatformFacebook,
		Strategies: []Strategy{
			stubStrategy("primary", "", &apiError{Status: 500}, &calls),
			stubStrategy("secondary", "", &apiError{Status: 500}, &calls),
			stubStrategy("tertiary", "id-3", nil, &calls),
		},
	}

	res := adapter.Attempt(context.Background(), &entity.PlatformConnection{}, "hello")

	assert.True(t, res.Success)
	assert.Equal(t, "id-3", res.PlatformPostID)
	assert.Equal(t, "tertiary", res.StrategyUsed)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, []string{"primary", "secondary", "tertiary"}, calls)
}

func TestAdapter_AllStrategiesFail(t *testing.T) {
	var calls []string
	adapter := &Adapter{
		Platform: entity.PlatformLinkedIn,
		Strategies: []Strategy{
			stubStrategy("first", "", &apiError{Status: 500}, &calls),
			stubStrategy("last", "", &apiError{Status: 401}, &calls),
		},
	}

	res := adapter.Attempt(context.Background(), &entity.PlatformConnection{}, "hello")

	assert.False(t, res.Success)
	assert.Equal(t, "last", res.StrategyUsed)
	assert.True(t, res.FallbackUsed)
	// The reported class is the last strategy's classified error.
	assert.Equal(t, entity.ErrClassAuthExpired, res.ErrorClass)
	assert.Error(t, res.Err)
	assert.True(t, strings.Contains(res.Err.Error(), "linkedin last"))
}

func TestAdapter_NoStrategies(t *testing.T) {
	adapter := &Adapter{Platform: entity.PlatformX}

	res := adapter.Attempt(context.Background(), &entity.PlatformConnection{}, "hello")

	assert.False(t, res.Success)
	assert.Equal(t, entity.ErrClassNetworkTransient, res.ErrorClass)
	assert.Error(t, res.Err)
}

func TestRegistry_AllPlatformsRegistered(t *testing.T) {
	registry := NewRegistry(Config{})

	for _, p := range []entity.Platform{
		entity.PlatformFacebook,
		entity.PlatformInstagram,
		entity.PlatformLinkedIn,
		entity.PlatformX,
		entity.PlatformYouTube,
	} {
		adapter, err := registry.For(p)
		assert.NoError(t, err)
		assert.NotNil(t, adapter)
		assert.Equal(t, p, adapter.Platform)
	}
}

func TestRegistry_UnknownPlatform(t *testing.T) {
	registry := NewRegistry(Config{})

	_, err := registry.For(entity.Platform("myspace"))
	assert.Error(t, err)
}

func TestFacebookAdapter_PageThenUserFeedFallback(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.HasPrefix(r.URL.Path, "/page-1/") {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"page unavailable"}`))
			return
		}
		w.Write([]byte(`{"id":"fb-post-9"}`))
	}))
	defer server.Close()

	adapter := NewFacebookAdapter(server.Client(), server.URL)
	conn := &entity.PlatformConnection{AccessToken: "tok", PageID: "page-1", Active: true}

	res := adapter.Attempt(context.Background(), conn, "hello world")

	assert.True(t, res.Success)
	assert.Equal(t, "fb-post-9", res.PlatformPostID)
	assert.Equal(t, "user_feed_post", res.StrategyUsed)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, []string{"/page-1/feed", "/me/feed"}, paths)
}

func TestFacebookAdapter_NoPageSkipsToUserFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/feed", r.URL.Path)
		w.Write([]byte(`{"id":"fb-post-1"}`))
	}))
	defer server.Close()

	adapter := NewFacebookAdapter(server.Client(), server.URL)
	conn := &entity.PlatformConnection{AccessToken: "tok", Active: true}

	res := adapter.Attempt(context.Background(), conn, "hello")

	assert.True(t, res.Success)
	assert.True(t, res.FallbackUsed)
}

func TestLinkedInAdapter_AuthExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer server.Close()

	adapter := NewLinkedInAdapter(server.Client(), server.URL)
	conn := &entity.PlatformConnection{AccessToken: "tok", ProfileURN: "urn:li:person:1", Active: true}

	res := adapter.Attempt(context.Background(), conn, "hello")

	assert.False(t, res.Success)
	assert.Equal(t, entity.ErrClassAuthExpired, res.ErrorClass)
}

func TestInstagramAdapter_MissingBusinessAccount(t *testing.T) {
	adapter := NewInstagramAdapter(http.DefaultClient, "http://unused.invalid")
	conn := &entity.PlatformConnection{AccessToken: "tok", Active: true}

	res := adapter.Attempt(context.Background(), conn, "hello")

	assert.False(t, res.Success)
	assert.Equal(t, entity.ErrClassConnectionMissing, res.ErrorClass)
}

func TestNewRegistryFromAdapters(t *testing.T) {
	custom := &Adapter{
		Platform: entity.PlatformX,
		Strategies: []Strategy{{
			Name: "stub",
			Post: func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error) {
				return "stub-id", nil
			},
		}},
	}
	registry := NewRegistryFromAdapters(custom)

	adapter, err := registry.For(entity.PlatformX)
	assert.NoError(t, err)
	assert.Equal(t, custom, adapter)

	_, err = registry.For(entity.PlatformFacebook)
	assert.Error(t, err)
}
