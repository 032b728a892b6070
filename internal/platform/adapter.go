package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agency-pulse/internal/entity"
)

// DefaultTimeout bounds every strategy round-trip; a timeout is classified
// as a transient network error.
const DefaultTimeout = 12 * time.Second

// Strategy is one concrete delivery method within an adapter's fallback
// chain. Post returns the platform-assigned post id on success. A strategy
// must not mutate shared state; only the dispatcher commits outcomes.
type Strategy struct {
	Name string
	Post func(ctx context.Context, conn *entity.PlatformConnection, content string) (string, error)
}

// Result is the adapter's aggregate outcome after walking its chain.
type Result struct {
	Success        bool
	PlatformPostID string
	StrategyUsed   string
	FallbackUsed   bool
	ErrorClass     entity.ErrorClass
	Err            error
}

// Adapter holds a platform's ordered fallback chain. Strategies run in
// order and the chain stops at the first success.
type Adapter struct {
	Platform   entity.Platform
	Strategies []Strategy
}

// Attempt walks the chain. On total failure the result carries the last
// strategy's classified error.
func (a *Adapter) Attempt(ctx context.Context, conn *entity.PlatformConnection, content string) Result {
	res := Result{
		ErrorClass: entity.ErrClassNetworkTransient,
		Err:        fmt.Errorf("%s: no strategies configured", a.Platform),
	}

	for i, strategy := range a.Strategies {
		postID, err := strategy.Post(ctx, conn, content)
		if err == nil {
			return Result{
				Success:        true,
				PlatformPostID: postID,
				StrategyUsed:   strategy.Name,
				FallbackUsed:   i > 0,
			}
		}

		res = Result{
			StrategyUsed: strategy.Name,
			FallbackUsed: i > 0,
			ErrorClass:   Classify(err),
			Err:          fmt.Errorf("%s %s: %w", a.Platform, strategy.Name, err),
		}
	}

	return res
}

// Registry maps each platform to its adapter.
type Registry struct {
	adapters map[entity.Platform]*Adapter
}

type Config struct {
	FacebookBaseURL string
	LinkedInBaseURL string
	XBaseURL        string
	YouTubeBaseURL  string
	HTTPClient      *http.Client
}

func NewRegistry(cfg Config) *Registry {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &Registry{
		adapters: map[entity.Platform]*Adapter{
			entity.PlatformFacebook:  NewFacebookAdapter(client, cfg.FacebookBaseURL),
			entity.PlatformInstagram: NewInstagramAdapter(client, cfg.FacebookBaseURL),
			entity.PlatformLinkedIn:  NewLinkedInAdapter(client, cfg.LinkedInBaseURL),
			entity.PlatformX:         NewXAdapter(client, cfg.XBaseURL),
			entity.PlatformYouTube:   NewYouTubeAdapter(client, cfg.YouTubeBaseURL),
		},
	}
}

// NewRegistryFromAdapters builds a registry from explicit adapters; used to
// wire stub strategies in tests.
func NewRegistryFromAdapters(adapters ...*Adapter) *Registry {
	r := &Registry{adapters: make(map[entity.Platform]*Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform] = a
	}
	return r
}

func (r *Registry) For(platform entity.Platform) (*Adapter, error) {
	adapter, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for platform %q", platform)
	}
	return adapter, nil
}
