package Auth

import (
	"context"

	"github.com/JoaoGSDC/streamline-app/internal/streamer"

	"golang.org/x/oauth2"
)

// Provider is the OAuth identity provider streamers log in with.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// FetchIdentity returns the account behind token, or nil when the
	// provider reports none.
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*streamer.Identity, error)
}

// StreamerLogin records a login and returns the stored streamer.
type StreamerLogin interface {
	Login(ctx context.Context, identity streamer.Identity) (*streamer.Streamer, error)
}
