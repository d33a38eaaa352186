package streamer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JoaoGSDC/streamline-app/internal/security"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/google/uuid"
)

type StreamerService struct {
	store  StreamerStore
	sealer *security.Sealer
}

func NewStreamerService(store StreamerStore, sealer *security.Sealer) *StreamerService {
	return &StreamerService{
		store:  store,
		sealer: sealer,
	}
}

// Login creates the streamer on first login and refreshes its profile on
// every later one.
func (ss *StreamerService) Login(ctx context.Context, identity Identity) (*Streamer, error) {
	if identity.ExternalID == "" || identity.Login == "" {
		return nil, errors.New("identity without id or login")
	}

	sealed, err := ss.sealer.Seal(identity.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to seal access token: %w", err)
	}

	handle := strings.ToLower(identity.Login)
	displayName := identity.DisplayName
	if displayName == "" {
		displayName = identity.Login
	}

	streamer, err := ss.store.Upsert(ctx, &Streamer{
		ExternalID:        identity.ExternalID,
		DisplayName:       displayName,
		Handle:            handle,
		AvatarURL:         identity.AvatarURL,
		Bio:               identity.Bio,
		ProfileURL:        "https://twitch.tv/" + handle,
		FollowerCount:     identity.FollowerCount,
		BroadcasterType:   identity.BroadcasterType,
		SealedAccessToken: sealed,
	})
	if err != nil {
		return nil, err
	}

	utils.Infof("Streamer %s logged in (%s)", streamer.Handle, streamer.ID)
	return streamer, nil
}

func (ss *StreamerService) GetByHandle(ctx context.Context, handle string) (*Streamer, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, ErrNotFound
	}
	return ss.store.GetByHandle(ctx, handle)
}

func (ss *StreamerService) GetByID(ctx context.Context, id uuid.UUID) (*Streamer, error) {
	return ss.store.GetByID(ctx, id)
}

// Resolve accepts either a streamer id or a handle.
func (ss *StreamerService) Resolve(ctx context.Context, ref string) (*Streamer, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return ss.store.GetByID(ctx, id)
	}
	return ss.GetByHandle(ctx, ref)
}

func (ss *StreamerService) List(ctx context.Context) ([]*Streamer, error) {
	return ss.store.List(ctx)
}

// AccessToken opens the streamer's stored Twitch token.
func (ss *StreamerService) AccessToken(ctx context.Context, id uuid.UUID) (string, error) {
	streamer, err := ss.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return ss.sealer.Open(streamer.SealedAccessToken)
}
