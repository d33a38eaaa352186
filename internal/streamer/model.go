package streamer

import (
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/security"

	"github.com/google/uuid"
)

type Streamer struct {
	ID                uuid.UUID `json:"id" db:"id"`
	ExternalID        string    `json:"externalId" db:"external_id"`
	DisplayName       string    `json:"displayName" db:"display_name"`
	Handle            string    `json:"handle" db:"handle"`
	AvatarURL         string    `json:"avatarUrl" db:"avatar_url"`
	Bio               string    `json:"bio" db:"bio"`
	ProfileURL        string    `json:"profileUrl" db:"profile_url"`
	FollowerCount     int       `json:"followerCount" db:"follower_count"`
	BroadcasterType   string    `json:"broadcasterType" db:"broadcaster_type"`
	SealedAccessToken string    `json:"-" db:"sealed_access_token"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// Identity is what the OAuth provider reports about the logged-in account.
type Identity struct {
	ExternalID      string
	Login           string
	DisplayName     string
	AvatarURL       string
	Bio             string
	BroadcasterType string
	FollowerCount   int
	AccessToken     string
}

// Profile is the session payload for s.
func (s *Streamer) Profile() security.Profile {
	return security.Profile{
		ID:              s.ID.String(),
		Name:            s.DisplayName,
		TwitchUsername:  s.Handle,
		Avatar:          s.AvatarURL,
		Bio:             s.Bio,
		TwitchURL:       s.ProfileURL,
		Followers:       s.FollowerCount,
		BroadcasterType: s.BroadcasterType,
		CreatedAt:       s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// PublicStreamer returns streamer data safe for public consumption
func (s *Streamer) PublicStreamer() map[string]interface{} {
	return map[string]interface{}{
		"id":              s.ID,
		"name":            s.DisplayName,
		"twitchUsername":  s.Handle,
		"avatar":          s.AvatarURL,
		"bio":             s.Bio,
		"twitchUrl":       s.ProfileURL,
		"followers":       s.FollowerCount,
		"broadcasterType": s.BroadcasterType,
		"createdAt":       s.CreatedAt,
	}
}
