package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "streamline"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session has expired")
)

// Profile is the streamer identity carried by the session cookie. The
// browser reads it directly, so the field names follow the frontend.
type Profile struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	TwitchUsername  string `json:"twitchUsername"`
	Avatar          string `json:"avatar"`
	Bio             string `json:"bio"`
	TwitchURL       string `json:"twitchUrl"`
	Followers       int    `json:"followers"`
	BroadcasterType string `json:"broadcasterType"`
	CreatedAt       string `json:"createdAt"`
}

type SessionClaims struct {
	Profile
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session cookies.
type SessionManager struct {
	config *Config
	now    func() time.Time
}

func NewSessionManager(config *Config) *SessionManager {
	return &SessionManager{
		config: config,
		now:    time.Now,
	}
}

// Issue signs a session for profile valid for the configured max age.
func (sm *SessionManager) Issue(profile Profile) (string, error) {
	now := sm.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Profile: profile,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.config.SessionMaxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   profile.ID,
		},
	})

	signed, err := token.SignedString([]byte(sm.config.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Parse verifies a session cookie value and returns its profile.
func (sm *SessionManager) Parse(tokenString string) (*Profile, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(sm.config.SessionSecret), nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(sm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Profile.ID == "" || claims.Subject != claims.Profile.ID {
		return nil, ErrInvalidSession
	}

	profile := claims.Profile
	return &profile, nil
}
