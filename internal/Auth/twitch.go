package Auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JoaoGSDC/streamline-app/configs"
	"github.com/JoaoGSDC/streamline-app/internal/streamer"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/twitch"
)

const defaultHelixURL = "https://api.twitch.tv/helix"

// TwitchProvider logs streamers in with Twitch and reads their profile from Helix.
type TwitchProvider struct {
	oauth    *oauth2.Config
	helixURL string
	http     *http.Client
}

type TwitchOption func(*TwitchProvider)

// WithEndpoints points the provider at other OAuth and Helix servers.
func WithEndpoints(endpoint oauth2.Endpoint, helixURL string) TwitchOption {
	return func(p *TwitchProvider) {
		p.oauth.Endpoint = endpoint
		p.helixURL = strings.TrimRight(helixURL, "/")
	}
}

func NewTwitchProvider(cfg *configs.Config, opts ...TwitchOption) *TwitchProvider {
	p := &TwitchProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.Twitch.ClientID,
			ClientSecret: cfg.Twitch.ClientSecret,
			RedirectURL:  cfg.Twitch.RedirectURL,
			Scopes:       []string{"user:read:email"},
			Endpoint:     twitch.Endpoint,
		},
		helixURL: defaultHelixURL,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *TwitchProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *TwitchProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)
	return p.oauth.Exchange(ctx, code)
}

type helixUser struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	BroadcasterType string `json:"broadcaster_type"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (p *TwitchProvider) FetchIdentity(ctx context.Context, token *oauth2.Token) (*streamer.Identity, error) {
	var users struct {
		Data []helixUser `json:"data"`
	}
	if err := p.helix(ctx, token, "/users", nil, &users); err != nil {
		return nil, err
	}
	if len(users.Data) == 0 {
		return nil, nil
	}
	user := users.Data[0]

	identity := &streamer.Identity{
		ExternalID:      user.ID,
		Login:           user.Login,
		DisplayName:     user.DisplayName,
		AvatarURL:       user.ProfileImageURL,
		Bio:             user.Description,
		BroadcasterType: user.BroadcasterType,
		AccessToken:     token.AccessToken,
	}
	if identity.DisplayName == "" {
		identity.DisplayName = user.Login
	}

	var followers struct {
		Total int `json:"total"`
	}
	err := p.helix(ctx, token, "/channels/followers", url.Values{"broadcaster_id": {user.ID}}, &followers)
	if err != nil {
		utils.WithField("broadcaster_id", user.ID).Warnf("Follower count unavailable: %v", err)
	} else {
		identity.FollowerCount = followers.Total
	}
	return identity, nil
}

func (p *TwitchProvider) helix(ctx context.Context, token *oauth2.Token, path string, query url.Values, dst interface{}) error {
	target := p.helixURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Client-Id", p.oauth.ClientID)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("helix %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("helix %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("helix %s: decode: %w", path, err)
	}
	return nil
}
