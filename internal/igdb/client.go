package igdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JoaoGSDC/streamline-app/internal/views"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/twitch"
)

const (
	DefaultBaseURL = "https://api.igdb.com/v4"
	DefaultLimit   = 10
	MaxLimit       = 50

	searchFields  = "id,name,cover.url,screenshots.url,summary,genres.name,platforms.name,websites.url"
	detailsFields = "id,name,cover.url,screenshots.url,summary,genres.name,platforms.name,release_dates.date,websites.url,videos.video_id"
)

// ErrNotFound is returned when the catalog has no entry for an id.
var ErrNotFound = errors.New("igdb: game not found")

// Config carries the credentials of the catalog API. When AccessToken is
// empty an app token is obtained from Twitch with the client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	BaseURL      string
	Timeout      time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
	loc     *time.Location
}

type Option func(*Client)

// WithLocation sets the zone release dates are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var source oauth2.TokenSource
	if cfg.AccessToken != "" {
		source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
	} else {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     twitch.Endpoint.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		source = cc.TokenSource(context.Background())
	}

	c := &Client{
		baseURL: baseURL,
		loc:     time.UTC,
		http: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.ReuseTokenSource(nil, source),
				Base:   &clientIDTransport{clientID: cfg.ClientID, base: http.DefaultTransport},
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type clientIDTransport struct {
	clientID string
	base     http.RoundTripper
}

func (t *clientIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Client-ID", t.clientID)
	return t.base.RoundTrip(r)
}

// ClampLimit parses a search limit, defaulting to DefaultLimit and clamping
// the result to [1, MaxLimit].
func ClampLimit(raw string) int {
	if raw == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		n = DefaultLimit
	}
	if n < 1 {
		n = 1
	}
	if n > MaxLimit {
		n = MaxLimit
	}
	return n
}

// Search runs a full-text search over the catalog.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Game, error) {
	body := fmt.Sprintf(`search "%s"; fields %s; limit %d;`, escape(query), searchFields, limit)
	return c.games(ctx, body)
}

// GetGame fetches one raw catalog entry.
func (c *Client) GetGame(ctx context.Context, id int64) (*Game, error) {
	body := fmt.Sprintf(`fields %s; where id = %d;`, detailsFields, id)
	games, err := c.games(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNotFound
	}
	return &games[0], nil
}

// Details fetches one catalog entry and shapes it for display.
func (c *Client) Details(ctx context.Context, id int64) (*Details, error) {
	game, err := c.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.toDetails(game), nil
}

func (c *Client) toDetails(game *Game) *Details {
	image := views.PlaceholderImage
	if game.Cover != nil && game.Cover.URL != "" {
		image = strings.Replace(game.Cover.URL, "t_thumb", "t_cover_big", 1)
		if strings.HasPrefix(image, "//") {
			image = "https:" + image
		}
	}

	websites := make([]string, 0, len(game.Websites))
	for _, w := range game.Websites {
		if w.URL != "" {
			websites = append(websites, w.URL)
		}
	}

	genres := make([]string, 0, len(game.Genres))
	for _, g := range game.Genres {
		genres = append(genres, g.Name)
	}

	platforms := make([]string, 0, len(game.Platforms))
	for _, p := range game.Platforms {
		platforms = append(platforms, p.Name)
	}

	var releaseDate string
	if len(game.ReleaseDates) > 0 && game.ReleaseDates[0].Date != 0 {
		releaseDate = time.Unix(game.ReleaseDates[0].Date, 0).In(c.loc).Format("02/01/2006")
	}

	var website string
	if len(websites) > 0 {
		website = websites[0]
	}

	return &Details{
		ID:          game.ID,
		Title:       game.Name,
		Image:       image,
		Synopsis:    game.Summary,
		Genre:       genres,
		Platform:    strings.Join(platforms, ", "),
		ReleaseDate: releaseDate,
		Website:     website,
		StoreLinks:  ExtractStoreLinks(websites, game.Name),
		Websites:    websites,
	}
}

func (c *Client) games(ctx context.Context, query string) ([]Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/games", bytes.NewBufferString(query))
	if err != nil {
		return nil, fmt.Errorf("igdb: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("igdb: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("igdb: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var games []Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("igdb: decode response: %w", err)
	}
	return games, nil
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
