package steamapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"steamledger/internal/structures"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	ownedGamesPath     = "/IPlayerService/GetOwnedGames/v1"
	recentlyPlayedPath = "/IPlayerService/GetRecentlyPlayedGames/v1"
	maxBodySize        = 16 << 20
)

// ErrEmptyPayload is returned when the response carries no games array
// where one is required, which is what a private profile looks like.
var ErrEmptyPayload = errors.New("steam: empty payload")

// StatusError reports a non-2xx answer of the Web API.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("steam: %s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

type Client struct {
	baseURL                string
	key                    string
	steamID                string
	includePlayedFreeGames bool
	includeFreeSub         bool
	client                 *http.Client
}

func NewClient(conf *structures.Config) *Client {
	timeout := conf.Source.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:                strings.TrimRight(conf.Source.BaseURL, "/"),
		key:                    conf.Credentials.SteamKey,
		steamID:                conf.Credentials.SteamID,
		includePlayedFreeGames: conf.Source.IncludePlayedFreeGames,
		includeFreeSub:         conf.Source.IncludeFreeSub,
		client:                 &http.Client{Timeout: timeout},
	}
}

// Game is one entry of response.games. Every field except appid may be
// missing, so counters are pointers until ToRecord applies defaults.
type Game struct {
	AppID                  uint32  `json:"appid"`
	Name                   *string `json:"name"`
	PlaytimeForever        *int64  `json:"playtime_forever"`
	PlaytimeWindowsForever *int64  `json:"playtime_windows_forever"`
	PlaytimeMacForever     *int64  `json:"playtime_mac_forever"`
	PlaytimeLinuxForever   *int64  `json:"playtime_linux_forever"`
	PlaytimeDeckForever    *int64  `json:"playtime_deck_forever"`
	PlaytimeDisconnected   *int64  `json:"playtime_disconnected"`
	Playtime2Weeks         *int64  `json:"playtime_2weeks"`
	RTimeLastPlayed        *int64  `json:"rtime_last_played"`
}

type gamesResponse struct {
	Response *struct {
		GameCount  *int   `json:"game_count"`
		TotalCount *int   `json:"total_count"`
		Games      []Game `json:"games"`
	} `json:"response"`
}

// GetOwnedGames returns the full-ownership listing. A response without a
// games array is ErrEmptyPayload.
func (c *Client) GetOwnedGames(ctx context.Context) ([]Game, error) {
	params := c.baseParams()
	params.Set("include_appinfo", "true")
	params.Set("include_played_free_games", strconv.FormatBool(c.includePlayedFreeGames))
	params.Set("include_free_sub", strconv.FormatBool(c.includeFreeSub))

	parsed, err := c.get(ctx, ownedGamesPath, params)
	if err != nil {
		return nil, err
	}
	if parsed.Response == nil || parsed.Response.Games == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPayload, ownedGamesPath)
	}
	return parsed.Response.Games, nil
}

// GetRecentlyPlayedGames returns games played in the last two weeks,
// including shared-library titles. No recent play yields an empty slice.
func (c *Client) GetRecentlyPlayedGames(ctx context.Context) ([]Game, error) {
	parsed, err := c.get(ctx, recentlyPlayedPath, c.baseParams())
	if err != nil {
		return nil, err
	}
	if parsed.Response == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPayload, recentlyPlayedPath)
	}
	if parsed.Response.Games == nil {
		return make([]Game, 0), nil
	}
	return parsed.Response.Games, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("steamid", c.steamID)
	params.Set("format", "json")
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (gamesResponse, error) {
	var parsed gamesResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return parsed, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return parsed, fmt.Errorf("steam: %s: %w", path, redactKey(err, c.key))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return parsed, fmt.Errorf("steam: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parsed, &StatusError{Endpoint: path, Status: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return parsed, fmt.Errorf("%w: %s", ErrEmptyPayload, path)
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return parsed, fmt.Errorf("steam: decode %s: %w", path, err)
	}
	return parsed, nil
}

// redactKey keeps the API key out of url.Error messages.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: strings.ReplaceAll(urlErr.URL, key, "REDACTED"), Err: urlErr.Err}
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
