package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/witcher-command-center/backend/internal/httpclient"
)

const (
	// DefaultBaseURL is the public Steam Web API host.
	DefaultBaseURL = "http://api.steampowered.com"
	// Witcher3AppID is The Witcher 3: Wild Hunt.
	Witcher3AppID = "292030"

	achievementsPath     = "/ISteamUserStats/GetPlayerAchievements/v0001/"
	achievementsEndpoint = "GetPlayerAchievements"
)

// Client wraps HTTP communication with the Steam Web API.
// The API key is supplied per call so the client holds no secrets.
type Client struct {
	logger  *zap.Logger
	exec    *httpclient.Executor
	baseURL string
	appID   string
}

// NewClient constructs a Steam Web API client. Empty baseURL and appID fall back to
// DefaultBaseURL and Witcher3AppID.
func NewClient(logger *zap.Logger, baseURL, appID string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if appID == "" {
		appID = Witcher3AppID
	}
	httpClient := &http.Client{
		Timeout: timeout,
		// One outbound call per lookup; a redirect is reported as an upstream status.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	exec := httpclient.New(logger, httpClient, "steam", classifyStatus, "key")
	return &Client{
		logger:  logger,
		exec:    exec,
		baseURL: baseURL,
		appID:   appID,
	}
}

// GetPlayerAchievements fetches the raw achievements document for steamID.
// GET /ISteamUserStats/GetPlayerAchievements/v0001/?appid=&key=&steamid=
func (c *Client) GetPlayerAchievements(ctx context.Context, apiKey, steamID string) ([]byte, error) {
	u, err := url.Parse(c.baseURL + achievementsPath)
	if err != nil {
		return nil, fmt.Errorf("steam: invalid base url: %w", err)
	}
	q := url.Values{}
	q.Set("appid", c.appID)
	q.Set("key", apiKey)
	q.Set("steamid", steamID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("steam: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.exec.Do(ctx, req, achievementsEndpoint)
}

// classifyStatus maps an upstream error status to a Fault. The body is ignored.
func classifyStatus(status int, _ []byte) error {
	if status == http.StatusForbidden {
		return PrivateProfileFault()
	}
	return UpstreamFault(status)
}
