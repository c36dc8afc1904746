package steam

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// AchievementsFetcher is the upstream call the relay depends on.
type AchievementsFetcher interface {
	GetPlayerAchievements(ctx context.Context, apiKey, steamID string) ([]byte, error)
}

// Relay turns a player identifier into that player's "playerstats" record.
// It is safe for concurrent use; the API key is fixed at construction.
type Relay struct {
	logger  *zap.Logger
	fetcher AchievementsFetcher
	apiKey  string
}

// NewRelay creates a Relay. An empty apiKey is accepted; every lookup then fails
// with a configuration fault.
func NewRelay(logger *zap.Logger, fetcher AchievementsFetcher, apiKey string) *Relay {
	return &Relay{
		logger:  logger,
		fetcher: fetcher,
		apiKey:  apiKey,
	}
}

// Configured reports whether an API key is present.
func (r *Relay) Configured() bool {
	return r.apiKey != ""
}

// FetchAchievements returns the upstream "playerstats" record for playerID verbatim.
// Any non-nil error is a *Fault.
func (r *Relay) FetchAchievements(ctx context.Context, playerID string) (json.RawMessage, error) {
	if !r.Configured() {
		return nil, ConfigurationFault()
	}

	body, err := r.fetcher.GetPlayerAchievements(ctx, r.apiKey, playerID)
	if err != nil {
		return nil, AsFault(err)
	}

	if !gjson.ValidBytes(body) {
		return nil, InternalFault(errors.New("malformed Steam API response: invalid JSON"))
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, InternalFault(errors.New("malformed Steam API response: expected a JSON object"))
	}

	stats := lastValue(root, "playerstats")
	if isEmpty(stats) {
		return nil, NotFoundFault()
	}

	r.logger.Debug("relay.achievements_fetched",
		zap.String("steam_id", playerID),
		zap.String("game", stats.Get("gameName").String()),
		zap.Int64("achievements", stats.Get("achievements.#").Int()))

	return json.RawMessage(stats.Raw), nil
}

// lastValue returns the last occurrence of key in obj; duplicate keys resolve the
// way common JSON decoders do.
func lastValue(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}
		return true
	})
	return found
}

// isEmpty treats a missing value and any JSON "zero" value as no record.
func isEmpty(v gjson.Result) bool {
	if !v.Exists() {
		return true
	}
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	case gjson.String:
		return v.Str == ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) == 0
		}
		return len(v.Map()) == 0
	}
	return false
}
