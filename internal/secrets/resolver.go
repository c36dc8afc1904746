package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/witcher-command-center/backend/pkg/config"
	pkgsecrets "github.com/witcher-command-center/backend/pkg/secrets"
	"github.com/witcher-command-center/backend/pkg/utils"
)

// APIKeyField is the secret field holding the Steam Web API key.
const APIKeyField = "api_key"

// LoadCredential returns the Steam Web API key, read once at startup.
//
// The STEAM_API_KEY value wins. Otherwise, when STEAM_API_KEY_SECRET names a secret
// and provider is non-nil, the key is read from that secret's "api_key" field.
// Failures are logged and yield "", leaving the relay to report the misconfiguration
// per request.
func LoadCredential(ctx context.Context, logger *zap.Logger, cfg config.Config, provider pkgsecrets.Provider) string {
	if cfg.SteamAPIKey != "" {
		logger.Info("credential.loaded",
			zap.String("source", "env"),
			zap.String("key", utils.MaskSecret(cfg.SteamAPIKey)))
		return cfg.SteamAPIKey
	}

	if cfg.SteamAPIKeySecret == "" || provider == nil {
		logger.Warn("credential.missing",
			zap.String("hint", "set STEAM_API_KEY or STEAM_API_KEY_SECRET"))
		return ""
	}

	key, err := fetchAPIKey(ctx, provider, cfg.SteamAPIKeySecret)
	if err != nil {
		logger.Warn("credential.secret_fetch_failed",
			zap.String("secret", cfg.SteamAPIKeySecret),
			zap.Error(err))
		return ""
	}

	logger.Info("credential.loaded",
		zap.String("source", "aws-secrets-manager"),
		zap.String("secret", cfg.SteamAPIKeySecret),
		zap.String("key", utils.MaskSecret(key)))
	return key
}

func fetchAPIKey(ctx context.Context, provider pkgsecrets.Provider, secretName string) (string, error) {
	m, err := provider.GetSecret(ctx, secretName)
	if err != nil {
		return "", err
	}
	key := m[APIKeyField]
	if key == "" {
		return "", fmt.Errorf("missing required field '%s'", APIKeyField)
	}
	return key, nil
}
