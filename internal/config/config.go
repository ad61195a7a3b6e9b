package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"deepseek2api/internal/core"
	"deepseek2api/internal/util"
)

// ServerConfig server configuration
type ServerConfig struct {
	Port               string
	GinMode            string
	ClientAPIKeys      []string
	DeepseekAPIKey     string
	DeepseekAPIBase    string
	RateLimit          int
	HTTPClientSettings HTTPClientSettings
	Storage            core.StorageInterface
	Logger             core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// LoadServerConfigFromEnv loads server config from environment variables
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	clientAPIKeys := util.ParseEnvList(os.Getenv("CLIENT_API_KEYS"))
	if len(clientAPIKeys) == 0 {
		logger.Info("CLIENT_API_KEYS not set, /v1 routes require only the upstream bearer credential")
	} else {
		logger.Info("Loaded %d client API keys", len(clientAPIKeys))
	}

	apiBase := strings.TrimRight(util.GetEnvWithDefault("DEEPSEEK_API_BASE", core.DeepseekAPIBaseURL), "/")
	if !strings.HasPrefix(apiBase, "http://") && !strings.HasPrefix(apiBase, "https://") {
		return ServerConfig{}, fmt.Errorf("DEEPSEEK_API_BASE %q is not an absolute URL", apiBase)
	}

	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		logger.Warn("DEEPSEEK_API_KEY not configured, dashboard endpoints need a bearer credential per request")
	} else {
		logger.Info("DeepSeek API key configured (%s)", util.MaskCredential(apiKey))
	}

	config := ServerConfig{
		Port:               util.GetEnvWithDefault("PORT", core.DefaultPort),
		GinMode:            util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		ClientAPIKeys:      clientAPIKeys,
		DeepseekAPIKey:     apiKey,
		DeepseekAPIBase:    apiBase,
		RateLimit:          loadRateLimit(logger),
		HTTPClientSettings: DefaultHTTPClientSettings(),
	}

	return config, nil
}

func loadRateLimit(logger core.Logger) int {
	const defaultRate = 120

	envRate := os.Getenv("RATE_LIMIT")
	if envRate == "" {
		return defaultRate
	}

	rate, err := strconv.Atoi(envRate)
	if err != nil || rate <= 0 {
		logger.Warn("Invalid RATE_LIMIT value '%s', using default %d", envRate, defaultRate)
		return defaultRate
	}
	return rate
}
