package config

import (
	"strings"

	"github.com/spf13/viper"
)

// CredentialSource supplies the upstream API key. An empty string means no
// key is configured.
type CredentialSource interface {
	APIKey() string
}

const apiKeySetting = "api_key"

// EnvCredentials resolves the API key from a named environment variable on
// every call, so a rotated key is picked up without a restart.
type EnvCredentials struct {
	v *viper.Viper
}

func NewEnvCredentials(envVar string) *EnvCredentials {
	v := viper.New()
	// BindEnv only errors when called without a key.
	_ = v.BindEnv(apiKeySetting, envVar)
	return &EnvCredentials{v: v}
}

func (c *EnvCredentials) APIKey() string {
	return strings.TrimSpace(c.v.GetString(apiKeySetting))
}

// StaticCredentials is a fixed key.
type StaticCredentials string

func (s StaticCredentials) APIKey() string {
	return string(s)
}
