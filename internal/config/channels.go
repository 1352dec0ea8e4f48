// Package config loads file-based configuration for the notification
// engine: channel enablement, provider endpoints and credential sources,
// and the engagement deduplication window.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"crewdesk/internal/infra/transport"
)

// ChannelsConfig represents the channels configuration file.
//
// Provider API keys are not stored in the file; each channel names the
// environment variable that carries its key (api_key_env).
type ChannelsConfig struct {
	Channels struct {
		SMS struct {
			Enabled        bool   `yaml:"enabled"`
			APIURL         string `yaml:"api_url"`
			APIKeyEnv      string `yaml:"api_key_env"`
			Sender         string `yaml:"sender"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"sms"`
		Email struct {
			Enabled        bool   `yaml:"enabled"`
			APIURL         string `yaml:"api_url"`
			APIKeyEnv      string `yaml:"api_key_env"`
			FromAddress    string `yaml:"from_address"`
			FromName       string `yaml:"from_name"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"email"`
		InApp struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"in_app"`
	} `yaml:"channels"`

	Engagement struct {
		DedupWindowSeconds int `yaml:"dedup_window_seconds"`
	} `yaml:"engagement"`
}

// LoadChannelsConfig loads the channels configuration from a YAML file.
// The path parameter is expected to come from a trusted source
// (command-line argument or hardcoded default).
func LoadChannelsConfig(path string) (*ChannelsConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ChannelsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateChannelsConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// validateChannelsConfig validates the loaded configuration. Disabled
// channels may leave their provider fields empty.
func validateChannelsConfig(config *ChannelsConfig) error {
	sms := config.Channels.SMS
	if sms.Enabled {
		if sms.APIURL == "" {
			return fmt.Errorf("sms api_url is required when sms is enabled")
		}
		if sms.APIKeyEnv == "" {
			return fmt.Errorf("sms api_key_env is required when sms is enabled")
		}
	}
	if sms.TimeoutSeconds < 0 {
		return fmt.Errorf("sms timeout_seconds must not be negative")
	}

	email := config.Channels.Email
	if email.Enabled {
		if email.APIURL == "" {
			return fmt.Errorf("email api_url is required when email is enabled")
		}
		if email.APIKeyEnv == "" {
			return fmt.Errorf("email api_key_env is required when email is enabled")
		}
		if email.FromAddress == "" {
			return fmt.Errorf("email from_address is required when email is enabled")
		}
	}
	if email.TimeoutSeconds < 0 {
		return fmt.Errorf("email timeout_seconds must not be negative")
	}

	if config.Engagement.DedupWindowSeconds < 0 {
		return fmt.Errorf("engagement dedup_window_seconds must not be negative")
	}

	return nil
}

// SMSTransportConfig maps the file configuration onto the SMS client
// config, resolving the API key from the named environment variable.
func (c *ChannelsConfig) SMSTransportConfig() transport.SMSConfig {
	sms := c.Channels.SMS
	return transport.SMSConfig{
		Enabled: sms.Enabled,
		APIURL:  sms.APIURL,
		APIKey:  os.Getenv(sms.APIKeyEnv),
		Sender:  sms.Sender,
		Timeout: time.Duration(sms.TimeoutSeconds) * time.Second,
	}
}

// EmailTransportConfig maps the file configuration onto the email client
// config, resolving the API key from the named environment variable.
func (c *ChannelsConfig) EmailTransportConfig() transport.EmailConfig {
	email := c.Channels.Email
	return transport.EmailConfig{
		Enabled:     email.Enabled,
		APIURL:      email.APIURL,
		APIKey:      os.Getenv(email.APIKeyEnv),
		FromAddress: email.FromAddress,
		FromName:    email.FromName,
		Timeout:     time.Duration(email.TimeoutSeconds) * time.Second,
	}
}

// InAppEnabled reports whether the in-app channel is enabled.
func (c *ChannelsConfig) InAppEnabled() bool {
	return c.Channels.InApp.Enabled
}

// DedupWindow returns the configured engagement deduplication window, or
// zero when unset so callers apply their default.
func (c *ChannelsConfig) DedupWindow() time.Duration {
	return time.Duration(c.Engagement.DedupWindowSeconds) * time.Second
}
