// Package config loads the gateway's YAML configuration and the
// environment variables that parameterize it.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProviderConfig is one entry of the llm_providers list.
type ProviderConfig struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`
	Usage string `yaml:"usage"`
}

// RoutingConfig names the router LLM's model identifier and provider hint.
// Both default when absent.
type RoutingConfig struct {
	Model       string `yaml:"model"`
	LLMProvider string `yaml:"llm_provider"`
}

// File is the top-level shape of the rendered YAML configuration.
type File struct {
	LLMProviders []ProviderConfig `yaml:"llm_providers"`
	Routing      RoutingConfig    `yaml:"routing"`
}

const (
	defaultRouterModel    = "Arch-Router"
	defaultRouterProvider = "arch-router"
)

// Settings is the fully resolved runtime configuration: the parsed file
// plus environment-sourced deployment parameters.
type Settings struct {
	BindAddress      string
	UpstreamEndpoint string
	RouterModel      string
	RouterProvider   string
	Providers        []ProviderConfig
}

// Load reads configPath, expands ${VAR:-default} references in each
// provider's model and usage fields, and merges in the BIND_ADDRESS / LLM_PROVIDER_ENDPOINT
// environment variables. A missing or unparsable file is a fatal startup
// error, not a request-path concern.
func Load(configPath string) (*Settings, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", configPath, err)
	}

	for i := range file.LLMProviders {
		file.LLMProviders[i].Model = expandEnv(file.LLMProviders[i].Model)
		file.LLMProviders[i].Usage = expandEnv(file.LLMProviders[i].Usage)
	}

	routerModel := file.Routing.Model
	if routerModel == "" {
		routerModel = defaultRouterModel
	}
	routerProvider := file.Routing.LLMProvider
	if routerProvider == "" {
		routerProvider = defaultRouterProvider
	}

	return &Settings{
		BindAddress:      envOrDefault("BIND_ADDRESS", "0.0.0.0:9091"),
		UpstreamEndpoint: envOrDefault("LLM_PROVIDER_ENDPOINT", "http://localhost:12001/v1/chat/completions"),
		RouterModel:      routerModel,
		RouterProvider:   routerProvider,
		Providers:        file.LLMProviders,
	}, nil
}

// ConfigPathFromEnv resolves ARCH_CONFIG_PATH_RENDERED, defaulting to
// ./arch_config_rendered.yaml.
func ConfigPathFromEnv() string {
	return envOrDefault("ARCH_CONFIG_PATH_RENDERED", "./arch_config_rendered.yaml")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// expandEnv expands ${VAR} and ${VAR:-default} references in s with a
// shell-like rule. Load applies it to provider model and usage strings only;
// provider names and the routing section are taken as written.
func expandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":-", 2)
		value := os.Getenv(parts[0])
		if value == "" && len(parts) > 1 {
			return parts[1]
		}
		return value
	})
}
