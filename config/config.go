package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Cognito struct {
		AppClientId     string `yaml:"appClientId"`
		AppClientSecret string `yaml:"appClientSecret"`
		UserPoolId      string `yaml:"userPoolId"`
		Region          string `yaml:"region"`
	} `yaml:"cognito"`

	Gemini struct {
		ApiKey          string `yaml:"apiKey"`
		EvaluationModel string `yaml:"evaluationModel"`
		GenerationModel string `yaml:"generationModel"`
	} `yaml:"gemini"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		URL      string `yaml:"url"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// Evaluation submissions allowed per account per window.
		MaxSubmissions int `yaml:"maxSubmissions"`
		WindowSeconds  int `yaml:"windowSeconds"`
	} `yaml:"redis"`

	Quota struct {
		// Free checks granted to a new account.
		FreeChecks int `yaml:"freeChecks"`
	} `yaml:"quota"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expiry int    `yaml:"expiry"` // token expiry in minutes
	} `yaml:"jwt"`
}

// LoadConfig reads the configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if cfg.Gemini.EvaluationModel == "" {
		cfg.Gemini.EvaluationModel = "gemini-2.5-pro"
	}
	if cfg.Gemini.GenerationModel == "" {
		cfg.Gemini.GenerationModel = "gemini-2.5-flash"
	}
	if cfg.Quota.FreeChecks == 0 {
		cfg.Quota.FreeChecks = 3
	}

	return &cfg, nil
}
