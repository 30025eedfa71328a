package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Address        string   `yaml:"address"`
		MaxUploadMB    int64    `yaml:"max_upload_mb"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	ModelSettings struct {
		Provider              string  `yaml:"provider"`
		GeminiModel           string  `yaml:"gemini_model"`
		NvidiaModel           string  `yaml:"nvidia_model"`
		NvidiaBaseURL         string  `yaml:"nvidia_base_url"`
		Temperature           float64 `yaml:"temperature"`
		TopP                  float64 `yaml:"top_p"`
		MaxTokens             int     `yaml:"max_tokens"`
		RequestTimeoutSeconds int     `yaml:"request_timeout_seconds"`
	} `yaml:"model_settings"`
	Image struct {
		MaxDimension  int `yaml:"max_dimension"`
		PreviewLength int `yaml:"preview_length"`
		MaxPixels     int `yaml:"max_pixels"`
	} `yaml:"image"`
	Personas struct {
		File      string `yaml:"file"`
		DefaultID string `yaml:"default_id"`
	} `yaml:"personas"`
	Artifacts struct {
		Backend  string  `yaml:"backend"`
		Dir      string  `yaml:"dir"`
		Prefix   string  `yaml:"prefix"`
		TTLHours float64 `yaml:"ttl_hours"`
	} `yaml:"artifacts"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	config := &Config{}
	config.Server.Address = ":8000"
	config.Server.MaxUploadMB = 10
	config.Server.AllowedOrigins = []string{"*"}
	config.ModelSettings.Provider = "gemini"
	config.ModelSettings.GeminiModel = "gemini-1.5-flash"
	config.ModelSettings.NvidiaModel = "meta/llama-3.2-90b-vision-instruct"
	config.ModelSettings.NvidiaBaseURL = "https://integrate.api.nvidia.com/v1"
	config.ModelSettings.Temperature = 1
	config.ModelSettings.TopP = 1
	config.ModelSettings.MaxTokens = 1024
	config.ModelSettings.RequestTimeoutSeconds = 90
	config.Image.MaxDimension = 1536
	config.Image.PreviewLength = 300
	config.Image.MaxPixels = 50_000_000
	config.Personas.DefaultID = "mentor_male"
	config.Artifacts.Backend = "file"
	config.Artifacts.Dir = "artifacts"
	config.Artifacts.Prefix = "personabot"
	config.Artifacts.TTLHours = 24
	return config
}

// LoadConfig reads path on top of the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
