package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig      *AppConfig
	AIConfig       *AIConfig
	BrowserConfig  *BrowserConfig
	PipelineConfig *PipelineConfig
}

type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type AIConfig struct {
	Provider          string `envconfig:"AI_PROVIDER" default:"anthropic"`
	APIKey            string `envconfig:"AI_API_KEY" required:"true"`
	Model             string `envconfig:"AI_MODEL" default:"claude-sonnet-4-20250514"`
	GenerationTimeout int    `envconfig:"AI_GENERATION_TIMEOUT" default:"60000"`
}

type BrowserConfig struct {
	Headless    bool   `envconfig:"BROWSER_HEADLESS" default:"true"`
	SlowMo      int    `envconfig:"BROWSER_SLOW_MO" default:"0"`
	Timeout     int    `envconfig:"BROWSER_TIMEOUT" default:"120000"`
	UserDataDir string `envconfig:"BROWSER_USER_DATA_DIR" default:""`
	SettleWait  int    `envconfig:"BROWSER_SETTLE_WAIT" default:"5000"`
}

// PipelineConfig bounds the discovery and exploration work per URL. The
// input-container cap limits how many generic containers are processed:
// nested containers naturally multiply matches over the same descendants.
type PipelineConfig struct {
	UseTriggerExploration bool `envconfig:"PIPELINE_TRIGGER_EXPLORATION" default:"false"`
	MaxInputContainers    int  `envconfig:"PIPELINE_MAX_INPUT_CONTAINERS" default:"5"`
	MaxTriggers           int  `envconfig:"PIPELINE_MAX_TRIGGERS" default:"3"`
	TriggerScanLimit      int  `envconfig:"PIPELINE_TRIGGER_SCAN_LIMIT" default:"10"`
	TriggerSettleMillis   int  `envconfig:"PIPELINE_TRIGGER_SETTLE" default:"2000"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	return &conf, nil
}
