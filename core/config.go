package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug   bool
	AppName string
	Env     string // DEV (default), TEST, QA, PROD

	API struct {
		BaseURL string
		Timeout time.Duration
	}

	// SearchDebounce is the quiet period applied to free-text search input
	// before a list re-fetch is triggered.
	SearchDebounce time.Duration

	// Fallbacks used when the settings endpoint cannot be reached.
	PassThreshold  float64
	RosterCapacity int

	RollbarToken string
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Sodiem")
	conf.SetDefault("apiBaseURL", "http://localhost:8000")
	conf.SetDefault("apiTimeout", 30*time.Second)
	conf.SetDefault("searchDebounce", 300*time.Millisecond)
	conf.SetDefault("passThreshold", 5.0)
	conf.SetDefault("rosterCapacity", 40)
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	cfg := &Config{
		Debug:          conf.GetBool("debug"),
		AppName:        conf.GetString("appName"),
		Env:            env,
		SearchDebounce: conf.GetDuration("searchDebounce"),
		PassThreshold:  conf.GetFloat64("passThreshold"),
		RosterCapacity: conf.GetInt("rosterCapacity"),
		RollbarToken:   conf.GetString("rollbarToken"),
	}
	cfg.API.BaseURL = conf.GetString("apiBaseURL")
	cfg.API.Timeout = conf.GetDuration("apiTimeout")
	return cfg
}
