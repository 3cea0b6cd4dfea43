package config

import (
	"os"
	"time"

	"gorpoker/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the GOR poker client core
type Config struct {
	loaded bool

	Server struct {
		// URL is the websocket endpoint of the authoritative game server
		URL    string `yaml:"url" envconfig:"url"`
		Origin string `yaml:"origin" envconfig:"origin"`
	} `yaml:"server"`

	Game struct {
		Ante               int `yaml:"ante" envconfig:"ante"`
		MaxPlayers         int `yaml:"maxPlayers" envconfig:"max_players"`
		TurnTimeoutSeconds int `yaml:"turnTimeoutSeconds" envconfig:"turn_timeout_seconds"`
		DealDelayMS        int `yaml:"dealDelayMs" envconfig:"deal_delay_ms"`
		RevealDelayMS      int `yaml:"revealDelayMs" envconfig:"reveal_delay_ms"`
	} `yaml:"game"`

	Realtime struct {
		ActionTimeoutMS int `yaml:"actionTimeoutMs" envconfig:"action_timeout_ms"`
		ConfirmGraceMS  int `yaml:"confirmGraceMs" envconfig:"confirm_grace_ms"`
	} `yaml:"realtime"`

	Log struct {
		Level string `yaml:"level" envconfig:"log_level"`
	} `yaml:"log"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("GORPOKER_CONFIG_FILE", "gorpoker.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("gorpoker", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

// DefaultConfig returns the built-in default configuration
func DefaultConfig() Config {
	var c Config
	c.Server.URL = "ws://localhost:8080/ws"
	c.Game.Ante = 10
	c.Game.MaxPlayers = 6
	c.Game.TurnTimeoutSeconds = 30
	c.Game.DealDelayMS = 2000
	c.Game.RevealDelayMS = 3000
	c.Realtime.ActionTimeoutMS = 5000
	c.Realtime.ConfirmGraceMS = 1000

	return c
}

// TurnTimeout returns the per-turn timeout as a duration
func (c Config) TurnTimeout() time.Duration {
	return time.Duration(c.Game.TurnTimeoutSeconds) * time.Second
}

// DealDelay returns the delay between starting a game and dealing cards
func (c Config) DealDelay() time.Duration {
	return time.Duration(c.Game.DealDelayMS) * time.Millisecond
}

// RevealDelay returns the delay between showdown and paying out the pot
func (c Config) RevealDelay() time.Duration {
	return time.Duration(c.Game.RevealDelayMS) * time.Millisecond
}

// ActionTimeout returns how long an optimistic action may remain unconfirmed
func (c Config) ActionTimeout() time.Duration {
	return time.Duration(c.Realtime.ActionTimeoutMS) * time.Millisecond
}

// ConfirmGrace returns how long a confirmed action lingers before pruning
func (c Config) ConfirmGrace() time.Duration {
	return time.Duration(c.Realtime.ConfirmGraceMS) * time.Millisecond
}
