package config

import (
	"testing"

	"gorpoker/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	a := assert.New(t)

	unset := util.SetEnv("GORPOKER_CONFIG_FILE", "does-not-exist.yaml")
	defer unset()

	a.NoError(Load())

	c := Instance()
	a.Equal(10, c.Game.Ante)
	a.Equal(6, c.Game.MaxPlayers)
	a.Equal(30, c.Game.TurnTimeoutSeconds)
	a.Equal(5000, c.Realtime.ActionTimeoutMS)
	a.Equal("ws://localhost:8080/ws", c.Server.URL)
}

func TestLoad_EnvOverride(t *testing.T) {
	a := assert.New(t)

	unsetFile := util.SetEnv("GORPOKER_CONFIG_FILE", "does-not-exist.yaml")
	defer unsetFile()

	unsetAnte := util.SetEnv("GORPOKER_ANTE", "250")
	defer unsetAnte()

	unsetURL := util.SetEnv("GORPOKER_URL", "wss://gor.example.com/ws")
	defer unsetURL()

	a.NoError(Load())

	c := Instance()
	a.Equal(250, c.Game.Ante)
	a.Equal("wss://gor.example.com/ws", c.Server.URL)
}

func TestConfig_Durations(t *testing.T) {
	a := assert.New(t)

	c := DefaultConfig()
	a.Equal("30s", c.TurnTimeout().String())
	a.Equal("2s", c.DealDelay().String())
	a.Equal("3s", c.RevealDelay().String())
	a.Equal("5s", c.ActionTimeout().String())
	a.Equal("1s", c.ConfirmGrace().String())
}
