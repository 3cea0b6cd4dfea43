package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"gorpoker/internal/config"
	"gorpoker/pkg/game"
	"gorpoker/pkg/realtime"
	"gorpoker/pkg/transport"

	"github.com/sirupsen/logrus"
)

// Version is the client version
var Version = "v0.0.0-dev"

var gameID = flag.String("game", "", "the game to join")
var userID = flag.String("user", "", "the acting player")

const connectTimeout = time.Second * 10

func main() {
	flag.Parse()
	setupLogger()

	if *gameID == "" || *userID == "" {
		logrus.Fatal("both -game and -user are required")
	}

	cfg := config.Instance()

	tr := transport.NewWS(logrus.StandardLogger(), cfg.Server.URL, cfg.Server.Origin)
	store := realtime.NewStore(logrus.StandardLogger(), realtime.StoreOptions{
		ActionTimeout: cfg.ActionTimeout(),
		ConfirmGrace:  cfg.ConfirmGrace(),
	})

	session := realtime.NewSession(logrus.StandardLogger(), tr, store, callbacks())

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := session.Join(ctx, *gameID, *userID); err != nil {
		logrus.WithError(err).Fatal("could not join game")
	}

	if err := session.JoinChat(); err != nil {
		logrus.WithError(err).Warn("could not join chat")
	}

	session.RequestSync()

	logrus.WithFields(logrus.Fields{
		"version": Version,
		"game":    *gameID,
		"user":    *userID,
	}).Info("joined; type an action (check/bet <n>/call/raise <n>/fold) or /say <msg>")

	runInputLoop(session)
}

func callbacks() realtime.Callbacks {
	return realtime.Callbacks{
		OnGameUpdated: func(g *game.Game) {
			logrus.WithFields(logrus.Fields{
				"status": g.Status,
				"pot":    g.Pot,
				"round":  g.CurrentRound,
			}).Info("game updated")
		},
		OnPlayerJoined: func(g *game.Game, p *game.Player) {
			logrus.WithField("player", p.Username).Info("player joined")
		},
		OnPlayerLeft: func(g *game.Game, playerID string) {
			logrus.WithField("player", playerID).Info("player left")
		},
		OnActionBroadcast: func(action game.PlayerAction) {
			logrus.WithField("player", action.PlayerID).Info(action.Action.LogMessage(action.Amount))
		},
		OnRoundStarted: func(g *game.Game) {
			logrus.WithField("round", g.CurrentRound).Info("round started")
		},
		OnRoundEnded: func(g *game.Game, winner string) {
			logrus.WithField("winner", winner).Info("round over")
		},
		OnGameEnded: func(g *game.Game, winner string) {
			logrus.WithField("winner", winner).Info("game over")
		},
		OnChatMessage: func(msg transport.ChatPayload) {
			logrus.WithField("from", msg.PlayerID).Info(msg.Message)
		},
		OnError: func(message string) {
			logrus.WithField("message", message).Warn("server error")
		},
		OnActionReverted: func(action game.PlayerAction) {
			logrus.WithField("action", action.Action).Warn("action was not confirmed and has been reverted")
		},
	}
}

func runInputLoop(session *realtime.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/say ") {
			if err := session.SendChatMessage(strings.TrimPrefix(line, "/say ")); err != nil {
				logrus.WithError(err).Error("could not send chat message")
			}

			continue
		}

		action, amount, err := parseAction(line)
		if err != nil {
			logrus.WithError(err).Error("could not parse input")
			continue
		}

		if _, err := session.SendAction(game.NewPlayerAction(*userID, action, amount)); err != nil {
			logrus.WithError(err).Error("action rejected")
		}
	}

	_ = session.Leave()
}

func parseAction(line string) (game.Action, int, error) {
	parts := strings.Fields(line)

	action, err := game.ActionFromString(parts[0])
	if err != nil {
		return "", 0, err
	}

	amount := 0
	if len(parts) > 1 {
		amount, err = strconv.Atoi(parts[1])
		if err != nil {
			return "", 0, err
		}
	}

	return action, amount, nil
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
