package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/genricoloni/remotectl/internal/engine"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const inputHelp = "keys: s shuffle, r repeat mode, f/+ seek forward, b/- seek back, q quit"

var keyIntents = map[string]engine.Intent{
	"s": engine.IntentShuffle,
	"r": engine.IntentRepeat,
	"f": engine.IntentSeekForward,
	"+": engine.IntentSeekForward,
	"b": engine.IntentSeekBackward,
	"-": engine.IntentSeekBackward,
}

// registerInput feeds terminal lines to the engine once the app has started
func registerInput(lc fx.Lifecycle, logger *zap.Logger, e *engine.Engine, sd fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info(inputHelp)
			go readIntents(logger, os.Stdin, e.Post, func() {
				if err := sd.Shutdown(); err != nil {
					logger.Warn("Shutdown request failed", zap.Error(err))
				}
			})
			return nil
		},
	})
}

// readIntents reads one key per line until quit or EOF
func readIntents(logger *zap.Logger, r io.Reader, post func(engine.Intent) bool, quit func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if key == "" {
			continue
		}
		if key == "q" {
			quit()
			return
		}

		intent, ok := keyIntents[key]
		if !ok {
			logger.Warn("Unknown key", zap.String("key", key), zap.String("help", inputHelp))
			continue
		}
		post(intent)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Input closed", zap.Error(err))
	}
}
