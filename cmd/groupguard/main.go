package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "groupguard",
		Usage:   "group moderation daemon (keeps the chat clean)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "onebot-host",
			Usage:   "websocket URL of the OneBot v11 host to connect to",
			Value:   "ws://localhost:3001",
			EnvVars: []string{"GROUPGUARD_ONEBOT_HOST", "ONEBOT_HOST"},
		},
		&cli.StringFlag{
			Name:    "onebot-access-token",
			Usage:   "bearer token for the OneBot host, if it requires one",
			EnvVars: []string{"GROUPGUARD_ONEBOT_ACCESS_TOKEN", "ONEBOT_ACCESS_TOKEN"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path of the JSON config document",
			Value:   "data/groupguard/config.json",
			EnvVars: []string{"GROUPGUARD_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for spam and recall state; in-memory stores when empty",
			EnvVars: []string{"GROUPGUARD_REDIS_URL", "REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3989",
			EnvVars: []string{"GROUPGUARD_METRICS_LISTEN"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		srv, err := NewServer(Config{
			OneBotHost:  cctx.String("onebot-host"),
			AccessToken: cctx.String("onebot-access-token"),
			ConfigPath:  cctx.String("config"),
			RedisURL:    cctx.String("redis-url"),
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("failed to run moderation service: %w", err)
		}
		return nil
	},
}
