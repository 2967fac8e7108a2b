package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lengxi-root/groupguard/guard/commands"
	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/guard/engine"
	"github.com/lengxi-root/groupguard/guard/qa"
	"github.com/lengxi-root/groupguard/guard/recallstore"
	"github.com/lengxi-root/groupguard/guard/rules"
	"github.com/lengxi-root/groupguard/guard/spamstore"
	"github.com/lengxi-root/groupguard/onebot"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	logger   *slog.Logger
	client   *onebot.Client
	engine   *engine.Engine
	commands *commands.Handler
	store    *config.Store
}

type Config struct {
	OneBotHost  string
	AccessToken string
	ConfigPath  string
	RedisURL    string
	Logger      *slog.Logger
}

func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if !strings.HasPrefix(cfg.OneBotHost, "ws") {
		return nil, fmt.Errorf("specified onebot host must include 'ws://' or 'wss://'")
	}

	store, err := config.Load(cfg.ConfigPath, logger)
	if err != nil {
		return nil, err
	}

	var spam spamstore.SpamStore
	var recalls recallstore.RecallStore
	if cfg.RedisURL != "" {
		sp, err := spamstore.NewRedisSpamStore(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis spam store: %v", err)
		}
		spam = sp

		rc, err := recallstore.NewRedisRecallStore(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis recall store: %v", err)
		}
		recalls = rc
	} else {
		spam = spamstore.NewMemSpamStore()
		recalls = recallstore.NewMemRecallStore()
	}

	client := onebot.NewClient(cfg.OneBotHost, cfg.AccessToken, logger)

	eng := engine.Engine{
		Logger:  logger,
		Actions: client,
		Config:  store,
		Rules:   rules.DefaultRules(),
		Spam:    spam,
		Recalls: recalls,
		QA:      qa.NewMatcher(),
	}

	s := &Server{
		logger:   logger,
		client:   client,
		engine:   &eng,
		commands: commands.NewHandler(logger, client, store),
		store:    store,
	}

	return s, nil
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

// Run connects to the OneBot host and consumes the event stream until ctx is
// cancelled, reconnecting with backoff when the connection drops. Commands
// are tried before the rule pipeline; a message that was a command never
// reaches the rules.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		if err := s.store.Watch(ctx); err != nil {
			s.logger.Error("config watcher stopped", "err", err)
		}
	}()

	cb := &onebot.EventCallbacks{
		Message: func(evt *onebot.MessageEvent) error {
			handled, err := s.commands.Handle(ctx, *evt)
			if handled {
				return err
			}
			return s.engine.ProcessMessage(ctx, evt)
		},
		Recall: func(evt *onebot.RecallEvent) error {
			return s.engine.ProcessRecall(ctx, evt)
		},
		MemberJoin: func(evt *onebot.MemberJoinEvent) error {
			return s.engine.ProcessMemberJoin(ctx, evt)
		},
		MemberCard: func(evt *onebot.MemberCardEvent) error {
			return s.engine.ProcessMemberCard(ctx, evt)
		},
	}

	backoff := time.Second
	for {
		if err := s.client.Dial(ctx); err != nil {
			s.logger.Error("connecting to onebot host failed", "err", err, "backoff", backoff)
		} else {
			backoff = time.Second
			err := s.client.Run(ctx, cb)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("event stream ended, reconnecting", "err", err, "backoff", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}
