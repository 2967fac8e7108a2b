package engine

import (
	"log/slog"
	"time"

	"github.com/lengxi-root/groupguard/guard/config"
	"github.com/lengxi-root/groupguard/guard/qa"
	"github.com/lengxi-root/groupguard/guard/recallstore"
	"github.com/lengxi-root/groupguard/guard/spamstore"
	"github.com/lengxi-root/groupguard/onebot"
)

// EngineTestFixture builds an engine on in-memory stores and a recording
// action API, with no rules attached. Intentionally exported, for use in
// other packages' tests.
func EngineTestFixture() Engine {
	cfg := config.NewConfig()
	cfg.OwnerQQs = "9000001"
	return Engine{
		Logger:    slog.Default(),
		Actions:   onebot.NewActionRecorder(),
		Config:    config.NewMemStore(cfg, slog.Default()),
		Spam:      spamstore.NewMemSpamStore(),
		Recalls:   recallstore.NewMemRecallStore(),
		QA:        qa.NewMatcher(),
		KickDelay: time.Millisecond,
	}
}

// Recorder returns the fixture's action API as the concrete recorder type.
// Test helper; panics when the engine was built with a real client.
func (eng *Engine) Recorder() *onebot.ActionRecorder {
	return eng.Actions.(*onebot.ActionRecorder)
}

// Helper to access the private effects field from a context. Intended for
// use in test code, *not* from rules.
func ExtractEffects(c *BaseContext) Effects {
	return *c.effects
}
