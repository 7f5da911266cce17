package state

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"hdoc/config"
	"hdoc/source"
	"hdoc/worker"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}

	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		env := EnvFromContext(ctx)

		if env == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()

		// Use plain context without env
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > 1*time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Error("Expected restoreStdLog to be set")
		}

		env.RestoreStdLog()
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: nil,
		}

		// Should not panic
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
	})
}

func TestLocalEnv_RestoreStdLog(t *testing.T) {
	t.Run("with redirect", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		env.RedirectStdLog()
		// Should not panic
		env.RestoreStdLog()
	})

	t.Run("without redirect", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		// Should not panic even without redirect
		env.RestoreStdLog()
	})

	t.Run("nil logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: nil,
		}

		// Should not panic
		env.RestoreStdLog()
	})
}

func TestContextWithEnv_Defaults(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.Registry == nil {
		t.Fatal("default registry not set")
	}
	if env.Registry.Lookup("p") != worker.TagKindDiv {
		t.Errorf("default registry does not know p")
	}
	if env.Tokenizer != source.KindHtml || env.Sink != config.SinkModeBatch {
		t.Errorf("unexpected defaults: %v %v", env.Tokenizer, env.Sink)
	}
	if opts := env.SourceOptions(); opts != nil {
		t.Errorf("no source options expected without encoding, got %d", len(opts))
	}
}

func TestLocalEnv_ApplyDocumentConfig(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	doc := &config.DocumentConfig{
		Tokenizer: source.KindXhtml,
		Sink:      config.SinkModeIncremental,
		Encoding:  "koi8-r",
		Tags: map[string]string{
			"center": "div",
			"u":      "unknown",
			"blink":  "marquee",
		},
	}

	err := env.ApplyDocumentConfig(doc)
	if err == nil || !strings.Contains(err.Error(), "blink") {
		t.Errorf("expected error about blink, got %v", err)
	}
	if env.Tokenizer != source.KindXhtml || !env.Sink.Incremental() {
		t.Errorf("settings not applied: %v %v", env.Tokenizer, env.Sink)
	}
	if env.Registry.Lookup("center") != worker.TagKindDiv {
		t.Error("center should be registered as div")
	}
	if env.Registry.Lookup("u") != worker.TagKindUnknown {
		t.Error("u should be removed by unknown kind")
	}
	if env.Registry.Lookup("blink") != worker.TagKindUnknown {
		t.Error("blink must not be registered")
	}
	if len(env.SourceOptions()) != 1 {
		t.Error("forced encoding must produce source option")
	}
}
