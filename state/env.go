// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"hdoc/config"
	"hdoc/source"
	"hdoc/worker"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by convert subcommand
	NoDirs      bool
	Overwrite   bool
	CodePage    encoding.Encoding
	Encoding    string
	Tokenizer   source.Kind
	Sink        config.SinkMode
	MaxElements int
	Registry    *worker.Registry
	// DefaultStyle is loaded into style sheet of every document
	DefaultStyle []byte

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// SourceOptions returns options for event sources built from forced input
// encoding.
func (e *LocalEnv) SourceOptions() []source.Option {
	if e.Encoding == "" {
		return nil
	}
	return []source.Option{source.WithEncoding(e.Encoding)}
}
