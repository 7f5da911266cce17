package state

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"hdoc/config"
	"hdoc/worker"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:    time.Now(),
		Registry: worker.NewRegistry(),
	}
}

// ApplyDocumentConfig copies document settings into environment: tokenizer
// and sink mode, forced encoding and additional tag registrations. Tags with
// invalid kinds are skipped and reported in returned error, valid ones are
// registered regardless.
func (e *LocalEnv) ApplyDocumentConfig(doc *config.DocumentConfig) (err error) {
	e.Tokenizer = doc.Tokenizer
	e.Sink = doc.Sink
	if doc.Encoding != "" {
		e.Encoding = doc.Encoding
	}
	if e.Registry == nil {
		e.Registry = worker.NewRegistry()
	}
	for name, kind := range doc.Tags {
		k, perr := worker.ParseTagKind(kind)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("tag %q: %w", name, perr))
			continue
		}
		e.Registry.Register(name, k)
	}
	return err
}
