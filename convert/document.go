package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hdoc/archive"
	"hdoc/element"
	"hdoc/images"
	"hdoc/markup"
	"hdoc/source"
	"hdoc/state"
	"hdoc/worker"
)

// maxTitleLength limits title used for output name expansion.
const maxTitleLength = 64

// document is a single input to convert.
type document struct {
	r   io.Reader
	enc srcEncoding
	// src is part of the source path relative to the processed input
	// (always including file name).
	src string
	// dir is the directory relative image paths are resolved against, empty
	// for documents inside archives.
	dir string
	// arc and entry are set for documents coming from archive
	arc   *archive.Dir
	entry string
}

// archiveImages returns image provider reading images from the archive,
// references are relative to the document path inside archive.
func archiveImages(dir *archive.Dir, docPath string, resolver *images.Resolver) worker.ImageProvider {
	base := path.Dir(docPath)
	return worker.ImageProviderFunc(func(src string, _ markup.Attrs, _ *markup.Chain, _ worker.Listener) (*element.Image, error) {
		if src == "" || strings.Contains(src, ":") || strings.HasPrefix(src, "/") {
			// data URIs, remote and absolute references are resolved elsewhere
			return nil, nil
		}
		data, err := dir.ReadFile(path.Join(base, src))
		if err != nil {
			// not in archive, let resolver try
			return nil, nil
		}
		return resolver.Decode(src, data)
	})
}

// newStyleSheet builds document style sheet: configured tag and class
// defaults followed by default or user CSS. Styles embedded in the document
// are added to it later by the worker.
func newStyleSheet(env *state.LocalEnv, log *zap.Logger) *markup.StyleSheet {
	style := markup.NewStyleSheet(log)
	for tag, attrs := range env.Cfg.Document.Styles.Tags {
		for k, v := range attrs {
			style.LoadTagStyle(tag, k, v)
		}
	}
	for class, attrs := range env.Cfg.Document.Styles.Classes {
		for k, v := range attrs {
			style.LoadStyle(class, k, v)
		}
	}
	if len(env.DefaultStyle) > 0 {
		style.Load(env.DefaultStyle, "default")
	}
	return style
}

func newResolver(env *state.LocalEnv, dir string, log *zap.Logger) *images.Resolver {
	cfg := env.Cfg.Document.Images
	if cfg.BaseDir != "" {
		dir = cfg.BaseDir
	}
	return images.NewResolver(log, images.Options{
		BaseDir:      dir,
		BaseURL:      env.Cfg.Document.BaseURL,
		AllowRemote:  cfg.AllowRemote,
		Timeout:      cfg.RemoteTimeout,
		Token:        cfg.RemoteToken.Reveal(),
		UseBroken:    cfg.UseBroken,
		ScaleFactor:  cfg.ScaleFactor,
		MaxWidth:     cfg.MaxWidth,
		RasterizeSVG: cfg.RasterizeSVG,
		JPEGQuality:  cfg.JPEGQuality,
	})
}

// tracker sits between worker and the real sink: it remembers document
// title, counts elements and stops the worker when element limit is reached.
type tracker struct {
	next  worker.Listener
	info  *docInfo
	limit int
}

func (t *tracker) Add(e element.Element) (bool, error) {
	if t.info.Title == "" {
		if title := strings.TrimSpace(element.Text(e)); title != "" {
			if r := []rune(title); len(r) > maxTitleLength {
				title = string(r[:maxTitleLength])
			}
			t.info.Title = title
		}
	}
	ok, err := t.next.Add(e)
	if err != nil {
		return false, err
	}
	t.info.Elements++
	if t.limit > 0 && t.info.Elements >= t.limit {
		return false, nil
	}
	return ok, nil
}

// processDocument converts single document writing element tree dump into
// "dst" directory.
func processDocument(ctx context.Context, doc document, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	info := &docInfo{SrcName: doc.src, RefID: uuid.NewString()}
	log = log.With(zap.String("ref_id", info.RefID))

	var outputName string

	log.Info("Conversion starting", zap.String("from", doc.src))
	defer func(start time.Time) {
		// NOTE: image decoding libraries may panic on broken data, when
		// multiple documents are being processed we do not want to stop.
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.Int("elements", info.Elements))
		}
	}(time.Now())

	r := selectReader(doc.r, doc.enc)
	if env.Rpt != nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("unable to read source (%s): %w", doc.src, err)
		}
		env.Rpt.StoreData(fmt.Sprintf("source-%s%s", info.RefID, filepath.Ext(doc.src)), data)
		r = bytes.NewReader(data)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dst, ".hdoc-*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		tmp.Close()
		// removed unless renamed to the output name
		os.Remove(tmp.Name())
	}()

	var (
		batch worker.Collector
		sink  worker.Listener = &batch
	)
	if env.Sink.Incremental() {
		sink = worker.NewDumpListener(tmp)
	}

	resolver := newResolver(env, doc.dir, log)
	var provider worker.ImageProvider
	if doc.arc != nil {
		provider = archiveImages(doc.arc, doc.entry, resolver)
	}

	w := worker.New(&tracker{next: sink, info: info, limit: env.MaxElements},
		worker.WithLogger(log),
		worker.WithContext(ctx),
		worker.WithStyleSheet(newStyleSheet(env, log)),
		worker.WithRegistry(env.Registry),
		worker.WithProviders(worker.Providers{ImageProvider: provider, BaseURL: env.Cfg.Document.BaseURL}),
		worker.WithResolver(resolver),
	)
	if err := source.ForKind(env.Tokenizer, env.SourceOptions()...)(ctx, r, w); err != nil {
		return fmt.Errorf("unable to convert source (%s): %w", doc.src, err)
	}
	if w.Stopped() {
		log.Info("Element limit reached, rest of the document was skipped", zap.Int("limit", env.MaxElements))
	}

	if !env.Sink.Incremental() {
		if _, err := io.WriteString(tmp, element.Dump(batch.Elements()...)); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	outputName = buildOutputPath(info, dst, env)
	if err := prepareDestination(outputName, env.Overwrite, log); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), outputName); err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s%s", info.RefID, outputExt), outputName)
	}
	return nil
}

// prepareDestination makes sure output file could be created.
func prepareDestination(name string, overwrite bool, log *zap.Logger) error {
	_, err := os.Stat(name)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
		return os.Remove(name)
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
