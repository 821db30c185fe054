// Package generator drives a generation run: it loads the key store, asks a
// policy for each request, encodes the records and persists the outputs.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/ammogen/internal/ammo"
	"github.com/torosent/ammogen/internal/keystore"
	"github.com/torosent/ammogen/internal/log"
	"github.com/torosent/ammogen/internal/metrics"
	"github.com/torosent/ammogen/internal/output"
	"github.com/torosent/ammogen/internal/policy"
)

const (
	defaultProgressInterval = time.Second
	ctxCheckEvery           = 1024
)

// Options configures a run.
type Options struct {
	Method     policy.Method
	Num        int
	KeysFile   string
	KeysFormat keystore.Format
	KeysField  string
	OutputDir  string
	// AmmoOut and KeysOut default to <tag>.ammo and <tag>.keys in OutputDir.
	AmmoOut   string
	KeysOut   string
	URLPrefix string
	Policy    policy.Options
	// Seed seeds the random source; zero picks a time-based seed.
	Seed             int64
	Progress         bool
	ProgressInterval time.Duration
	Logger           log.Logger
}

// Result describes a completed run.
type Result struct {
	RunID      string
	Method     policy.Method
	Tag        string
	Seed       int64
	AmmoFile   string
	KeysFile   string
	KeysLoaded int
	KeysSaved  int
	Stats      metrics.Stats
}

// Generator executes one run per call to Run.
type Generator struct {
	opts   Options
	logger log.Logger
}

// New returns a Generator for opts.
func New(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	if opts.URLPrefix == "" {
		opts.URLPrefix = ammo.DefaultURLPrefix
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = defaultProgressInterval
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	tag := opts.Method.Tag()
	if opts.AmmoOut == "" {
		opts.AmmoOut = filepath.Join(opts.OutputDir, tag+".ammo")
	}
	if opts.KeysOut == "" {
		opts.KeysOut = filepath.Join(opts.OutputDir, tag+".keys")
	}
	return &Generator{opts: opts, logger: logger}
}

// Run generates the ammo file and, for methods that mint keys, the keys file.
// Both are written to synced temporary files first. The ammo file is renamed
// into place before the keys file, so a failed run never leaves a rewritten
// keys file behind.
func (g *Generator) Run(ctx context.Context) (Result, error) {
	opts := g.opts
	if _, err := policy.ParseMethod(string(opts.Method)); err != nil {
		return Result{}, err
	}
	if opts.Num < 0 {
		return Result{}, fmt.Errorf("num must be >= 0, got %d", opts.Num)
	}

	unlock, err := acquireLock(opts)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	store, err := g.loadStore()
	if err != nil {
		return Result{}, err
	}
	loaded := store.Len()

	rnd := rand.New(rand.NewSource(opts.Seed))
	p, err := policy.New(opts.Method, store, rnd, opts.Policy)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:      ulid.Make().String(),
		Method:     opts.Method,
		Tag:        opts.Method.Tag(),
		Seed:       opts.Seed,
		AmmoFile:   opts.AmmoOut,
		KeysLoaded: loaded,
	}
	g.logger.Info("generating ammo",
		"run_id", result.RunID,
		"method", string(opts.Method),
		"num", opts.Num,
		"seed", opts.Seed,
		"keys_loaded", loaded,
	)

	collector := metrics.NewCollector()
	var progress *output.ProgressReporter
	if opts.Progress {
		progress = output.NewProgressReporter(collector, g.logger, opts.Num, opts.ProgressInterval)
	}

	ammoTmp, err := stageFile(opts.AmmoOut, func(f *os.File) error {
		return g.generate(ctx, p, f, collector, progress)
	})
	if err != nil {
		return Result{}, err
	}

	var keys *keystore.Pending
	if opts.Method.MintsKeys() {
		keys, err = store.Stage(opts.KeysOut)
		if err != nil {
			os.Remove(ammoTmp)
			return Result{}, err
		}
	}
	if err := os.Rename(ammoTmp, opts.AmmoOut); err != nil {
		os.Remove(ammoTmp)
		keys.Discard()
		return Result{}, fmt.Errorf("rename ammo file: %w", err)
	}
	if keys != nil {
		if err := keys.Commit(); err != nil {
			// The new ammo references keys that were never saved.
			os.Remove(opts.AmmoOut)
			return Result{}, err
		}
		result.KeysFile = opts.KeysOut
		result.KeysSaved = store.Len()
	}
	progress.Finish()

	result.Stats = collector.Stats(collector.Elapsed())
	g.logger.Info("ammo written",
		"run_id", result.RunID,
		"ammo_file", result.AmmoFile,
		"records", result.Stats.Total,
		"bytes", result.Stats.Bytes,
		"keys_saved", result.KeysSaved,
	)
	return result, nil
}

func (g *Generator) generate(ctx context.Context, p policy.Policy, f *os.File, collector *metrics.Collector, progress *output.ProgressReporter) error {
	w := ammo.NewWriter(f)
	collector.Start()
	for i := 0; i < g.opts.Num; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		req, err := p.Next()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		n, err := w.Write(req.Method, ammo.EntityURL(g.opts.URLPrefix, req.Key), req.Tag, req.Body)
		if err != nil {
			return fmt.Errorf("write ammo: %w", err)
		}
		newKey := req.Method == policy.HTTPMethodPut && !req.Rewrite
		collector.Record(req.Method, req.Tag, n, newKey, req.Rewrite)
		progress.Tick()
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush ammo: %w", err)
	}
	return nil
}

// loadStore reads the keys file. Methods that read keys need an existing,
// non-empty file; methods that only mint keys treat it as optional.
func (g *Generator) loadStore() (*keystore.Store, error) {
	opts := g.opts
	if opts.KeysFile == "" {
		if opts.Method.NeedsKeys() {
			return nil, fmt.Errorf("%w: --keys is required for method %s", keystore.ErrMissingKeysFile, opts.Method)
		}
		return keystore.New(), nil
	}

	store, exists, err := keystore.Load(keystore.Source{
		Path:   opts.KeysFile,
		Format: opts.KeysFormat,
		Field:  opts.KeysField,
	})
	if err != nil {
		return nil, err
	}
	if !opts.Method.NeedsKeys() {
		if !exists {
			g.logger.Debug("keys file not found, starting empty", "path", opts.KeysFile)
		}
		return store, nil
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s does not exist", keystore.ErrMissingKeysFile, opts.KeysFile)
	}
	if store.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", opts.KeysFile, keystore.ErrEmptyKeyStore)
	}
	return store, nil
}

// stageFile creates a temp file next to path and lets fill write it. The
// synced temp file's name is returned; renaming it over path is left to the
// caller so several outputs can be put in place together.
func stageFile(path string, fill func(f *os.File) error) (_ string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create ammo file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return "", err
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync ammo file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close ammo file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod ammo file: %w", err)
	}
	return tmp.Name(), nil
}
