package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/roach88/rollforward/internal/client"
	"github.com/roach88/rollforward/internal/metrics"
	"github.com/roach88/rollforward/internal/session"
	"github.com/roach88/rollforward/internal/state"
	"github.com/roach88/rollforward/internal/store"
	"github.com/roach88/rollforward/internal/wire"
)

// workspace is one command's view of the working model file: the file is
// decoded into a fresh store, commands dispatch against the store, and
// persist writes it back.
type workspace struct {
	opts    *RootOptions
	store   *state.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	exists  bool
	closers []func() error
}

// openWorkspace loads the working model. A missing file yields an empty
// model.
func openWorkspace(opts *RootOptions) (*workspace, error) {
	logger := slog.Default()
	m := metrics.New()
	ws := &workspace{
		opts:    opts,
		store:   state.New(state.WithObserver(m), state.WithLogger(logger)),
		metrics: m,
		logger:  logger,
	}

	data, err := os.ReadFile(ws.path())
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no working model, starting empty", "path", ws.path())
		return ws, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", ws.path(), err)
	}
	snap, err := wire.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", ws.path(), err)
	}
	ws.store.Dispatch(state.LoadModel{State: wire.Decompose(snap)})
	ws.exists = true
	return ws, nil
}

func (w *workspace) path() string {
	if w.opts.Model == "" {
		return "model.json"
	}
	return w.opts.Model
}

// snapshot captures the current model, with or without metadata.
func (w *workspace) snapshot() wire.Snapshot {
	current, _ := w.store.Snapshot()
	return wire.Capture(current)
}

// persist writes the model back to the working file via a temp file and
// rename.
func (w *workspace) persist() error {
	data, err := wire.Encode(w.snapshot())
	if err != nil {
		return err
	}
	path := w.path()
	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*.json")
	if err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write model %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	w.logger.Debug("model written", "path", path, "bytes", len(data))
	return nil
}

// backend returns the configured service: the local repository when --db is
// set, the HTTP client otherwise.
func (w *workspace) backend() (session.Service, error) {
	if w.opts.Service != nil {
		return w.opts.Service, nil
	}
	if w.opts.DB != "" {
		repo, err := w.repository()
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	opts := []client.Option{client.WithLogger(w.logger), client.WithRetry(w.opts.Retries)}
	if w.opts.Timeout > 0 {
		opts = append(opts, client.WithHTTPClient(&http.Client{Timeout: w.opts.Timeout}))
	}
	return client.New(w.opts.APIURL, opts...), nil
}

// repository opens the local repository named by --db.
func (w *workspace) repository() (*store.Store, error) {
	repo, err := store.Open(w.opts.DB, store.WithLogger(w.logger))
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", w.opts.DB, err)
	}
	w.closers = append(w.closers, repo.Close)
	return repo, nil
}

// session binds the store to the configured backend.
func (w *workspace) session() (*session.Session, error) {
	svc, err := w.backend()
	if err != nil {
		return nil, err
	}
	opts := []session.Option{session.WithObserver(w.metrics), session.WithLogger(w.logger)}
	if w.opts.Tokens != nil {
		opts = append(opts, session.WithTokens(w.opts.Tokens))
	}
	return session.New(w.store, svc, opts...), nil
}

// close releases backends and writes the metrics file when configured.
func (w *workspace) close() {
	for _, c := range w.closers {
		if err := c(); err != nil {
			w.logger.Error("close failed", "error", err)
		}
	}
	if w.opts.MetricsFile != "" {
		if err := w.metrics.WriteTextfile(w.opts.MetricsFile); err != nil {
			w.logger.Error("metrics not written", "error", err)
		}
	}
}

// withWorkspace opens the workspace, runs fn and closes it. Open failures
// are reported as model file errors.
func withWorkspace(opts *RootOptions, f *OutputFormatter, fn func(*workspace) error) error {
	ws, err := openWorkspace(opts)
	if err != nil {
		return failWith(f, ErrCodeModelFile, ExitCommandError, err.Error(), err)
	}
	defer ws.close()
	return fn(ws)
}

// commit persists the model, reporting write failures.
func (w *workspace) commit(f *OutputFormatter) error {
	if err := w.persist(); err != nil {
		return failWith(f, ErrCodeModelFile, ExitCommandError, err.Error(), err)
	}
	return nil
}
