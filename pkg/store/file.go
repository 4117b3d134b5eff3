package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"mercator-hq/vesta/pkg/credential"
)

// policyDocument is the on-disk YAML shape.
type policyDocument struct {
	Policies []credential.Policy `yaml:"policies"`
}

// ConstraintChecker reports whether a constraint id is known. Satisfied by
// constraint.Registry; used to surface unknown ids at load time instead of
// first evaluation.
type ConstraintChecker interface {
	Has(id string) bool
}

// File implements credential.Store over a YAML policy document. The document
// is parsed once at construction and atomically swapped on Reload; an
// optional fsnotify watcher reloads on file change.
//
// File is read-only: policies are edited in the document itself.
type File struct {
	path    string
	checker ConstraintChecker
	logger  *slog.Logger

	mu       sync.RWMutex
	policies []credential.Policy

	watchStop chan struct{}
	watchDone chan struct{}
}

// FileConfig configures the file store.
type FileConfig struct {
	// Path is the YAML policy document.
	Path string

	// Checker, when non-nil, rejects documents referencing unknown
	// constraint ids at load time.
	Checker ConstraintChecker

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewFile loads the policy document at path.
func NewFile(cfg FileConfig) (*File, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("policy file path cannot be empty")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	f := &File{
		path:    cfg.Path,
		checker: cfg.Checker,
		logger:  cfg.Logger,
	}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the policy document and atomically replaces the in-memory
// snapshot. On error the previous snapshot is kept.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("failed to read policy file %q: %w", f.path, err)
	}

	var doc policyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse policy file %q: %w", f.path, err)
	}

	if err := f.validate(doc.Policies); err != nil {
		return fmt.Errorf("policy file %q: %w", f.path, err)
	}

	f.mu.Lock()
	f.policies = doc.Policies
	f.mu.Unlock()

	f.logger.Debug("policy file loaded",
		"path", f.path,
		"policy_count", len(doc.Policies),
	)
	return nil
}

// validate rejects structurally broken documents: duplicate or missing
// policy ids and, when a checker is configured, unknown constraint ids.
func (f *File) validate(policies []credential.Policy) error {
	seen := make(map[string]struct{}, len(policies))
	for _, p := range policies {
		if p.ID == "" {
			return fmt.Errorf("policy with empty id")
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate policy id %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if f.checker == nil {
			continue
		}
		for _, c := range p.Constraints {
			if !f.checker.Has(c.ID) {
				return fmt.Errorf("policy %q: unknown constraint %q", p.ID, c.ID)
			}
		}
	}
	return nil
}

// FindByRole returns all policies whose role membership includes roleID, in
// document order.
func (f *File) FindByRole(ctx context.Context, roleID credential.RoleID) ([]credential.Policy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []credential.Policy
	for _, p := range f.policies {
		for _, r := range p.Roles {
			if r == roleID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// List returns all policies in document order.
func (f *File) List(ctx context.Context) ([]credential.Policy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]credential.Policy, len(f.policies))
	copy(out, f.policies)
	return out, nil
}

// Watch starts reloading the document on file changes. Events are debounced
// so editors that write in several steps trigger one reload. Stop the
// watcher with Close.
func (f *File) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(f.path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch policy file %q: %w", f.path, err)
	}

	f.watchStop = make(chan struct{})
	f.watchDone = make(chan struct{})

	go func() {
		defer close(f.watchDone)
		defer watcher.Close()

		const debounce = 100 * time.Millisecond
		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-f.watchStop:
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					timerC = timer.C
				} else {
					timer.Reset(debounce)
				}

			case <-timerC:
				if err := f.Reload(); err != nil {
					f.logger.Error("failed to reload policy file after change",
						"path", f.path,
						"error", err,
					)
				} else {
					f.logger.Info("policy file reloaded", "path", f.path)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Error("policy file watcher error", "error", err)
			}
		}
	}()

	return nil
}

// Close stops the watcher, if running.
func (f *File) Close() error {
	if f.watchStop != nil {
		close(f.watchStop)
		<-f.watchDone
		f.watchStop = nil
	}
	return nil
}
