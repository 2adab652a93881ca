// Package session owns one profile's template and current list for the
// lifetime of a CLI command or TUI run.
//
// A Session is driven from a single goroutine: every mutation runs to
// completion, including its writes, before the next one starts. It is not
// safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shoplist-cli/internal/model"
	"shoplist-cli/internal/mutate"
	"shoplist-cli/internal/store"
)

const defaultAckFor = 1500 * time.Millisecond

type Options struct {
	// AckFor is how long Saved reports true after a successful save.
	AckFor time.Duration

	// Notice receives a short user-facing message when a save fails.
	// It must not block.
	Notice func(msg string)

	Logger *slog.Logger
	Now    func() time.Time
}

type Session struct {
	lists *store.Lists
	opts  Options

	tmpl model.Template
	st   model.State

	tmplLoad store.LoadInfo
	stLoad   store.LoadInfo

	savedAt time.Time
}

// Open loads the template, then the current list (which may be seeded from
// the template). Only an unreadable backend fails Open.
func Open(ctx context.Context, kv store.KV, opts Options) (*Session, error) {
	if kv == nil {
		return nil, errors.New("session: nil storage")
	}
	if opts.AckFor <= 0 {
		opts.AckFor = defaultAckFor
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Session{
		lists: &store.Lists{KV: kv, Logger: opts.Logger, Now: opts.Now},
		opts:  opts,
	}

	tr, err := s.lists.LoadTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	s.tmpl = tr.Template
	s.tmplLoad = tr.LoadInfo
	if tr.SaveErr != nil {
		s.notice(tr.SaveErr)
	}

	sr, err := s.lists.LoadState(ctx, s.tmpl)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	s.st = sr.State
	s.stLoad = sr.LoadInfo
	if sr.SaveErr != nil {
		s.notice(sr.SaveErr)
	}
	return s, nil
}

func (s *Session) TemplateLoad() store.LoadInfo { return s.tmplLoad }
func (s *Session) StateLoad() store.LoadInfo    { return s.stLoad }

// Template returns a copy of the default list.
func (s *Session) Template() model.Template { return s.tmpl.Clone() }

// State returns a copy of the current list.
func (s *Session) State() model.State { return s.st.Clone() }

// Items returns a copy of one category of the current list.
func (s *Session) Items(c model.CategoryID) []model.Item {
	items := s.st[c]
	out := make([]model.Item, len(items))
	copy(out, items)
	return out
}

// Saved reports whether the "Saved" acknowledgement should still be shown.
func (s *Session) Saved(now time.Time) bool {
	if s.savedAt.IsZero() {
		return false
	}
	return now.Sub(s.savedAt) < s.opts.AckFor
}

func (s *Session) AckFor() time.Duration { return s.opts.AckFor }

func (s *Session) IsInTemplate(c model.CategoryID, text string) bool {
	return mutate.IsInTemplate(s.tmpl, c, text)
}

func (s *Session) AddToCurrent(ctx context.Context, c model.CategoryID, text string) (mutate.Result, error) {
	res, err := mutate.AddToCurrent(s.st, c, text)
	if err != nil {
		return res, err
	}
	return res, s.persist(ctx, res)
}

func (s *Session) AddToDefault(ctx context.Context, c model.CategoryID, text string) (mutate.Result, error) {
	res, err := mutate.AddToDefault(s.tmpl, s.st, c, text)
	if err != nil {
		return res, err
	}
	return res, s.persist(ctx, res)
}

func (s *Session) Toggle(ctx context.Context, c model.CategoryID, id string) (mutate.Result, error) {
	res, err := mutate.Toggle(s.st, c, id)
	if err != nil {
		return res, err
	}
	return res, s.persist(ctx, res)
}

func (s *Session) Delete(ctx context.Context, c model.CategoryID, id string) (mutate.Result, error) {
	res, err := mutate.Delete(s.st, c, id)
	if err != nil {
		return res, err
	}
	return res, s.persist(ctx, res)
}

// RemoveFromDefault removes text from the template and the current list.
// Callers must have obtained the user's confirmation.
func (s *Session) RemoveFromDefault(ctx context.Context, c model.CategoryID, text string) (mutate.Result, error) {
	res, err := mutate.RemoveFromDefault(s.tmpl, s.st, c, text)
	if err != nil {
		return res, err
	}
	return res, s.persist(ctx, res)
}

func (s *Session) Reset(ctx context.Context) (mutate.Result, error) {
	res := mutate.Reset(s.tmpl, s.st)
	return res, s.persist(ctx, res)
}

func (s *Session) UncrossAll(ctx context.Context) (mutate.Result, error) {
	res := mutate.UncrossAll(s.st)
	return res, s.persist(ctx, res)
}

// persist writes the template before the current list. The two writes are
// not atomic: if the second fails the stored documents may disagree until
// the next successful save.
func (s *Session) persist(ctx context.Context, res mutate.Result) error {
	if !res.Changed() {
		return nil
	}
	if res.TemplateChanged {
		if err := s.lists.SaveTemplate(ctx, s.tmpl); err != nil {
			s.notice(err)
			return err
		}
	}
	if res.StateChanged {
		if err := s.lists.SaveState(ctx, s.st); err != nil {
			s.notice(err)
			return err
		}
	}
	s.savedAt = s.opts.Now()
	return nil
}

func (s *Session) notice(err error) {
	s.opts.Logger.Error("save failed", "err", err)
	if s.opts.Notice == nil {
		return
	}
	var we *store.WriteError
	if errors.As(err, &we) {
		s.opts.Notice(fmt.Sprintf("Could not save %s; changes are kept in memory only", we.Key))
		return
	}
	s.opts.Notice("Could not save: " + err.Error())
}
