package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shoplist-cli/internal/model"
)

// Outcome says how a document was obtained on load.
type Outcome string

const (
	// OutcomeLoaded: parsed from its own key.
	OutcomeLoaded Outcome = "loaded"
	// OutcomeCreated: key was absent; a default was created and saved.
	OutcomeCreated Outcome = "created"
	// OutcomeRecovered: stored data was unreadable; a default replaced it.
	OutcomeRecovered Outcome = "recovered"
	// OutcomeMigrated: the current list was imported from the legacy key.
	OutcomeMigrated Outcome = "migrated"
)

type LoadInfo struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
	Healed  bool    `json:"healed"`

	// SaveErr is set when writing the loaded document back failed. The
	// document is still usable.
	SaveErr error `json:"-"`
}

type TemplateResult struct {
	LoadInfo
	Template model.Template
}

type StateResult struct {
	LoadInfo
	State model.State
}

// WriteError reports a write that failed twice.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Lists loads and saves the template and current list through a KV.
//
// Unreadable stored data never fails a load: it is replaced by the best
// available default and the replacement is written back. Load errors are
// reserved for the backend itself being unreadable.
type Lists struct {
	KV     KV
	Logger *slog.Logger
	Now    func() time.Time
}

func (l *Lists) log() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *Lists) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Lists) LoadTemplate(ctx context.Context) (TemplateResult, error) {
	raw, ok, err := l.KV.Get(ctx, TemplateKey)
	if err != nil {
		return TemplateResult{}, fmt.Errorf("read %s: %w", TemplateKey, err)
	}

	res := TemplateResult{}
	dirty := false
	switch {
	case !ok:
		res.Template = model.FactoryTemplate()
		res.Outcome = OutcomeCreated
		dirty = true
	default:
		tmpl, healed, perr := decodeTemplate(raw)
		if perr != nil {
			res.Template = model.FactoryTemplate()
			res.Outcome = OutcomeRecovered
			res.Reason = fmt.Sprintf("template unreadable: %v", perr)
			dirty = true
		} else {
			res.Template = tmpl
			res.Outcome = OutcomeLoaded
			res.Healed = healed
			dirty = healed
		}
	}
	if res.Template.Heal() {
		res.Healed = true
		dirty = true
	}
	l.report("template", res.LoadInfo)

	if dirty {
		res.SaveErr = l.SaveTemplate(ctx, res.Template)
	}
	return res, nil
}

// LoadState loads the current list. tmpl seeds it when nothing usable is stored.
func (l *Lists) LoadState(ctx context.Context, tmpl model.Template) (StateResult, error) {
	raw, ok, err := l.KV.Get(ctx, StateKey)
	if err != nil {
		return StateResult{}, fmt.Errorf("read %s: %w", StateKey, err)
	}

	res := StateResult{}
	dirty := false
	if ok {
		st, healed, perr := decodeState(raw)
		if perr == nil {
			res.State = st
			res.Outcome = OutcomeLoaded
			res.Healed = healed
			dirty = healed
		} else {
			res.State = model.ProjectState(tmpl)
			res.Outcome = OutcomeRecovered
			res.Reason = fmt.Sprintf("state unreadable: %v", perr)
			dirty = true
		}
	} else {
		migrated, reason, err := l.migrateLegacy(ctx)
		if err != nil {
			return StateResult{}, err
		}
		switch {
		case migrated != nil:
			res.State = migrated
			res.Outcome = OutcomeMigrated
		case reason != "":
			res.State = model.ProjectState(tmpl)
			res.Outcome = OutcomeRecovered
			res.Reason = reason
		default:
			res.State = model.ProjectState(tmpl)
			res.Outcome = OutcomeCreated
		}
		dirty = true
	}
	if res.State.Heal() {
		res.Healed = true
		dirty = true
	}
	l.report("state", res.LoadInfo)

	if dirty {
		res.SaveErr = l.SaveState(ctx, res.State)
		if res.SaveErr == nil && res.Outcome == OutcomeMigrated {
			res.SaveErr = l.write(ctx, MigratedKey, l.now().UTC().Format(time.RFC3339))
		}
	}
	return res, nil
}

// migrateLegacy returns the legacy list when it should be imported. A non-empty
// reason means legacy data existed but could not be used. The legacy key is
// never modified; once MigratedKey is set it is not consulted again.
func (l *Lists) migrateLegacy(ctx context.Context) (model.State, string, error) {
	_, done, err := l.KV.Get(ctx, MigratedKey)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", MigratedKey, err)
	}
	if done {
		return nil, "", nil
	}
	raw, ok, err := l.KV.Get(ctx, LegacyKey)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", LegacyKey, err)
	}
	if !ok {
		return nil, "", nil
	}
	st, _, perr := decodeState(raw)
	if perr != nil {
		return nil, fmt.Sprintf("legacy list unreadable: %v", perr), nil
	}
	return st, "", nil
}

func (l *Lists) report(doc string, info LoadInfo) {
	switch info.Outcome {
	case OutcomeRecovered:
		l.log().Warn("stored list replaced with default", "doc", doc, "reason", info.Reason)
	case OutcomeMigrated:
		l.log().Info("imported legacy list", "doc", doc, "key", LegacyKey)
	default:
		l.log().Debug("list loaded", "doc", doc, "outcome", info.Outcome, "healed", info.Healed)
	}
}

func (l *Lists) SaveTemplate(ctx context.Context, tmpl model.Template) error {
	if tmpl == nil {
		return errors.New("save template: nil template")
	}
	v, err := encode(tmpl)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return l.write(ctx, TemplateKey, v)
}

func (l *Lists) SaveState(ctx context.Context, st model.State) error {
	if st == nil {
		return errors.New("save state: nil state")
	}
	v, err := encode(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return l.write(ctx, StateKey, v)
}

// write retries a failed Set once before giving up.
func (l *Lists) write(ctx context.Context, key, value string) error {
	err := l.KV.Set(ctx, key, value)
	if err == nil {
		return nil
	}
	l.log().Warn("write failed; retrying", "key", key, "err", err)
	if err := l.KV.Set(ctx, key, value); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}
