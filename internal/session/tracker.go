// Package session tracks per-conversation state: the first-prompt flag,
// packages already surfaced, and the operator role. State lives in an
// in-memory registry owned by the Tracker and is mirrored to an
// append-only JSONL log so it survives process restarts.
package session

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/starford/mimir/internal/apperr"
	"github.com/starford/mimir/internal/settings"
)

const logFile = "session-state.jsonl"

// State is the tracked state of one conversation session.
type State struct {
	Role            *string
	IsFirstPrompt   bool
	LoadedPackages  map[string]struct{}
	CreatedAt       time.Time
	CategoriesShown bool
}

// record is the durable snapshot form of State, one line per mutation.
type record struct {
	SessionID       string    `json:"sessionId"`
	Role            *string   `json:"role"`
	IsFirstPrompt   bool      `json:"isFirstPrompt"`
	LoadedPackages  []string  `json:"loadedPackages"`
	CreatedAt       time.Time `json:"createdAt"`
	CategoriesShown bool      `json:"categoriesShown"`
	Timestamp       time.Time `json:"timestamp"`
}

// Updates carries a partial mutation; nil fields are left unchanged.
type Updates struct {
	IsFirstPrompt   *bool
	CategoriesShown *bool
	LoadPackages    []string // added to the loaded set
}

// Tracker owns the session registry. The host guarantees hooks for one
// session never run concurrently, so the registry needs no locking.
type Tracker struct {
	logPath  string
	states   map[string]*State
	settings *settings.Store
	logger   *slog.Logger
}

// NewTracker creates a tracker whose durable log lives under dir.
func NewTracker(dir string, st *settings.Store, logger *slog.Logger) *Tracker {
	return &Tracker{
		logPath:  filepath.Join(dir, logFile),
		states:   map[string]*State{},
		settings: st,
		logger:   logger,
	}
}

// Create initializes state for sessionID. If the most recent durable
// record belongs to the same session, that state is restored as-is —
// including a previously persisted isFirstPrompt=false. Otherwise the
// log is truncated (it only ever tracks the current session) and a
// fresh state is registered and persisted.
func (t *Tracker) Create(sessionID string) error {
	var rec record
	if readLastLine(t.logPath, &rec) && rec.SessionID == sessionID {
		loaded := make(map[string]struct{}, len(rec.LoadedPackages))
		for _, p := range rec.LoadedPackages {
			loaded[p] = struct{}{}
		}
		t.states[sessionID] = &State{
			Role:            rec.Role,
			IsFirstPrompt:   rec.IsFirstPrompt,
			LoadedPackages:  loaded,
			CreatedAt:       rec.CreatedAt,
			CategoriesShown: rec.CategoriesShown,
		}
		t.logger.Debug("session: recovered from log", slog.String("session_id", sessionID))
		return nil
	}

	var role *string
	cfg, err := t.settings.Load()
	if err != nil {
		return err
	}
	if cfg != nil && cfg.Role != "" {
		role = &cfg.Role
	}

	if err := truncate(t.logPath); err != nil {
		return err
	}

	state := &State{
		Role:           role,
		IsFirstPrompt:  true,
		LoadedPackages: map[string]struct{}{},
		CreatedAt:      time.Now(),
	}
	t.states[sessionID] = state
	return t.persist(sessionID, state)
}

// Get returns the in-memory state for sessionID. Recovery happens only
// inside Create; an untracked id fails with ErrSessionNotFound.
func (t *Tracker) Get(sessionID string) (*State, error) {
	state, ok := t.states[sessionID]
	if !ok {
		return nil, apperr.ErrSessionNotFound
	}
	return state, nil
}

// Update merges the partial fields into the tracked state and appends a
// full snapshot to the durable log.
func (t *Tracker) Update(sessionID string, u Updates) error {
	state, err := t.Get(sessionID)
	if err != nil {
		return err
	}
	if u.IsFirstPrompt != nil {
		state.IsFirstPrompt = *u.IsFirstPrompt
	}
	if u.CategoriesShown != nil {
		state.CategoriesShown = *u.CategoriesShown
	}
	for _, p := range u.LoadPackages {
		state.LoadedPackages[p] = struct{}{}
	}
	return t.persist(sessionID, state)
}

// persist appends one complete snapshot line for the session.
func (t *Tracker) persist(sessionID string, state *State) error {
	loaded := make([]string, 0, len(state.LoadedPackages))
	for p := range state.LoadedPackages {
		loaded = append(loaded, p)
	}
	return appendLine(t.logPath, record{
		SessionID:       sessionID,
		Role:            state.Role,
		IsFirstPrompt:   state.IsFirstPrompt,
		LoadedPackages:  loaded,
		CreatedAt:       state.CreatedAt,
		CategoriesShown: state.CategoriesShown,
		Timestamp:       time.Now(),
	})
}
