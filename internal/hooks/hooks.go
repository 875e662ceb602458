// Package hooks consumes host lifecycle notifications. The Dispatcher
// is the explicit context object threaded through the dispatch path; it
// owns the session tracker for the process lifetime.
package hooks

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/starford/mimir/internal/catalog"
	"github.com/starford/mimir/internal/search"
	"github.com/starford/mimir/internal/session"
	"github.com/starford/mimir/internal/template"
)

// Part is one block of an outgoing chat message.
type Part struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	ID        string `json:"id"`
	SessionID string `json:"sessionID"`
	MessageID string `json:"messageID"`
}

// Message is the outgoing chat message the host lets us extend.
type Message struct {
	SessionID string
	MessageID string
	Parts     []Part
}

// Dispatcher reacts to host lifecycle events.
type Dispatcher struct {
	tracker      *session.Tracker
	engine       *search.Engine
	builder      *catalog.Builder
	templatesDir string
	logger       *slog.Logger
}

// NewDispatcher wires the hook dispatcher.
func NewDispatcher(tracker *session.Tracker, engine *search.Engine, builder *catalog.Builder, templatesDir string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		tracker:      tracker,
		engine:       engine,
		builder:      builder,
		templatesDir: templatesDir,
		logger:       logger,
	}
}

// SessionCreated handles the host's session-created notification:
// refresh a stale catalog and register (or recover) session state.
func (d *Dispatcher) SessionCreated(sessionID string) error {
	if d.builder.NeedsRebuild() {
		if _, err := d.builder.Rebuild(); err != nil {
			d.logger.Warn("hooks: catalog rebuild failed", slog.String("error", err.Error()))
		}
	}
	if err := d.tracker.Create(sessionID); err != nil {
		return err
	}
	d.logger.Info("hooks: session registered", slog.String("session_id", sessionID))
	return nil
}

// ChatMessage appends the one-time orientation payload (role context
// plus the category/tag discovery map) to the first message of a
// session, then flips the first-prompt flag. Later turns are no-ops.
func (d *Dispatcher) ChatMessage(msg *Message) error {
	state, err := d.tracker.Get(msg.SessionID)
	if err != nil {
		return err
	}
	if !state.IsFirstPrompt {
		return nil
	}

	role := ""
	if state.Role != nil {
		role = *state.Role
	}
	text := "## Role Context\n\n" + template.Personality(d.templatesDir, role)

	shownCategories := state.CategoriesShown
	if !shownCategories {
		m, mapErr := d.engine.CategoryTagMap()
		if mapErr != nil {
			d.logger.Warn("hooks: category map unavailable", slog.String("error", mapErr.Error()))
		} else if len(m) > 0 {
			text += "\n\n## Knowledge Categories\n\n" + search.FormatCategoryTagMap(m)
			shownCategories = true
		}
	}

	msg.Parts = append(msg.Parts, Part{
		Type:      "text",
		Text:      text,
		ID:        "orientation-" + uuid.NewString(),
		SessionID: msg.SessionID,
		MessageID: msg.MessageID,
	})

	first := false
	return d.tracker.Update(msg.SessionID, session.Updates{
		IsFirstPrompt:   &first,
		CategoriesShown: &shownCategories,
	})
}
