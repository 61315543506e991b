// Package progress publishes the phase events of a detector run to handlers.
package progress

import (
	"os"

	"github.com/petrarca/dependency-detector/internal/aggregator"
	"github.com/petrarca/dependency-detector/internal/detector"
)

// Progress is the listener registry. Handlers are invoked synchronously,
// in subscription order, from the goroutine that publishes.
type Progress struct {
	enabled  bool
	handlers []Handler
}

// New creates a new progress reporter. A nil handler means a SimpleHandler on stderr.
func New(enabled bool, handler Handler) *Progress {
	if handler == nil {
		handler = NewSimpleHandler(os.Stderr)
	}
	return &Progress{
		enabled:  enabled,
		handlers: []Handler{handler},
	}
}

// Subscribe adds a handler
func (p *Progress) Subscribe(h Handler) {
	if h != nil {
		p.handlers = append(p.handlers, h)
	}
}

// Handlers returns the registered handlers
func (p *Progress) Handlers() []Handler {
	return append([]Handler(nil), p.handlers...)
}

// Publish sends an event to every handler (only if enabled)
func (p *Progress) Publish(event Event) {
	if !p.enabled {
		return
	}
	for _, h := range p.handlers {
		h.Handle(event)
	}
}

// Convenience methods for the scanner to publish events

func (p *Progress) SearchCompleted(tree *detector.EvaluationTree) {
	p.Publish(Event{Type: EventSearchCompleted, Tree: tree})
}

func (p *Progress) PreparationCompleted(tree *detector.EvaluationTree) {
	p.Publish(Event{Type: EventPreparationCompleted, Tree: tree})
}

func (p *Progress) ExtractionCount(count int) {
	p.Publish(Event{Type: EventExtractionCount, Count: count})
}

func (p *Progress) ExtractionsCompleted(tree *detector.EvaluationTree) {
	p.Publish(Event{Type: EventExtractionsCompleted, Tree: tree})
}

func (p *Progress) StatusSummary(t detector.DetectorType, status aggregator.Status) {
	p.Publish(Event{Type: EventStatusSummary, Status: DetectorStatus{Type: t, Status: status}})
}

func (p *Progress) DetectorsComplete(result *aggregator.Result) {
	p.Publish(Event{Type: EventDetectorsComplete, Result: result})
}

// Recorder keeps every event it handles. It is used in tests and by callers
// that inspect a run after the fact.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Handle(event Event) {
	r.Events = append(r.Events, event)
}

// Types returns the recorded event types in order
func (r *Recorder) Types() []EventType {
	types := make([]EventType, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.Type
	}
	return types
}

// NullHandler discards all events (for disabled verbose mode)
type NullHandler struct{}

func NewNullHandler() *NullHandler {
	return &NullHandler{}
}

func (h *NullHandler) Handle(event Event) {
	// Do nothing
}
