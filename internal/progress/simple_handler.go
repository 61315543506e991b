package progress

import (
	"fmt"
	"io"
	"time"
)

// SimpleHandler outputs events as simple lines (no tree)
type SimpleHandler struct {
	writer io.Writer
	now    func() time.Time
	last   time.Time // time of the previous event
}

func NewSimpleHandler(writer io.Writer) *SimpleHandler {
	return &SimpleHandler{
		writer: writer,
		now:    time.Now,
	}
}

// Start marks the beginning of the run for the first phase duration.
func (h *SimpleHandler) Start() {
	h.last = h.now()
}

func (h *SimpleHandler) elapsed() float64 {
	now := h.now()
	if h.last.IsZero() {
		h.last = now
	}
	d := now.Sub(h.last)
	h.last = now
	return d.Seconds()
}

func (h *SimpleHandler) Handle(event Event) {
	switch event.Type {
	case EventSearchCompleted:
		c := countTree(event.Tree)
		fmt.Fprintf(h.writer, "[SEARCH]  Completed: %d directories, %d applicable in %.1fs\n",
			c.directories, c.applicable, h.elapsed())

	case EventPreparationCompleted:
		c := countTree(event.Tree)
		fmt.Fprintf(h.writer, "[PREP]    Completed: %d of %d applicable are extractable in %.1fs\n",
			c.extractable, c.applicable, h.elapsed())

	case EventExtractionCount:
		fmt.Fprintf(h.writer, "[EXTRACT] Planned extractions: %d\n", event.Count)

	case EventExtractionsCompleted:
		c := countTree(event.Tree)
		fmt.Fprintf(h.writer, "[EXTRACT] Completed: %d succeeded, %d failed in %.1fs\n",
			c.succeeded, c.failed, h.elapsed())

	case EventStatusSummary:
		fmt.Fprintf(h.writer, "[STATUS]  %s: %s\n", event.Status.Type, event.Status.Status)

	case EventDetectorsComplete:
		if event.Result == nil {
			return
		}
		fmt.Fprintf(h.writer, "[DONE]    %d code locations", len(event.Result.CodeLocations))
		if event.Result.ProjectName != "" {
			fmt.Fprintf(h.writer, " for %s", event.Result.ProjectName)
			if event.Result.ProjectVersion != "" {
				fmt.Fprintf(h.writer, " %s", event.Result.ProjectVersion)
			}
		}
		fmt.Fprintln(h.writer)
	}
}
