package progress

import (
	"fmt"
	"strings"

	"github.com/petrarca/dependency-detector/internal/aggregator"
	"github.com/petrarca/dependency-detector/internal/detector"
)

// EventType represents the kind of a detector event. The set is closed.
type EventType int

const (
	EventSearchCompleted EventType = iota
	EventPreparationCompleted
	EventExtractionCount
	EventExtractionsCompleted
	EventStatusSummary
	EventDetectorsComplete
)

func (t EventType) String() string {
	switch t {
	case EventSearchCompleted:
		return "SearchCompleted"
	case EventPreparationCompleted:
		return "PreparationCompleted"
	case EventExtractionCount:
		return "ExtractionCount"
	case EventExtractionsCompleted:
		return "ExtractionsCompleted"
	case EventStatusSummary:
		return "StatusSummary"
	case EventDetectorsComplete:
		return "DetectorsComplete"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// DetectorStatus is the payload of EventStatusSummary
type DetectorStatus struct {
	Type   detector.DetectorType
	Status aggregator.Status
}

// Event is published at a phase boundary of a run. Only the payload field
// belonging to Type is set.
type Event struct {
	Type   EventType
	Tree   *detector.EvaluationTree // search, preparation and extraction events
	Count  int                      // EventExtractionCount
	Status DetectorStatus           // EventStatusSummary
	Result *aggregator.Result       // EventDetectorsComplete
}

// Publisher is what the scanner publishes events to
type Publisher interface {
	Publish(event Event)
}

// Handler processes events and produces output
type Handler interface {
	Handle(event Event)
}

// treeCounts summarizes the evaluations of a tree for display
type treeCounts struct {
	directories int
	applicable  int
	extractable int
	succeeded   int
	failed      int
}

func countTree(tree *detector.EvaluationTree) treeCounts {
	var c treeCounts
	if tree == nil {
		return c
	}
	c.directories = len(tree.AsFlatList())
	for _, e := range tree.AllEvaluations() {
		if e.Applicable() {
			c.applicable++
		}
		if e.Extractable() {
			c.extractable++
		}
		if e.Extraction() != nil {
			if e.Succeeded() {
				c.succeeded++
			} else {
				c.failed++
			}
		}
	}
	return c
}

// shortenPath shortens a path for display if it's too long
func shortenPath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	parts := strings.Split(path, "/")
	if len(parts) > 3 {
		return ".../" + strings.Join(parts[len(parts)-2:], "/")
	}
	return path
}
