package progress

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrarca/dependency-detector/internal/aggregator"
	"github.com/petrarca/dependency-detector/internal/detector"
	"github.com/petrarca/dependency-detector/internal/graph"
)

type manifestDetectable struct {
	dir       string
	manifests map[string]bool
	fail      bool
}

func (d manifestDetectable) Applicable() detector.Result {
	if d.manifests[d.dir] {
		return detector.Pass()
	}
	return detector.Fail("no manifest")
}

func (d manifestDetectable) Extractable() detector.Result { return detector.Pass() }

func (d manifestDetectable) Extract(*detector.ExtractionEnvironment) *detector.Extraction {
	if d.fail {
		return detector.NewFailure("broken")
	}
	return detector.NewSuccess(graph.NewCodeLocation(nil))
}

// evaluatedTree has GO_MOD applicable at /src and /src/api, failing at /src/api.
func evaluatedTree(t *testing.T) *detector.EvaluationTree {
	t.Helper()
	root := detector.NewEvaluationTree("/src")
	root.AddChild("/src/api")
	root.AddChild("/src/docs")

	manifests := map[string]bool{"/src": true, "/src/api": true}
	rule := detector.NewRule("GO_MOD", "Go Mod Cli", func(env detector.DetectableEnvironment) detector.Detectable {
		return manifestDetectable{dir: env.Directory, manifests: manifests, fail: env.Directory == "/src/api"}
	}).Build()

	ev := detector.NewEvaluator(detector.NewRuleSet(rule), nil)
	ev.SearchAndApplicable(root, make(map[string]bool))
	ev.ExtractableEvaluation(root)
	envs, err := detector.NewScratchEnvironmentProvider(t.TempDir())
	require.NoError(t, err)
	ev.ExtractionEvaluation(root, envs)
	return root
}

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestSimpleHandler(t *testing.T) {
	tree := evaluatedTree(t)

	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "search completed",
			event:    Event{Type: EventSearchCompleted, Tree: tree},
			expected: "[SEARCH]  Completed: 3 directories, 2 applicable in 0.0s\n",
		},
		{
			name:     "preparation completed",
			event:    Event{Type: EventPreparationCompleted, Tree: tree},
			expected: "[PREP]    Completed: 2 of 2 applicable are extractable in 0.0s\n",
		},
		{
			name:     "extraction count",
			event:    Event{Type: EventExtractionCount, Count: 2},
			expected: "[EXTRACT] Planned extractions: 2\n",
		},
		{
			name:     "extractions completed",
			event:    Event{Type: EventExtractionsCompleted, Tree: tree},
			expected: "[EXTRACT] Completed: 1 succeeded, 1 failed in 0.0s\n",
		},
		{
			name:     "status summary",
			event:    Event{Type: EventStatusSummary, Status: DetectorStatus{Type: "GO_MOD", Status: aggregator.StatusSuccess}},
			expected: "[STATUS]  GO_MOD: SUCCESS\n",
		},
		{
			name: "detectors complete",
			event: Event{Type: EventDetectorsComplete, Result: &aggregator.Result{
				CodeLocations:  []aggregator.KeyedLocation{{Key: ".:GO_MOD"}},
				ProjectName:    "example.com/app",
				ProjectVersion: "main",
			}},
			expected: "[DONE]    1 code locations for example.com/app main\n",
		},
		{
			name:     "detectors complete without result",
			event:    Event{Type: EventDetectorsComplete},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewSimpleHandler(&buf)
			h.now = fixedClock()
			h.Handle(tt.event)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestSimpleHandler_PhaseDurations(t *testing.T) {
	var buf bytes.Buffer
	h := NewSimpleHandler(&buf)
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return current }

	h.Start()
	current = current.Add(1500 * time.Millisecond)
	h.Handle(Event{Type: EventSearchCompleted})
	current = current.Add(200 * time.Millisecond)
	h.Handle(Event{Type: EventPreparationCompleted})

	assert.Equal(t,
		"[SEARCH]  Completed: 0 directories, 0 applicable in 1.5s\n"+
			"[PREP]    Completed: 0 of 0 applicable are extractable in 0.2s\n",
		buf.String())
}

func TestTreeHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewTreeHandler(&buf)

	h.Handle(Event{Type: EventSearchCompleted, Tree: evaluatedTree(t)})
	assert.Empty(t, buf.String(), "only the final tree is printed")

	h.Handle(Event{Type: EventExtractionsCompleted, Tree: evaluatedTree(t)})
	h.Handle(Event{Type: EventStatusSummary, Status: DetectorStatus{Type: "GO_MOD", Status: aggregator.StatusSuccess}})

	assert.Equal(t,
		"/src  [✓ GO_MOD - Go Mod Cli]\n"+
			"└─ api  [✗ GO_MOD - Go Mod Cli]\n"+
			"GO_MOD: SUCCESS\n",
		buf.String())
}

func TestProgress_PublishesToAllHandlers(t *testing.T) {
	first := &Recorder{}
	second := &Recorder{}
	p := New(true, first)
	p.Subscribe(second)
	p.Subscribe(nil)

	p.SearchCompleted(nil)
	p.PreparationCompleted(nil)
	p.ExtractionCount(3)
	p.ExtractionsCompleted(nil)
	p.StatusSummary("GO_MOD", aggregator.StatusFailure)
	p.DetectorsComplete(nil)

	expected := []EventType{
		EventSearchCompleted,
		EventPreparationCompleted,
		EventExtractionCount,
		EventExtractionsCompleted,
		EventStatusSummary,
		EventDetectorsComplete,
	}
	assert.Equal(t, expected, first.Types())
	assert.Equal(t, expected, second.Types())
	assert.Equal(t, 3, first.Events[2].Count)
	assert.Equal(t, DetectorStatus{Type: "GO_MOD", Status: aggregator.StatusFailure}, first.Events[4].Status)
	assert.Len(t, p.Handlers(), 2)
}

func TestProgress_Disabled(t *testing.T) {
	rec := &Recorder{}
	p := New(false, rec)

	p.ExtractionCount(1)

	assert.Empty(t, rec.Events)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "SearchCompleted", EventSearchCompleted.String())
	assert.Equal(t, "DetectorsComplete", EventDetectorsComplete.String())
	assert.Equal(t, "EventType(9)", EventType(9).String())
}

func TestShortenPath(t *testing.T) {
	assert.Equal(t, "/a/b", shortenPath("/a/b", 10))
	assert.Equal(t, ".../deep/dir", shortenPath("/very/long/path/to/deep/dir", 10))
}
