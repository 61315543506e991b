package detector

import "fmt"

// Phase is the last phase an evaluation reached.
type Phase int

const (
	PhaseUnevaluated Phase = iota
	PhaseSearched
	PhaseApplied
	PhaseExtractabilityChecked
	PhaseExtracted
)

func (p Phase) String() string {
	switch p {
	case PhaseUnevaluated:
		return "UNEVALUATED"
	case PhaseSearched:
		return "SEARCHED"
	case PhaseApplied:
		return "APPLIED"
	case PhaseExtractabilityChecked:
		return "EXTRACTABILITY_CHECKED"
	case PhaseExtracted:
		return "EXTRACTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Evaluation records one rule's outcome at one directory.
//
// The phase only advances one step at a time and only after the previous
// predicate passed, so an extraction can only exist for an evaluation that was
// searchable, applicable and extractable.
type Evaluation struct {
	rule        *Rule
	node        *EvaluationTree
	phase       Phase
	searchable  Result
	applicable  Result
	extractable Result
	extraction  *Extraction
	detectable  Detectable
}

func newEvaluation(rule *Rule, node *EvaluationTree) *Evaluation {
	return &Evaluation{rule: rule, node: node}
}

func (e *Evaluation) Rule() *Rule           { return e.rule }
func (e *Evaluation) Node() *EvaluationTree { return e.node }
func (e *Evaluation) Phase() Phase          { return e.phase }
func (e *Evaluation) Type() DetectorType    { return e.rule.detectorType }

// Searchable reports whether the rule was eligible at this directory.
func (e *Evaluation) Searchable() bool {
	return e.phase >= PhaseSearched && e.searchable.Passed
}

// Applicable reports whether the ecosystem markers were found.
func (e *Evaluation) Applicable() bool {
	return e.phase >= PhaseApplied && e.applicable.Passed
}

// Extractable reports whether the extraction preconditions held.
func (e *Evaluation) Extractable() bool {
	return e.phase >= PhaseExtractabilityChecked && e.extractable.Passed
}

// Extracted reports whether an extraction was attempted.
func (e *Evaluation) Extracted() bool {
	return e.phase == PhaseExtracted
}

// Succeeded reports whether the extraction was attempted and succeeded.
func (e *Evaluation) Succeeded() bool {
	return e.Extracted() && e.extraction.IsSuccess()
}

func (e *Evaluation) SearchResult() Result      { return e.searchable }
func (e *Evaluation) ApplicableResult() Result  { return e.applicable }
func (e *Evaluation) ExtractableResult() Result { return e.extractable }

// Extraction returns the extraction outcome or nil when none was attempted.
func (e *Evaluation) Extraction() *Extraction { return e.extraction }

// Terminal reports whether no further phase will run for this evaluation.
func (e *Evaluation) Terminal() bool {
	switch e.phase {
	case PhaseSearched:
		return !e.searchable.Passed
	case PhaseApplied:
		return !e.applicable.Passed
	case PhaseExtractabilityChecked:
		return !e.extractable.Passed
	case PhaseExtracted:
		return true
	default:
		return false
	}
}

// advance moves to the next phase. It refuses skipped phases and anything
// after a failed predicate.
func (e *Evaluation) advance(to Phase) bool {
	if to != e.phase+1 || e.Terminal() {
		return false
	}
	e.phase = to
	return true
}

func (e *Evaluation) setSearchable(r Result) bool {
	if !e.advance(PhaseSearched) {
		return false
	}
	e.searchable = r
	return true
}

func (e *Evaluation) setApplicable(d Detectable, r Result) bool {
	if !e.advance(PhaseApplied) {
		return false
	}
	e.detectable = d
	e.applicable = r
	return true
}

func (e *Evaluation) setExtractable(r Result) bool {
	if !e.advance(PhaseExtractabilityChecked) {
		return false
	}
	e.extractable = r
	return true
}

func (e *Evaluation) setExtraction(x *Extraction) bool {
	if x == nil || !e.advance(PhaseExtracted) {
		return false
	}
	e.extraction = x
	return true
}

// StatusReason is the reason of the last phase reached.
func (e *Evaluation) StatusReason() string {
	switch e.phase {
	case PhaseSearched:
		return e.searchable.Reason
	case PhaseApplied:
		return e.applicable.Reason
	case PhaseExtractabilityChecked:
		return e.extractable.Reason
	case PhaseExtracted:
		if e.extraction.Description != "" {
			return e.extraction.Description
		}
		return e.extraction.Result.String()
	default:
		return "Not evaluated."
	}
}
