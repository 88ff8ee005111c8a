package orchestrator

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/briefd/internal/redact"
)

// Phase identifies where a research run currently is.
type Phase string

const (
	PhaseExtracting Phase = "extracting_subject"
	PhaseDeciding   Phase = "deciding"
	PhaseActing     Phase = "acting"
	PhaseObserving  Phase = "observing"
	PhaseFinalizing Phase = "finalizing"
	PhaseRedacting  Phase = "redacting"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// DefaultMaxIterations bounds the decide/act loop.
const DefaultMaxIterations = 10

// FinishAction is the literal action name that ends the loop without a
// dispatch.
const FinishAction = "FINISH"

var (
	// ErrExtraction means the subject company could not be determined
	// from the query.
	ErrExtraction = errors.New("subject extraction failed")

	// ErrNoBriefing means the run ended without a briefing document and
	// without enough material to synthesize one.
	ErrNoBriefing = errors.New("no briefing produced")
)

// RunError carries loop position context alongside the underlying
// failure.
type RunError struct {
	Phase      Phase
	Iteration  int
	LastAction string
	Err        error
}

func (e *RunError) Error() string {
	if e.LastAction != "" {
		return fmt.Sprintf("research run failed in phase %s (iteration %d, last action %q): %v", e.Phase, e.Iteration, e.LastAction, e.Err)
	}
	return fmt.Sprintf("research run failed in phase %s (iteration %d): %v", e.Phase, e.Iteration, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// subject is the extraction step's structured response.
type subject struct {
	Reasoning   string `json:"reasoning"`
	CompanyName string `json:"company_name"`
	Context     string `json:"context"`
}

// Decision is one step of the loop: either an action to dispatch or the
// completion signal.
type Decision struct {
	Reasoning   string         `json:"reasoning"`
	Action      string         `json:"action"`
	ActionInput map[string]any `json:"action_input"`
	IsComplete  bool           `json:"is_complete"`
}

// Observation records the outcome of one dispatched action.
type Observation struct {
	Action  string `json:"action"`
	Content string `json:"content"`
}

// RedactionSummary reports what the mandatory redaction gate removed
// from the briefing.
type RedactionSummary struct {
	MatchesFound       int                  `json:"matches_found"`
	OriginalLength     int                  `json:"original_length"`
	RedactedLength     int                  `json:"redacted_length"`
	SensitivitySummary map[redact.Level]int `json:"sensitivity_summary"`
}

// BriefingOutput is the result of a completed research run. The
// briefing content has already been through the redaction gate.
type BriefingOutput struct {
	RunID            string           `json:"run_id"`
	SubjectName      string           `json:"subject_name"`
	BriefingContent  string           `json:"briefing_content"`
	RedactionSummary RedactionSummary `json:"redaction_summary"`
	ResearchSteps    []string         `json:"research_steps"`
	Iterations       int              `json:"iterations"`
}
