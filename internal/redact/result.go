package redact

import "sync"

// Level is the ordinal sensitivity classification attached to each match.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Levels returns all sensitivity levels in ascending order.
func Levels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh, LevelCritical}
}

// Match records one detection. Position is the span in the text as it was
// at the time of match: after substitutions from earlier passes and
// earlier patterns, before substitution of the matching detector itself.
// Never mutated after creation.
type Match struct {
	// Type is the pattern name, "registry_<category>", or "rule_based".
	Type        string `json:"type"`
	Value       string `json:"value"`
	Position    [2]int `json:"position"`
	Sensitivity Level  `json:"sensitivity"`
	Description string `json:"description"`
}

// Result is the structured, auditable report for one Redact call.
type Result struct {
	RedactedText       string        `json:"redacted_text"`
	OriginalLength     int           `json:"original_length"`
	RedactedLength     int           `json:"redacted_length"`
	MatchesFound       int           `json:"matches_found"`
	Matches            []Match       `json:"matches"`
	SensitivitySummary map[Level]int `json:"sensitivity_summary"`
}

// summarize builds the per-level histogram. All four levels are always
// present so sum(values) == MatchesFound holds trivially.
func summarize(matches []Match) map[Level]int {
	summary := make(map[Level]int, 4)
	for _, level := range Levels() {
		summary[level] = 0
	}
	for _, m := range matches {
		summary[m.Sensitivity]++
	}
	return summary
}

// Log is an append-only record of redaction results used for cumulative
// statistics. It lives for the process lifetime unless explicitly cleared
// and is safe for concurrent append across runs.
type Log struct {
	mu      sync.Mutex
	results []Result
}

// NewLog creates an empty redaction log.
func NewLog() *Log {
	return &Log{}
}

// Append records a result.
func (l *Log) Append(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

// Len returns the number of recorded results.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results)
}

// Entries returns a snapshot of all recorded results.
func (l *Log) Entries() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Result, len(l.results))
	copy(out, l.results)
	return out
}

// Clear resets the log to empty. Registered patterns and the private
// registry are unaffected.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = nil
}

// Statistics aggregates over the redaction log.
type Statistics struct {
	TotalRedactions            int           `json:"total_redactions"`
	TotalMatchesFound          int           `json:"total_matches_found,omitempty"`
	TotalOriginalLength        int           `json:"total_original_length,omitempty"`
	TotalRedactedLength        int           `json:"total_redacted_length,omitempty"`
	AverageMatchesPerRedaction float64       `json:"average_matches_per_redaction,omitempty"`
	SensitivityBreakdown       map[Level]int `json:"sensitivity_breakdown,omitempty"`
}

// Statistics computes cumulative statistics over the log. An empty log
// yields the zero-record baseline (TotalRedactions == 0).
func (l *Log) Statistics() Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.results) == 0 {
		return Statistics{TotalRedactions: 0}
	}

	stats := Statistics{
		TotalRedactions:      len(l.results),
		SensitivityBreakdown: make(map[Level]int),
	}
	for _, r := range l.results {
		stats.TotalMatchesFound += r.MatchesFound
		stats.TotalOriginalLength += r.OriginalLength
		stats.TotalRedactedLength += r.RedactedLength
		for level, count := range r.SensitivitySummary {
			stats.SensitivityBreakdown[level] += count
		}
	}
	stats.AverageMatchesPerRedaction = float64(stats.TotalMatchesFound) / float64(stats.TotalRedactions)
	return stats
}
