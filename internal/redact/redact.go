// Package redact provides the layered text-sanitization pipeline applied
// to every briefing before it leaves the system.
//
// Redact applies three passes, strictly in order, each operating on the
// output of the previous pass:
//
//  1. Pattern pass: compiled detectors (email, SSN, credit cards, keys,
//     tokens, ...) applied in registration order.
//  2. Private-registry pass: exact-substring replacement of registered
//     private knowledge (company names, codenames, internal systems).
//  3. Rule-based pass: contextual cue-word detectors (confidential
//     markers, compensation amounts, login key=value pairs).
//
// Every detection is recorded as a Match; the call returns a Result with
// the sanitized text, the ordered match list, and a sensitivity
// histogram. Redact is total over strings: it never fails.
package redact

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures a Redactor. Zero-value fields fall back to defaults.
type Config struct {
	// Patterns are the pattern-pass detectors in application order.
	// Nil selects DefaultPatterns.
	Patterns []Pattern

	// Registry is the private-knowledge registry. Nil selects
	// DefaultPrivateRegistry.
	Registry *PrivateRegistry

	// Log receives results of calls made with logging enabled. Nil
	// creates a fresh log owned by the redactor. Sharing one Log across
	// redactors aggregates their statistics.
	Log *Log

	// Registerer receives pipeline metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

// Redactor is the three-pass sanitization engine.
type Redactor struct {
	patterns []Pattern
	registry *PrivateRegistry
	log      *Log
	metrics  *metrics
}

// New creates a Redactor. A nil config selects all defaults.
func New(cfg *Config) *Redactor {
	if cfg == nil {
		cfg = &Config{}
	}
	patterns := cfg.Patterns
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = DefaultPrivateRegistry()
	}
	log := cfg.Log
	if log == nil {
		log = NewLog()
	}
	var m *metrics
	if cfg.Registerer != nil {
		m = newMetrics(cfg.Registerer)
	}
	return &Redactor{
		patterns: patterns,
		registry: registry,
		log:      log,
		metrics:  m,
	}
}

// Redact sanitizes text through all three passes and returns the
// structured report. When logEnabled is true the result is appended to
// the redaction log for cumulative statistics.
func (r *Redactor) Redact(text string, logEnabled bool) Result {
	originalLength := len(text)
	var matches []Match

	redacted, patternMatches := r.applyPatterns(text)
	matches = append(matches, patternMatches...)

	redacted, registryMatches := r.applyRegistry(redacted)
	matches = append(matches, registryMatches...)

	redacted, ruleMatches := r.applyRules(redacted)
	matches = append(matches, ruleMatches...)

	result := Result{
		RedactedText:       redacted,
		OriginalLength:     originalLength,
		RedactedLength:     len(redacted),
		MatchesFound:       len(matches),
		Matches:            matches,
		SensitivitySummary: summarize(matches),
	}

	if logEnabled {
		r.log.Append(result)
	}
	r.metrics.observe(result)

	return result
}

// applyPatterns runs the pattern pass. Each pattern sees the output of
// the previous one; match values and spans are captured before the
// pattern's own substitution.
func (r *Redactor) applyPatterns(text string) (string, []Match) {
	var matches []Match
	for _, p := range r.patterns {
		var found []Match
		text, found = applyPattern(text, p)
		matches = append(matches, found...)
	}
	return text, matches
}

// applyPattern finds and substitutes all valid occurrences of a single
// pattern, returning the rewritten text and one Match per occurrence.
func applyPattern(text string, p Pattern) (string, []Match) {
	locs := p.Regexp.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}

	var matches []Match
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if p.Valid != nil && !p.Valid(submatchGroups(text, loc)) {
			continue
		}
		matches = append(matches, Match{
			Type:        p.Name,
			Value:       text[start:end],
			Position:    [2]int{start, end},
			Sensitivity: p.Sensitivity,
			Description: p.Description,
		})
		b.WriteString(text[last:start])
		b.WriteString(p.Replacement)
		last = end
	}
	if len(matches) == 0 {
		return text, nil
	}
	b.WriteString(text[last:])
	return b.String(), matches
}

// submatchGroups extracts submatch strings from a SubmatchIndex location.
// Unmatched optional groups are empty strings.
func submatchGroups(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			continue
		}
		groups[i] = text[start:end]
	}
	return groups
}

// applyRegistry runs the private-registry pass over the pattern pass's
// output. Every occurrence of a registered literal is replaced with
// "[<CATEGORY>_REDACTED]" and recorded at HIGH sensitivity.
func (r *Redactor) applyRegistry(text string) (string, []Match) {
	var matches []Match
	for _, category := range r.registry.Categories() {
		replacement := "[" + strings.ToUpper(category) + "_REDACTED]"
		for _, value := range r.registry.Values(category) {
			if value == "" || !strings.Contains(text, value) {
				continue
			}
			for idx := strings.Index(text, value); idx >= 0; {
				matches = append(matches, Match{
					Type:        "registry_" + category,
					Value:       value,
					Position:    [2]int{idx, idx + len(value)},
					Sensitivity: LevelHigh,
					Description: "Private registry: " + category,
				})
				next := strings.Index(text[idx+len(value):], value)
				if next < 0 {
					break
				}
				idx += len(value) + next
			}
			text = strings.ReplaceAll(text, value, replacement)
		}
	}
	return text, matches
}

// applyRules runs the rule-based pass over the registry pass's output.
func (r *Redactor) applyRules(text string) (string, []Match) {
	var matches []Match
	for _, rule := range ruleDetectors {
		locs := rule.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		for _, loc := range locs {
			matches = append(matches, Match{
				Type:        "rule_based",
				Value:       text[loc[0]:loc[1]],
				Position:    [2]int{loc[0], loc[1]},
				Sensitivity: LevelHigh,
				Description: "Rule-based detection",
			})
		}
		text = rule.ReplaceAllString(text, "[SENSITIVE_INFO_REDACTED]")
	}
	return text, matches
}

// AddToRegistry adds literal values to a private-registry category,
// creating the category if absent. Not safe against concurrent Redact
// calls; serialize edits, typically at startup.
func (r *Redactor) AddToRegistry(category string, values []string) {
	r.registry.Add(category, values)
}

// RemoveFromRegistry removes literal values from a category.
func (r *Redactor) RemoveFromRegistry(category string, values []string) {
	r.registry.Remove(category, values)
}

// Log returns the redaction log.
func (r *Redactor) Log() *Log {
	return r.log
}

// Statistics aggregates over the redaction log.
func (r *Redactor) Statistics() Statistics {
	return r.log.Statistics()
}

// ClearLog resets the redaction log. Patterns and the private registry
// are unaffected.
func (r *Redactor) ClearLog() {
	r.log.Clear()
}
