package redact

import "regexp"

// ruleDetectors are the contextual cue-word detectors for the rule-based
// pass. Each match is replaced with a single generic token.
var ruleDetectors = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:confidential|secret|private|internal only|do not share)\b`),
	regexp.MustCompile(`(?i)\b(?:salary|compensation|bonus)\s*[:=]\s*\$?[\d,]+(?:\.\d{2})?\b`),
	regexp.MustCompile(`(?i)\b(?:username|user|login)\s*[:=]\s*["']?([^\s"']+)["']?\b`),
}
