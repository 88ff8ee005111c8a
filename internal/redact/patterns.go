package redact

import (
	"regexp"
	"strings"
)

// Pattern is one compiled detector with its replacement token and fixed
// sensitivity. Immutable, defined once at pipeline construction.
type Pattern struct {
	Name        string
	Regexp      *regexp.Regexp
	Replacement string
	Sensitivity Level
	Description string

	// Valid optionally filters raw regexp matches. It receives the
	// submatch groups (index 0 is the whole match) and returns whether
	// the match is a genuine detection. Used where RE2's lack of
	// lookahead cannot express an exclusion inside the pattern itself.
	Valid func(groups []string) bool
}

// validSSN enforces the SSN digit-exclusion rule: area not 000, 666 or
// 900-999, group not 00, serial not 0000.
func validSSN(groups []string) bool {
	if len(groups) < 4 {
		return false
	}
	area, group, serial := groups[1], groups[2], groups[3]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	if group == "00" {
		return false
	}
	if serial == "0000" {
		return false
	}
	return true
}

// validPassword skips values that are themselves replacement tokens, so
// re-running the pipeline over its own output records no new matches.
// The value class admits brackets, so the password detector would
// otherwise re-match the token it emitted.
func validPassword(groups []string) bool {
	if len(groups) < 2 {
		return false
	}
	v := groups[1]
	return !(strings.HasPrefix(v, "[") && strings.Contains(v, "_REDACTED"))
}

// DefaultPatterns returns the built-in detector set in application order.
// Order matters: each pattern operates on the output of the previous one.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:        "email",
			Regexp:      regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			Replacement: "[EMAIL_REDACTED]",
			Sensitivity: LevelMedium,
			Description: "Email addresses",
		},
		{
			Name:        "phone_us",
			Regexp:      regexp.MustCompile(`\b(?:\+?1[-.]?)?\(?([0-9]{3})\)?[-.]?([0-9]{3})[-.]?([0-9]{4})\b`),
			Replacement: "[PHONE_REDACTED]",
			Sensitivity: LevelMedium,
			Description: "US phone numbers",
		},
		{
			Name:        "ssn",
			Regexp:      regexp.MustCompile(`\b(\d{3})-(\d{2})-(\d{4})\b`),
			Replacement: "[SSN_REDACTED]",
			Sensitivity: LevelCritical,
			Description: "Social Security Numbers",
			Valid:       validSSN,
		},
		{
			Name:        "credit_card",
			Regexp:      regexp.MustCompile(`\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13}|3(?:0[0-5]|[68][0-9])[0-9]{11}|6(?:011|5[0-9]{2})[0-9]{12}|(?:2131|1800|35\d{3})\d{11})\b`),
			Replacement: "[CREDIT_CARD_REDACTED]",
			Sensitivity: LevelCritical,
			Description: "Credit card numbers",
		},
		{
			Name:        "ipv4",
			Regexp:      regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`),
			Replacement: "[IP_REDACTED]",
			Sensitivity: LevelLow,
			Description: "IPv4 addresses",
		},
		{
			Name:        "ipv6",
			Regexp:      regexp.MustCompile(`\b(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}\b`),
			Replacement: "[IP_REDACTED]",
			Sensitivity: LevelLow,
			Description: "IPv6 addresses",
		},
		{
			Name:        "api_key",
			Regexp:      regexp.MustCompile(`(?i)\b(?:api[_-]?key|apikey|access[_-]?key|secret[_-]?key)[\s:=]+["']?([A-Za-z0-9_\-]{20,})["']?\b`),
			Replacement: `api_key="[API_KEY_REDACTED]"`,
			Sensitivity: LevelCritical,
			Description: "API keys and access tokens",
		},
		{
			Name:        "jwt_token",
			Regexp:      regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*\b`),
			Replacement: "[JWT_TOKEN_REDACTED]",
			Sensitivity: LevelCritical,
			Description: "JWT tokens",
		},
		{
			Name:        "aws_key",
			Regexp:      regexp.MustCompile(`\b(?:AKIA|A3T|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}\b`),
			Replacement: "[AWS_KEY_REDACTED]",
			Sensitivity: LevelCritical,
			Description: "AWS access keys",
		},
		{
			Name:        "password",
			Regexp:      regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)[\s:=]+["']?([^\s"']{6,})["']?\b`),
			Replacement: `password="[PASSWORD_REDACTED]"`,
			Sensitivity: LevelCritical,
			Description: "Passwords",
			Valid:       validPassword,
		},
		{
			Name:        "private_key",
			Regexp:      regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----[\s\S]*?-----END (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
			Replacement: "[PRIVATE_KEY_REDACTED]",
			Sensitivity: LevelCritical,
			Description: "Private cryptographic keys",
		},
		{
			Name:        "url_with_credentials",
			Regexp:      regexp.MustCompile(`\b(?:https?|ftp)://[^\s:]+:[^\s@]+@[^\s]+\b`),
			Replacement: "[URL_WITH_CREDENTIALS_REDACTED]",
			Sensitivity: LevelHigh,
			Description: "URLs with embedded credentials",
		},
		{
			Name:        "mac_address",
			Regexp:      regexp.MustCompile(`\b(?:[0-9A-Fa-f]{2}[:-]){5}(?:[0-9A-Fa-f]{2})\b`),
			Replacement: "[MAC_ADDRESS_REDACTED]",
			Sensitivity: LevelLow,
			Description: "MAC addresses",
		},
		{
			Name:        "date_of_birth",
			Regexp:      regexp.MustCompile(`\b(?:0[1-9]|1[0-2])[/-](?:0[1-9]|[12][0-9]|3[01])[/-](?:19|20)\d{2}\b`),
			Replacement: "[DOB_REDACTED]",
			Sensitivity: LevelHigh,
			Description: "Dates of birth (MM/DD/YYYY format)",
		},
		{
			Name:        "passport",
			Regexp:      regexp.MustCompile(`\b[A-Z]{1,2}[0-9]{6,9}\b`),
			Replacement: "[PASSPORT_REDACTED]",
			Sensitivity: LevelCritical,
			Description: "Passport numbers",
		},
	}
}
