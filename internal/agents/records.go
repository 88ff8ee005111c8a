// Package agents implements the pluggable research capabilities driven
// by the orchestration loop: web search, company database lookup,
// briefing synthesis, and document translation.
//
// Each agent satisfies only the capability contract: named parameters
// in, a structured result or an error out. All model access goes through
// the llm.Client collaborator.
package agents

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Headquarters locates a company record.
type Headquarters struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// CompanyRecord is one row of the internal company database.
type CompanyRecord struct {
	CompanyID            string       `json:"company_id"`
	LegalName            string       `json:"legal_name"`
	TradeName            string       `json:"trade_name"`
	Status               string       `json:"status"`
	IncorporationCountry string       `json:"incorporation_country"`
	Industry             []string     `json:"industry"`
	Headquarters         Headquarters `json:"headquarters"`
	EmployeeBand         string       `json:"employee_band"`
	RevenueBandUSD       string       `json:"revenue_band_usd"`
	WebDomain            string       `json:"web_domain"`
	RiskFlags            []string     `json:"risk_flags"`
	LastVerified         string       `json:"last_verified"`
	SourceSystems        []string     `json:"source_systems"`
}

// LoadRecords reads company records from a JSONL file, one record per
// line. Blank lines are skipped.
func LoadRecords(path string) ([]CompanyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("agents: opening company database: %w", err)
	}
	defer f.Close()

	var records []CompanyRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec CompanyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("agents: company database line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("agents: reading company database: %w", err)
	}
	return records, nil
}

// toMap converts a result struct into the plain key/value mapping the
// capability contract requires.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("agents: encoding result: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("agents: decoding result: %w", err)
	}
	return out, nil
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("agents: missing required argument %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("agents: argument %q must be a string", name)
	}
	return s, nil
}

// stringArgDefault extracts an optional string argument.
func stringArgDefault(args map[string]any, name, fallback string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("agents: argument %q must be a string", name)
	}
	return s, nil
}
