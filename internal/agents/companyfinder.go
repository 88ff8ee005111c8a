package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/capability"
	"github.com/fyrsmithlabs/briefd/internal/llm"
)

const companySelectionPrompt = `You are a document finder assistant. Your task is to select the correct company from a list of candidate companies based on the provided context.

You will be given:
1. A query name - the company name being searched for
2. Context - additional information about the company (e.g., location, industry, status, etc.)
3. A list of indexed candidate companies with their details

Your job is to:
- Carefully analyze the context and compare it with each candidate's information
- Select the company that best matches the context by returning its index (0-based)
- If none of the candidates match the context well enough, return null for the index
- Consider factors like: location (city, country), industry, company status, employee count, revenue, and any other relevant details

Be strict in your matching - only return a company index if you are confident it matches the context.

Provide your reasoning for the selection and the index of the selected candidate (0-based indexing).
If no candidate matches, set index to null.

Context:
%s

Query Name:
%s

Candidate Companies:
%s`

// Fuzzy search defaults, matching the lookup behavior the loop relies on.
const (
	defaultThreshold = 0.6
	defaultTopK      = 3
)

// selection is the model's candidate-selection response. A nil Index is
// the explicit "no candidate matches" signal.
type selection struct {
	Reasoning string `json:"reasoning"`
	Index     *int   `json:"index"`
}

// FindResult is the company_finder capability's result. Absence is
// first-class: Found is false and Company nil when no record matched,
// never a record with null identifying fields.
type FindResult struct {
	Found     bool           `json:"found"`
	Company   *CompanyRecord `json:"company,omitempty"`
	Reasoning string         `json:"reasoning"`
}

// CompanyFinder resolves a company name plus free-text context to one
// record of the internal database: a fuzzy candidate search followed by
// a model selection step.
type CompanyFinder struct {
	client  llm.Client
	records []CompanyRecord
	logger  *zap.Logger
}

// NewCompanyFinder creates a finder over the given records.
func NewCompanyFinder(client llm.Client, records []CompanyRecord, logger *zap.Logger) *CompanyFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyFinder{client: client, records: records, logger: logger.Named("company_finder")}
}

// similarity scores how closely two strings match: exact substring
// containment wins outright, otherwise a normalized Levenshtein ratio.
func similarity(query, field string) float64 {
	if field == "" {
		return 0
	}
	if strings.Contains(field, query) {
		return 1.0
	}
	longest := len(query)
	if len(field) > longest {
		longest = len(field)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(query, field)
	return 1.0 - float64(dist)/float64(longest)
}

// scored pairs a record with its best field score.
type scored struct {
	score  float64
	record CompanyRecord
}

// fuzzySearch returns the top-k records whose name fields score at or
// above the threshold, best first. Only legal name, trade name and web
// domain are searched.
func (f *CompanyFinder) fuzzySearch(input string, threshold float64, topK int) []CompanyRecord {
	query := strings.ToLower(input)

	var results []scored
	for _, rec := range f.records {
		best := 0.0
		for _, field := range []string{rec.LegalName, rec.TradeName, rec.WebDomain} {
			s := similarity(query, strings.ToLower(field))
			if s > best {
				best = s
			}
			if best == 1.0 {
				break
			}
		}
		if best >= threshold {
			results = append(results, scored{score: best, record: rec})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > topK {
		results = results[:topK]
	}
	out := make([]CompanyRecord, len(results))
	for i, r := range results {
		out[i] = r.record
	}
	return out
}

// Find resolves queryName within context to a single company record.
func (f *CompanyFinder) Find(ctx context.Context, queryName, context_ string) (*FindResult, error) {
	candidates := f.fuzzySearch(queryName, defaultThreshold, defaultTopK)
	f.logger.Info("fuzzy search complete",
		zap.String("query", queryName),
		zap.Int("candidates", len(candidates)),
	)

	if len(candidates) == 0 {
		return &FindResult{
			Found:     false,
			Reasoning: fmt.Sprintf("no database candidates for %q", queryName),
		}, nil
	}

	prompt := fmt.Sprintf(companySelectionPrompt, context_, queryName, renderCandidates(candidates))
	sel, err := llm.GenerateStructured[selection](ctx, f.client, prompt, llm.WithTemperature(0.1), llm.WithThink())
	if err != nil {
		return nil, fmt.Errorf("company finder: %w", err)
	}

	if sel.Index == nil || *sel.Index < 0 || *sel.Index >= len(candidates) {
		f.logger.Info("no candidate selected", zap.String("reasoning", sel.Reasoning))
		return &FindResult{Found: false, Reasoning: sel.Reasoning}, nil
	}

	company := candidates[*sel.Index]
	f.logger.Info("company resolved",
		zap.String("company_id", company.CompanyID),
		zap.String("trade_name", company.TradeName),
	)
	return &FindResult{Found: true, Company: &company, Reasoning: sel.Reasoning}, nil
}

// renderCandidates formats candidates for the selection prompt, indexed
// from zero.
func renderCandidates(candidates []CompanyRecord) string {
	var b strings.Builder
	for i, c := range candidates {
		if i > 0 {
			b.WriteString("\n\n")
		}
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			fmt.Fprintf(&b, "[%d] %s (%s)", i, c.TradeName, c.CompanyID)
			continue
		}
		fmt.Fprintf(&b, "[%d] %s", i, data)
	}
	return b.String()
}

// Descriptor returns the capability descriptor with the invocation
// handle bound.
func (f *CompanyFinder) Descriptor() capability.Descriptor {
	return capability.Descriptor{
		Name:        "company_finder",
		Description: "Find company information from the internal database. Searches for companies by name and context, returns detailed company information including financials, risk flags, and metadata.",
		Kind:        capability.KindAgent,
		Parameters: []capability.Parameter{
			{Name: "query_name", Type: capability.TypeString, Description: "The company name to search for", Required: true},
			{Name: "context", Type: capability.TypeString, Description: "Additional context about the company (location, industry, status, etc.)", Required: true},
		},
		Handler: capability.HandlerFunc(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			queryName, err := stringArg(args, "query_name")
			if err != nil {
				return nil, err
			}
			context_, err := stringArg(args, "context")
			if err != nil {
				return nil, err
			}
			result, err := f.Find(ctx, queryName, context_)
			if err != nil {
				return nil, err
			}
			return toMap(result)
		}),
		Metadata: map[string]any{"agent_type": "data_retrieval"},
	}
}
