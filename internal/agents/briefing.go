package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/capability"
	"github.com/fyrsmithlabs/briefd/internal/llm"
)

const briefingPrompt = `You are a briefing document generator. Your task is to create comprehensive briefing documents from predefined company profile templates.

You will be given:
1. A company profile with structured information about the company

Your job is to:
- Analyze the company profile data and generate a well-structured briefing document
- Include relevant sections such as: executive summary, company overview, financial highlights, risk factors, key strengths, recommendations
- Provide actionable insights and clear recommendations
- Highlight any red flags or areas of concern
- Format the output in a professional, executive-ready style

Return your response as a JSON object with the following fields:
- title: The title of the briefing document
- executive_summary: A concise 1 paragraph summary
- sections: A list of section objects, each with "heading" and "content" fields
- key_findings: A list of the most important findings (3-5 items)
- recommendations: A list of actionable recommendations (3-5 items)
- risk_level: Overall risk assessment (low, medium, high, critical)

Company Profile:
%s`

// BriefingSection is one body section of a briefing document.
type BriefingSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// BriefingDocument is the terminal artifact the loop must pass through
// the redaction gate before returning.
type BriefingDocument struct {
	Title            string            `json:"title"`
	ExecutiveSummary string            `json:"executive_summary"`
	Sections         []BriefingSection `json:"sections"`
	KeyFindings      []string          `json:"key_findings"`
	Recommendations  []string          `json:"recommendations"`
	RiskLevel        string            `json:"risk_level"`
}

// BriefingGenerator synthesizes briefing documents from company
// profiles.
type BriefingGenerator struct {
	client llm.Client
	logger *zap.Logger
}

// NewBriefingGenerator creates a briefing agent.
func NewBriefingGenerator(client llm.Client, logger *zap.Logger) *BriefingGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BriefingGenerator{client: client, logger: logger.Named("briefing_generator")}
}

// Generate produces a briefing document from a company profile mapping.
func (g *BriefingGenerator) Generate(ctx context.Context, profile map[string]any) (*BriefingDocument, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("briefing generator: encoding profile: %w", err)
	}
	g.logger.Info("generating briefing", zap.Int("profile_bytes", len(profileJSON)))

	prompt := fmt.Sprintf(briefingPrompt, profileJSON)
	doc, err := llm.GenerateStructured[BriefingDocument](ctx, g.client, prompt, llm.WithTemperature(0.4))
	if err != nil {
		return nil, fmt.Errorf("briefing generator: %w", err)
	}

	g.logger.Info("briefing generated",
		zap.String("title", doc.Title),
		zap.String("risk_level", doc.RiskLevel),
		zap.Int("sections", len(doc.Sections)),
	)
	return &doc, nil
}

// Descriptor returns the capability descriptor with the invocation
// handle bound.
func (g *BriefingGenerator) Descriptor() capability.Descriptor {
	return capability.Descriptor{
		Name:        "briefing_generator",
		Description: "Generate comprehensive briefing documents from company profiles. Creates executive summaries, risk assessments, and actionable recommendations.",
		Kind:        capability.KindAgent,
		Parameters: []capability.Parameter{
			{Name: "company_profile", Type: capability.TypeMapping, Description: "The company profile data containing all relevant information", Required: true},
		},
		Handler: capability.HandlerFunc(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			raw, ok := args["company_profile"]
			if !ok {
				return nil, fmt.Errorf("agents: missing required argument %q", "company_profile")
			}
			profile, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("agents: argument %q must be a mapping", "company_profile")
			}
			doc, err := g.Generate(ctx, profile)
			if err != nil {
				return nil, err
			}
			return toMap(doc)
		}),
		Metadata: map[string]any{"agent_type": "analysis"},
	}
}
