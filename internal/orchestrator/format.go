package orchestrator

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/briefd/internal/agents"
)

// formatBriefing renders a briefing document as flat text in a fixed
// section order, ready for the redaction gate.
func formatBriefing(doc *agents.BriefingDocument) string {
	var b strings.Builder

	b.WriteString(doc.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(doc.Title)))
	b.WriteString("\n\n")

	b.WriteString("EXECUTIVE SUMMARY\n")
	b.WriteString(strings.Repeat("-", len("EXECUTIVE SUMMARY")))
	b.WriteString("\n")
	b.WriteString(doc.ExecutiveSummary)
	b.WriteString("\n\n")

	for _, section := range doc.Sections {
		heading := strings.ToUpper(section.Heading)
		b.WriteString(heading)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(heading)))
		b.WriteString("\n")
		b.WriteString(section.Content)
		b.WriteString("\n\n")
	}

	if len(doc.KeyFindings) > 0 {
		b.WriteString("KEY FINDINGS\n")
		b.WriteString(strings.Repeat("-", len("KEY FINDINGS")))
		b.WriteString("\n")
		for i, finding := range doc.KeyFindings {
			fmt.Fprintf(&b, "%d. %s\n", i+1, finding)
		}
		b.WriteString("\n")
	}

	if len(doc.Recommendations) > 0 {
		b.WriteString("RECOMMENDATIONS\n")
		b.WriteString(strings.Repeat("-", len("RECOMMENDATIONS")))
		b.WriteString("\n")
		for i, rec := range doc.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "RISK LEVEL: %s\n", strings.ToUpper(doc.RiskLevel))

	return b.String()
}
