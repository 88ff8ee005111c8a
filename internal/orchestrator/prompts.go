package orchestrator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Observation surfacing limits. Older observations fall out of the
// prompt window; oversized ones are truncated before they ever enter it.
const (
	observationWindow = 3
	observationLimit  = 500
)

const extractionPrompt = `You are a research assistant. Your task is to identify the subject company of a research request.

You will be given:
1. A research query - free text from the user

Your job is to:
- Identify the company name the user wants researched
- Extract any additional context from the query that helps disambiguate the company (location, industry, status, products, etc.)

Return your response as a JSON object with the following fields:
- reasoning: A brief explanation of how you identified the subject
- company_name: The company name to research
- context: Any disambiguating context from the query (may be empty)

Research Query:
%s`

const decisionPreamble = `You are an autonomous research assistant. Your goal is to produce a comprehensive briefing document about a company. You work step by step: at each step you choose ONE action to take, observe its result, and then decide the next step.

Research Query:
%s

Subject Company: %s
Subject Context: %s`

const decisionInstructions = `Decide your next action.

Rules:
- Choose exactly one action per step, from the agents and tools listed above.
- Provide action_input as an object whose keys match the chosen capability's parameters.
- Research the company first, then generate the briefing document with briefing_generator.
- When the briefing document has been generated, respond with action "FINISH" and is_complete true.

Return your response as a JSON object with the following fields:
- reasoning: Why you chose this action
- action: The capability name to invoke, or "FINISH" when done
- action_input: The arguments for the capability (an empty object for FINISH)
- is_complete: true only when research is finished`

// buildDecisionPrompt assembles the per-iteration prompt: the goal, the
// capability catalogues, and the most recent observations.
func buildDecisionPrompt(query string, sub subject, agentCatalogue, toolCatalogue string, observations []Observation) string {
	var b strings.Builder
	fmt.Fprintf(&b, decisionPreamble, query, sub.CompanyName, sub.Context)

	b.WriteString("\n\nAvailable Agents:\n")
	if agentCatalogue == "" {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(agentCatalogue)
	}
	b.WriteString("\nAvailable Tools:\n")
	if toolCatalogue == "" {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(toolCatalogue)
	}

	b.WriteString("\nPrevious Observations:\n")
	window := observations
	if len(window) > observationWindow {
		window = window[len(window)-observationWindow:]
	}
	if len(window) == 0 {
		b.WriteString("(none yet)\n")
	}
	for _, obs := range window {
		fmt.Fprintf(&b, "- [%s] %s\n", obs.Action, obs.Content)
	}

	b.WriteString("\n")
	b.WriteString(decisionInstructions)
	return b.String()
}

// truncateObservation caps observation content so a single verbose
// result cannot crowd out the decision prompt. The cut is pulled back
// to a rune boundary so multi-byte characters are never split.
func truncateObservation(s string) string {
	if len(s) <= observationLimit {
		return s
	}
	cut := observationLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
