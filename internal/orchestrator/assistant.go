package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/agents"
	"github.com/fyrsmithlabs/briefd/internal/capability"
	"github.com/fyrsmithlabs/briefd/internal/llm"
	"github.com/fyrsmithlabs/briefd/internal/redact"
)

// Config controls a research assistant.
type Config struct {
	// MaxIterations caps the decide/act loop. Zero means the default.
	MaxIterations int `koanf:"max_iterations"`
}

// Assistant runs research queries end to end: subject extraction, the
// capability loop, briefing finalization, and the redaction gate.
type Assistant struct {
	client   llm.Client
	agents   *capability.Registry
	tools    *capability.Registry
	redactor *redact.Redactor
	briefer  *agents.BriefingGenerator

	maxIterations int
	logger        *zap.Logger
	tracer        trace.Tracer
}

// New wires an assistant: it builds both capability registries,
// registers the research agents over the given company records, and
// binds the redaction pipeline as the security_redacter tool.
func New(cfg Config, client llm.Client, redactor *redact.Redactor, records []agents.CompanyRecord, logger *zap.Logger) (*Assistant, error) {
	if client == nil {
		return nil, fmt.Errorf("orchestrator: client is required")
	}
	if redactor == nil {
		redactor = redact.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	a := &Assistant{
		client:        client,
		agents:        capability.NewRegistry(),
		tools:         capability.NewRegistry(),
		redactor:      redactor,
		briefer:       agents.NewBriefingGenerator(client, logger),
		maxIterations: cfg.MaxIterations,
		logger:        logger.Named("orchestrator"),
		tracer:        otel.Tracer("briefd/orchestrator"),
	}

	descriptors := []capability.Descriptor{
		agents.NewWebSearcher(client, logger).Descriptor(),
		agents.NewCompanyFinder(client, records, logger).Descriptor(),
		a.briefer.Descriptor(),
		agents.NewDocumentTranslator(client, logger).Descriptor(),
	}
	for _, d := range descriptors {
		if err := a.agents.Register(d); err != nil {
			return nil, fmt.Errorf("orchestrator: registering agent %s: %w", d.Name, err)
		}
	}

	if err := a.tools.Register(redacterDescriptor(redactor)); err != nil {
		return nil, fmt.Errorf("orchestrator: registering tools: %w", err)
	}

	return a, nil
}

// redacterDescriptor exposes the redaction pipeline as an invocable
// tool so the loop can sanitize intermediate material on demand.
func redacterDescriptor(r *redact.Redactor) capability.Descriptor {
	return capability.Descriptor{
		Name:        "security_redacter",
		Description: "Redact sensitive information from text. Detects PII, credentials, and private registry entries, and replaces them with redaction tokens.",
		Kind:        capability.KindTool,
		Parameters: []capability.Parameter{
			{Name: "text", Type: capability.TypeString, Description: "The text to redact", Required: true},
		},
		Handler: capability.HandlerFunc(func(_ context.Context, args map[string]any) (map[string]any, error) {
			raw, ok := args["text"]
			if !ok {
				return nil, fmt.Errorf("orchestrator: missing required argument %q", "text")
			}
			text, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("orchestrator: argument %q must be a string", "text")
			}
			return structToMap(r.Redact(text, true))
		}),
		Metadata: map[string]any{"tool_type": "security"},
	}
}

// Agents exposes the agent registry.
func (a *Assistant) Agents() *capability.Registry { return a.agents }

// Tools exposes the tool registry.
func (a *Assistant) Tools() *capability.Registry { return a.tools }

// Redactor exposes the shared redaction pipeline.
func (a *Assistant) Redactor() *redact.Redactor { return a.redactor }

// Research runs one query through the full loop and returns the
// redacted briefing.
func (a *Assistant) Research(ctx context.Context, query string) (*BriefingOutput, error) {
	runID := uuid.NewString()
	ctx, span := a.tracer.Start(ctx, "orchestrator.research",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	logger := a.logger.With(zap.String("run_id", runID))
	logger.Info("research started", zap.String("query", query))

	sub, err := a.extractSubject(ctx, query)
	if err != nil {
		return nil, &RunError{Phase: PhaseExtracting, Err: err}
	}
	logger.Info("subject extracted",
		zap.String("company_name", sub.CompanyName),
		zap.String("context", sub.Context),
	)

	var (
		observations []Observation
		steps        []string
		profile      map[string]any
		briefing     *agents.BriefingDocument
		lastAction   string
		iterations   int
	)

	agentCatalogue := a.agents.Catalogue()
	toolCatalogue := a.tools.Catalogue()

	for i := 0; i < a.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &RunError{Phase: PhaseDeciding, Iteration: i, LastAction: lastAction, Err: err}
		}
		iterations = i + 1

		prompt := buildDecisionPrompt(query, sub, agentCatalogue, toolCatalogue, observations)
		decision, err := llm.GenerateStructured[Decision](ctx, a.client, prompt, llm.WithTemperature(0.4), llm.WithThink())
		if err != nil {
			// Capability failures are absorbed as observations;
			// collaborator failures on the decision itself are not
			// recoverable.
			return nil, &RunError{Phase: PhaseDeciding, Iteration: iterations, LastAction: lastAction, Err: err}
		}
		logger.Info("decision",
			zap.Int("iteration", iterations),
			zap.String("action", decision.Action),
			zap.Bool("is_complete", decision.IsComplete),
		)

		if decision.IsComplete || decision.Action == FinishAction {
			break
		}

		lastAction = decision.Action
		steps = append(steps, decision.Action)

		result, err := a.dispatch(ctx, decision.Action, decision.ActionInput)
		if err != nil {
			logger.Warn("action failed", zap.String("action", decision.Action), zap.Error(err))
			observations = append(observations, errorObservation(decision.Action, err))
			continue
		}

		switch decision.Action {
		case "company_finder":
			if found, _ := result["found"].(bool); found {
				if company, ok := result["company"].(map[string]any); ok {
					profile = company
					logger.Info("company profile captured")
				}
			}
		case "briefing_generator":
			doc, err := decodeBriefing(result)
			if err != nil {
				logger.Warn("briefing capture failed", zap.Error(err))
			} else {
				briefing = doc
				logger.Info("briefing captured", zap.String("title", doc.Title))
			}
		}

		observations = append(observations, Observation{
			Action:  decision.Action,
			Content: truncateObservation(renderResult(result)),
		})
	}

	if briefing == nil {
		if profile == nil {
			return nil, &RunError{Phase: PhaseFinalizing, Iteration: iterations, LastAction: lastAction, Err: ErrNoBriefing}
		}
		logger.Info("synthesizing briefing from captured profile")
		doc, err := a.briefer.Generate(ctx, profile)
		if err != nil {
			return nil, &RunError{Phase: PhaseFinalizing, Iteration: iterations, LastAction: lastAction, Err: err}
		}
		briefing = doc
	}

	text := formatBriefing(briefing)
	res := a.redactor.Redact(text, true)
	logger.Info("briefing redacted",
		zap.Int("matches_found", res.MatchesFound),
		zap.Int("iterations", iterations),
	)
	span.SetAttributes(
		attribute.Int("run.iterations", iterations),
		attribute.Int("run.redaction_matches", res.MatchesFound),
	)

	return &BriefingOutput{
		RunID:           runID,
		SubjectName:     sub.CompanyName,
		BriefingContent: res.RedactedText,
		RedactionSummary: RedactionSummary{
			MatchesFound:       res.MatchesFound,
			OriginalLength:     res.OriginalLength,
			RedactedLength:     res.RedactedLength,
			SensitivitySummary: res.SensitivitySummary,
		},
		ResearchSteps: steps,
		Iterations:    iterations,
	}, nil
}

// extractSubject resolves the subject company from the raw query.
func (a *Assistant) extractSubject(ctx context.Context, query string) (subject, error) {
	prompt := fmt.Sprintf(extractionPrompt, query)
	sub, err := llm.GenerateStructured[subject](ctx, a.client, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return subject{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if sub.CompanyName == "" {
		return subject{}, fmt.Errorf("%w: the query names no company", ErrExtraction)
	}
	return sub, nil
}

// dispatch routes an action name to a registry, agents first.
func (a *Assistant) dispatch(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if _, ok := a.agents.Get(name); ok {
		return a.agents.Invoke(ctx, name, args)
	}
	if _, ok := a.tools.Get(name); ok {
		return a.tools.Invoke(ctx, name, args)
	}
	return nil, fmt.Errorf("unknown action %q", name)
}

func errorObservation(action string, err error) Observation {
	content, mErr := json.Marshal(map[string]any{"error": err.Error()})
	if mErr != nil {
		content = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return Observation{Action: action, Content: truncateObservation(string(content))}
}

func renderResult(result map[string]any) string {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("unrenderable result: %v", err)
	}
	return string(data)
}

func decodeBriefing(result map[string]any) (*agents.BriefingDocument, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var doc agents.BriefingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func structToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
