package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/capability"
	"github.com/fyrsmithlabs/briefd/internal/llm"
)

const translationPrompt = `You are a professional document translator. Translate the following %s document from %s to %s.

Preserve the structure, tone, and any technical terminology appropriately. Do not add commentary.

Document:
%s

Return your response as a JSON object with the following fields:
- translated_content: The translated document text
- source_language: The source language
- target_language: The target language
- notes: Any translation notes or caveats (may be empty)`

// Translation is the output of a document translation.
type Translation struct {
	TranslatedContent string `json:"translated_content"`
	SourceLanguage    string `json:"source_language"`
	TargetLanguage    string `json:"target_language"`
	Notes             string `json:"notes"`
}

// DocumentTranslator translates briefing material between languages.
type DocumentTranslator struct {
	client llm.Client
	logger *zap.Logger
}

// NewDocumentTranslator creates a translator agent.
func NewDocumentTranslator(client llm.Client, logger *zap.Logger) *DocumentTranslator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentTranslator{client: client, logger: logger.Named("document_translator")}
}

// Translate converts a document from one language to another.
func (t *DocumentTranslator) Translate(ctx context.Context, content, source, target, docType string) (*Translation, error) {
	if docType == "" {
		docType = "general"
	}
	t.logger.Info("translating document",
		zap.String("source_language", source),
		zap.String("target_language", target),
		zap.String("document_type", docType),
	)

	prompt := fmt.Sprintf(translationPrompt, docType, source, target, content)
	out, err := llm.GenerateStructured[Translation](ctx, t.client, prompt, llm.WithTemperature(0.3), llm.WithThink())
	if err != nil {
		return nil, fmt.Errorf("document translator: %w", err)
	}
	return &out, nil
}

// Descriptor returns the capability descriptor with the invocation
// handle bound.
func (t *DocumentTranslator) Descriptor() capability.Descriptor {
	return capability.Descriptor{
		Name:        "document_translator",
		Description: "Translate documents between languages while preserving structure and terminology.",
		Kind:        capability.KindAgent,
		Parameters: []capability.Parameter{
			{Name: "document_content", Type: capability.TypeString, Description: "The document text to translate", Required: true},
			{Name: "source_language", Type: capability.TypeString, Description: "The language of the source document", Required: true},
			{Name: "target_language", Type: capability.TypeString, Description: "The language to translate into", Required: true},
			{Name: "document_type", Type: capability.TypeString, Description: "The kind of document being translated", Required: false, Default: "general"},
		},
		Handler: capability.HandlerFunc(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			content, err := stringArg(args, "document_content")
			if err != nil {
				return nil, err
			}
			source, err := stringArg(args, "source_language")
			if err != nil {
				return nil, err
			}
			target, err := stringArg(args, "target_language")
			if err != nil {
				return nil, err
			}
			docType, err := stringArgDefault(args, "document_type", "general")
			if err != nil {
				return nil, err
			}
			out, err := t.Translate(ctx, content, source, target, docType)
			if err != nil {
				return nil, err
			}
			return toMap(out)
		}),
		Metadata: map[string]any{"agent_type": "transformation"},
	}
}
