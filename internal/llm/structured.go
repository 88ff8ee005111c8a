package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
)

// thinkInstruction bounds the model's deliberation before it answers.
const thinkInstruction = "\n\nThink it through. If the answer is obvious, give it directly. " +
	"If not, use at most 10 short steps and at most 500 words of reasoning."

var jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON pulls a JSON object out of a larger completion body. It
// handles a fenced ```json block first, then falls back to the span
// between the first '{' and the last '}'. Returns "" when neither form
// is present.
func ExtractJSON(text string) string {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

// SchemaFor reflects a JSON Schema for T, rendered compactly for prompt
// embedding. Definitions are inlined and IDs dropped so the model sees a
// single self-contained object.
func SchemaFor[T any]() (string, error) {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	var zero T
	schema := reflector.Reflect(&zero)
	schema.Version = ""

	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("llm: reflecting schema: %w", err)
	}
	return string(data), nil
}

// GenerateStructured completes the prompt and unmarshals the response
// into T. The reflected schema of T is appended to the prompt so the
// model produces conformant JSON; the client's own retry policy covers
// transport failures, and a malformed payload surfaces as an error
// wrapping ErrCollaborator.
func GenerateStructured[T any](ctx context.Context, client Client, prompt string, opts ...Option) (T, error) {
	var out T

	schema, err := SchemaFor[T]()
	if err != nil {
		return out, err
	}

	o := applyOptions(opts)
	full := prompt
	if o.Think {
		full += thinkInstruction
	}
	full += "\n\nRespond with valid JSON matching this schema: " + schema

	raw, err := client.Generate(ctx, full, append(opts, WithJSONMode())...)
	if err != nil {
		return out, err
	}

	payload := ExtractJSON(raw)
	if payload == "" {
		return out, fmt.Errorf("%w: no JSON object in response", ErrCollaborator)
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("%w: decoding response: %w", ErrCollaborator, err)
	}
	return out, nil
}
