package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns canned responses in order.
type stubClient struct {
	responses []string
	prompts   []string
	calls     int
}

func (s *stubClient) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.calls >= len(s.responses) {
		return "", ErrCollaborator
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fenced json block",
			input: "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			want:  `{"a": 1}`,
		},
		{
			name:  "raw object with surrounding prose",
			input: `The answer is {"a": 1, "b": {"c": 2}} as requested`,
			want:  `{"a": 1, "b": {"c": 2}}`,
		},
		{
			name:  "bare object",
			input: `{"reasoning": "done", "action": "FINISH"}`,
			want:  `{"reasoning": "done", "action": "FINISH"}`,
		},
		{
			name:  "no json present",
			input: "I cannot answer that.",
			want:  "",
		},
		{
			name:  "mismatched braces",
			input: "} nope {",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}

type extraction struct {
	CompanyName string `json:"company_name"`
	Context     string `json:"context"`
}

func TestSchemaFor(t *testing.T) {
	schema, err := SchemaFor[extraction]()
	require.NoError(t, err)
	assert.Contains(t, schema, "company_name")
	assert.Contains(t, schema, "context")
	assert.NotContains(t, schema, "$ref", "definitions must be inlined")
}

func TestGenerateStructured(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a conformant response", func(t *testing.T) {
		stub := &stubClient{responses: []string{
			`{"company_name": "TechVentures Global", "context": "San Francisco software"}`,
		}}

		got, err := GenerateStructured[extraction](ctx, stub, "extract the company")
		require.NoError(t, err)
		assert.Equal(t, "TechVentures Global", got.CompanyName)
		assert.Equal(t, "San Francisco software", got.Context)
	})

	t.Run("embeds the schema in the prompt", func(t *testing.T) {
		stub := &stubClient{responses: []string{`{"company_name": "x", "context": ""}`}}

		_, err := GenerateStructured[extraction](ctx, stub, "extract")
		require.NoError(t, err)
		require.Len(t, stub.prompts, 1)
		assert.Contains(t, stub.prompts[0], "company_name")
		assert.Contains(t, stub.prompts[0], "valid JSON matching this schema")
	})

	t.Run("think option appends the reasoning budget", func(t *testing.T) {
		stub := &stubClient{responses: []string{`{"company_name": "x", "context": ""}`}}

		_, err := GenerateStructured[extraction](ctx, stub, "extract", WithThink())
		require.NoError(t, err)
		assert.Contains(t, stub.prompts[0], "Think it through")
	})

	t.Run("handles fenced responses", func(t *testing.T) {
		stub := &stubClient{responses: []string{
			"```json\n{\"company_name\": \"Borealis AB\", \"context\": \"Nordic\"}\n```",
		}}

		got, err := GenerateStructured[extraction](ctx, stub, "extract")
		require.NoError(t, err)
		assert.Equal(t, "Borealis AB", got.CompanyName)
	})

	t.Run("fails on responses without JSON", func(t *testing.T) {
		stub := &stubClient{responses: []string{"I refuse."}}

		_, err := GenerateStructured[extraction](ctx, stub, "extract")
		assert.ErrorIs(t, err, ErrCollaborator)
	})

	t.Run("fails on malformed JSON", func(t *testing.T) {
		stub := &stubClient{responses: []string{`{"company_name": `}}

		_, err := GenerateStructured[extraction](ctx, stub, "extract")
		assert.ErrorIs(t, err, ErrCollaborator)
	})
}
