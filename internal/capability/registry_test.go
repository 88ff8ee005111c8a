package capability

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(result map[string]any) Handler {
	return HandlerFunc(func(ctx context.Context, args map[string]any) (map[string]any, error) {
		return result, nil
	})
}

func searchDescriptor() Descriptor {
	return Descriptor{
		Name:        "web_search",
		Description: "Search the web for information about a company or topic.",
		Kind:        KindAgent,
		Parameters: []Parameter{
			{Name: "query", Type: TypeString, Description: "The search query", Required: true},
		},
		Handler: echoHandler(map[string]any{"results": []any{}}),
	}
}

func TestRegister(t *testing.T) {
	t.Run("stores descriptor", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(searchDescriptor()))

		d, ok := r.Get("web_search")
		require.True(t, ok)
		assert.Equal(t, "web_search", d.Name)
		assert.Equal(t, KindAgent, d.Kind)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(searchDescriptor()))

		err := r.Register(searchDescriptor())
		assert.ErrorIs(t, err, ErrDuplicateCapability)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(Descriptor{Kind: KindTool})
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(Descriptor{Name: "x", Kind: Kind("widget")})
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("rejects unknown parameter type", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(Descriptor{
			Name: "x",
			Kind: KindTool,
			Parameters: []Parameter{
				{Name: "p", Type: ParameterType("tuple"), Required: true},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("rejects duplicate parameter names", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(Descriptor{
			Name: "x",
			Kind: KindTool,
			Parameters: []Parameter{
				{Name: "p", Type: TypeString, Required: true},
				{Name: "p", Type: TypeInteger, Required: true},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("rejects optional parameter without default", func(t *testing.T) {
		r := NewRegistry()
		err := r.Register(Descriptor{
			Name: "x",
			Kind: KindTool,
			Parameters: []Parameter{
				{Name: "verbose", Type: TypeBoolean, Required: false},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidRegistration)
	})

	t.Run("allows nil handler for descriptor-only entries", func(t *testing.T) {
		r := NewRegistry()
		d := searchDescriptor()
		d.Handler = nil
		require.NoError(t, r.Register(d))
	})
}

func TestUnregister(t *testing.T) {
	t.Run("removes capability", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(searchDescriptor()))

		r.Unregister("web_search")

		_, ok := r.Get("web_search")
		assert.False(t, ok)
	})

	t.Run("is idempotent for absent names", func(t *testing.T) {
		r := NewRegistry()
		r.Unregister("never_registered")
		assert.Equal(t, 0, r.Len())
	})

	t.Run("allows re-registration after removal", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(searchDescriptor()))
		r.Unregister("web_search")
		assert.NoError(t, r.Register(searchDescriptor()))
	})
}

func TestList(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Descriptor{Name: "zeta", Kind: KindAgent, Handler: echoHandler(nil)}))
	require.NoError(t, r.Register(Descriptor{Name: "alpha", Kind: KindTool, Handler: echoHandler(nil)}))
	require.NoError(t, r.Register(Descriptor{Name: "mid", Kind: KindAgent, Handler: echoHandler(nil)}))

	t.Run("returns name-sorted snapshot", func(t *testing.T) {
		all := r.List("")
		require.Len(t, all, 3)
		assert.Equal(t, "alpha", all[0].Name)
		assert.Equal(t, "mid", all[1].Name)
		assert.Equal(t, "zeta", all[2].Name)
	})

	t.Run("filters by kind", func(t *testing.T) {
		agents := r.List(KindAgent)
		require.Len(t, agents, 2)
		assert.Equal(t, "mid", agents[0].Name)
		assert.Equal(t, "zeta", agents[1].Name)
	})

	t.Run("names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
	})
}

func TestCatalogue(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Descriptor{
		Name:        "security_redacter",
		Description: "Redact sensitive information from text.",
		Kind:        KindTool,
		Parameters: []Parameter{
			{Name: "text", Type: TypeString, Description: "The text to redact", Required: true},
			{Name: "enable_logging", Type: TypeBoolean, Description: "Whether to log details", Required: false, Default: true},
		},
		Handler: echoHandler(nil),
	}))
	require.NoError(t, r.Register(searchDescriptor()))

	catalogue := r.Catalogue()

	t.Run("annotates required and optional parameters", func(t *testing.T) {
		assert.Contains(t, catalogue, "text (string, required)")
		assert.Contains(t, catalogue, "enable_logging (boolean, optional, default=true)")
	})

	t.Run("is stable across calls", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			assert.Equal(t, catalogue, r.Catalogue())
		}
	})

	t.Run("orders by name", func(t *testing.T) {
		assert.Less(t, 0, len(catalogue))
		redacterIdx := strings.Index(catalogue, "security_redacter")
		searchIdx := strings.Index(catalogue, "web_search")
		require.GreaterOrEqual(t, redacterIdx, 0)
		assert.Less(t, redacterIdx, searchIdx)
	})
}

func TestInvoke(t *testing.T) {
	ctx := context.Background()

	t.Run("returns handler result unmodified", func(t *testing.T) {
		r := NewRegistry()
		want := map[string]any{"company_id": "C-001", "found": true}
		require.NoError(t, r.Register(Descriptor{
			Name:    "company_finder",
			Kind:    KindAgent,
			Handler: echoHandler(want),
		}))

		got, err := r.Invoke(ctx, "company_finder", map[string]any{"query_name": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("returns not found for absent names", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Invoke(ctx, "ghost", nil)
		assert.ErrorIs(t, err, ErrCapabilityNotFound)
	})

	t.Run("returns no handle bound for descriptor-only entries", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(Descriptor{Name: "display_only", Kind: KindAgent}))

		_, err := r.Invoke(ctx, "display_only", nil)
		assert.ErrorIs(t, err, ErrNoHandleBound)
	})

	t.Run("wraps handler failures with the original cause", func(t *testing.T) {
		r := NewRegistry()
		cause := errors.New("upstream timeout")
		require.NoError(t, r.Register(Descriptor{
			Name: "flaky",
			Kind: KindAgent,
			Handler: HandlerFunc(func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return nil, cause
			}),
		}))

		_, err := r.Invoke(ctx, "flaky", nil)
		require.Error(t, err)

		var execErr *ExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "flaky", execErr.Capability)
		assert.ErrorIs(t, err, cause)
	})
}
