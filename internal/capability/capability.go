// Package capability provides the descriptor model and registry for
// pluggable research capabilities.
//
// A capability is a named, independently invocable unit of work with a
// declared parameter contract. Capabilities come in two kinds: agents
// (informational, e.g. search or lookup) and tools (side-effecting, e.g.
// redaction). The orchestrator holds one registry per kind and dispatches
// model-proposed actions by name.
package capability

import (
	"context"
	"errors"
	"fmt"
)

// Errors for registry operations.
var (
	ErrDuplicateCapability = errors.New("capability already registered")
	ErrCapabilityNotFound  = errors.New("capability not found")
	ErrNoHandleBound       = errors.New("capability has no invocation handle")
	ErrInvalidRegistration = errors.New("invalid capability registration")
)

// ParameterType enumerates the declared types a parameter may take.
type ParameterType string

const (
	TypeString  ParameterType = "string"
	TypeInteger ParameterType = "integer"
	TypeFloat   ParameterType = "float"
	TypeBoolean ParameterType = "boolean"
	TypeList    ParameterType = "list"
	TypeMapping ParameterType = "mapping"
	TypeObject  ParameterType = "object"
)

// validParameterTypes is the closed set accepted at registration time.
var validParameterTypes = map[ParameterType]bool{
	TypeString:  true,
	TypeInteger: true,
	TypeFloat:   true,
	TypeBoolean: true,
	TypeList:    true,
	TypeMapping: true,
	TypeObject:  true,
}

// Parameter declares one named input of a capability. Immutable once
// registered.
type Parameter struct {
	Name        string        `json:"name"`
	Type        ParameterType `json:"type"`
	Description string        `json:"description"`
	Required    bool          `json:"required"`

	// Default must be non-nil when Required is false. Validated at
	// registration, not at call time.
	Default any `json:"default,omitempty"`
}

// Kind distinguishes informational agents from side-effecting tools.
type Kind string

const (
	KindAgent Kind = "agent"
	KindTool  Kind = "tool"
)

// Handler is the uniform invocation contract every capability satisfies.
// Implementations receive named arguments and return a plain key/value
// mapping or an error; the registry never inspects beyond this contract.
type Handler interface {
	Invoke(ctx context.Context, args map[string]any) (map[string]any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, args map[string]any) (map[string]any, error)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	return f(ctx, args)
}

// Descriptor is the immutable metadata for one registered capability.
// A nil Handler means "descriptor only": the capability renders in the
// catalogue but cannot be invoked.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  []Parameter    `json:"parameters"`
	Kind        Kind           `json:"kind"`
	Handler     Handler        `json:"-"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// validate checks the soft contracts made explicit at registration time.
func (d Descriptor) validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRegistration)
	}
	if d.Kind != KindAgent && d.Kind != KindTool {
		return fmt.Errorf("%w: %q: unknown kind %q", ErrInvalidRegistration, d.Name, d.Kind)
	}
	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: %q: parameter name is required", ErrInvalidRegistration, d.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q: duplicate parameter %q", ErrInvalidRegistration, d.Name, p.Name)
		}
		seen[p.Name] = true
		if !validParameterTypes[p.Type] {
			return fmt.Errorf("%w: %q: parameter %q has unknown type %q", ErrInvalidRegistration, d.Name, p.Name, p.Type)
		}
		if !p.Required && p.Default == nil {
			return fmt.Errorf("%w: %q: optional parameter %q must declare a default", ErrInvalidRegistration, d.Name, p.Name)
		}
	}
	return nil
}

// ExecutionError wraps a failure raised inside a capability handler,
// preserving the capability name and the original cause.
type ExecutionError struct {
	Capability string
	Err        error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("capability %q execution failed: %v", e.Capability, e.Err)
}

// Unwrap returns the original cause.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
