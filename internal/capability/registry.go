package capability

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry owns a name→Descriptor mapping for one capability kind.
// Names are unique within a registry; Register fails on collision.
// Reads are concurrent-safe; registration is typically done once at
// startup.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		capabilities: make(map[string]Descriptor),
	}
}

// Register stores an immutable descriptor. It returns
// ErrDuplicateCapability if the name is already present and
// ErrInvalidRegistration if the descriptor violates the parameter
// contract (unknown type, duplicate parameter, optional without default).
func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.capabilities[d.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCapability, d.Name)
	}

	// Copy the parameter slice so later mutation of the caller's slice
	// cannot reach the stored descriptor.
	params := make([]Parameter, len(d.Parameters))
	copy(params, d.Parameters)
	d.Parameters = params

	r.capabilities[d.Name] = d
	return nil
}

// Unregister removes a capability if present. Idempotent: absent names
// are a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.capabilities, name)
}

// Get returns the descriptor and whether it exists. Absence is a routine
// branch for callers, not an error.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.capabilities[name]
	return d, ok
}

// Names returns all registered capability names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns a name-sorted snapshot of descriptors, optionally filtered
// by kind. An empty kind matches everything.
func (r *Registry) List(kind Kind) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.capabilities))
	for _, d := range r.capabilities {
		if kind != "" && d.Kind != kind {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.capabilities)
}

// Catalogue renders every descriptor into the natural-language listing
// embedded in decision prompts. The rendering is name-sorted so the
// decision model sees a stable catalogue across iterations; its behavior
// is sensitive to ordering.
func (r *Registry) Catalogue() string {
	descriptors := r.List("")

	var b strings.Builder
	for i, d := range descriptors {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(describeDescriptor(d))
	}
	return b.String()
}

// describeDescriptor renders one descriptor with its parameters,
// annotated with required/optional and any default.
func describeDescriptor(d Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", kindLabel(d.Kind), d.Name)
	fmt.Fprintf(&b, "Description: %s\n", d.Description)
	b.WriteString("Parameters:")
	if len(d.Parameters) == 0 {
		b.WriteString("\n  none")
		return b.String()
	}
	for _, p := range d.Parameters {
		requirement := "required"
		if !p.Required {
			requirement = fmt.Sprintf("optional, default=%v", p.Default)
		}
		fmt.Fprintf(&b, "\n  - %s (%s, %s): %s", p.Name, p.Type, requirement, p.Description)
	}
	return b.String()
}

// kindLabel renders a kind as a catalogue heading.
func kindLabel(k Kind) string {
	switch k {
	case KindAgent:
		return "Agent"
	case KindTool:
		return "Tool"
	}
	return string(k)
}

// Invoke dispatches to the named capability's handler and returns its raw
// result unmodified. It returns ErrCapabilityNotFound for absent names,
// ErrNoHandleBound for descriptor-only entries, and wraps any handler
// failure in an *ExecutionError carrying the original cause.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	d, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCapabilityNotFound, name)
	}
	if d.Handler == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoHandleBound, name)
	}

	result, err := d.Handler.Invoke(ctx, args)
	if err != nil {
		return nil, &ExecutionError{Capability: name, Err: err}
	}
	return result, nil
}
