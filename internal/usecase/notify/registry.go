package notify

import (
	"fmt"
	"strings"
)

// RegistryBuilder collects channel bindings before the registry is frozen.
// It is not safe for concurrent use.
type RegistryBuilder struct {
	senders map[string]Sender
	order   []string
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{senders: make(map[string]Sender)}
}

// Register binds name to sender. Binding a name twice fails with
// ErrDuplicateChannel and leaves the first binding in place.
func (b *RegistryBuilder) Register(name string, sender Sender) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty channel name", ErrInvalidChannel)
	}
	if sender == nil {
		return fmt.Errorf("%w: nil sender for %q", ErrInvalidChannel, name)
	}
	if _, exists := b.senders[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateChannel, name)
	}
	b.senders[name] = sender
	b.order = append(b.order, name)
	return nil
}

// MustRegister is like Register but panics on error.
// It is intended for wiring fixed sets of channels at startup.
func (b *RegistryBuilder) MustRegister(name string, sender Sender) *RegistryBuilder {
	if err := b.Register(name, sender); err != nil {
		panic(err)
	}
	return b
}

// Build freezes the current bindings. The builder may keep being used; later
// registrations do not affect registries already built.
func (b *RegistryBuilder) Build() *Registry {
	r := &Registry{
		senders: make(map[string]Sender, len(b.senders)),
		order:   make([]string, len(b.order)),
	}
	for name, s := range b.senders {
		r.senders[name] = s
	}
	copy(r.order, b.order)
	return r
}

// Registry is an immutable mapping from channel name to Sender.
// It is safe for concurrent use.
type Registry struct {
	senders map[string]Sender
	order   []string
}

// Lookup returns the sender bound to name.
func (r *Registry) Lookup(name string) (Sender, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.senders[name]
	return s, ok
}

// Names returns the registered channel names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
