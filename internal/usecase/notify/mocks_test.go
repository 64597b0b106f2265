package notify

import (
	"context"
	"sync"

	"msgsend/internal/domain/entity"
)

// mockSender records calls and returns a configured error or panics.
type mockSender struct {
	err        error
	panicValue any

	mu    sync.Mutex
	calls []mockCall
}

type mockCall struct {
	cred entity.Credential
	msg  entity.Message
	ctx  context.Context
}

func (m *mockSender) Send(ctx context.Context, cred entity.Credential, msg entity.Message) error {
	m.mu.Lock()
	m.calls = append(m.calls, mockCall{cred: cred, msg: msg, ctx: ctx})
	err := m.err
	m.mu.Unlock()

	if m.panicValue != nil {
		panic(m.panicValue)
	}
	return err
}

func (m *mockSender) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockSender) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockSender) lastCall() mockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

// buildRegistry registers the given senders in argument order: name, sender, name, sender...
func buildRegistry(pairs ...any) *Registry {
	b := NewRegistryBuilder()
	for i := 0; i < len(pairs); i += 2 {
		b.MustRegister(pairs[i].(string), pairs[i+1].(Sender))
	}
	return b.Build()
}

func credSet(pairs ...any) *entity.CredentialSet {
	set := entity.NewCredentialSet()
	for i := 0; i < len(pairs); i += 2 {
		set.Set(pairs[i].(string), pairs[i+1].(entity.Credential))
	}
	return set
}
