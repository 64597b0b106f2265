package entity

import (
	"strconv"
	"strings"
)

// Credential is the secret (or secrets) needed to reach one channel.
// It is either a single string or an ordered list of strings.
// The zero value represents an absent credential.
type Credential struct {
	values []string
	list   bool
}

// SingleCredential returns a credential holding one string token.
func SingleCredential(token string) Credential {
	return Credential{values: []string{token}}
}

// ListCredential returns a credential holding an ordered list of tokens.
// An empty list is treated as absent.
func ListCredential(tokens ...string) Credential {
	if len(tokens) == 0 {
		return Credential{}
	}
	values := make([]string, len(tokens))
	copy(values, tokens)
	return Credential{values: values, list: true}
}

// IsZero reports whether the credential was never set.
func (c Credential) IsZero() bool {
	return len(c.values) == 0
}

// IsList reports whether the credential was supplied as a list.
func (c Credential) IsList() bool {
	return c.list
}

// Valid reports whether the credential can be handed to a sender:
// it must be present, and neither the token nor any list element may be empty.
func (c Credential) Valid() bool {
	if c.IsZero() {
		return false
	}
	for _, v := range c.values {
		if v == "" {
			return false
		}
	}
	return true
}

// String returns the single token. For list credentials it returns the elements
// joined by commas, which is the wire form multi-field channels accept.
func (c Credential) String() string {
	return strings.Join(c.values, ",")
}

// Fields returns the credential split into its fields. A single token is split
// on commas; a list is returned element by element.
func (c Credential) Fields() []string {
	if c.IsZero() {
		return nil
	}
	if c.list {
		out := make([]string, len(c.values))
		copy(out, c.values)
		return out
	}
	return strings.Split(c.values[0], ",")
}

// Redacted returns a log-safe rendering of the credential.
func (c Credential) Redacted() string {
	if c.IsZero() {
		return "<absent>"
	}
	if c.list {
		return "<list:" + strconv.Itoa(len(c.values)) + ">"
	}
	return "<token>"
}

// ChannelCredential binds a credential to the channel name it is meant for.
type ChannelCredential struct {
	Channel    string
	Credential Credential
}

// CredentialSet is an ordered collection of channel credentials.
// Dispatch visits the entries in insertion order.
type CredentialSet struct {
	entries []ChannelCredential
}

// NewCredentialSet builds a set from the given entries, keeping their order.
// A later entry for the same channel replaces the earlier value in place.
func NewCredentialSet(entries ...ChannelCredential) *CredentialSet {
	s := &CredentialSet{}
	for _, e := range entries {
		s.Set(e.Channel, e.Credential)
	}
	return s
}

// Set adds or replaces the credential for a channel.
func (s *CredentialSet) Set(channel string, cred Credential) {
	for i := range s.entries {
		if s.entries[i].Channel == channel {
			s.entries[i].Credential = cred
			return
		}
	}
	s.entries = append(s.entries, ChannelCredential{Channel: channel, Credential: cred})
}

// Get returns the credential for a channel.
func (s *CredentialSet) Get(channel string) (Credential, bool) {
	if s == nil {
		return Credential{}, false
	}
	for _, e := range s.entries {
		if e.Channel == channel {
			return e.Credential, true
		}
	}
	return Credential{}, false
}

// Entries returns a copy of the entries in insertion order.
func (s *CredentialSet) Entries() []ChannelCredential {
	if s == nil {
		return nil
	}
	out := make([]ChannelCredential, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *CredentialSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
