// Package config loads the credentials and notifier settings used by the
// msgsend commands.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"msgsend/internal/domain/entity"
)

// LoadCredentialsFile reads a YAML mapping of channel name to credential.
//
// Each value is a string, a sequence of strings, or null (absent). Entries
// keep the order in which they appear in the file.
//
//	bark_deviceKey: "xxxxxxxx"
//	weCom_tokens: [corpid, secret, "1000002"]
//	pushplus_token: ~
//
// The path parameter is expected to come from a trusted source (command-line argument or environment).
func LoadCredentialsFile(path string) (*entity.CredentialSet, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or env), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	set, err := ParseCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	return set, nil
}

// ParseCredentials decodes YAML credential data. Empty input yields an empty set.
func ParseCredentials(data []byte) (*entity.CredentialSet, error) {
	set := entity.NewCredentialSet()
	if len(strings.TrimSpace(string(data))) == 0 {
		return set, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return set, nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return set, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &entity.ValidationError{Field: "credentials", Message: "expected a mapping of channel name to credential"}
	}

	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], resolveAlias(root.Content[i+1])
		if keyNode.Kind != yaml.ScalarNode || strings.TrimSpace(keyNode.Value) == "" {
			return nil, &entity.ValidationError{
				Field:   "credentials",
				Message: fmt.Sprintf("line %d: channel name must be a non-empty string", keyNode.Line),
			}
		}
		name := keyNode.Value
		if seen[name] {
			return nil, &entity.ValidationError{
				Field:   name,
				Message: fmt.Sprintf("line %d: duplicate channel", keyNode.Line),
			}
		}
		seen[name] = true

		cred, err := decodeCredential(name, valueNode)
		if err != nil {
			return nil, err
		}
		set.Set(name, cred)
	}

	return set, nil
}

func decodeCredential(name string, node *yaml.Node) (entity.Credential, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return entity.Credential{}, nil
		}
		return entity.SingleCredential(node.Value), nil
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.ScalarNode {
				return entity.Credential{}, &entity.ValidationError{
					Field:   name,
					Message: fmt.Sprintf("line %d: list elements must be strings", item.Line),
				}
			}
			if item.Tag == "!!null" {
				// A null element makes the whole credential invalid.
				values = append(values, "")
				continue
			}
			values = append(values, item.Value)
		}
		return entity.ListCredential(values...), nil
	default:
		return entity.Credential{}, &entity.ValidationError{
			Field:   name,
			Message: fmt.Sprintf("line %d: credential must be a string or a list of strings", node.Line),
		}
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// ApplyEnvOverrides sets the credential of every channel in names whose
// environment variable (named exactly like the channel) is non-empty. Existing
// entries are replaced in place; new ones are appended in names order.
// lookup is usually os.LookupEnv.
func ApplyEnvOverrides(set *entity.CredentialSet, names []string, lookup func(string) (string, bool)) int {
	applied := 0
	for _, name := range names {
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		set.Set(name, entity.SingleCredential(value))
		applied++
	}
	return applied
}
