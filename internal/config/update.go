package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetValue sets a dotted key (e.g. "scan.recursive") in the config file at
// configPath, creating the file and any missing sections. Existing structure
// and comments are preserved. The value is written as a YAML scalar, or as a
// sequence when it contains commas ("a,b,c").
func SetValue(configPath, key, value string) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mappingNode()}}
	case err != nil:
		return fmt.Errorf("failed to read config file: %w", err)
	default:
		// Parse as yaml.Node to preserve structure
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		if root.Kind == 0 {
			root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mappingNode()}}
		}
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	// Walk or create the sections leading to the leaf
	for _, section := range parts[:len(parts)-1] {
		child := findMapValue(node, section)
		if child == nil {
			child = mappingNode()
			node.Content = append(node.Content, scalarNode(section), child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a section in config", section)
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	newValue := valueNode(value)
	if existing := findMapValue(node, leaf); existing != nil {
		newValue.HeadComment = existing.HeadComment
		newValue.LineComment = existing.LineComment
		*existing = *newValue
	} else {
		node.Content = append(node.Content, scalarNode(leaf), newValue)
	}

	// Write back to file
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) (string, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()
	return buf.String(), nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// valueNode builds the node for a command-line value. Booleans and integers
// keep their YAML type so viper decodes them without help.
func valueNode(value string) *yaml.Node {
	if strings.Contains(value, ",") {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				seq.Content = append(seq.Content, scalarNode(item))
			}
		}
		return seq
	}

	n := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	var probe interface{}
	if err := yaml.Unmarshal([]byte(value), &probe); err == nil {
		switch probe.(type) {
		case bool:
			n.Tag = "!!bool"
			return n
		case int:
			n.Tag = "!!int"
			return n
		}
	}
	n.Tag = "!!str"
	return n
}
