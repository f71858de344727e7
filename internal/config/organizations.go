package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// ErrNoMatchingOrganizations is returned when a selection matches nothing.
var ErrNoMatchingOrganizations = errors.New("no organization matches the selection")

// OrganizationEntry is one organization of the organization file.
type OrganizationEntry struct {
	Name string
	OrgValues
}

// OrganizationList keeps organizations in the order of the YAML mapping.
type OrganizationList []OrganizationEntry

type organizationFile struct {
	Organizations OrganizationList `yaml:"organizations"`
}

// LoadOrganizations reads the organizations mapping of an organization file.
func LoadOrganizations(path string) (OrganizationList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read organization file: %w", err)
	}

	var file organizationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Organizations) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoOrganizations, path)
	}

	return file.Organizations, nil
}

// UnmarshalYAML decodes the mapping node by node to keep its order.
func (l *OrganizationList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*l = nil
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w (line %d)", ErrOrganizationsNotMapping, node.Line)
	}

	list := make(OrganizationList, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var name string
		if err := keyNode.Decode(&name); err != nil {
			return fmt.Errorf("organization name (line %d): %w", keyNode.Line, err)
		}

		if name == "" {
			return fmt.Errorf("%w (line %d)", ErrEmptyOrganizationName, keyNode.Line)
		}

		if seen[name] {
			return fmt.Errorf("%w: %s (line %d)", ErrDuplicateOrganization, name, keyNode.Line)
		}

		seen[name] = true

		entry := OrganizationEntry{Name: name}

		if valueNode.Tag != "!!null" {
			if err := valueNode.Decode(&entry.OrgValues); err != nil {
				return fmt.Errorf("organization %s: %w", name, err)
			}
		}

		list = append(list, entry)
	}

	*l = list

	return nil
}

// MarshalYAML encodes the list back into an ordered mapping.
func (l OrganizationList) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, entry := range l {
		var value yaml.Node
		if err := value.Encode(entry.OrgValues); err != nil {
			return nil, fmt.Errorf("organization %s: %w", entry.Name, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Name},
			&value,
		)
	}

	return node, nil
}

// Names returns the organization names in order.
func (l OrganizationList) Names() []string {
	names := make([]string, 0, len(l))
	for _, entry := range l {
		names = append(names, entry.Name)
	}

	return names
}

// Select keeps only organizations matching at least one glob pattern.
// No patterns keeps everything.
func (l OrganizationList) Select(patterns []string) (OrganizationList, error) {
	if len(patterns) == 0 {
		return l, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid organization pattern %q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	var selected OrganizationList

	for _, entry := range l {
		for _, g := range globs {
			if g.Match(entry.Name) {
				selected = append(selected, entry)
				break
			}
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoMatchingOrganizations, patterns)
	}

	return selected, nil
}
