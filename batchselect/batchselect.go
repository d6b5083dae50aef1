// Package batchselect maps a set of candidate file paths to named merge
// scenarios via glob rules, so a single CLI invocation can drive a PCS
// merge over every file a scenario claims instead of one file at a time.
package batchselect

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ScenarioRule names one merge scenario and the glob patterns of paths it
// applies to.
type ScenarioRule struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

// ScenariosConfig is the on-disk shape of a batch rules file.
type ScenariosConfig struct {
	Scenarios []ScenarioRule `yaml:"scenarios"`
}

// Selector matches candidate paths against a set of scenario rules.
type Selector struct {
	scenarios []ScenarioRule
}

// LoadRules reads scenario rules from a YAML file.
func LoadRules(path string) (*Selector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batchselect: reading rules file: %w", err)
	}
	var config ScenariosConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("batchselect: parsing rules file: %w", err)
	}
	return &Selector{scenarios: config.Scenarios}, nil
}

// NewSelector builds a Selector directly from a list of rules.
func NewSelector(scenarios []ScenarioRule) *Selector {
	return &Selector{scenarios: scenarios}
}

// MatchPath returns the names of scenarios whose glob patterns match path.
func (s *Selector) MatchPath(path string) []string {
	var matched []string
	for _, rule := range s.scenarios {
		for _, pattern := range rule.Paths {
			ok, err := doublestar.Match(pattern, path)
			if err != nil {
				continue
			}
			if ok {
				matched = append(matched, rule.Name)
				break
			}
		}
	}
	return matched
}

// Group partitions paths by every scenario that claims them. A path
// matching no rule is omitted entirely; a path matching several rules
// appears under each.
func (s *Selector) Group(paths []string) map[string][]string {
	grouped := make(map[string][]string)
	for _, path := range paths {
		for _, name := range s.MatchPath(path) {
			grouped[name] = append(grouped[name], path)
		}
	}
	return grouped
}

// Unmatched returns the subset of paths that no scenario rule claims,
// preserving input order.
func (s *Selector) Unmatched(paths []string) []string {
	var leftover []string
	for _, path := range paths {
		if len(s.MatchPath(path)) == 0 {
			leftover = append(leftover, path)
		}
	}
	return leftover
}
