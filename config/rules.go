package config

import (
	"fmt"
	"os"

	"github.com/Dosada05/tournament-structure/structure"
	"gopkg.in/yaml.v3"
)

// RulesFile is the YAML override document for the format rule table.
//
//	league:
//	  min_teams: 8
//	  max_teams: 40
//	  team_counts: [8, 10, 12, 16, 20]
type RulesFile struct {
	League *LeagueOverride `yaml:"league"`
}

// LeagueOverride replaces the league team-count rule. Zero bounds keep the
// built-in ones; a non-empty TeamCounts restricts the league to that set.
type LeagueOverride struct {
	MinTeams   int   `yaml:"min_teams"`
	MaxTeams   int   `yaml:"max_teams"`
	TeamCounts []int `yaml:"team_counts"`
}

// LoadRules returns the default rule table with the overrides from path applied.
// An empty path yields the defaults.
func LoadRules(path string) (structure.Rules, error) {
	rules := structure.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read structure rules file %s: %w", path, err)
	}
	return ParseRules(rules, data)
}

// ParseRules applies the YAML overrides in data to base.
func ParseRules(base structure.Rules, data []byte) (structure.Rules, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid structure rules file: %w", err)
	}
	if file.League == nil {
		return base, nil
	}

	l := file.League
	if l.MinTeams < 0 || l.MaxTeams < 0 || l.MinTeams == 1 ||
		(l.MinTeams > 0 && l.MaxTeams > 0 && l.MaxTeams < l.MinTeams) {
		return nil, fmt.Errorf("invalid league team range %d..%d", l.MinTeams, l.MaxTeams)
	}
	for _, n := range l.TeamCounts {
		if n < 2 {
			return nil, fmt.Errorf("invalid league team count %d", n)
		}
	}
	return base.WithLeagueTeams(l.MinTeams, l.MaxTeams, l.TeamCounts), nil
}

// MarshalRules renders the rule table as YAML.
func MarshalRules(rules structure.Rules) ([]byte, error) {
	return yaml.Marshal(rules.List())
}
