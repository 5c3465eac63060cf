package structure

import (
	"fmt"
	"strings"
)

const summarySep = " • "

var modeLabels = map[string]string{
	"single":  "single match",
	"twoLegs": "two legs",
	"bo3":     "Bo3",
	"bo5":     "Bo5",
	"bo7":     "Bo7",
	"bo9":     "Bo9",
}

var formatLabels = map[FormatKind]string{
	FormatLeague:         "League",
	FormatKnockout:       "Knockout",
	FormatGroupsPlayoffs: "Groups + Playoffs",
	FormatFast:           "Fast",
}

// Summary renders the plan as a one-line preview, e.g.
// "Groups + Playoffs • 16 teams • 4 groups (min 4, max 4) • Top 2 + 0 wildcards • 8-team playoffs".
func (p *Plan) Summary() string {
	label, ok := formatLabels[p.Format]
	if !ok {
		label = string(p.Format)
	}
	parts := []string{label, fmt.Sprintf("%d teams", p.TeamCount)}

	if p.Modes.League != "" {
		parts = append(parts, modeLabel(string(p.Modes.League)))
	}
	if p.Groups != nil {
		parts = append(parts, fmt.Sprintf("%d %s (min %d, max %d)",
			p.Groups.GroupCount, plural(p.Groups.GroupCount, "group", "groups"),
			p.Groups.MinGroupSize, p.Groups.MaxGroupSize))
	}
	if p.Groups != nil && p.Bracket != nil {
		parts = append(parts, fmt.Sprintf("Top %d + %d %s", p.BaseAdvance,
			p.Bracket.Wildcards, plural(p.Bracket.Wildcards, "wildcard", "wildcards")))
	}
	if p.Bracket != nil {
		parts = append(parts, fmt.Sprintf("%d-team playoffs", p.Bracket.BracketSize))
	}
	if p.Modes.Playoffs != "" && p.Format != FormatFast {
		parts = append(parts, modeLabel(string(p.Modes.Playoffs))+" playoffs")
	}
	if p.Seeding != "" {
		parts = append(parts, string(p.Seeding)+" seeding")
	}
	if p.RoundMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min rounds", p.RoundMinutes))
	}
	return strings.Join(parts, summarySep)
}

func modeLabel(mode string) string {
	if l, ok := modeLabels[mode]; ok {
		return l
	}
	return mode
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
