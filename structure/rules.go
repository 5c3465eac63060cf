package structure

import (
	"slices"
	"sort"
)

// FormatKind is the overall competition structure.
type FormatKind string

const (
	FormatLeague         FormatKind = "league"
	FormatKnockout       FormatKind = "knockout"
	FormatGroupsPlayoffs FormatKind = "groupsPlayoffs"
	FormatFast           FormatKind = "fast"
)

// Stage is a phase within a format.
type Stage string

const (
	StageLeague   Stage = "league"
	StageGroups   Stage = "groups"
	StagePlayoffs Stage = "playoffs"
)

// LegsMode decides a round-robin pairing.
type LegsMode string

const (
	LegsSingle  LegsMode = "single"
	LegsTwoLegs LegsMode = "twoLegs"
)

// PlayoffsMode decides an elimination pairing.
type PlayoffsMode string

const (
	PlayoffsSingle  PlayoffsMode = "single"
	PlayoffsTwoLegs PlayoffsMode = "twoLegs"
	PlayoffsBo3     PlayoffsMode = "bo3"
	PlayoffsBo5     PlayoffsMode = "bo5"
	PlayoffsBo7     PlayoffsMode = "bo7"
	PlayoffsBo9     PlayoffsMode = "bo9"
)

// SeedingPolicy decides how the elimination bracket is seeded.
type SeedingPolicy string

const (
	SeedingRandom SeedingPolicy = "random"
	SeedingManual SeedingPolicy = "manual"
)

// LegsModes and PlayoffsModes are the two match-mode vocabularies.
var (
	LegsModes     = []string{string(LegsSingle), string(LegsTwoLegs)}
	PlayoffsModes = []string{
		string(PlayoffsSingle), string(PlayoffsTwoLegs),
		string(PlayoffsBo3), string(PlayoffsBo5), string(PlayoffsBo7), string(PlayoffsBo9),
	}
	SeedingPolicies = []string{string(SeedingRandom), string(SeedingManual)}
	RoundMinutes    = []int{15, 20, 25, 30, 35}
	AdvanceOptions  = []int{1, 2}
)

// StageRule lists the legal match modes of one stage and the draft field carrying the choice.
type StageRule struct {
	Stage     Stage    `json:"stage" yaml:"stage"`
	ModeField string   `json:"modeField" yaml:"mode_field"`
	Modes     []string `json:"modes" yaml:"modes"`
}

// SizingRule binds a draft sizing field to the partition mode it drives.
type SizingRule struct {
	Field string        `json:"field" yaml:"field"`
	Mode  PartitionMode `json:"mode" yaml:"mode"`
}

// FormatRule is one row of the format table. TeamCounts, when set, is the
// exhaustive list of accepted team counts. Sizing is ordered by precedence:
// the first field of the draft with a positive value selects the partition mode.
type FormatRule struct {
	Kind           FormatKind   `json:"kind" yaml:"kind"`
	Label          string       `json:"label" yaml:"label"`
	MinTeams       int          `json:"minTeams" yaml:"min_teams"`
	MaxTeams       int          `json:"maxTeams" yaml:"max_teams"`
	TeamCounts     []int        `json:"teamCounts,omitempty" yaml:"team_counts,omitempty"`
	EvenTeams      bool         `json:"evenTeams" yaml:"even_teams"`
	Stages         []StageRule  `json:"stages" yaml:"stages"`
	Sizing         []SizingRule `json:"sizing,omitempty" yaml:"sizing,omitempty"`
	AdvanceOptions []int        `json:"advanceOptions,omitempty" yaml:"advance_options,omitempty"`
	Seeding        bool         `json:"seeding" yaml:"seeding"`
	RoundMinutes   []int        `json:"roundMinutes,omitempty" yaml:"round_minutes,omitempty"`
}

// HasGroups reports whether the format has a group stage feeding a bracket.
func (r FormatRule) HasGroups() bool {
	return len(r.Sizing) > 0
}

// Stage returns the rule of the given stage, if the format has it.
func (r FormatRule) Stage(stage Stage) (StageRule, bool) {
	for _, s := range r.Stages {
		if s.Stage == stage {
			return s, true
		}
	}
	return StageRule{}, false
}

// Supports reports whether a draft field has an entry for this format.
func (r FormatRule) Supports(field string) bool {
	switch field {
	case FieldFormat, FieldTeamCount:
		return true
	case FieldLeagueMode:
		_, ok := r.Stage(StageLeague)
		return ok
	case FieldGroupMode:
		_, ok := r.Stage(StageGroups)
		return ok
	case FieldPlayoffsMode:
		_, ok := r.Stage(StagePlayoffs)
		return ok
	case FieldBaseAdvance:
		return len(r.AdvanceOptions) > 0
	case FieldSeeding:
		return r.Seeding
	case FieldRoundMinutes:
		return len(r.RoundMinutes) > 0
	}
	for _, s := range r.Sizing {
		if s.Field == field {
			return true
		}
	}
	return false
}

// AcceptsTeamCount reports whether n satisfies the bounds, set and parity of the format.
func (r FormatRule) AcceptsTeamCount(n int) bool {
	if n < r.MinTeams || n > r.MaxTeams {
		return false
	}
	if len(r.TeamCounts) > 0 && !slices.Contains(r.TeamCounts, n) {
		return false
	}
	return !r.EvenTeams || IsEven(n)
}

func (r FormatRule) clone() FormatRule {
	c := r
	c.TeamCounts = slices.Clone(r.TeamCounts)
	c.Sizing = slices.Clone(r.Sizing)
	c.AdvanceOptions = slices.Clone(r.AdvanceOptions)
	c.RoundMinutes = slices.Clone(r.RoundMinutes)
	c.Stages = make([]StageRule, len(r.Stages))
	for i, s := range r.Stages {
		s.Modes = slices.Clone(s.Modes)
		c.Stages[i] = s
	}
	return c
}

// Rules is the format table. Values are independent copies; mutate only through With* methods.
type Rules map[FormatKind]FormatRule

// DefaultRules returns a fresh copy of the built-in table.
func DefaultRules() Rules {
	return Rules{
		FormatLeague: {
			Kind:     FormatLeague,
			Label:    "League",
			MinTeams: 8,
			MaxTeams: 40,
			Stages: []StageRule{
				{Stage: StageLeague, ModeField: FieldLeagueMode, Modes: slices.Clone(LegsModes)},
			},
		},
		FormatKnockout: {
			Kind:       FormatKnockout,
			Label:      "Knockout",
			MinTeams:   8,
			MaxTeams:   128,
			TeamCounts: []int{8, 16, 32, 64, 128},
			EvenTeams:  true,
			Stages: []StageRule{
				{Stage: StagePlayoffs, ModeField: FieldPlayoffsMode, Modes: slices.Clone(PlayoffsModes)},
			},
			Seeding: true,
		},
		FormatGroupsPlayoffs: {
			Kind:      FormatGroupsPlayoffs,
			Label:     "Groups + Playoffs",
			MinTeams:  4,
			MaxTeams:  128,
			EvenTeams: true,
			Stages: []StageRule{
				{Stage: StageGroups, ModeField: FieldGroupMode, Modes: slices.Clone(LegsModes)},
				{Stage: StagePlayoffs, ModeField: FieldPlayoffsMode, Modes: slices.Clone(PlayoffsModes)},
			},
			Sizing: []SizingRule{
				{Field: FieldMaxGroupSize, Mode: PartitionCeiling},
				{Field: FieldDesiredGroupSize, Mode: PartitionRounding},
			},
			AdvanceOptions: slices.Clone(AdvanceOptions),
			Seeding:        true,
		},
		FormatFast: {
			Kind:      FormatFast,
			Label:     "Fast",
			MinTeams:  4,
			MaxTeams:  256,
			EvenTeams: true,
			Stages: []StageRule{
				{Stage: StageGroups, ModeField: FieldGroupMode, Modes: []string{string(LegsSingle)}},
				{Stage: StagePlayoffs, ModeField: FieldPlayoffsMode, Modes: []string{string(PlayoffsSingle)}},
			},
			Sizing: []SizingRule{
				{Field: FieldGroupSize, Mode: PartitionCeiling},
			},
			AdvanceOptions: slices.Clone(AdvanceOptions),
			RoundMinutes:   slices.Clone(RoundMinutes),
		},
	}
}

// Lookup returns the rule for kind.
func (r Rules) Lookup(kind FormatKind) (FormatRule, bool) {
	rule, ok := r[kind]
	return rule, ok
}

// Kinds returns the formats in the table in a stable order.
func (r Rules) Kinds() []FormatKind {
	kinds := make([]FormatKind, 0, len(r))
	for k := range r {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// List returns every rule ordered by Kinds.
func (r Rules) List() []FormatRule {
	out := make([]FormatRule, 0, len(r))
	for _, k := range r.Kinds() {
		out = append(out, r[k].clone())
	}
	return out
}

// WithLeagueTeams returns a copy of r with the league team-count bounds and set replaced.
// Zero bounds keep the current values; an empty set accepts the whole range.
func (r Rules) WithLeagueTeams(minTeams, maxTeams int, teamCounts []int) Rules {
	out := make(Rules, len(r))
	for k, rule := range r {
		out[k] = rule.clone()
	}
	league, ok := out[FormatLeague]
	if !ok {
		return out
	}
	if minTeams > 0 {
		league.MinTeams = minTeams
	}
	if maxTeams > 0 {
		league.MaxTeams = maxTeams
	}
	league.TeamCounts = slices.Clone(teamCounts)
	sort.Ints(league.TeamCounts)
	out[FormatLeague] = league
	return out
}
