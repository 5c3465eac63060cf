package structure

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var defaultRules = DefaultRules()

// Validate checks d against the built-in rule table.
func Validate(d Draft) (*Plan, error) {
	return defaultRules.Validate(d)
}

// Validate checks d end to end and derives its plan. Every applicable check
// runs; on failure the returned error is a ValidationErrors holding all of them
// in check order and the plan is nil.
//
// groupsPlayoffs partitions by maxGroupSize (ceiling mode), falling back to
// desiredGroupSize (rounding mode) for drafts that only carry the legacy field.
// fast partitions by groupSize in ceiling mode.
func (r Rules) Validate(d Draft) (*Plan, error) {
	var errs ValidationErrors

	rule, ok := r.Lookup(d.Format)
	if !ok {
		errs.add(FieldFormat, ErrUnknownFormat, fmt.Sprintf("unknown format %q", d.Format))
		return nil, errs
	}

	for _, field := range d.setFields() {
		if rule.Supports(field) {
			continue
		}
		kind := ErrUnsupportedField
		if isModeField(field) {
			kind = ErrIllegalMode
		}
		errs.add(field, kind, fmt.Sprintf("not used by the %s format", rule.Label))
	}

	checkTeamCount(&errs, rule, d.TeamCount)

	plan := &Plan{Format: rule.Kind, TeamCount: d.TeamCount}

	if rule.HasGroups() {
		plan.Sizing = pickSizing(rule, d)
		if plan.Sizing == nil {
			errs.add(rule.Sizing[0].Field, ErrRange, "is required")
		} else {
			groups, err := Partition(plan.Sizing.Mode, atLeast(d.TeamCount, MinGroupSize), plan.Sizing.Size)
			if err != nil {
				errs.add(plan.Sizing.Field, ErrInfeasiblePartition, err.Error())
			}
			plan.Groups = &groups
		}

		advanceOK := slices.Contains(rule.AdvanceOptions, d.BaseAdvance)
		if !advanceOK {
			errs.add(FieldBaseAdvance, ErrRange, "must be one of "+joinInts(rule.AdvanceOptions))
		}
		plan.BaseAdvance = d.BaseAdvance
		if plan.Groups != nil && advanceOK {
			bracket := SizeBracket(plan.Groups.GroupCount, d.BaseAdvance)
			plan.Bracket = &bracket
		}
	} else if _, ok := rule.Stage(StagePlayoffs); ok {
		bracket := knockoutBracket(d.TeamCount)
		plan.Bracket = &bracket
	}

	for _, stage := range rule.Stages {
		mode := d.modeField(stage.ModeField)
		if mode == "" {
			mode = stage.Modes[0]
		} else if !slices.Contains(stage.Modes, mode) {
			errs.add(stage.ModeField, ErrIllegalMode,
				fmt.Sprintf("%q is not allowed for the %s stage, expected one of %s", mode, stage.Stage, strings.Join(stage.Modes, ", ")))
		}
		switch stage.Stage {
		case StageLeague:
			plan.Modes.League = LegsMode(mode)
		case StageGroups:
			plan.Modes.Groups = LegsMode(mode)
		case StagePlayoffs:
			plan.Modes.Playoffs = PlayoffsMode(mode)
		}
	}

	if rule.Seeding {
		seeding := d.Seeding
		if seeding == "" {
			seeding = string(SeedingRandom)
		} else if !slices.Contains(SeedingPolicies, seeding) {
			errs.add(FieldSeeding, ErrRange, "must be one of "+strings.Join(SeedingPolicies, ", "))
		}
		plan.Seeding = SeedingPolicy(seeding)
	}

	if len(rule.RoundMinutes) > 0 {
		minutes := d.RoundMinutes
		if minutes == 0 {
			minutes = rule.RoundMinutes[0]
		} else if !slices.Contains(rule.RoundMinutes, minutes) {
			errs.add(FieldRoundMinutes, ErrRange, "must be one of "+joinInts(rule.RoundMinutes))
		}
		plan.RoundMinutes = minutes
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return plan, nil
}

func checkTeamCount(errs *ValidationErrors, rule FormatRule, n int) {
	switch {
	case n < rule.MinTeams || n > rule.MaxTeams:
		errs.add(FieldTeamCount, ErrRange, fmt.Sprintf("must be between %d and %d", rule.MinTeams, rule.MaxTeams))
	case len(rule.TeamCounts) > 0 && !slices.Contains(rule.TeamCounts, n):
		errs.add(FieldTeamCount, ErrRange, "must be one of "+joinInts(rule.TeamCounts))
	}
	if rule.EvenTeams && !IsEven(n) {
		errs.add(FieldTeamCount, ErrRange, "must be even")
	}
}

func pickSizing(rule FormatRule, d Draft) *Sizing {
	for _, s := range rule.Sizing {
		if v := d.intField(s.Field); v != 0 {
			return &Sizing{Field: s.Field, Mode: s.Mode, Size: v}
		}
	}
	return nil
}

func isModeField(field string) bool {
	return field == FieldLeagueMode || field == FieldGroupMode || field == FieldPlayoffsMode
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
