package structure

import (
	"bytes"
	"encoding/json"
)

// Sections of the tournament configuration record written by this package.
// Every other top-level key belongs to someone else and is never touched.
const (
	SectionFormat   = "format"
	SectionLeague   = "league"
	SectionKnockout = "knockout"
	SectionGroups   = "groups"
	SectionPlayoffs = "playoffs"
	SectionFast     = "fast"
)

// OwnedSections is the allow-list Merge replaces.
var OwnedSections = []string{
	SectionFormat, SectionLeague, SectionKnockout, SectionGroups, SectionPlayoffs, SectionFast,
}

type formatSection struct {
	Kind      FormatKind `json:"kind"`
	TeamCount int        `json:"teamCount"`
}

type leagueSection struct {
	Legs LegsMode `json:"legs"`
}

type groupsSection struct {
	Legs        LegsMode   `json:"legs"`
	Sizing      *Sizing    `json:"sizing,omitempty"`
	BaseAdvance int        `json:"baseAdvance"`
	Derived     *GroupPlan `json:"derived,omitempty"`
}

type bracketSection struct {
	Mode    PlayoffsMode  `json:"mode"`
	Seeding SeedingPolicy `json:"seeding,omitempty"`
	Derived *BracketPlan  `json:"derived,omitempty"`
}

type fastSection struct {
	RoundMinutes int `json:"roundMinutes"`
}

// Merge writes plan into the configuration record existing and returns the new
// record. Only OwnedSections are replaced; sections of the plan's format are
// written and owned sections of other formats are dropped. A nil, empty or
// malformed existing record is treated as an empty object.
func Merge(existing []byte, plan *Plan) (json.RawMessage, error) {
	record := decodeRecord(existing)
	for _, key := range OwnedSections {
		delete(record, key)
	}
	if plan == nil {
		return json.Marshal(record)
	}

	sections := map[string]any{
		SectionFormat: formatSection{Kind: plan.Format, TeamCount: plan.TeamCount},
	}
	switch plan.Format {
	case FormatLeague:
		sections[SectionLeague] = leagueSection{Legs: plan.Modes.League}
	case FormatKnockout:
		sections[SectionKnockout] = bracketSection{Mode: plan.Modes.Playoffs, Seeding: plan.Seeding, Derived: plan.Bracket}
	case FormatGroupsPlayoffs, FormatFast:
		sections[SectionGroups] = groupsSection{
			Legs:        plan.Modes.Groups,
			Sizing:      plan.Sizing,
			BaseAdvance: plan.BaseAdvance,
			Derived:     plan.Groups,
		}
		sections[SectionPlayoffs] = bracketSection{Mode: plan.Modes.Playoffs, Seeding: plan.Seeding, Derived: plan.Bracket}
		if plan.Format == FormatFast {
			sections[SectionFast] = fastSection{RoundMinutes: plan.RoundMinutes}
		}
	}

	for key, section := range sections {
		raw, err := json.Marshal(section)
		if err != nil {
			return nil, err
		}
		record[key] = raw
	}
	return json.Marshal(record)
}

// Extract reads the engine-owned fields of a configuration record back into a
// draft. It never fails: missing or malformed sections leave fields unset.
func Extract(record []byte) Draft {
	sections := decodeRecord(record)
	format := section(sections, SectionFormat)
	d := Draft{
		Format:    FormatKind(toString(format["kind"])),
		TeamCount: toInt(format["teamCount"]),
	}

	switch d.Format {
	case FormatLeague:
		d.LeagueMode = toString(section(sections, SectionLeague)["legs"])
	case FormatKnockout:
		ko := section(sections, SectionKnockout)
		d.PlayoffsMode = toString(ko["mode"])
		d.Seeding = toString(ko["seeding"])
	case FormatGroupsPlayoffs, FormatFast:
		groups := section(sections, SectionGroups)
		d.GroupMode = toString(groups["legs"])
		d.BaseAdvance = toInt(groups["baseAdvance"])
		if sizing, ok := groups["sizing"].(map[string]any); ok {
			size := toInt(sizing["size"])
			switch toString(sizing["field"]) {
			case FieldMaxGroupSize:
				d.MaxGroupSize = size
			case FieldDesiredGroupSize:
				d.DesiredGroupSize = size
			case FieldGroupSize:
				d.GroupSize = size
			}
		}
		playoffs := section(sections, SectionPlayoffs)
		d.PlayoffsMode = toString(playoffs["mode"])
		d.Seeding = toString(playoffs["seeding"])
		if d.Format == FormatFast {
			d.RoundMinutes = toInt(section(sections, SectionFast)["roundMinutes"])
		}
	}
	return d
}

// ReadPlan decodes the plan stored in a configuration record, including the
// derived group and bracket numbers, without re-validating it.
func ReadPlan(record []byte) (*Plan, bool) {
	sections := decodeRecord(record)
	raw, ok := sections[SectionFormat]
	if !ok {
		return nil, false
	}
	var format formatSection
	if err := json.Unmarshal(raw, &format); err != nil || format.Kind == "" {
		return nil, false
	}
	plan := &Plan{Format: format.Kind, TeamCount: format.TeamCount}

	switch format.Kind {
	case FormatLeague:
		var league leagueSection
		if !decodeSection(sections, SectionLeague, &league) {
			return nil, false
		}
		plan.Modes.League = league.Legs
	case FormatKnockout:
		var ko bracketSection
		if !decodeSection(sections, SectionKnockout, &ko) {
			return nil, false
		}
		plan.Modes.Playoffs = ko.Mode
		plan.Seeding = ko.Seeding
		plan.Bracket = ko.Derived
	case FormatGroupsPlayoffs, FormatFast:
		var groups groupsSection
		var playoffs bracketSection
		if !decodeSection(sections, SectionGroups, &groups) || !decodeSection(sections, SectionPlayoffs, &playoffs) {
			return nil, false
		}
		plan.Modes.Groups = groups.Legs
		plan.Sizing = groups.Sizing
		plan.BaseAdvance = groups.BaseAdvance
		plan.Groups = groups.Derived
		plan.Modes.Playoffs = playoffs.Mode
		plan.Seeding = playoffs.Seeding
		plan.Bracket = playoffs.Derived
		if format.Kind == FormatFast {
			var fast fastSection
			if !decodeSection(sections, SectionFast, &fast) {
				return nil, false
			}
			plan.RoundMinutes = fast.RoundMinutes
		}
	default:
		return nil, false
	}
	return plan, true
}

func decodeRecord(record []byte) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	trimmed := bytes.TrimSpace(record)
	if len(trimmed) == 0 {
		return out
	}
	if err := json.Unmarshal(trimmed, &out); err != nil || out == nil {
		return map[string]json.RawMessage{}
	}
	return out
}

func section(sections map[string]json.RawMessage, key string) map[string]any {
	raw, ok := sections[key]
	if !ok {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func decodeSection(sections map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := sections[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
