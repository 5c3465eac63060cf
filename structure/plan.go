package structure

import (
	"encoding/json"
	"math"
	"slices"
	"sort"
)

// Draft is the operator's proposed configuration, as sent by the creation
// wizard or the settings editor. Zero values mean "not set".
type Draft struct {
	Format           FormatKind `json:"formatKind"`
	TeamCount        int        `json:"teamCount"`
	MaxGroupSize     int        `json:"maxGroupSize,omitempty"`
	DesiredGroupSize int        `json:"desiredGroupSize,omitempty"`
	GroupSize        int        `json:"groupSize,omitempty"`
	BaseAdvance      int        `json:"baseAdvance,omitempty"`
	LeagueMode       string     `json:"leagueMode,omitempty"`
	GroupMode        string     `json:"groupMode,omitempty"`
	PlayoffsMode     string     `json:"playoffsMode,omitempty"`
	Seeding          string     `json:"seeding,omitempty"`
	RoundMinutes     int        `json:"roundMinutes,omitempty"`
}

// UnmarshalJSON accepts numbers, numeric strings and fractional values for the
// numeric fields and coerces them with ClampInt instead of failing. Keys that
// are not draft fields are rejected as ValidationErrors of kind ErrUnsupportedField.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if errs := unknownDraftKeys(raw); len(errs) > 0 {
		return errs
	}
	*d = draftFromMap(raw)
	return nil
}

func unknownDraftKeys(raw map[string]any) ValidationErrors {
	var unknown []string
	for key := range raw {
		if key != FieldFormat && key != FieldTeamCount && !slices.Contains(optionalFields, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	var errs ValidationErrors
	for _, key := range unknown {
		errs.add(key, ErrUnsupportedField, "unknown draft field")
	}
	return errs
}

func draftFromMap(raw map[string]any) Draft {
	return Draft{
		Format:           FormatKind(toString(raw[FieldFormat])),
		TeamCount:        toInt(raw[FieldTeamCount]),
		MaxGroupSize:     toInt(raw[FieldMaxGroupSize]),
		DesiredGroupSize: toInt(raw[FieldDesiredGroupSize]),
		GroupSize:        toInt(raw[FieldGroupSize]),
		BaseAdvance:      toInt(raw[FieldBaseAdvance]),
		LeagueMode:       toString(raw[FieldLeagueMode]),
		GroupMode:        toString(raw[FieldGroupMode]),
		PlayoffsMode:     toString(raw[FieldPlayoffsMode]),
		Seeding:          toString(raw[FieldSeeding]),
		RoundMinutes:     toInt(raw[FieldRoundMinutes]),
	}
}

// intField returns the value of a numeric draft field by key.
func (d Draft) intField(field string) int {
	switch field {
	case FieldTeamCount:
		return d.TeamCount
	case FieldMaxGroupSize:
		return d.MaxGroupSize
	case FieldDesiredGroupSize:
		return d.DesiredGroupSize
	case FieldGroupSize:
		return d.GroupSize
	case FieldBaseAdvance:
		return d.BaseAdvance
	case FieldRoundMinutes:
		return d.RoundMinutes
	}
	return 0
}

func (d Draft) modeField(field string) string {
	switch field {
	case FieldLeagueMode:
		return d.LeagueMode
	case FieldGroupMode:
		return d.GroupMode
	case FieldPlayoffsMode:
		return d.PlayoffsMode
	case FieldSeeding:
		return d.Seeding
	}
	return ""
}

var optionalFields = []string{
	FieldMaxGroupSize, FieldDesiredGroupSize, FieldGroupSize, FieldBaseAdvance,
	FieldLeagueMode, FieldGroupMode, FieldPlayoffsMode, FieldSeeding, FieldRoundMinutes,
}

// setFields lists the optional fields carrying a value, in a fixed order.
func (d Draft) setFields() []string {
	out := make([]string, 0, len(optionalFields))
	for _, f := range optionalFields {
		if d.intField(f) != 0 || d.modeField(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

// StageModes holds the resolved match mode of every stage the format has.
type StageModes struct {
	League   LegsMode     `json:"league,omitempty"`
	Groups   LegsMode     `json:"groups,omitempty"`
	Playoffs PlayoffsMode `json:"playoffs,omitempty"`
}

// Sizing records which draft field drove the partition.
type Sizing struct {
	Field string        `json:"field"`
	Mode  PartitionMode `json:"mode"`
	Size  int           `json:"size"`
}

// Plan is the validated structural plan of one tournament configuration.
type Plan struct {
	Format       FormatKind    `json:"formatKind"`
	TeamCount    int           `json:"teamCount"`
	Modes        StageModes    `json:"modes"`
	Sizing       *Sizing       `json:"sizing,omitempty"`
	BaseAdvance  int           `json:"baseAdvance,omitempty"`
	Groups       *GroupPlan    `json:"groups,omitempty"`
	Bracket      *BracketPlan  `json:"bracket,omitempty"`
	Seeding      SeedingPolicy `json:"seeding,omitempty"`
	RoundMinutes int           `json:"roundMinutes,omitempty"`
}

// Draft returns the normalized draft the plan was derived from. Validating it
// yields an equal plan.
func (p *Plan) Draft() Draft {
	d := Draft{
		Format:       p.Format,
		TeamCount:    p.TeamCount,
		BaseAdvance:  p.BaseAdvance,
		LeagueMode:   string(p.Modes.League),
		GroupMode:    string(p.Modes.Groups),
		PlayoffsMode: string(p.Modes.Playoffs),
		Seeding:      string(p.Seeding),
		RoundMinutes: p.RoundMinutes,
	}
	if p.Sizing != nil {
		switch p.Sizing.Field {
		case FieldMaxGroupSize:
			d.MaxGroupSize = p.Sizing.Size
		case FieldDesiredGroupSize:
			d.DesiredGroupSize = p.Sizing.Size
		case FieldGroupSize:
			d.GroupSize = p.Sizing.Size
		}
	}
	return d
}

const maxCoerced = math.MaxInt32

// toInt coerces a decoded JSON value to an int. Anything non-numeric is 0.
func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return ClampInt(n, -maxCoerced, maxCoerced)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return ClampInt(f, -maxCoerced, maxCoerced)
	case int:
		return ClampInt(float64(n), -maxCoerced, maxCoerced)
	case string:
		var f float64
		if err := json.Unmarshal([]byte(n), &f); err != nil {
			return 0
		}
		return ClampInt(f, -maxCoerced, maxCoerced)
	}
	return 0
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
