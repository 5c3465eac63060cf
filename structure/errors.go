package structure

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Every FieldError wraps exactly one of these.
var (
	ErrRange               = errors.New("value out of range")
	ErrInfeasiblePartition = errors.New("invalid grouping")
	ErrIllegalMode         = errors.New("match mode not allowed for this stage")
	ErrUnknownFormat       = errors.New("unknown tournament format")
	ErrUnsupportedField    = errors.New("field not supported by this format")
)

// Field keys used in FieldError.Field. They match the JSON names of Draft.
const (
	FieldFormat           = "formatKind"
	FieldTeamCount        = "teamCount"
	FieldMaxGroupSize     = "maxGroupSize"
	FieldDesiredGroupSize = "desiredGroupSize"
	FieldGroupSize        = "groupSize"
	FieldBaseAdvance      = "baseAdvance"
	FieldLeagueMode       = "leagueMode"
	FieldGroupMode        = "groupMode"
	FieldPlayoffsMode     = "playoffsMode"
	FieldSeeding          = "seeding"
	FieldRoundMinutes     = "roundMinutes"
)

// FieldError is a single validation failure attached to a draft field.
type FieldError struct {
	Field   string
	Kind    error
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e FieldError) Unwrap() error {
	return e.Kind
}

// ValidationErrors is the full, ordered set of failures for one draft.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return "structure validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, fe := range v {
		errs[i] = fe
	}
	return errs
}

// ByField groups messages by field key, keeping check order within a field.
func (v ValidationErrors) ByField() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, fe := range v {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

// Fields returns the distinct failing field keys in sorted order.
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]struct{}, len(v))
	fields := make([]string, 0, len(v))
	for _, fe := range v {
		if _, ok := seen[fe.Field]; ok {
			continue
		}
		seen[fe.Field] = struct{}{}
		fields = append(fields, fe.Field)
	}
	sort.Strings(fields)
	return fields
}

func (v *ValidationErrors) add(field string, kind error, message string) {
	*v = append(*v, FieldError{Field: field, Kind: kind, Message: message})
}
