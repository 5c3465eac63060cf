package structure

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ValidateSuite groups the end-to-end validation scenarios.
type ValidateSuite struct {
	suite.Suite
	rules Rules
}

func (s *ValidateSuite) SetupTest() {
	s.rules = DefaultRules()
}

func (s *ValidateSuite) validationErrors(err error) ValidationErrors {
	var verrs ValidationErrors
	s.Require().True(errors.As(err, &verrs), "error must be ValidationErrors, got %v", err)
	return verrs
}

// Single group of 16 still feeds a 4-team bracket through wildcards.
func (s *ValidateSuite) TestGroupsPlayoffsSingleGroup() {
	plan, err := s.rules.Validate(Draft{
		Format: FormatGroupsPlayoffs, TeamCount: 16, MaxGroupSize: 16, BaseAdvance: 2,
	})
	s.Require().NoError(err)
	s.Equal(GroupPlan{GroupCount: 1, MinGroupSize: 16, MaxGroupSize: 16}, *plan.Groups)
	s.Equal(BracketPlan{BaseQualified: 2, BracketSize: 4, Wildcards: 2}, *plan.Bracket)
	s.Equal(LegsSingle, plan.Modes.Groups)
	s.Equal(PlayoffsSingle, plan.Modes.Playoffs)
	s.Equal(SeedingRandom, plan.Seeding)
}

func (s *ValidateSuite) TestGroupsPlayoffsInfeasible() {
	plan, err := s.rules.Validate(Draft{
		Format: FormatGroupsPlayoffs, TeamCount: 18, MaxGroupSize: 4, BaseAdvance: 2,
	})
	s.Nil(plan)
	verrs := s.validationErrors(err)
	s.Require().Len(verrs, 1)
	s.Equal(FieldMaxGroupSize, verrs[0].Field)
	s.ErrorIs(verrs[0], ErrInfeasiblePartition)
	s.ErrorIs(err, ErrInfeasiblePartition)
}

func (s *ValidateSuite) TestKnockout() {
	plan, err := s.rules.Validate(Draft{
		Format: FormatKnockout, TeamCount: 32, PlayoffsMode: "bo3", Seeding: "random",
	})
	s.Require().NoError(err)
	s.Nil(plan.Groups)
	s.Equal(BracketPlan{BaseQualified: 32, BracketSize: 32, Wildcards: 0}, *plan.Bracket)
	s.Equal(PlayoffsBo3, plan.Modes.Playoffs)
}

func (s *ValidateSuite) TestFast() {
	plan, err := s.rules.Validate(Draft{
		Format: FormatFast, TeamCount: 20, GroupSize: 4, BaseAdvance: 2, RoundMinutes: 25,
	})
	s.Require().NoError(err)
	s.Equal(GroupPlan{GroupCount: 5, MinGroupSize: 4, MaxGroupSize: 4}, *plan.Groups)
	s.Equal(BracketPlan{BaseQualified: 10, BracketSize: 16, Wildcards: 6}, *plan.Bracket)
	s.Equal(25, plan.RoundMinutes)
	s.Equal(PartitionCeiling, plan.Sizing.Mode)
}

func (s *ValidateSuite) TestFastDefaultsRoundMinutes() {
	plan, err := s.rules.Validate(Draft{Format: FormatFast, TeamCount: 20, GroupSize: 4, BaseAdvance: 2})
	s.Require().NoError(err)
	s.Equal(RoundMinutes[0], plan.RoundMinutes)
}

func (s *ValidateSuite) TestFastRejectsOtherModes() {
	_, err := s.rules.Validate(Draft{
		Format: FormatFast, TeamCount: 20, GroupSize: 4, BaseAdvance: 2,
		GroupMode: "twoLegs", PlayoffsMode: "bo3", RoundMinutes: 40,
	})
	verrs := s.validationErrors(err)
	s.Equal([]string{FieldGroupMode, FieldPlayoffsMode, FieldRoundMinutes}, verrs.Fields())
}

func (s *ValidateSuite) TestLegsModeOnKnockoutIsIllegal() {
	_, err := s.rules.Validate(Draft{
		Format: FormatKnockout, TeamCount: 16, LeagueMode: "twoLegs",
	})
	verrs := s.validationErrors(err)
	s.Require().Len(verrs, 1)
	s.Equal(FieldLeagueMode, verrs[0].Field)
	s.ErrorIs(verrs[0], ErrIllegalMode)
}

func (s *ValidateSuite) TestPlayoffsModeOnLeagueIsIllegal() {
	_, err := s.rules.Validate(Draft{Format: FormatLeague, TeamCount: 10, LeagueMode: "bo5"})
	verrs := s.validationErrors(err)
	s.Require().Len(verrs, 1)
	s.Equal(FieldLeagueMode, verrs[0].Field)
	s.ErrorIs(verrs[0], ErrIllegalMode)
}

func (s *ValidateSuite) TestLeague() {
	plan, err := s.rules.Validate(Draft{Format: FormatLeague, TeamCount: 11, LeagueMode: "twoLegs"})
	s.Require().NoError(err)
	s.Equal(LegsTwoLegs, plan.Modes.League)
	s.Nil(plan.Groups)
	s.Nil(plan.Bracket)
	s.Empty(plan.Seeding)
}

func (s *ValidateSuite) TestUnknownFormat() {
	plan, err := s.rules.Validate(Draft{Format: "swiss", TeamCount: 16})
	s.Nil(plan)
	verrs := s.validationErrors(err)
	s.Require().Len(verrs, 1)
	s.Equal(FieldFormat, verrs[0].Field)
	s.ErrorIs(err, ErrUnknownFormat)
}

// All failures come back together, in check order.
func (s *ValidateSuite) TestCollectsAllErrors() {
	_, err := s.rules.Validate(Draft{
		Format:       FormatGroupsPlayoffs,
		TeamCount:    131,
		MaxGroupSize: 3,
		BaseAdvance:  3,
		PlayoffsMode: "bo4",
		Seeding:      "snake",
		RoundMinutes: 20,
	})
	verrs := s.validationErrors(err)
	byField := verrs.ByField()
	s.Len(byField[FieldTeamCount], 2)
	s.Contains(byField, FieldMaxGroupSize)
	s.Contains(byField, FieldBaseAdvance)
	s.Contains(byField, FieldPlayoffsMode)
	s.Contains(byField, FieldSeeding)
	s.Contains(byField, FieldRoundMinutes)
	s.Equal(FieldRoundMinutes, verrs[0].Field)
	s.ErrorIs(verrs[0], ErrUnsupportedField)
}

func (s *ValidateSuite) TestTeamCountRules() {
	_, err := s.rules.Validate(Draft{Format: FormatKnockout, TeamCount: 24})
	s.ErrorIs(err, ErrRange)

	_, err = s.rules.Validate(Draft{Format: FormatGroupsPlayoffs, TeamCount: 2, MaxGroupSize: 4, BaseAdvance: 1})
	verrs := s.validationErrors(err)
	s.Equal([]string{FieldTeamCount}, verrs.Fields())

	_, err = s.rules.Validate(Draft{Format: FormatLeague, TeamCount: 41})
	s.ErrorIs(err, ErrRange)
}

func (s *ValidateSuite) TestLegacyDesiredGroupSize() {
	plan, err := s.rules.Validate(Draft{
		Format: FormatGroupsPlayoffs, TeamCount: 18, DesiredGroupSize: 4, BaseAdvance: 2,
	})
	s.Require().NoError(err)
	s.Equal(PartitionRounding, plan.Sizing.Mode)
	s.Equal(GroupPlan{GroupCount: 4, MinGroupSize: 4, MaxGroupSize: 5}, *plan.Groups)
	s.Equal(BracketPlan{BaseQualified: 8, BracketSize: 8, Wildcards: 0}, *plan.Bracket)
}

func (s *ValidateSuite) TestMissingSizing() {
	_, err := s.rules.Validate(Draft{Format: FormatGroupsPlayoffs, TeamCount: 16, BaseAdvance: 2})
	verrs := s.validationErrors(err)
	s.Equal([]string{FieldMaxGroupSize}, verrs.Fields())
}

func (s *ValidateSuite) TestLeagueTeamSetOverride() {
	rules := s.rules.WithLeagueTeams(0, 0, []int{20, 10})
	_, err := rules.Validate(Draft{Format: FormatLeague, TeamCount: 12})
	s.ErrorIs(err, ErrRange)
	_, err = rules.Validate(Draft{Format: FormatLeague, TeamCount: 20})
	s.NoError(err)

	// the source table is untouched
	_, err = s.rules.Validate(Draft{Format: FormatLeague, TeamCount: 12})
	s.NoError(err)
}

func (s *ValidateSuite) TestDeterministic() {
	drafts := []Draft{
		{Format: FormatGroupsPlayoffs, TeamCount: 22, MaxGroupSize: 6, BaseAdvance: 2, PlayoffsMode: "bo5"},
		{Format: FormatGroupsPlayoffs, TeamCount: 131, MaxGroupSize: 3, BaseAdvance: 3, Seeding: "x"},
		{Format: FormatFast, TeamCount: 64, GroupSize: 6, BaseAdvance: 1, RoundMinutes: 30},
	}
	for _, d := range drafts {
		p1, err1 := s.rules.Validate(d)
		p2, err2 := s.rules.Validate(d)
		s.Equal(p1, p2)
		s.Equal(err1, err2)
	}
}

func (s *ValidateSuite) TestPlanDraftRevalidates() {
	plan, err := s.rules.Validate(Draft{Format: FormatGroupsPlayoffs, TeamCount: 24, MaxGroupSize: 6, BaseAdvance: 1})
	s.Require().NoError(err)
	again, err := s.rules.Validate(plan.Draft())
	s.Require().NoError(err)
	s.Equal(plan, again)
}

func (s *ValidateSuite) TestHugeInputsTerminate() {
	_, err := s.rules.Validate(Draft{
		Format: FormatGroupsPlayoffs, TeamCount: 16, MaxGroupSize: 16, BaseAdvance: 1<<62 + 1,
	})
	verrs := s.validationErrors(err)
	s.Equal([]string{FieldBaseAdvance}, verrs.Fields())

	_, err = s.rules.Validate(Draft{
		Format: FormatFast, TeamCount: math.MaxInt, GroupSize: math.MaxInt, BaseAdvance: math.MaxInt,
	})
	s.ErrorIs(err, ErrRange)
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateSuite))
}

func TestDraftUnmarshalCoercesNumbers(t *testing.T) {
	var d Draft
	err := json.Unmarshal([]byte(`{"formatKind":"fast","teamCount":"20","groupSize":4.7,"baseAdvance":2,"roundMinutes":"abc"}`), &d)
	require.NoError(t, err)
	require.Equal(t, Draft{Format: FormatFast, TeamCount: 20, GroupSize: 4, BaseAdvance: 2}, d)
}

func TestDraftUnmarshalRejectsUnknownKeys(t *testing.T) {
	var d Draft
	err := json.Unmarshal([]byte(`{"formatKind":"knockout","teamCount":16,"playoffMode":"bo5","extra":1}`), &d)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, []string{"extra", "playoffMode"}, verrs.Fields())
	require.ErrorIs(t, err, ErrUnsupportedField)
	require.Equal(t, Draft{}, d)
}

func TestSummary(t *testing.T) {
	plan, err := Validate(Draft{Format: FormatGroupsPlayoffs, TeamCount: 16, MaxGroupSize: 4, BaseAdvance: 2})
	require.NoError(t, err)
	require.Equal(t, 4, plan.Groups.GroupCount)
	require.Equal(t, 0, plan.Bracket.Wildcards)
	require.Equal(t, 8, plan.Bracket.BracketSize)
	require.Contains(t, plan.Summary(), "4 groups (min 4, max 4)")
	require.Contains(t, plan.Summary(), "8-team playoffs")
}
