package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dosada05/tournament-structure/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/structure")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("PREVIEW_RATE_LIMIT", "30")
	t.Setenv("PREVIEW_RATE_WINDOW_SECONDS", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 30, cfg.PreviewRateLimit)
	assert.Equal(t, 10*time.Second, cfg.PreviewRateWindow)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/structure")
	t.Setenv("SERVER_PORT", "70000")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRulesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, structure.DefaultRules(), rules)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRulesLeagueOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("league:\n  min_teams: 8\n  max_teams: 40\n  team_counts: [8, 10, 12, 16, 20]\n"), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	league, ok := rules.Lookup(structure.FormatLeague)
	require.True(t, ok)
	assert.Equal(t, []int{8, 10, 12, 16, 20}, league.TeamCounts)

	_, err = rules.Validate(structure.Draft{Format: structure.FormatLeague, TeamCount: 14})
	assert.ErrorIs(t, err, structure.ErrRange)
	_, err = rules.Validate(structure.Draft{Format: structure.FormatLeague, TeamCount: 16})
	assert.NoError(t, err)
}

func TestParseRulesRejectsBadOverrides(t *testing.T) {
	base := structure.DefaultRules()
	for _, doc := range []string{
		"league: [",
		"league:\n  min_teams: 20\n  max_teams: 10\n",
		"league:\n  team_counts: [0, 8]\n",
	} {
		_, err := ParseRules(base, []byte(doc))
		assert.Error(t, err, doc)
	}

	rules, err := ParseRules(base, []byte("# nothing to override\n"))
	require.NoError(t, err)
	assert.Equal(t, base, rules)
}

func TestMarshalRules(t *testing.T) {
	out, err := MarshalRules(structure.DefaultRules())
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: groupsPlayoffs")
	assert.Contains(t, string(out), "team_counts:")
}
