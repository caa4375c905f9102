package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(NewViper(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
planner:
  resolution: 0.1
  window_size: 30
  verify_invariants: true
logging:
  level: debug
  format: json
`)
	cfg, err := Load(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Planner.Resolution)
	assert.Equal(t, 30, cfg.Planner.WindowSize)
	assert.Equal(t, 253, cfg.Planner.LethalCost)
	assert.True(t, cfg.Planner.VerifyInvariants)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "planner:\n  window_size: 30\n")
	t.Setenv("LPASTAR_PLANNER_WINDOW_SIZE", "12")

	cfg, err := Load(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Planner.WindowSize)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
planner:
  resolution: 0
  lethal_cost: 300
logging:
  level: loud
`)
	_, err := Load(NewViper(path))
	require.Error(t, err)

	var validationErrors ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	assert.ElementsMatch(t, []string{
		"Config.Planner.Resolution",
		"Config.Planner.LethalCost",
		"Config.Logging.Level",
	}, validationErrors.Fields())
	assert.Contains(t, err.Error(), "3 validation errors")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
