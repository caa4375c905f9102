package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/lpastar"
	"github.com/pdrpinto/lpastar/internal/scenario"
)

const corridor = `resolution: 1
start: [0, 0]
goal: [4, 0]
rows:
  - "....."
  - "....."
  - "....."
`

// isolate keeps user config files and environment out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeScenario(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlanCommand_JSON(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "corridor.yaml")
	writeScenario(t, path, corridor)

	out, err := runCommand(t, "plan", path, "--json")
	require.NoError(t, err)

	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Found)
	assert.InDelta(t, 4.0, got.Cost, 1e-9)
	require.Len(t, got.Path, 5)
	assert.Equal(t, lpastar.Cell{X: 0, Y: 0}, got.Path[0])
	assert.Equal(t, lpastar.Cell{X: 4, Y: 0}, got.Path[4])
	assert.Positive(t, got.Expanded)
}

func TestPlanCommand_RenderNoPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "walled.yaml")
	writeScenario(t, path, `resolution: 1
start: [0, 0]
goal: [4, 0]
rows:
  - "..#.."
  - "..#.."
  - "..#.."
`)

	out, err := runCommand(t, "plan", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no path found")
	assert.Contains(t, out, "S.#.G\n")
}

func TestPlanCommand_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "corridor.yaml")
	writeScenario(t, path, corridor)
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("planner:\n  window_size: 0\n"), 0o644))

	_, err := runCommand(t, "--config", cfg, "plan", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WindowSize")
}

func TestPlanCommand_MissingScenario(t *testing.T) {
	isolate(t)
	_, err := runCommand(t, "plan", "nope.yaml")
	require.Error(t, err)
}

func TestWatcher_ReplanIsIncremental(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "corridor.yaml")
	writeScenario(t, path, corridor)

	a := &app{}
	require.NoError(t, a.init(context.Background(), io.Discard))
	var out bytes.Buffer
	w := &watcher{app: a, path: path, out: &out, opts: &planOptions{json: true}}

	require.NoError(t, w.replan(context.Background()))
	first := w.planner
	require.NotNil(t, first)

	writeScenario(t, path, strings.Replace(corridor, `  - "....."
  - "....."
  - "....."`, `  - ".#..."
  - "....."
  - "....."`, 1))
	out.Reset()
	require.NoError(t, w.replan(context.Background()))
	assert.Same(t, first, w.planner, "same grid size keeps the session")

	var got planOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, got.Found)
	assert.InDelta(t, 2+2*1.4142135623730951, got.Cost, 1e-9)

	// A different grid size starts a new session.
	writeScenario(t, path, `resolution: 1
start: [0, 0]
goal: [2, 0]
rows:
  - "..."
`)
	out.Reset()
	require.NoError(t, w.replan(context.Background()))
	assert.NotSame(t, first, w.planner)
}

func TestRender(t *testing.T) {
	s, err := scenario.Parse([]byte(`start: [0, 0]
goal: [2, 1]
rows:
  - ".4#"
  - "..."
`))
	require.NoError(t, err)

	result := lpastar.Result{
		Path:   []lpastar.Cell{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}},
		Expand: []lpastar.Cell{{X: 0, Y: 1}},
		Found:  true,
	}

	var buf bytes.Buffer
	Render(&buf, s, result, 253, false)
	assert.Equal(t, "S4#\n.*G\n", buf.String())

	buf.Reset()
	Render(&buf, s, result, 253, true)
	assert.Equal(t, "S4#\n+*G\n", buf.String())
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
