package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/infodiff/internal/diffusion"
	"github.com/san-kum/infodiff/internal/dynamo"
)

func simulate(t *testing.T, horizon float64) *diffusion.Trajectory {
	t.Helper()
	tr, err := diffusion.Simulate(diffusion.DefaultParams(), horizon, 0.1, diffusion.DefaultInitial)
	require.NoError(t, err)
	return tr
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir()).WithLogger(zaptest.NewLogger(t))
	require.NoError(t, st.Init())

	tr := simulate(t, 30)
	runID, err := st.Save("baseline", tr)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "baseline", meta.Preset)
	assert.Equal(t, diffusion.DefaultParams(), meta.Params)
	assert.Equal(t, 300, meta.Samples)

	want, err := diffusion.Summarize(tr)
	require.NoError(t, err)
	assert.Equal(t, want, meta.Summary)
	assert.Contains(t, meta.Health, diffusion.HealthConservationDrift)

	loaded, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.Equal(t, tr.Points, loaded.Points, "csv round trip must be lossless")
	assert.Equal(t, tr.Params, loaded.Params)
	assert.Equal(t, tr.Step, loaded.Step)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save("", simulate(t, 30))
	require.NoError(t, err)
	second, err := st.Save("", simulate(t, 40))
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(st.baseDir, "not-a-run"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save("", simulate(t, 30))
	require.NoError(t, err)

	runDir := filepath.Join(st.baseDir, runID)
	assert.FileExists(t, filepath.Join(runDir, metadataFile))
	assert.FileExists(t, filepath.Join(runDir, trajectoryFile))

	data, err := os.ReadFile(filepath.Join(runDir, trajectoryFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "time,S,I,R", lines[0])
	assert.Len(t, lines, 301)
	assert.Equal(t, "0,0.95,0.05,0", lines[1])
}

func TestStoreRejectsEmptyTrajectory(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Save("", &diffusion.Trajectory{})
	assert.ErrorIs(t, err, dynamo.ErrInvalidInput)
}

func TestStoreRejectsNonFinite(t *testing.T) {
	st := New(t.TempDir())
	tr := &diffusion.Trajectory{Points: []diffusion.Point{{Time: 0, S: math.NaN()}}}

	_, err := st.Save("", tr)
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}

func TestLoadTrajectoryBadCSV(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save("", simulate(t, 30))
	require.NoError(t, err)

	path := filepath.Join(st.baseDir, runID, trajectoryFile)
	require.NoError(t, os.WriteFile(path, []byte("time,S,I,R\n0,x,0,0\n"), 0644))

	_, err = st.LoadTrajectory(runID)
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	tr := simulate(t, 30)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, "run_1", tr))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "run_1", data.ID)
	assert.Len(t, data.Times, 300)
	assert.Len(t, data.S, 300)
	assert.Len(t, data.I, 300)
	assert.Len(t, data.R, 300)
	require.NotNil(t, data.R0)
	assert.InDelta(t, 1.5, *data.R0, 1e-12)
}

func TestExportJSONInfiniteR0(t *testing.T) {
	tr, err := diffusion.Simulate(diffusion.Params{Beta: 0.3, Gamma: 0, Theta: 1}, 30, 0.1, diffusion.DefaultInitial)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, "", tr))
	assert.NotContains(t, buf.String(), `"r0"`)
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	st := New(t.TempDir()).WithLogger(zaptest.NewLogger(t))
	require.NoError(t, st.Init())
	st.newID = func(time.Time) string { return "run_blocked" }

	// A directory where the table should go makes the table write fail.
	runDir := filepath.Join(st.baseDir, "run_blocked")
	require.NoError(t, os.MkdirAll(filepath.Join(runDir, trajectoryFile), 0755))

	_, err := st.Save("", simulate(t, 30))
	require.Error(t, err)

	assert.NoDirExists(t, runDir)
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
