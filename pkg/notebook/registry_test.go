package notebook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })
	return reg
}

func TestAddAndGet(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add(&Notebook{Name: "work"}))

	got, err := reg.Get("work")
	require.NoError(t, err)
	assert.Equal(t, "work", got.Name)
	assert.Equal(t, filepath.Join(reg.baseDir, "work"), got.DataDir,
		"an empty data dir defaults to a subdirectory named after the notebook")
}

func TestGetMissing(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.Get("ghost")
	assert.Error(t, err)
}

func TestAddRejectsInvalidNames(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Error(t, reg.Add(&Notebook{Name: ""}))
	assert.Error(t, reg.Add(&Notebook{Name: "a/b"}))
}

func TestActiveDefaultsToBaseDir(t *testing.T) {
	reg := newTestRegistry(t)

	active, err := reg.Active()
	require.NoError(t, err)
	assert.Equal(t, DefaultName, active.Name)
	assert.Equal(t, reg.baseDir, active.DataDir,
		"the default notebook keeps the document in the base directory")
}

func TestUseSwitchesActive(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add(&Notebook{Name: "work"}))
	require.NoError(t, reg.Add(&Notebook{Name: "personal"}))

	_, err := reg.Use("work")
	require.NoError(t, err)
	active, err := reg.Active()
	require.NoError(t, err)
	assert.Equal(t, "work", active.Name)

	_, err = reg.Use("personal")
	require.NoError(t, err)
	active, err = reg.Active()
	require.NoError(t, err)
	assert.Equal(t, "personal", active.Name, "only one notebook is active at a time")
}

func TestUseMissingNotebook(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := reg.Use("ghost")
	assert.Error(t, err)
}

func TestUseDefaultRegistersIt(t *testing.T) {
	reg := newTestRegistry(t)

	n, err := reg.Use(DefaultName)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, n.Name)

	got, err := reg.Get(DefaultName)
	require.NoError(t, err)
	assert.Equal(t, reg.baseDir, got.DataDir)
}

func TestListIncludesDefault(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add(&Notebook{Name: "work"}))

	notebooks, err := reg.List()
	require.NoError(t, err)

	names := make([]string, 0, len(notebooks))
	for _, n := range notebooks {
		names = append(names, n.Name)
	}
	assert.Contains(t, names, "work")
	assert.Contains(t, names, DefaultName)
}

func TestRemove(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add(&Notebook{Name: "scratch"}))
	require.NoError(t, reg.Remove("scratch"))
	_, err := reg.Get("scratch")
	assert.Error(t, err)

	assert.Error(t, reg.Remove("scratch"), "removing twice reports not found")
	assert.Error(t, reg.Remove(DefaultName), "the default notebook is permanent")
}

func TestRemoveActiveFallsBackToDefault(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add(&Notebook{Name: "work"}))
	_, err := reg.Use("work")
	require.NoError(t, err)

	require.NoError(t, reg.Remove("work"))
	active, err := reg.Active()
	require.NoError(t, err)
	assert.Equal(t, DefaultName, active.Name)
}

func TestValidateExpandsHome(t *testing.T) {
	n := &Notebook{Name: "home", DataDir: "~/notes"}
	require.NoError(t, n.Validate())
	assert.NotContains(t, n.DataDir, "~")
	assert.True(t, filepath.IsAbs(n.DataDir))
}
