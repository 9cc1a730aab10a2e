package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowterm/progress/template"
)

func TestPresetRegistryFallsBackToBuiltins(t *testing.T) {
	r := NewPresetRegistry()

	tpl, ok := r.Template("job_progress")
	require.True(t, ok)

	out, err := tpl.Render(template.NewContext().SetNumber("completed", 5).SetNumber("total", 10).SetNumber("progress", 0.5))
	require.NoError(t, err)
	assert.Equal(t, "Completed 5/10 jobs (50%)", out)
}

func TestPresetRegistryPrefersHostSuppliedTemplate(t *testing.T) {
	r := NewPresetRegistry()
	r.Register("job_progress", "{completed} of {total} done")

	tpl, ok := r.Template("job_progress")
	require.True(t, ok)

	out, err := tpl.Render(template.NewContext().SetNumber("completed", 3).SetNumber("total", 4))
	require.NoError(t, err)
	assert.Equal(t, "3 of 4 done", out)
}

func TestPresetRegistryUnknownName(t *testing.T) {
	r := NewPresetRegistry()
	_, ok := r.Template("does_not_exist")
	assert.False(t, ok)
}

func TestLoadPresetRegistryFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	content := "templates:\n  deploy_status: \"Deploying {name}: {progress:percent}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadPresetRegistry(path)
	require.NoError(t, err)

	tpl, ok := r.Template("deploy_status")
	require.True(t, ok)

	out, err := tpl.Render(template.NewContext().SetString("name", "api").SetNumber("progress", 0.75))
	require.NoError(t, err)
	assert.Equal(t, "Deploying api: 75%", out)
}

func TestLoadPresetRegistryMissingFile(t *testing.T) {
	_, err := LoadPresetRegistry("/nonexistent/presets.yaml")
	assert.Error(t, err)
}
