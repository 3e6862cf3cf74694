package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultDefaults(t *testing.T) {
	want := &Defaults{
		ThresholdLow:  100,
		ThresholdHigh: 200,
		Overlay:       true,
		PrimaryWeight: 1.0,
		TintWeight:    0.8,
		Tint:          "#FF0000",
		Seed:          1,
	}
	if diff := cmp.Diff(want, DefaultDefaults()); diff != "" {
		t.Errorf("DefaultDefaults() mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, DefaultDefaults().Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "defaults.json", `{"threshold_low": 40, "overlay": false, "output_dir": "/tmp/edges"}`)

	got, err := Load(path)
	require.NoError(t, err)

	want := DefaultDefaults()
	want.ThresholdLow = 40
	want.Overlay = false
	want.OutputDir = "/tmp/edges"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "defaults.yaml", `{}`, ".json extension"},
		{"malformed", "defaults.json", `{"threshold_low":`, "failed to parse"},
		{"threshold out of range", "defaults.json", `{"threshold_high": 300}`, "threshold_high"},
		{"negative low", "defaults.json", `{"threshold_low": -1}`, "threshold_low"},
		{"negative weight", "defaults.json", `{"tint_weight": -0.5}`, "tint_weight"},
		{"bad tint", "defaults.json", `{"tint": "blue"}`, "tint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}

func TestLoad_TooLarge(t *testing.T) {
	body := `{"tint": "#FF0000"` + strings.Repeat(" ", 1024*1024) + `}`
	_, err := Load(writeConfig(t, "big.json", body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidate_ThresholdOrderNotChecked(t *testing.T) {
	d := DefaultDefaults()
	d.ThresholdLow, d.ThresholdHigh = 200, 100
	assert.NoError(t, d.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		got, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultDefaults(), got)
	})

	t.Run("set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, writeConfig(t, "env.json", `{"seed": 42}`))
		got, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, uint64(42), got.Seed)
		assert.Equal(t, 100, got.ThresholdLow)
	})
}

func TestTintColor(t *testing.T) {
	d := DefaultDefaults()
	assert.Equal(t, imaging.Red, d.TintColor())

	d.Tint = "#00ff00"
	assert.Equal(t, imaging.RGBColor{G: 255}, d.TintColor())

	d.Tint = "garbage"
	assert.Equal(t, imaging.Red, d.TintColor())
}
