package config

import (
	"context"
	"github.com/learnvk/learnvk/camera"
	"github.com/learnvk/learnvk/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	b, err := Default().Camera.Bindings()
	require.NoError(t, err)
	assert.Equal(t, camera.DefaultBindings(), b)
	k, err := Default().Camera.ParseResetKey()
	require.NoError(t, err)
	assert.Equal(t, input.KeyR, k)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
watch = true

[window]
width = 1280
height = 720

[camera]
fov = 60.0
orbit_modifier = "ShiftLeft"
pan_button = "Middle"

[engine]
validation = true
background = "#000"
`))
	require.NoError(t, err)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "Vulkan Tutorial (Go)", cfg.Window.Title)
	assert.Equal(t, 60.0, cfg.Camera.FOV)
	assert.Equal(t, 0.1, cfg.Camera.Near)
	assert.True(t, cfg.Engine.Validation)
	b, err := cfg.Camera.Bindings()
	require.NoError(t, err)
	assert.Equal(t, camera.Bindings{Modifier: input.KeyShiftLeft, Pan: input.MouseButtonMiddle, Rotate: input.MouseButtonLeft}, b)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "[camera]\nzoom = 3\n",
		"syntax":         "[window\n",
		"zero size":      "[window]\nwidth = 0\n",
		"fov":            "[camera]\nfov = 180.0\n",
		"clip planes":    "[camera]\nnear = 10.0\nfar = 1.0\n",
		"nan":            "[camera]\nfov = nan\n",
		"inf":            "[engine]\nsmooth_normals_degrees = inf\n",
		"modifier":       "[camera]\norbit_modifier = \"Hyper\"\n",
		"button":         "[camera]\nrotate_button = \"Back\"\n",
		"background":     "[engine]\nbackground = \"blue\"\n",
		"mesh cells":     "[engine]\nmesh_cells = 2\n",
		"res inv":        "[engine]\nres_inv = 0\n",
		"wrong type":     "[window]\nwidth = \"wide\"\n",
		"reset key name": "[camera]\nreset_key = \"\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidateNonFinite(t *testing.T) {
	cfg := Default()
	cfg.Camera.Far = math.Inf(1)
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "Far")
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Camera.FOV = 70
	cfg.Engine.Wireframe = true
	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	require.Equal(t, cfg, clone)
	clone.Camera.FOV = 10
	clone.Window.Title = "other"
	assert.Equal(t, 45.0, cfg.Camera.FOV)
	assert.Equal(t, "Vulkan Tutorial (Go)", cfg.Window.Title)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#326496")
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0x32, 0x64, 0x96}, c)
	c, err = ParseHexColor("#fa0")
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{0xff, 0xaa, 0x00}, c)
	for _, bad := range []string{"", "326496", "#12345", "#gggggg", "#1234567"} {
		_, err = ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[camera]\nfov = 50.0\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config) {
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[camera]\nfov = 75.0\n"), 0o644))
	// Truncation may be observed first, keep reading until the final contents show up
	for seen := false; !seen; {
		select {
		case cfg := <-changes:
			seen = cfg.Camera.FOV == 75
		case <-ctx.Done():
			t.Fatal("no reload observed")
		}
	}
	cancel()
	assert.NoError(t, <-done)
}
