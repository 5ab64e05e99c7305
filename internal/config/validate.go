package config

import (
	"fmt"
	"github.com/learnvk/learnvk/camera"
	"github.com/learnvk/learnvk/input"
	"github.com/mitchellh/reflectwalk"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Validate checks that every number is finite and within range and that every key and button name is known.
func (c *Config) Validate() error {
	fw := &finiteWalker{}
	if err := reflectwalk.Walk(c, fw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	var problems []string
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}
	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive (got %dx%d)", c.Window.Width, c.Window.Height)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180) degrees (got %v)", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far, "camera clip planes must satisfy 0 < near < far (got %v, %v)", c.Camera.Near, c.Camera.Far)
	check(c.Engine.MeshCells >= 8, "engine.mesh_cells must be at least 8 (got %d)", c.Engine.MeshCells)
	check(c.Engine.SmoothNormalsDegrees >= 0 && c.Engine.SmoothNormalsDegrees <= 180, "engine.smooth_normals_degrees must be in [0, 180] (got %v)", c.Engine.SmoothNormalsDegrees)
	check(c.Engine.ResInv >= 1 && c.Engine.ResInv <= 64, "engine.res_inv must be in [1, 64] (got %d)", c.Engine.ResInv)
	_, err := ParseHexColor(c.Engine.Background)
	check(err == nil, "engine.background: %v", err)
	_, err = c.Camera.Bindings()
	check(err == nil, "camera: %v", err)
	_, err = c.Camera.ParseResetKey()
	check(err == nil, "camera.reset_key: %v", err)
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Bindings converts the configured names to camera controls.
func (c CameraConfig) Bindings() (camera.Bindings, error) {
	modifier, err := input.ParseKey(c.OrbitModifier)
	if err != nil {
		return camera.Bindings{}, err
	}
	pan, err := input.ParseMouseButton(c.PanButton)
	if err != nil {
		return camera.Bindings{}, err
	}
	rotate, err := input.ParseMouseButton(c.RotateButton)
	if err != nil {
		return camera.Bindings{}, err
	}
	return camera.Bindings{Modifier: modifier, Pan: pan, Rotate: rotate}, nil
}

func (c CameraConfig) ParseResetKey() (input.Key, error) {
	return input.ParseKey(c.ResetKey)
}

// ParseHexColor parses "#rgb" or "#rrggbb" into its components.
func ParseHexColor(s string) ([3]uint8, error) {
	var res [3]uint8
	digits := strings.TrimPrefix(s, "#")
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 || !strings.HasPrefix(s, "#") {
		return res, fmt.Errorf("bad color %q (want #rrggbb)", s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return res, fmt.Errorf("bad color %q (want #rrggbb)", s)
	}
	res[0], res[1], res[2] = uint8(v>>16), uint8(v>>8), uint8(v)
	return res, nil
}

// finiteWalker rejects NaN and infinite floats anywhere in the walked value
type finiteWalker struct {
	field string
}

func (w *finiteWalker) Struct(_ reflect.Value) error {
	return nil
}

func (w *finiteWalker) StructField(f reflect.StructField, _ reflect.Value) error {
	w.field = f.Name
	return nil
}

func (w *finiteWalker) Primitive(v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s is not a finite number (%v)", w.field, f)
		}
	}
	return nil
}
