package camera

import (
	"math"
	"testing"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

type centerSampler struct{}

func (centerSampler) Get1D() float64            { return 0.5 }
func (centerSampler) Get2D() core.Vec2          { return core.NewVec2(0.5, 0.5) }
func (centerSampler) RoundSize(requested int) int { return requested }

func testProps() map[string]string {
	return map[string]string{
		"width":  "200",
		"height": "100",
		"fov":    "90",
		"eye":    "0,0,0",
		"lookat": "0,0,-1",
		"up":     "0,1,0",
	}
}

func TestPerspectiveCenterRay(t *testing.T) {
	cam, err := NewPerspective(testProps())
	if err != nil {
		t.Fatalf("NewPerspective: %v", err)
	}
	if err := cam.PreProcess(); err != nil {
		t.Fatalf("PreProcess: %v", err)
	}

	// The center pixel looks straight down the view axis
	ray := cam.GenerateRay(99.5, 49.5, centerSampler{})
	dir := ray.Direction.Normalize()
	if math.Abs(dir.X) > 1e-9 || math.Abs(dir.Y) > 1e-9 || math.Abs(dir.Z+1) > 1e-9 {
		t.Errorf("expected center ray (0,0,-1), got %+v", dir)
	}
	if ray.Origin != core.NewVec3(0, 0, 0) {
		t.Errorf("expected ray origin at eye, got %+v", ray.Origin)
	}
}

func TestPerspectiveImageOrientation(t *testing.T) {
	cam, err := NewPerspective(testProps())
	if err != nil {
		t.Fatalf("NewPerspective: %v", err)
	}
	if err := cam.PreProcess(); err != nil {
		t.Fatalf("PreProcess: %v", err)
	}

	top := cam.GenerateRay(100, 0, centerSampler{}).Direction.Normalize()
	bottom := cam.GenerateRay(100, 99, centerSampler{}).Direction.Normalize()
	if top.Y <= bottom.Y {
		t.Errorf("expected image y to grow downward: top.Y=%f bottom.Y=%f", top.Y, bottom.Y)
	}

	left := cam.GenerateRay(0, 50, centerSampler{}).Direction.Normalize()
	right := cam.GenerateRay(199, 50, centerSampler{}).Direction.Normalize()
	if left.X >= right.X {
		t.Errorf("expected x to grow rightward: left.X=%f right.X=%f", left.X, right.X)
	}
}

func TestPerspectiveValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[string]string)
		preError bool
	}{
		{"missing dimensions", func(p map[string]string) { delete(p, "width"); delete(p, "height") }, true},
		{"zero fov", func(p map[string]string) { p["fov"] = "0" }, true},
		{"degenerate view", func(p map[string]string) { p["lookat"] = "0,0,0" }, true},
		{"valid", func(p map[string]string) {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := testProps()
			tt.mutate(props)
			cam, err := NewPerspective(props)
			if err != nil {
				t.Fatalf("NewPerspective: %v", err)
			}
			err = cam.PreProcess()
			if tt.preError && err == nil {
				t.Error("expected PreProcess error")
			}
			if !tt.preError && err != nil {
				t.Errorf("unexpected PreProcess error: %v", err)
			}
		})
	}
}

func TestPerspectiveBadProps(t *testing.T) {
	bad := []map[string]string{
		{"width": "abc"},
		{"fov": "wide"},
		{"eye": "1,2"},
		{"lookat": "a,b,c"},
	}
	for _, props := range bad {
		if _, err := NewPerspective(props); err == nil {
			t.Errorf("expected parse error for %v", props)
		}
	}
}

func TestCreate(t *testing.T) {
	cam, err := Create("perspective", testProps())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cam == nil {
		t.Fatal("expected non-nil camera")
	}

	if _, err := Create("orthographic", nil); err == nil {
		t.Error("expected error for unregistered camera type")
	}
}
