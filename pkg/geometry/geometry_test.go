package geometry

import (
	"math"
	"testing"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

func TestSphereHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -3), 1)

	tests := []struct {
		name      string
		ray       core.Ray
		wantHit   bool
		wantT     float64
	}{
		{"head on", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), true, 2},
		{"miss", core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 0, -1)), false, 0},
		{"behind origin", core.NewRay(core.NewVec3(0, 0, -6), core.NewVec3(0, 0, -1)), false, 0},
		{"from inside", core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, -1)), true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sphere.Hit(tt.ray, 0.001, 1000)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, expected %v", ok, tt.wantHit)
			}
			if ok && math.Abs(hit.T-tt.wantT) > 1e-9 {
				t.Errorf("t = %f, expected %f", hit.T, tt.wantT)
			}
		})
	}
}

func TestSphereNormalFacesRay(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -3), 1)

	outside := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := sphere.Hit(outside, 0.001, 1000)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Normal.Dot(outside.Direction) >= 0 {
		t.Error("expected normal to face against the ray from outside")
	}

	inside := core.NewRay(core.NewVec3(0, 0, -3), core.NewVec3(0, 0, -1))
	hit, ok = sphere.Hit(inside, 0.001, 1000)
	if !ok {
		t.Fatal("expected hit from inside")
	}
	if hit.Normal.Dot(inside.Direction) >= 0 {
		t.Error("expected normal to face against the ray from inside")
	}
}

func TestPlaneHit(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0))

	down := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0))
	hit, ok := plane.Hit(down, 0.001, 1000)
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(hit.T-1) > 1e-9 {
		t.Errorf("t = %f, expected 1", hit.T)
	}

	parallel := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	if _, ok := plane.Hit(parallel, 0.001, 1000); ok {
		t.Error("parallel ray must not hit")
	}

	away := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if _, ok := plane.Hit(away, 0.001, 1000); ok {
		t.Error("ray pointing away must not hit within range")
	}
}
