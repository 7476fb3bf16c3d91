package skeleton

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/physics"
	"github.com/san-kum/ragdoll/internal/spatial"
)

func chain(t *testing.T) (*physics.World, []dynamo.BodyID) {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	box := dynamo.Box(0.1, 0.1, 0.1)
	bodies := []dynamo.BodyID{
		w.CreateBody(box, spatial.WithPosition(mgl64.HomogRotate3DY(0.3), mgl64.Vec3{0, 2, 0}), 1, "root"),
		w.CreateBody(box, spatial.WithPosition(mgl64.HomogRotate3DZ(-0.7), mgl64.Vec3{0.4, 1.5, 0.1}), 1, "mid"),
		w.CreateBody(box, spatial.WithPosition(mgl64.HomogRotate3DX(1.1), mgl64.Vec3{0.5, 1, -0.2}), 1, "tip"),
	}
	return w, bodies
}

func TestPostUpdateRoundTrip(t *testing.T) {
	w, bodies := chain(t)
	c := NewController(w, 0)
	root, _ := c.AddBone(bodies[0], NoBone, "root")
	mid, _ := c.AddBone(bodies[1], root, "mid")
	if _, err := c.AddBone(bodies[2], mid, "tip"); err != nil {
		t.Fatal(err)
	}

	for step := 0; step < 5; step++ {
		calls := 0
		c.PostUpdate(func(b Bone, m mgl64.Mat4) {
			calls++
			world := w.BodyMatrix(b.Body)
			if b.Parent == NoBone {
				if !spatial.ApproxEqual(m, world, 1e-12) {
					t.Errorf("step %d: root should receive its world transform", step)
				}
				return
			}
			parentWorld := w.BodyMatrix(c.Bone(b.Parent).Body)
			if !spatial.ApproxEqual(parentWorld.Mul4(m), world, 1e-9) {
				t.Errorf("step %d: bone %v: parentWorld*local != world", step, b.UserData)
			}
		})
		if calls != 3 {
			t.Errorf("expected 3 consumer calls, got %d", calls)
		}
		if err := w.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPostUpdateReadsFreshState(t *testing.T) {
	w, bodies := chain(t)
	c := NewController(w, 0)
	c.AddBone(bodies[0], NoBone, nil)

	var got mgl64.Mat4
	c.PostUpdate(func(_ Bone, m mgl64.Mat4) { got = m })
	moved := mgl64.Translate3D(3, 3, 3)
	w.SetBodyMatrix(bodies[0], moved)
	c.PostUpdate(func(_ Bone, m mgl64.Mat4) { got = m })
	if got != moved {
		t.Errorf("expected %v, got %v", moved, got)
	}
}

func TestAddBoneCapacity(t *testing.T) {
	w, bodies := chain(t)
	c := NewController(w, 2)
	if _, err := c.AddBone(bodies[0], NoBone, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddBone(bodies[1], 0, nil); err != nil {
		t.Fatal(err)
	}
	_, err := c.AddBone(bodies[2], 1, nil)
	if !errors.Is(err, dynamo.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 bones, got %d", c.Len())
	}
}

func TestAddBoneRequiresRegisteredParent(t *testing.T) {
	w, bodies := chain(t)
	c := NewController(w, 0)
	if _, err := c.AddBone(bodies[1], 3, nil); err == nil {
		t.Error("expected error for unregistered parent")
	}
}
