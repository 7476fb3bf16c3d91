package scene

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/spatial"
)

func TestGlobalMatrix(t *testing.T) {
	root := Limb()
	effector := root.Find("effector_A")
	if effector == nil {
		t.Fatal("expected effector_A")
	}
	p := spatial.Position(effector.GlobalMatrix())
	if math.Abs(p.Y()-0.5) > 1e-12 {
		t.Errorf("expected effector at y=0.5, got %f", p.Y())
	}

	rel := effector.GlobalMatrixRelative(root)
	if math.Abs(spatial.Position(rel).Y()+0.5) > 1e-12 {
		t.Errorf("expected effector 0.5 below root, got %v", spatial.Position(rel))
	}
}

func TestTredStructure(t *testing.T) {
	root := Tred()
	if root.Count() != 11 {
		t.Errorf("expected 11 nodes, got %d", root.Count())
	}
	ankle := root.Find("bone_leftAnkle")
	if ankle == nil || len(ankle.Children()) != 2 {
		t.Fatalf("expected left ankle with two children, got %v", ankle)
	}
	if ankle.Children()[0].Name != "effector_leftAnkle" {
		t.Errorf("expected effector first, got %s", ankle.Children()[0].Name)
	}
	if root.Find("bone_righCalf") == nil {
		t.Error("expected right calf to use the authored spelling")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := Tred()
	root.Find("bone_rightFoot").Local = spatial.WithPosition(mgl64.HomogRotate3DY(0.3), mgl64.Vec3{0, -0.06, 0.05})

	path := filepath.Join(t.TempDir(), "tred.yaml")
	if err := Save(path, root); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Count() != root.Count() {
		t.Errorf("expected %d nodes, got %d", root.Count(), loaded.Count())
	}
	foot := loaded.Find("bone_rightFoot")
	if !spatial.ApproxEqual(foot.GlobalMatrix(), root.Find("bone_rightFoot").GlobalMatrix(), 1e-9) {
		t.Error("foot transform did not round-trip")
	}
	if foot.Parent().Name != "bone_rightAnkle" {
		t.Errorf("expected parent bone_rightAnkle, got %s", foot.Parent().Name)
	}
}

func TestParseRequiresName(t *testing.T) {
	if _, err := Parse([]byte("position: [0, 0, 0]\n")); err == nil {
		t.Error("expected error for unnamed root")
	}
}
