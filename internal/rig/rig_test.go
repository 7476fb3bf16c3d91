package rig

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/ragdoll/internal/dynamo"
)

func TestTableStopsAtSentinel(t *testing.T) {
	d := &Descriptor{
		Mass: 1,
		Bones: []BoneDefinition{
			{Name: "root", Joint: None, MassFraction: 1},
			{Name: "bone_A", Joint: Ball, MassFraction: 1},
			{},
			{Name: "ignored", Joint: Ball},
		},
	}

	if len(d.Table()) != 2 {
		t.Errorf("expected 2 entries before sentinel, got %d", len(d.Table()))
	}
	if _, ok := d.Lookup("ignored"); ok {
		t.Error("entries after the sentinel must not match")
	}
	if _, ok := d.Lookup("root"); ok {
		t.Error("lookup must exclude the root entry")
	}
	if b, ok := d.Lookup("bone_A"); !ok || b.Joint != Ball {
		t.Errorf("expected bone_A ball, got %+v %v", b, ok)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		bones []BoneDefinition
		mass  float64
		valid bool
	}{
		{"tred", Tred().Bones, 500, true},
		{"empty", nil, 1, false},
		{"root not none", []BoneDefinition{{Name: "root", Joint: Ball}}, 1, false},
		{"duplicate", []BoneDefinition{{Name: "root"}, {Name: "a", Joint: Ball}, {Name: "a", Joint: Ball}}, 1, false},
		{"effector with limits", []BoneDefinition{{Name: "root"}, {Name: "effector_a", Joint: IkEffector, Limits: JointLimits{ConeHalfAngle: 5}}}, 1, false},
		{"second none", []BoneDefinition{{Name: "root"}, {Name: "a", Joint: None}}, 1, false},
		{"zero mass", []BoneDefinition{{Name: "root"}}, 0, false},
		{"negative fraction", []BoneDefinition{{Name: "root", MassFraction: -1}}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Descriptor{Mass: tt.mass, Bones: tt.bones}
			err := d.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Error("expected error, got nil")
				} else if !errors.Is(err, dynamo.ErrInvalidDescriptor) {
					t.Errorf("expected ErrInvalidDescriptor, got %v", err)
				}
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tred.yaml")
	if err := Save(path, Tred()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(d.Table()) != 11 {
		t.Errorf("expected 11 bones, got %d", len(d.Table()))
	}
	calf, ok := d.Lookup("bone_righCalf")
	if !ok {
		t.Fatal("expected bone_righCalf")
	}
	if calf.Joint != Twist1DOF || calf.Limits.MinTwist != -60 || calf.Frame.Roll != 90 {
		t.Errorf("unexpected calf definition: %+v", calf)
	}
}

func TestParseUnknownKind(t *testing.T) {
	_, err := Parse([]byte("mass: 1\nbones:\n  - name: root\n    joint: hinge\n"))
	if err == nil {
		t.Error("expected error for unknown joint kind")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Limb()
	c, err := orig.Clone()
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	c.Bones[1].Limits.ConeHalfAngle = 45
	if orig.Bones[1].Limits.ConeHalfAngle != 30 {
		t.Error("clone must not share the bone table")
	}
}

func TestCountKind(t *testing.T) {
	d := Tred()
	if n := d.CountKind(IkEffector); n != 2 {
		t.Errorf("expected 2 ik effectors, got %d", n)
	}
	if n := d.CountKind(FkEffector); n != 2 {
		t.Errorf("expected 2 fk effectors, got %d", n)
	}
}

func TestJointKindString(t *testing.T) {
	for k := None; k <= FkEffector; k++ {
		parsed, err := ParseJointKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("kind %d did not round-trip: %v %v", k, parsed, err)
		}
	}
	if JointKind(99).String() != "JointKind(99)" {
		t.Errorf("unexpected name for out of range kind: %s", JointKind(99))
	}
}
