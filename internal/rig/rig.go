package rig

import (
	"fmt"
	"os"

	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"
)

// JointLimits are in degrees.
type JointLimits struct {
	MinTwist      float64 `yaml:"min_twist"`
	MaxTwist      float64 `yaml:"max_twist"`
	ConeHalfAngle float64 `yaml:"cone"`
}

// FrameAngles orient the joint's pin/pivot frame relative to the bone, in
// degrees.
type FrameAngles struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

type BoneDefinition struct {
	Name         string      `yaml:"name"`
	Joint        JointKind   `yaml:"joint"`
	MassFraction float64     `yaml:"mass_fraction,omitempty"`
	Limits       JointLimits `yaml:"limits,omitempty"`
	Frame        FrameAngles `yaml:"frame,omitempty"`
}

// Descriptor pairs a bone table with its asset and physical mass.
type Descriptor struct {
	Asset string           `yaml:"asset"`
	Mass  float64          `yaml:"mass"`
	Bones []BoneDefinition `yaml:"bones"`
}

// Table returns the entries before the first sentinel (empty name).
func (d *Descriptor) Table() []BoneDefinition {
	for i, b := range d.Bones {
		if b.Name == "" {
			return d.Bones[:i]
		}
	}
	return d.Bones
}

// Root returns the root bone definition.
func (d *Descriptor) Root() BoneDefinition {
	return d.Table()[0]
}

// Lookup scans the table, excluding the root, for a bone with the given
// name.
func (d *Descriptor) Lookup(name string) (BoneDefinition, bool) {
	table := d.Table()
	for i := 1; i < len(table); i++ {
		if table[i].Name == name {
			return table[i], true
		}
	}
	return BoneDefinition{}, false
}

// CountKind returns how many table entries use kind.
func (d *Descriptor) CountKind(kind JointKind) int {
	n := 0
	for _, b := range d.Table() {
		if b.Joint == kind {
			n++
		}
	}
	return n
}

// Validate checks the table invariants.
func (d *Descriptor) Validate() error {
	table := d.Table()
	if len(table) == 0 {
		return fmt.Errorf("%w: empty bone table", dynamo.ErrInvalidDescriptor)
	}
	if table[0].Joint != None {
		return fmt.Errorf("%w: root %q must have joint kind none, got %s", dynamo.ErrInvalidDescriptor, table[0].Name, table[0].Joint)
	}
	if d.Mass <= 0 {
		return fmt.Errorf("%w: model mass must be positive, got %f", dynamo.ErrInvalidDescriptor, d.Mass)
	}

	seen := make(map[string]struct{}, len(table))
	for i, b := range table {
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("%w: duplicate bone name %q", dynamo.ErrInvalidDescriptor, b.Name)
		}
		seen[b.Name] = struct{}{}

		if b.MassFraction < 0 {
			return fmt.Errorf("%w: bone %q has negative mass fraction", dynamo.ErrInvalidDescriptor, b.Name)
		}
		if i > 0 && b.Joint == None {
			return fmt.Errorf("%w: only the root may use joint kind none (bone %q)", dynamo.ErrInvalidDescriptor, b.Name)
		}
		if b.Joint == IkEffector && (b.Limits != JointLimits{} || b.Frame != FrameAngles{}) {
			return fmt.Errorf("%w: effector %q must not declare limits or frame", dynamo.ErrInvalidDescriptor, b.Name)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can edit presets safely.
func (d *Descriptor) Clone() (*Descriptor, error) {
	var out Descriptor
	if err := deepcopy.Copy(&out, *d); err != nil {
		return nil, fmt.Errorf("clone descriptor: %w", err)
	}
	return &out, nil
}

func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func Save(path string, d *Descriptor) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
