package rig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// JointKind is the declared degree-of-freedom family of a bone's joint.
type JointKind int

const (
	None JointKind = iota
	Ball
	Fixed0DOF
	Twist1DOF
	Cone2DOF
	ConeTwist3DOF
	IkEffector
	FkEffector
)

var kindNames = map[JointKind]string{
	None:          "none",
	Ball:          "ball",
	Fixed0DOF:     "0dof",
	Twist1DOF:     "1dof",
	Cone2DOF:      "2dof",
	ConeTwist3DOF: "3dof",
	IkEffector:    "ik_effector",
	FkEffector:    "fk_effector",
}

func (k JointKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("JointKind(%d)", int(k))
}

// IsEffector reports whether the kind produces a pose entry.
func (k JointKind) IsEffector() bool {
	return k == IkEffector || k == FkEffector
}

// ParseJointKind converts the YAML spelling of a kind.
func ParseJointKind(s string) (JointKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown joint kind %q", s)
}

func (k JointKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *JointKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseJointKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
