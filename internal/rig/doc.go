// Package rig holds the authored description of an articulated model: the
// bone definition table and the model descriptor that pairs it with an
// asset and a target mass.
//
// A table is an ordered list of [BoneDefinition]s. Entry 0 is the root and
// must use [None]. Names are matched against scene node names by exact
// string equality. An entry with an empty name terminates the table; any
// entries after it are ignored, which mirrors the sentinel-terminated
// tables of hand-authored rigs.
//
// Effector entries ([IkEffector]) carry no limits or frame angles and are
// named effector_<name> after the bone_<name> they drive.
package rig
