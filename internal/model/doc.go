// Package model assembles an articulated body from a bone table and a
// scene hierarchy, and drives it once per step: control input into the
// pose pipeline, targets into the effectors, bone transforms out to a
// consumer.
package model
