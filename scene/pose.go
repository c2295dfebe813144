// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/math32"
)

// Pose contains the full position, orientation and scale of an element,
// always relevant to the parent element.
type Pose struct {

	// Pos is the position of center of element (relative to parent).
	Pos math32.Vector3

	// Quat is the rotation specified as a quaternion.
	Quat math32.Quat

	// Scale is the scale factor applied to the relevant dimensions.
	Scale math32.Vector3
}

// Defaults sets an identity pose: zero position, identity rotation, unit scale.
func (ps *Pose) Defaults() {
	ps.Pos.Set(0, 0, 0)
	ps.Quat.SetIdentity()
	ps.Scale.Set(1, 1, 1)
}

// ResetPosRot resets the position to zero and the rotation to identity,
// leaving the scale as is.
func (ps *Pose) ResetPosRot() {
	ps.Pos.Set(0, 0, 0)
	ps.Quat.SetIdentity()
}

// IsIdentityPosRot returns whether the position is zero and the
// rotation is the identity.
func (ps *Pose) IsIdentityPosRot() bool {
	return ps.Pos == (math32.Vector3{}) && ps.Quat.IsIdentity()
}

// TransformPoint transforms a point from the local space of the
// element into the space of its parent: scale, then rotate, then translate.
func (ps *Pose) TransformPoint(p math32.Vector3) math32.Vector3 {
	return p.Mul(ps.Scale).MulQuat(ps.Quat).Add(ps.Pos)
}

// InverseTransformPoint transforms a point from the space of the parent
// into the local space of the element. Zero scale components are
// treated as one.
func (ps *Pose) InverseTransformPoint(p math32.Vector3) math32.Vector3 {
	inv := ps.Quat.Inverse()
	v := p.Sub(ps.Pos).MulQuat(inv)
	return v.Div(safeScale(ps.Scale))
}

func safeScale(s math32.Vector3) math32.Vector3 {
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	if s.Z == 0 {
		s.Z = 1
	}
	return s
}
