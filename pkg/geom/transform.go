package geom

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid motion: rotation followed by translation.
type Transform struct {
	Rot   mgl64.Mat3
	Shift Vec3
}

// Identity returns the identity transform.
func Identity() Transform { return Transform{Rot: mgl64.Ident3()} }

// Translation returns a pure translation.
func Translation(d Vec3) Transform { return Transform{Rot: mgl64.Ident3(), Shift: d} }

// RotationXYZ returns a rotation by Euler angles in degrees, applied X
// first, then Y, then Z.
func RotationXYZ(x, y, z float64) Transform {
	rx := mgl64.Rotate3DX(mgl64.DegToRad(x))
	ry := mgl64.Rotate3DY(mgl64.DegToRad(y))
	rz := mgl64.Rotate3DZ(mgl64.DegToRad(z))
	return Transform{Rot: rz.Mul3(ry).Mul3(rx)}
}

// Then returns the transform that applies t and then u.
func (t Transform) Then(u Transform) Transform {
	return Transform{Rot: u.Rot.Mul3(t.Rot), Shift: u.Rot.Mul3x1(t.Shift).Add(u.Shift)}
}

// Point maps a point.
func (t Transform) Point(p Vec3) Vec3 { return t.Rot.Mul3x1(p).Add(t.Shift) }

// Direction maps a direction, ignoring translation.
func (t Transform) Direction(d Vec3) Vec3 { return t.Rot.Mul3x1(d) }
