package geom

import (
	"math"
	"testing"
)

func TestQuaternion(t *testing.T) {
	const eps = 0.000001

	{
		q := (&EulerAngles{Vector3{0, 0, 0}, RotationOrderXYZ}).ToQuaternion()
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if dist3(v2, v1) > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := (&EulerAngles{Vector3{2*math.Pi, 0, 0}, RotationOrderXYZ}).ToQuaternion()
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if dist3(v2, v1) > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := (&EulerAngles{Vector3{math.Pi, 0, 0}, RotationOrderXYZ}).ToQuaternion()
		q = q.Mul(q)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if dist3(v2, v1) > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := (&EulerAngles{Vector3{1, 2, 3}, RotationOrderXYZ}).ToQuaternion()
		q = q.Mul(q.Inverse())
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if dist3(v2, v1) > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}
}
