package euler

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// gimbalEps is the threshold under which the middle angle is treated as singular.
const gimbalEps = 1e-12

// Elementary returns the right-handed rotation of angle radians about axis
// index (0 = x).
func Elementary(index int, angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	switch index {
	case 0:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, c, -s,
			0, s, c,
		})
	case 1:
		return mat.NewDense(3, 3, []float64{
			c, 0, s,
			0, 1, 0,
			-s, 0, c,
		})
	default:
		return mat.NewDense(3, 3, []float64{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		})
	}
}

// Matrix composes the intrinsic rotation R_i(a1)·R_j(a2)·R_k(a3) for seq = ijk.
func Matrix(seq Sequence, angles [3]float64) *mat.Dense {
	axes := seq.Axes()
	r := Elementary(axes[0], angles[0])
	for n := 1; n < 3; n++ {
		var next mat.Dense
		next.Mul(r, Elementary(axes[n], angles[n]))
		r = &next
	}
	return r
}

// parity is +1 for the cyclic permutations of xyz and -1 otherwise.
func parity(i, j, k int) float64 {
	if (j-i+3)%3 == 1 && (k-j+3)%3 == 1 {
		return 1
	}
	return -1
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Angles decomposes r into the three angles of seq such that
// Matrix(seq, Angles(r, seq)) reproduces r. At gimbal lock the third angle is 0.
func Angles(r mat.Matrix, seq Sequence) [3]float64 {
	axes := seq.Axes()
	i, j := axes[0], axes[1]
	at := r.At

	if seq.IsProper() {
		k := 3 - i - j
		eps := parity(i, j, k)
		b := math.Acos(clamp(at(i, i)))
		if math.Abs(math.Sin(b)) < gimbalEps {
			return [3]float64{math.Atan2(eps*at(k, j), at(j, j)), b, 0}
		}
		a := math.Atan2(at(j, i), -eps*at(k, i))
		c := math.Atan2(at(i, j), eps*at(i, k))
		return [3]float64{a, b, c}
	}

	k := axes[2]
	eps := parity(i, j, k)
	b := math.Asin(clamp(eps * at(i, k)))
	if math.Abs(math.Abs(math.Sin(b))-1) < gimbalEps {
		a := math.Atan2(eps*at(k, j), at(j, j))
		return [3]float64{a, b, 0}
	}
	a := math.Atan2(-eps*at(j, k), at(k, k))
	c := math.Atan2(-eps*at(i, j), at(i, i))
	return [3]float64{a, b, c}
}

// pmod is the non-negative remainder of x by m.
func pmod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// Flip returns the second decomposition of the same rotation matrix.
func Flip(angles [3]float64, seq Sequence) [3]float64 {
	a := pmod(angles[0], 2*math.Pi) - math.Pi
	c := pmod(angles[2], 2*math.Pi) - math.Pi
	if seq.IsProper() {
		return [3]float64{a, -angles[1], c}
	}
	b := math.Pi - angles[1]
	if b > math.Pi {
		b -= 2 * math.Pi
	}
	return [3]float64{a, b, c}
}

// MaxAbsDiff returns the largest element-wise difference of two 3x3 matrices.
func MaxAbsDiff(a, b mat.Matrix) float64 {
	var d float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			d = math.Max(d, math.Abs(a.At(r, c)-b.At(r, c)))
		}
	}
	return d
}
