package convert

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Correction names a correction declared for a segment by a source study.
type Correction string

const (
	NoCorrection Correction = ""
	ToISB        Correction = "to_isb"
	ToISBLike    Correction = "to_isb_like"
	// Kolz et al. 2020, acromion-center to posterior-aspect scapular frame.
	KolzACToPA Correction = "kolz_ac_to_pa"
	// Kolz et al. 2020, glenoid-center to posterior-aspect scapular frame.
	KolzGCToPA Correction = "kolz_gc_to_pa"
	Sulkar2021 Correction = "sulkar_2021"
	Lagace2012 Correction = "lagace_2012"
)

var correctionAliases = map[string]Correction{
	"to_isb":             ToISB,
	"to_isb_like":        ToISBLike,
	"kolz_ac_to_pa":      KolzACToPA,
	"kolz_gc_to_pa":      KolzGCToPA,
	"glenoid_to_isb_cs":  KolzGCToPA,
	"sulkar et al. 2021": Sulkar2021,
	"sulkar_2021":        Sulkar2021,
	"lagace 2012":        Lagace2012,
	"lagace_2012":        Lagace2012,
}

// ParseCorrection maps a dataset correction label to a Correction.
func ParseCorrection(s string) (Correction, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" || t == "nan" {
		return NoCorrection, nil
	}
	if c, ok := correctionAliases[t]; ok {
		return c, nil
	}
	return NoCorrection, fmt.Errorf("%w: %q", ErrUnknownCorrection, s)
}

// IsLiterature reports whether c carries a fixed calibration matrix.
func (c Correction) IsLiterature() bool {
	_, ok := literature[c]
	return ok
}

// Kolz et al. 2020 calibration tables as printed, three decimals. Each maps
// the posterior-aspect frame into the local one and is used transposed.
var (
	kolzACTable = mat.NewDense(3, 3, []float64{
		0.965, 0.010, -0.263,
		-0.057, 0.984, 0.171,
		0.257, 0.180, 0.950,
	})
	kolzGCTable = mat.NewDense(3, 3, []float64{
		0.949, 0.010, -0.314,
		-0.056, 0.978, 0.200,
		0.310, -0.208, 0.928,
	})
)

var literature = map[Correction]*mat.Dense{
	KolzACToPA: mustOrthonormalize(kolzACTable.T()),
	KolzGCToPA: mustOrthonormalize(kolzGCTable.T()),
}

// LiteratureMatrix returns a copy of the orthonormalized matrix of c.
func LiteratureMatrix(c Correction) (*mat.Dense, error) {
	m, ok := literature[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no calibration matrix", ErrUnknownCorrection, c)
	}
	return mat.DenseCopyOf(m), nil
}

// Orthonormalize returns the closest rotation U·Vᵀ from the SVD of m.
func Orthonormalize(m mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDFull); !ok {
		return nil, errors.New("svd factorization failed")
	}
	var u, v, q mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	q.Mul(&u, v.T())
	if det := mat.Det(&q); math.Abs(det-1) > 1e-9 {
		return nil, fmt.Errorf("orthonormalized matrix is not a rotation: det = %.6f", det)
	}
	return &q, nil
}

func mustOrthonormalize(m mat.Matrix) *mat.Dense {
	q, err := Orthonormalize(m)
	if err != nil {
		panic(err)
	}
	return q
}
