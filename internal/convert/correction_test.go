package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLiteratureMatrices_AreRotations(t *testing.T) {
	eye := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	for _, c := range []Correction{KolzACToPA, KolzGCToPA} {
		k, err := LiteratureMatrix(c)
		require.NoError(t, err, c)

		assert.InDelta(t, 1, mat.Det(k), 1e-12, c)
		var ktk mat.Dense
		ktk.Mul(k.T(), k)
		assert.True(t, mat.EqualApprox(&ktk, eye, 1e-12), c)
	}
}

func TestLiteratureMatrices_TransposedTables(t *testing.T) {
	for c, table := range map[Correction]*mat.Dense{
		KolzACToPA: kolzACTable,
		KolzGCToPA: kolzGCTable,
	} {
		want, err := Orthonormalize(table.T())
		require.NoError(t, err, c)

		got, err := LiteratureMatrix(c)
		require.NoError(t, err, c)
		assert.True(t, mat.EqualApprox(got, want, 1e-12), c)
	}
}

func TestLiteratureMatrix_Calibrated(t *testing.T) {
	tests := []struct {
		correction Correction
		want       []float64
	}{
		{
			correction: KolzACToPA,
			want: []float64{
				9.62130083e-01, -5.77424614e-02, 2.66404789e-01,
				5.56368185e-02, 9.98331511e-01, 1.54511560e-02,
				-2.66852483e-01, -4.41071341e-05, 9.63737387e-01,
			},
		},
		{
			correction: KolzGCToPA,
			want: []float64{
				0.95071461, 1.603e-05, 0.31006731,
				0.06218486, 0.97967304, -0.1907191,
				-0.30376764, 0.20060093, 0.93138847,
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.correction), func(t *testing.T) {
			got, err := LiteratureMatrix(tt.correction)
			require.NoError(t, err)
			want := mat.NewDense(3, 3, tt.want)
			assert.True(t, mat.EqualApprox(got, want, 1e-6), "got %v", mat.Formatted(got))
		})
	}
}

func TestLiteratureMatrix_ReturnsCopy(t *testing.T) {
	k, err := LiteratureMatrix(KolzACToPA)
	require.NoError(t, err)
	k.Set(0, 0, 42)

	again, err := LiteratureMatrix(KolzACToPA)
	require.NoError(t, err)
	assert.NotEqual(t, 42.0, again.At(0, 0))
}

func TestLiteratureMatrix_UnknownCorrection(t *testing.T) {
	for _, c := range []Correction{ToISB, ToISBLike, Sulkar2021, Lagace2012, NoCorrection} {
		_, err := LiteratureMatrix(c)
		assert.ErrorIs(t, err, ErrUnknownCorrection, c)
		assert.False(t, c.IsLiterature())
	}
}

func TestOrthonormalize_KeepsRotation(t *testing.T) {
	// quarter turn about +Y
	r := mat.NewDense(3, 3, []float64{
		0, 0, 1,
		0, 1, 0,
		-1, 0, 0,
	})
	got, err := Orthonormalize(r)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(got, r, 1e-12), "got %v", mat.Formatted(got))
}

func TestOrthonormalize_RejectsReflection(t *testing.T) {
	reflection := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, -1})
	_, err := Orthonormalize(reflection)
	assert.Error(t, err)
}

func TestParseCorrection(t *testing.T) {
	tests := map[string]Correction{
		"to_isb":             ToISB,
		"to_isb_like":        ToISBLike,
		"kolz_AC_to_PA":      KolzACToPA,
		"kolz_GC_to_PA":      KolzGCToPA,
		"glenoid_to_isb_cs":  KolzGCToPA,
		"Sulkar et al. 2021": Sulkar2021,
		"Lagace 2012":        Lagace2012,
		"nan":                NoCorrection,
	}
	for in, want := range tests {
		got, err := ParseCorrection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCorrection("meskers_1998")
	assert.ErrorIs(t, err, ErrUnknownCorrection)
}
