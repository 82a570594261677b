// Package project computes projections of points onto linear constraint
// sets.
package project

import "gonum.org/v1/gonum/mat"

// Nearest returns the point nearest to x0 that doesn't violate the
// constraints in the equation "Ax <= b".  It repeatedly projects onto the
// currently most-violated constraint, accumulating violated constraints
// into an equality system, until none remain violated.
func Nearest(x0 []float64, A, b *mat.Dense) []float64 {
	proj := x0
	var badA, badb *mat.Dense
	for {
		Aviol, bviol := mostviolated(proj, A, b)
		if Aviol == nil {
			break
		}

		if badA == nil {
			badA, badb = Aviol, bviol
		} else {
			var sA, sb mat.Dense
			sA.Stack(badA, Aviol)
			sb.Stack(badb, bviol)
			badA, badb = &sA, &sb
		}

		proj = OrthoProj(x0, badA, badb)

		if m, n := badA.Dims(); m == n {
			// fully determined system, nothing left to project onto
			break
		}
	}
	return proj
}

// OrthoProj computes the orthogonal projection of x0 onto the affine
// subspace defined by "Ax = b" using the formula
//
//	proj = (I - A^T * (A*A^T)^-1 * A) * x0 + A^T * (A*A^T)^-1 * b
//
// It panics if A*A^T is singular.
func OrthoProj(x0 []float64, A, b *mat.Dense) []float64 {
	m, n := A.Dims()
	x := mat.NewDense(len(x0), 1, append([]float64{}, x0...))

	if m == n {
		var proj mat.Dense
		if err := proj.Solve(A, b); err != nil {
			panic(err.Error())
		}
		return mat.Col(nil, 0, &proj)
	}

	var AAt mat.Dense
	AAt.Mul(A, A.T())

	var inv mat.Dense
	if err := inv.Inverse(&AAt); err != nil {
		panic(err.Error())
	}

	var B mat.Dense
	B.Mul(A.T(), &inv)

	var BA mat.Dense
	BA.Mul(&B, A)

	var diff mat.Dense
	diff.Sub(eye(n), &BA)

	var proj mat.Dense
	proj.Mul(&diff, x)

	var shift mat.Dense
	shift.Mul(&B, b)

	proj.Add(&proj, &shift)
	return mat.Col(nil, 0, &proj)
}

// mostviolated returns the most violated constraint of "Ax0 <= b" as a
// 1-row equality system, or nil if x0 is feasible.
func mostviolated(x0 []float64, A, b *mat.Dense) (Aviol, bviol *mat.Dense) {
	eps := 1e-10

	x := mat.NewDense(len(x0), 1, append([]float64{}, x0...))
	var ax mat.Dense
	ax.Mul(A, x)

	m, _ := ax.Dims()
	worst := eps
	worstRow := -1
	for i := 0; i < m; i++ {
		if diff := ax.At(i, 0) - b.At(i, 0); diff > worst {
			worst = diff
			worstRow = i
		}
	}
	if worstRow == -1 {
		return nil, nil
	}

	return mat.NewDense(1, len(x0), mat.Row(nil, worstRow, A)),
		mat.NewDense(1, 1, mat.Row(nil, worstRow, b))
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
