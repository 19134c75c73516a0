// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package algorithms

import (
	"context"
	"errors"
	"math/rand"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// mulCSR returns A * B for a CSR matrix A and a dense B.
func mulCSR(a *sparse.CSR, b *mat.Dense) *mat.Dense {
	rows, _ := a.Dims()
	_, k := b.Dims()
	out := mat.NewDense(rows, k, nil)
	a.DoNonZero(func(i, j int, v float64) {
		floats.AddScaled(out.RawRowView(i), v, b.RawRowView(j))
	})
	return out
}

// mulCSRT returns Aᵀ * B for a CSR matrix A and a dense B.
func mulCSRT(a *sparse.CSR, b *mat.Dense) *mat.Dense {
	_, cols := a.Dims()
	_, k := b.Dims()
	out := mat.NewDense(cols, k, nil)
	a.DoNonZero(func(i, j int, v float64) {
		floats.AddScaled(out.RawRowView(j), v, b.RawRowView(i))
	})
	return out
}

// svdParams configures randomizedSVD.
type svdParams struct {
	rank            int
	oversample      int
	powerIterations int
	seed            int64
}

// svdResult holds a rank-k factorisation A ≈ U Σ Vᵀ.
type svdResult struct {
	u     *mat.Dense // rows × k
	sigma []float64  // k, descending
	v     *mat.Dense // cols × k
	rank  int
}

var errSVDFailed = errors.New("svd: factorization failed")

// randomizedSVD computes a truncated SVD of a sparse matrix using a
// seeded Gaussian range finder with power iterations. The requested rank
// is clamped to min(rows, cols).
func randomizedSVD(ctx context.Context, a *sparse.CSR, p svdParams) (*svdResult, error) {
	rows, cols := a.Dims()
	maxRank := min(rows, cols)
	if maxRank == 0 {
		return nil, errors.New("svd: empty matrix")
	}
	k := min(max(p.rank, 1), maxRank)
	l := min(k+max(p.oversample, 0), maxRank)

	rng := rand.New(rand.NewSource(p.seed)) //nolint:gosec // reproducible factorisation, not security sensitive
	omega := mat.NewDense(cols, l, nil)
	raw := omega.RawMatrix().Data
	for i := range raw {
		raw[i] = rng.NormFloat64()
	}

	q, err := orthonormalBasis(mulCSR(a, omega))
	if err != nil {
		return nil, err
	}
	for it := 0; it < p.powerIterations; it++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		z, err := orthonormalBasis(mulCSRT(a, q))
		if err != nil {
			return nil, err
		}
		if q, err = orthonormalBasis(mulCSR(a, z)); err != nil {
			return nil, err
		}
	}

	// B = Qᵀ A is l × cols; build it as (Aᵀ Q)ᵀ.
	bt := mulCSRT(a, q)
	var svd mat.SVD
	if ok := svd.Factorize(bt.T(), mat.SVDThin); !ok {
		return nil, errSVDFailed
	}

	var ub, v mat.Dense
	svd.UTo(&ub)
	svd.VTo(&v)
	values := svd.Values(nil)

	var u mat.Dense
	u.Mul(q, &ub)

	k = min(k, len(values))
	return &svdResult{
		u:     mat.DenseCopyOf(u.Slice(0, rows, 0, k)),
		sigma: append([]float64(nil), values[:k]...),
		v:     mat.DenseCopyOf(v.Slice(0, cols, 0, k)),
		rank:  k,
	}, nil
}

// orthonormalBasis returns a matrix with orthonormal columns spanning the
// columns of m, taken from the left singular vectors of a thin SVD.
// mat.QR is not used because QTo materialises the full rows × rows factor.
func orthonormalBasis(m *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThinU); !ok {
		return nil, errSVDFailed
	}
	var u mat.Dense
	svd.UTo(&u)
	return &u, nil
}
