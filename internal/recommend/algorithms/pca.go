// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package algorithms

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ReducePCA projects the rows of data onto their first components
// principal axes. It returns the projected matrix and the percentage of
// variance retained. When components is not smaller than the number of
// columns the input is returned unchanged with 100% retained.
func ReducePCA(data *mat.Dense, components int) (*mat.Dense, float64, error) {
	rows, cols := data.Dims()
	if components < 1 {
		return nil, 0, fmt.Errorf("pca: components must be positive, got %d", components)
	}
	if components >= cols {
		return data, 100, nil
	}
	if rows < 2 {
		return nil, 0, fmt.Errorf("pca: need at least 2 rows, got %d", rows)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, 0, errors.New("pca: decomposition did not converge")
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	variances := pc.VarsTo(nil)

	k := min(components, len(variances))
	total := floats.Sum(variances)
	retained := 100.0
	if total > 0 {
		retained = floats.Sum(variances[:k]) / total * 100
	}

	means := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, data)
		means[j] = stat.Mean(col, nil)
	}

	centred := mat.NewDense(rows, cols, nil)
	centred.Apply(func(_, j int, v float64) float64 {
		return v - means[j]
	}, data)

	var projected mat.Dense
	projected.Mul(centred, vectors.Slice(0, cols, 0, k))

	return &projected, retained, nil
}
