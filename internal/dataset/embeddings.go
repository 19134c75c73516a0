// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package dataset

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/newsrec/internal/metrics"
)

// ErrNoEmbeddings is returned when neither embedding file exists.
var ErrNoEmbeddings = errors.New("no embeddings file found")

// loadEmbeddings reads the preferred embedding file, falling back to the
// secondary one when it does not exist. It returns the matrix and its path.
func (l *Loader) loadEmbeddings() (*mat.Dense, string, error) {
	candidates := []string{
		l.cfg.resolve(l.cfg.EmbeddingsFile),
		l.cfg.resolve(l.cfg.FallbackEmbeddingsFile),
	}
	for i, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				if i == 0 {
					l.logger.Warn().Str("path", path).Msg("Preferred embeddings not found, trying fallback")
				}
				continue
			}
			return nil, "", fmt.Errorf("stat embeddings: %w", err)
		}

		start := time.Now()
		m, err := LoadEmbeddings(path)
		metrics.RecordDBQuery("read_npy", "embeddings", time.Since(start), err)
		if err != nil {
			return nil, "", err
		}
		rows, _ := m.Dims()
		metrics.RecordDatasetRows("embeddings", rows)
		return m, path, nil
	}
	return nil, "", fmt.Errorf("%w: tried %v", ErrNoEmbeddings, candidates)
}

// LoadEmbeddings reads a 2-D little-endian float32 or float64 .npy file
// into a dense matrix. Fortran-ordered arrays are transposed into row order.
func LoadEmbeddings(path string) (*mat.Dense, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open embeddings: %w", err)
	}
	defer closeQuietly(f)

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read embeddings header %s: %w", path, err)
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 {
		return nil, fmt.Errorf("embeddings %s: expected 2-D array, got shape %v", path, shape)
	}
	rows, cols := shape[0], shape[1]
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("embeddings %s: empty array with shape %v", path, shape)
	}

	var data []float64
	switch dtype := r.Header.Descr.Type; dtype {
	case "<f4", "f4":
		var raw []float32
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("read embeddings %s: %w", path, err)
		}
		data = make([]float64, len(raw))
		for i, v := range raw {
			data[i] = float64(v)
		}
	case "<f8", "f8":
		if err := r.Read(&data); err != nil {
			return nil, fmt.Errorf("read embeddings %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("embeddings %s: unsupported dtype %q", path, dtype)
	}

	if len(data) != rows*cols {
		return nil, fmt.Errorf("embeddings %s: %d values for shape %v", path, len(data), shape)
	}

	if r.Header.Descr.Fortran {
		return mat.DenseCopyOf(mat.NewDense(cols, rows, data).T()), nil
	}
	return mat.NewDense(rows, cols, data), nil
}
