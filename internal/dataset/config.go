// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package dataset

import (
	"errors"
	"path/filepath"
)

// Config describes where the dataset files live.
// Relative file and directory names are resolved against Dir.
type Config struct {
	// Dir is the dataset root directory.
	Dir string

	// ClicksDir holds the hourly click files.
	// Default: "clicks"
	ClicksDir string

	// ClicksPattern selects the click files inside ClicksDir.
	// Default: "clicks_hour_*.csv"
	ClicksPattern string

	// MaxClickFiles caps how many click files are read, in sorted order.
	// Zero selects the default; a negative value reads all files. Default: 30
	MaxClickFiles int

	// ArticlesFile is the article catalog.
	// Default: "articles_metadata.csv"
	ArticlesFile string

	// EmbeddingsFile is the preferred embedding matrix.
	// Default: "articles_embeddings_pca_100D.npy"
	EmbeddingsFile string

	// FallbackEmbeddingsFile is read when EmbeddingsFile does not exist.
	// Default: "articles_embeddings.npy"
	FallbackEmbeddingsFile string
}

// DefaultConfig returns the layout of the published dataset under dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:                    dir,
		ClicksDir:              "clicks",
		ClicksPattern:          "clicks_hour_*.csv",
		MaxClickFiles:          30,
		ArticlesFile:           "articles_metadata.csv",
		EmbeddingsFile:         "articles_embeddings_pca_100D.npy",
		FallbackEmbeddingsFile: "articles_embeddings.npy",
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig(c.Dir)
	if c.ClicksDir == "" {
		c.ClicksDir = d.ClicksDir
	}
	if c.ClicksPattern == "" {
		c.ClicksPattern = d.ClicksPattern
	}
	if c.MaxClickFiles == 0 {
		c.MaxClickFiles = d.MaxClickFiles
	}
	if c.ArticlesFile == "" {
		c.ArticlesFile = d.ArticlesFile
	}
	if c.EmbeddingsFile == "" {
		c.EmbeddingsFile = d.EmbeddingsFile
	}
	if c.FallbackEmbeddingsFile == "" {
		c.FallbackEmbeddingsFile = d.FallbackEmbeddingsFile
	}
	return c
}

// Validate checks that the configuration names a dataset directory.
func (c Config) Validate() error {
	if c.Dir == "" {
		return errors.New("dataset dir is required")
	}
	if _, err := filepath.Match(c.withDefaults().ClicksPattern, ""); err != nil {
		return err
	}
	return nil
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}
