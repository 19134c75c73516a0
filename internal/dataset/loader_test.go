// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package dataset

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/newsrec/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeNPY writes a version 1.0 .npy file holding float32 values.
func writeNPY(t *testing.T, path string, shape []int, fortran bool, values []float32) {
	t.Helper()

	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}
	shapeStr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	order := "False"
	if fortran {
		order = "True"
	}
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': %s, 'shape': (%s), }", order, shapeStr)
	// magic(6) + version(2) + length(2) + header + '\n' is a multiple of 64.
	pad := 64 - (10+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(header))); err != nil {
		t.Fatal(err)
	}
	buf.WriteString(header)
	if err := binary.Write(&buf, binary.LittleEndian, values); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeDenseNPY(t *testing.T, path string, m *mat.Dense) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := npyio.Write(f, m); err != nil {
		t.Fatalf("npyio.Write: %v", err)
	}
}

// newDataset lays out a small dataset and returns its directory.
func newDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "clicks", "clicks_hour_001.csv"),
		"user_id,session_id,click_article_id,click_timestamp\n"+
			"1,10,2,1508211672000\n"+
			"2,20,3,1508211673000\n")
	writeFile(t, filepath.Join(dir, "clicks", "clicks_hour_000.csv"),
		"user_id,session_id,click_article_id,click_timestamp\n"+
			"1,10,0,1508211670000\n"+
			"x,11,1,1508211671000\n")
	writeFile(t, filepath.Join(dir, "clicks", "clicks_hour_002.csv"),
		"user_id,session_id,click_article_id,click_timestamp\n"+
			"9,90,1,1508211680000\n")
	writeFile(t, filepath.Join(dir, "articles_metadata.csv"),
		"article_id,category_id,created_at_ts,publisher,words_count\n"+
			"0,0,1513144419000,0,168\n"+
			"1,1,1405341936000,0,189\n"+
			"2,1,1408667706000,0,250\n"+
			"3,2,1408468313000,0,230\n")
	writeNPY(t, filepath.Join(dir, "articles_embeddings.npy"), []int{4, 2}, false,
		[]float32{1, 0, 0, 1, 0.5, 0.5, -1, 0})
	return dir
}

func TestQuoteLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"/data/clicks.csv", "'/data/clicks.csv'"},
		{"/data/o'brien.csv", "'/data/o''brien.csv'"},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := quoteLiteral(tt.in); got != tt.want {
			t.Errorf("quoteLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Dir: "/data", ClicksPattern: "hour_*.csv"}.withDefaults()
	if cfg.ClicksDir != "clicks" {
		t.Errorf("ClicksDir = %q", cfg.ClicksDir)
	}
	if cfg.ClicksPattern != "hour_*.csv" {
		t.Errorf("ClicksPattern overridden: %q", cfg.ClicksPattern)
	}
	if cfg.MaxClickFiles != 30 {
		t.Errorf("MaxClickFiles = %d, want 30", cfg.MaxClickFiles)
	}
	if got := cfg.resolve("articles_metadata.csv"); got != filepath.Join("/data", "articles_metadata.csv") {
		t.Errorf("resolve relative = %q", got)
	}
	if got := cfg.resolve("/abs/file.npy"); got != "/abs/file.npy" {
		t.Errorf("resolve absolute = %q", got)
	}

	if err := (Config{}).Validate(); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestLoader_ClickFiles(t *testing.T) {
	t.Parallel()

	dir := newDataset(t)

	t.Run("sorted and capped", func(t *testing.T) {
		t.Parallel()
		l := NewLoader(Config{Dir: dir, MaxClickFiles: 2})
		files, err := l.ClickFiles()
		if err != nil {
			t.Fatalf("ClickFiles: %v", err)
		}
		want := []string{"clicks_hour_000.csv", "clicks_hour_001.csv"}
		if len(files) != len(want) {
			t.Fatalf("got %d files, want %d", len(files), len(want))
		}
		for i, f := range files {
			if filepath.Base(f) != want[i] {
				t.Errorf("files[%d] = %s, want %s", i, filepath.Base(f), want[i])
			}
		}
	})

	t.Run("unlimited", func(t *testing.T) {
		t.Parallel()
		l := NewLoader(Config{Dir: dir, MaxClickFiles: -1})
		files, err := l.ClickFiles()
		if err != nil {
			t.Fatalf("ClickFiles: %v", err)
		}
		if len(files) != 3 {
			t.Errorf("got %d files, want 3", len(files))
		}
	})

	t.Run("zero uses default cap", func(t *testing.T) {
		t.Parallel()
		many := t.TempDir()
		for i := 0; i < 32; i++ {
			writeFile(t, filepath.Join(many, "clicks", fmt.Sprintf("clicks_hour_%03d.csv", i)),
				"user_id,session_id,click_article_id,click_timestamp\n")
		}
		l := NewLoader(Config{Dir: many})
		files, err := l.ClickFiles()
		if err != nil {
			t.Fatalf("ClickFiles: %v", err)
		}
		if len(files) != 30 {
			t.Errorf("got %d files, want 30", len(files))
		}
		if filepath.Base(files[29]) != "clicks_hour_029.csv" {
			t.Errorf("last file = %s, want clicks_hour_029.csv", filepath.Base(files[29]))
		}
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		l := NewLoader(Config{Dir: dir, ClicksPattern: "missing_*.csv"})
		if _, err := l.ClickFiles(); !errors.Is(err, ErrNoClickFiles) {
			t.Errorf("err = %v, want ErrNoClickFiles", err)
		}
	})
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := newDataset(t)
	l := NewLoader(Config{Dir: dir, MaxClickFiles: 2})

	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// File order is kept, the malformed row is skipped, file 002 is past the cap.
	wantClicks := []struct {
		user, item int
		ts         int64
	}{
		{1, 0, 1508211670000},
		{1, 2, 1508211672000},
		{2, 3, 1508211673000},
	}
	if len(snap.Interactions) != len(wantClicks) {
		t.Fatalf("got %d interactions, want %d: %+v", len(snap.Interactions), len(wantClicks), snap.Interactions)
	}
	for i, w := range wantClicks {
		got := snap.Interactions[i]
		if got.UserID != w.user || got.ItemID != w.item || !got.Timestamp.Equal(time.UnixMilli(w.ts)) {
			t.Errorf("interaction %d = %+v, want user %d item %d ts %d", i, got, w.user, w.item, w.ts)
		}
	}

	if len(snap.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(snap.Items))
	}
	byID := make(map[int]int, len(snap.Items))
	for i, item := range snap.Items {
		byID[item.ID] = i
	}
	art := snap.Items[byID[2]]
	if art.CategoryID != 1 || art.WordsCount != 250 || !art.CreatedAt.Equal(time.UnixMilli(1408667706000)) {
		t.Errorf("article 2 = %+v", art)
	}

	rows, cols := snap.Embeddings.Dims()
	if rows != 4 || cols != 2 {
		t.Errorf("embeddings dims = (%d, %d), want (4, 2)", rows, cols)
	}
	if filepath.Base(snap.EmbeddingsSource) != "articles_embeddings.npy" {
		t.Errorf("EmbeddingsSource = %q", snap.EmbeddingsSource)
	}

	if snap.History == nil || snap.History.UserCount() != 2 {
		t.Errorf("history not built for 2 users")
	}
}

// Not parallel: swaps the global logger.
func TestLoader_LogsAsDatasetComponent(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	l := NewLoader(Config{Dir: newDataset(t)})
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`"component":"dataset"`,
		`"message":"Skipped malformed click rows"`,
		`"message":"Dataset loaded"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.Contains(line, `"component":"dataset"`) {
			t.Errorf("line without component: %s", line)
		}
	}
}

func TestLoader_LoadPrefersPrimaryEmbeddings(t *testing.T) {
	t.Parallel()

	dir := newDataset(t)
	writeDenseNPY(t, filepath.Join(dir, "articles_embeddings_pca_100D.npy"),
		mat.NewDense(4, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1}))

	snap, err := NewLoader(Config{Dir: dir}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, cols := snap.Embeddings.Dims(); cols != 3 {
		t.Errorf("cols = %d, want 3 from the primary file", cols)
	}
	if filepath.Base(snap.EmbeddingsSource) != "articles_embeddings_pca_100D.npy" {
		t.Errorf("EmbeddingsSource = %q", snap.EmbeddingsSource)
	}
}

func TestLoader_LoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing embeddings", func(t *testing.T) {
		t.Parallel()
		dir := newDataset(t)
		if err := os.Remove(filepath.Join(dir, "articles_embeddings.npy")); err != nil {
			t.Fatal(err)
		}
		_, err := NewLoader(Config{Dir: dir}).Load(context.Background())
		if !errors.Is(err, ErrNoEmbeddings) {
			t.Errorf("err = %v, want ErrNoEmbeddings", err)
		}
	})

	t.Run("missing articles", func(t *testing.T) {
		t.Parallel()
		dir := newDataset(t)
		if err := os.Remove(filepath.Join(dir, "articles_metadata.csv")); err != nil {
			t.Fatal(err)
		}
		if _, err := NewLoader(Config{Dir: dir}).Load(context.Background()); err == nil {
			t.Error("expected error for missing catalog")
		}
	})

	t.Run("no clicks", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := NewLoader(Config{Dir: dir}).Load(context.Background())
		if !errors.Is(err, ErrNoClickFiles) {
			t.Errorf("err = %v, want ErrNoClickFiles", err)
		}
	})

	t.Run("empty dir", func(t *testing.T) {
		t.Parallel()
		if _, err := NewLoader(Config{}).Load(context.Background()); err == nil {
			t.Error("expected config error")
		}
	})
}

func TestLoadEmbeddings(t *testing.T) {
	t.Parallel()

	t.Run("float32 row major", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "e.npy")
		writeNPY(t, path, []int{2, 3}, false, []float32{1, 2, 3, 4, 5, 6})

		m, err := LoadEmbeddings(path)
		if err != nil {
			t.Fatalf("LoadEmbeddings: %v", err)
		}
		if got := m.At(1, 0); got != 4 {
			t.Errorf("At(1,0) = %v, want 4", got)
		}
		if got := m.At(0, 2); got != 3 {
			t.Errorf("At(0,2) = %v, want 3", got)
		}
	})

	t.Run("float32 fortran order", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "e.npy")
		// Column-major storage of [[1 2 3] [4 5 6]].
		writeNPY(t, path, []int{2, 3}, true, []float32{1, 4, 2, 5, 3, 6})

		m, err := LoadEmbeddings(path)
		if err != nil {
			t.Fatalf("LoadEmbeddings: %v", err)
		}
		want := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
		if !mat.Equal(m, want) {
			t.Errorf("got %v, want %v", mat.Formatted(m), mat.Formatted(want))
		}
	})

	t.Run("float64", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "e.npy")
		want := mat.NewDense(3, 2, []float64{0.5, -1, math.Pi, 0, 2, 2})
		writeDenseNPY(t, path, want)

		m, err := LoadEmbeddings(path)
		if err != nil {
			t.Fatalf("LoadEmbeddings: %v", err)
		}
		if !mat.Equal(m, want) {
			t.Errorf("got %v, want %v", mat.Formatted(m), mat.Formatted(want))
		}
	})

	t.Run("one dimensional", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "e.npy")
		writeNPY(t, path, []int{3}, false, []float32{1, 2, 3})

		if _, err := LoadEmbeddings(path); err == nil {
			t.Error("expected shape error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadEmbeddings(filepath.Join(t.TempDir(), "none.npy")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("not npy", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "e.npy")
		writeFile(t, path, "definitely not numpy")
		if _, err := LoadEmbeddings(path); err == nil {
			t.Error("expected header error")
		}
	})
}
