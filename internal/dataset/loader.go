// Newsrec - News Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsrec

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver for read_csv ingestion
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/newsrec/internal/logging"
	"github.com/tomtom215/newsrec/internal/metrics"
	"github.com/tomtom215/newsrec/internal/recommend"
)

// ErrNoClickFiles is returned when no file matches the click pattern.
var ErrNoClickFiles = errors.New("no click files found")

const (
	clicksQuery = `SELECT
		TRY_CAST(user_id AS BIGINT),
		TRY_CAST(click_article_id AS BIGINT),
		TRY_CAST(click_timestamp AS BIGINT)
	FROM read_csv([%s], header = true, union_by_name = true)`

	articlesQuery = `SELECT
		TRY_CAST(article_id AS BIGINT),
		TRY_CAST(category_id AS BIGINT),
		TRY_CAST(created_at_ts AS BIGINT),
		TRY_CAST(words_count AS BIGINT)
	FROM read_csv(%s, header = true)`
)

// Loader reads the dataset files described by a Config.
type Loader struct {
	cfg    Config
	logger zerolog.Logger
}

// NewLoader creates a loader. Empty Config fields take their defaults.
func NewLoader(cfg Config) *Loader {
	return &Loader{cfg: cfg.withDefaults(), logger: logging.WithComponent("dataset")}
}

// Config returns the effective configuration.
func (l *Loader) Config() Config {
	return l.cfg
}

// Load reads clicks, articles and embeddings concurrently and returns the
// resulting snapshot with its history index built.
func (l *Loader) Load(ctx context.Context) (*recommend.Snapshot, error) {
	if err := l.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset config: %w", err)
	}
	start := time.Now()

	files, err := l.ClickFiles()
	if err != nil {
		return nil, err
	}

	db, err := openDuckDB()
	if err != nil {
		return nil, err
	}
	defer closeQuietly(db)

	var (
		clicks     []recommend.Interaction
		items      []recommend.Item
		embeddings *mat.Dense
		source     string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clicks, err = l.loadClicks(gctx, db, files)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = l.loadArticles(gctx, db)
		return err
	})
	g.Go(func() error {
		var err error
		embeddings, source, err = l.loadEmbeddings()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := recommend.NewSnapshot(clicks, items, embeddings)
	snap.EmbeddingsSource = source

	rows, cols := embeddings.Dims()
	l.logger.Info().
		Int("click_files", len(files)).
		Int("interactions", len(clicks)).
		Int("users", snap.History.UserCount()).
		Int("articles", len(items)).
		Int("embedding_rows", rows).
		Int("embedding_dim", cols).
		Str("embeddings", filepath.Base(source)).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	return snap, nil
}

// ClickFiles returns the click files in lexicographic order, capped at
// MaxClickFiles.
func (l *Loader) ClickFiles() ([]string, error) {
	pattern := filepath.Join(l.cfg.resolve(l.cfg.ClicksDir), l.cfg.ClicksPattern)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoClickFiles, pattern)
	}
	sort.Strings(files)
	if l.cfg.MaxClickFiles > 0 && len(files) > l.cfg.MaxClickFiles {
		files = files[:l.cfg.MaxClickFiles]
	}
	return files, nil
}

func openDuckDB() (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	return db, nil
}

func (l *Loader) loadClicks(ctx context.Context, db *sql.DB, files []string) (clicks []recommend.Interaction, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("read_csv", "clicks", time.Since(start), err) }()

	quoted := make([]string, len(files))
	for i, f := range files {
		quoted[i] = quoteLiteral(f)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(clicksQuery, strings.Join(quoted, ", ")))
	if err != nil {
		return nil, fmt.Errorf("load clicks: %w", err)
	}
	defer closeQuietly(rows)

	skipped := 0
	for rows.Next() {
		var user, article, ts sql.NullInt64
		if err := rows.Scan(&user, &article, &ts); err != nil {
			return nil, fmt.Errorf("scan click: %w", err)
		}
		if !user.Valid || !article.Valid || !ts.Valid {
			skipped++
			continue
		}
		clicks = append(clicks, recommend.Interaction{
			UserID:    int(user.Int64),
			ItemID:    int(article.Int64),
			Timestamp: time.UnixMilli(ts.Int64).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load clicks: %w", err)
	}

	if skipped > 0 {
		l.logger.Debug().Int("skipped", skipped).Msg("Skipped malformed click rows")
	}
	metrics.RecordDatasetRows("clicks", len(clicks))
	return clicks, nil
}

func (l *Loader) loadArticles(ctx context.Context, db *sql.DB) (items []recommend.Item, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("read_csv", "articles", time.Since(start), err) }()

	path := l.cfg.resolve(l.cfg.ArticlesFile)
	rows, err := db.QueryContext(ctx, fmt.Sprintf(articlesQuery, quoteLiteral(path)))
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	defer closeQuietly(rows)

	skipped := 0
	for rows.Next() {
		var id, category, created, words sql.NullInt64
		if err := rows.Scan(&id, &category, &created, &words); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		if !id.Valid || !created.Valid {
			skipped++
			continue
		}
		items = append(items, recommend.Item{
			ID:         int(id.Int64),
			CategoryID: int(category.Int64),
			WordsCount: int(words.Int64),
			CreatedAt:  time.UnixMilli(created.Int64).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	if skipped > 0 {
		l.logger.Debug().Int("skipped", skipped).Msg("Skipped malformed article rows")
	}
	metrics.RecordDatasetRows("articles", len(items))
	return items, nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
