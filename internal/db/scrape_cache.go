package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/types"
)

// GetExtraction returns a cached successful scrape for url, or nil when there is
// no entry newer than maxAge.
func (db *DB) GetExtraction(ctx context.Context, url string, maxAge time.Duration) (*types.ExtractionResult, error) {
	var text, strategy, message string
	err := db.pool.QueryRow(ctx,
		`SELECT job_description, strategy, message
		 FROM scraped_postings
		 WHERE url = $1 AND fetched_at > $2`,
		url, time.Now().Add(-maxAge),
	).Scan(&text, &strategy, &message)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached posting: %w", err)
	}

	return &types.ExtractionResult{
		Success:       true,
		Text:          text,
		Diagnostic:    types.DiagnosticOK,
		SourceURLUsed: url,
		Message:       message,
		Strategy:      strategy,
	}, nil
}

// PutExtraction stores a successful scrape, replacing any previous entry.
func (db *DB) PutExtraction(ctx context.Context, url string, result types.ExtractionResult) error {
	if !result.Success {
		return fmt.Errorf("refusing to cache failed extraction for %s", url)
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO scraped_postings (url, job_description, strategy, message, content_hash, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (url) DO UPDATE SET
		     job_description = EXCLUDED.job_description,
		     strategy = EXCLUDED.strategy,
		     message = EXCLUDED.message,
		     content_hash = EXCLUDED.content_hash,
		     fetched_at = NOW()`,
		url, result.Text, result.Strategy, result.Message, ContentHash(result.Text),
	)
	if err != nil {
		return fmt.Errorf("failed to cache posting: %w", err)
	}
	return nil
}

// PurgeExtractions deletes cache entries older than maxAge and returns how many were removed.
func (db *DB) PurgeExtractions(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM scraped_postings WHERE fetched_at <= $1`,
		time.Now().Add(-maxAge),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cached postings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ContentHash returns the SHA256 hex digest used to detect changed postings.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
