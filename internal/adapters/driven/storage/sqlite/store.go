package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/chartmix/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/logger"
)

// dbFile is the database file name inside the data directory.
const dbFile = "chartmix.db"

// Ensure Store implements the interface.
var _ driven.ChartStore = (*Store)(nil)

// Store is the SQLite-backed chart store. It owns its connection pool;
// callers must Close it on every exit path.
type Store struct {
	db   *sql.DB
	path string

	// writeMu serialises batch writes to one transaction at a time.
	writeMu sync.Mutex
}

// NewStore opens (creating if needed) the database in dataDir and applies
// the schema. If dataDir is empty, defaults to ~/.chartmix/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chartmix", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Pragmas go in the DSN so every pooled connection enforces foreign keys.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema applies every embedded schema file. Safe to call on every run.
func (s *Store) EnsureSchema(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("reading schema directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("applying schema %s: %w", name, err)
		}
	}
	return nil
}

// ==================== Chart Entries ====================

// UpsertChartEntries inserts each candidate's normalised natural key,
// ignoring keys already stored. The batch commits as one transaction.
func (s *Store) UpsertChartEntries(ctx context.Context, candidates []domain.Candidate) (domain.UpsertResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var res domain.UpsertResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chart_entries (title, artist) VALUES (?, ?)
			ON CONFLICT (title, artist) DO NOTHING
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		for _, c := range candidates {
			key := c.Key()
			if !key.Valid() {
				res.Skipped++
				logger.Debug("Skipping candidate with empty key: %q by %q", c.Title, c.Artist)
				continue
			}

			var inserted bool
			err := savepoint(ctx, tx, func() error {
				result, err := stmt.ExecContext(ctx, key.Title, key.Artist)
				if err != nil {
					return err
				}
				n, err := result.RowsAffected()
				inserted = n > 0
				return err
			})
			switch {
			case err != nil:
				res.Skipped++
				logger.Warn("Skipping chart entry %s: %v", key, err)
			case inserted:
				res.Inserted++
			default:
				res.Duplicates++
				logger.Debug("%v: %s already stored", domain.ErrConstraintViolation, key)
			}
		}
		return nil
	})
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("upserting chart entries: %w", err)
	}
	return res, nil
}

// ListChartEntries returns all entries ordered by ID.
func (s *Store) ListChartEntries(ctx context.Context) ([]domain.ChartEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, title, artist FROM chart_entries ORDER BY entry_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chart entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.ChartEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.ChartEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Artist); err != nil {
			return nil, fmt.Errorf("scanning chart entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chart entries: %w", err)
	}
	return entries, nil
}

// DeleteChartEntry removes an entry; its feature vectors go with it.
func (s *Store) DeleteChartEntry(ctx context.Context, entryID int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM chart_entries WHERE entry_id = ?", entryID)
	if err != nil {
		return fmt.Errorf("deleting chart entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting chart entry: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Feature Vectors ====================

// AttachFeatures links each result to the entry with the same natural key.
// Any vector already attached to that entry is replaced. The batch commits
// as one transaction.
//
//nolint:gocognit // per-row savepoint bookkeeping
func (s *Store) AttachFeatures(ctx context.Context, results []domain.FeatureResult) (domain.AttachResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var res domain.AttachResult
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		lookup, err := tx.PrepareContext(ctx, `
			SELECT entry_id FROM chart_entries WHERE title = ? AND artist = ?
		`)
		if err != nil {
			return fmt.Errorf("preparing lookup: %w", err)
		}
		defer lookup.Close()

		detach, err := tx.PrepareContext(ctx, "DELETE FROM feature_vectors WHERE entry_id = ?")
		if err != nil {
			return fmt.Errorf("preparing detach: %w", err)
		}
		defer detach.Close()

		insert, err := tx.PrepareContext(ctx, `
			INSERT INTO feature_vectors
				(entry_id, danceability, tempo, energy, valence, acousticness, loudness, musical_key, mode)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer insert.Close()

		for _, r := range results {
			key := r.Key()
			if !key.Valid() {
				res.Skipped++
				logger.Debug("Skipping feature result with empty key: %q by %q", r.Title, r.Artist)
				continue
			}
			if err := r.Features.Validate(); err != nil {
				res.Skipped++
				logger.Warn("Skipping features for %s: %v", key, err)
				continue
			}

			var entryID int64
			if err := lookup.QueryRowContext(ctx, key.Title, key.Artist).Scan(&entryID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					res.Missed++
					logger.Info("%v: %s", domain.ErrAttachMiss, key)
					continue
				}
				res.Skipped++
				logger.Warn("Looking up %s: %v", key, err)
				continue
			}

			var replaced bool
			err := savepoint(ctx, tx, func() error {
				cleared, err := detach.ExecContext(ctx, entryID)
				if err != nil {
					return err
				}
				n, err := cleared.RowsAffected()
				if err != nil {
					return err
				}
				replaced = n > 0

				f := r.Features
				_, err = insert.ExecContext(ctx, entryID, f.Danceability, f.Tempo, f.Energy,
					nullFloat(f.Valence), nullFloat(f.Acousticness), nullFloat(f.Loudness),
					nullInt(f.Key), nullInt(f.Mode))
				return err
			})
			if err != nil {
				res.Skipped++
				logger.Warn("Skipping features for %s: %v", key, err)
				continue
			}
			if replaced {
				res.Replaced++
			}
			res.Attached++
		}
		return nil
	})
	if err != nil {
		return domain.AttachResult{}, fmt.Errorf("attaching features: %w", err)
	}
	return res, nil
}

// FeatureVectors returns the feature vectors attached to an entry.
func (s *Store) FeatureVectors(ctx context.Context, entryID int64) ([]domain.FeatureVector, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT feature_id, entry_id, danceability, tempo, energy,
			valence, acousticness, loudness, musical_key, mode
		FROM feature_vectors WHERE entry_id = ?
		ORDER BY feature_id
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("querying feature vectors: %w", err)
	}
	defer rows.Close()

	var vectors []domain.FeatureVector //nolint:prealloc // size unknown from query
	for rows.Next() {
		v, err := scanFeatureVector(rows)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature vectors: %w", err)
	}
	return vectors, nil
}

// ==================== Aggregates ====================

// AverageFeatures returns mean tempo and danceability. Samples is zero,
// and both means zero, on an empty table.
func (s *Store) AverageFeatures(ctx context.Context) (domain.Averages, error) {
	var avg domain.Averages
	var tempo, dance sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(tempo), AVG(danceability) FROM feature_vectors
	`).Scan(&avg.Samples, &tempo, &dance)
	if err != nil {
		return domain.Averages{}, fmt.Errorf("averaging features: %w", err)
	}
	avg.Tempo = tempo.Float64
	avg.Danceability = dance.Float64
	return avg, nil
}

// topArtistsPrealloc bounds the result capacity reserved before the query;
// n is caller-controlled and may far exceed the number of artists.
const topArtistsPrealloc = 100

// TopArtists returns up to n artists by entry count, ties broken by
// artist name ascending.
func (s *Store) TopArtists(ctx context.Context, n int) ([]domain.ArtistCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT artist, COUNT(*) AS entry_count
		FROM chart_entries
		GROUP BY artist
		ORDER BY entry_count DESC, artist ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	artists := make([]domain.ArtistCount, 0, min(n, topArtistsPrealloc))
	for rows.Next() {
		var a domain.ArtistCount
		if err := rows.Scan(&a.Artist, &a.Count); err != nil {
			return nil, fmt.Errorf("scanning artist count: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top artists: %w", err)
	}
	return artists, nil
}

// FeaturePoints returns every (tempo, danceability) pair ordered by feature ID.
func (s *Store) FeaturePoints(ctx context.Context) ([]domain.FeaturePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tempo, danceability FROM feature_vectors ORDER BY feature_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying feature points: %w", err)
	}
	defer rows.Close()

	var points []domain.FeaturePoint //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.FeaturePoint
		if err := rows.Scan(&p.Tempo, &p.Danceability); err != nil {
			return nil, fmt.Errorf("scanning feature point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature points: %w", err)
	}
	return points, nil
}

// ==================== Helpers ====================

// inTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// savepoint runs fn inside a savepoint, undoing only fn's writes on failure.
func savepoint(ctx context.Context, tx *sql.Tx, fn func() error) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT row_write"); err != nil {
		return fmt.Errorf("opening savepoint: %w", err)
	}
	if err := fn(); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO row_write"); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back savepoint: %w", rbErr))
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE row_write"); relErr != nil {
			return errors.Join(err, fmt.Errorf("releasing savepoint: %w", relErr))
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE row_write"); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}
	return nil
}

func scanFeatureVector(rows *sql.Rows) (*domain.FeatureVector, error) {
	var v domain.FeatureVector
	var valence, acousticness, loudness sql.NullFloat64
	var key, mode sql.NullInt64
	if err := rows.Scan(&v.ID, &v.EntryID, &v.Features.Danceability, &v.Features.Tempo,
		&v.Features.Energy, &valence, &acousticness, &loudness, &key, &mode); err != nil {
		return nil, fmt.Errorf("scanning feature vector: %w", err)
	}
	v.Features.Valence = floatPtr(valence)
	v.Features.Acousticness = floatPtr(acousticness)
	v.Features.Loudness = floatPtr(loudness)
	v.Features.Key = intPtr(key)
	v.Features.Mode = intPtr(mode)
	return &v, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}
