package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the durable snapshot cache. Writes go through a single-connection
// handle so per-row upserts stay atomic; reads use a separate read-only handle.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	if err := migrate(writeDB); err != nil {
		writeDB.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	return &Store{readDB: readDB, writeDB: writeDB}, nil
}

// migrate runs the embedded goose migrations once at open. Migrations are
// additive only; existing rows survive schema upgrades.
func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Upsert inserts or fully replaces the row for each snapshot's video id and
// stamps fetched_at with the current time. The batch commits as one
// transaction, so a reader never observes a half-written row.
func (s *Store) Upsert(snapshots []Snapshot) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO videos (video_id, channel_id, channel_name, title, description,
			thumbnail_url, published_at, fetched_at, views, likes, comments,
			outlier_score, is_short)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			channel_id = excluded.channel_id,
			channel_name = excluded.channel_name,
			title = excluded.title,
			description = excluded.description,
			thumbnail_url = excluded.thumbnail_url,
			published_at = excluded.published_at,
			fetched_at = excluded.fetched_at,
			views = excluded.views,
			likes = excluded.likes,
			comments = excluded.comments,
			outlier_score = excluded.outlier_score,
			is_short = excluded.is_short
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, v := range snapshots {
		_, err := stmt.Exec(v.VideoID, v.ChannelID, v.ChannelName, v.Title,
			v.Description, v.ThumbnailURL, v.PublishedAt, now, v.Views, v.Likes,
			v.Comments, v.OutlierScore, boolToInt(v.IsShort))
		if err != nil {
			return fmt.Errorf("upserting video %s: %w", v.VideoID, err)
		}
	}

	return tx.Commit()
}

var sortColumns = map[string]string{
	"score":     "outlier_score",
	"views":     "views",
	"likes":     "likes",
	"comments":  "comments",
	"published": "published_at",
}

// Query returns snapshots matching every predicate in opts, sorted descending
// by the requested key. video_id is the primary key, so results carry no
// duplicates.
func (s *Store) Query(opts QueryOpts) ([]Snapshot, error) {
	var (
		where []string
		args  []interface{}
	)

	if len(opts.ChannelIDs) > 0 {
		placeholders := make([]string, len(opts.ChannelIDs))
		for i, id := range opts.ChannelIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		where = append(where, "channel_id IN ("+strings.Join(placeholders, ",")+")") //nolint:gosec
	}

	// Every keyword token must appear in the title or the description.
	for _, token := range strings.Fields(opts.Keyword) {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		term := "%" + token + "%"
		args = append(args, term, term)
	}

	if opts.MinScore != 0 {
		where = append(where, "outlier_score >= ?")
		args = append(args, opts.MinScore)
	}

	switch opts.Kind {
	case KindLongform:
		where = append(where, "is_short = 0")
	case KindShorts:
		where = append(where, "is_short = 1")
	}

	query := `SELECT video_id, channel_id, channel_name, title, description,
		thumbnail_url, published_at, fetched_at, views, likes, comments,
		outlier_score, is_short FROM videos`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = "outlier_score"
	}
	query += " ORDER BY " + col + " DESC, published_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := s.readDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var v Snapshot
		var isShort int
		if err := rows.Scan(&v.VideoID, &v.ChannelID, &v.ChannelName, &v.Title,
			&v.Description, &v.ThumbnailURL, &v.PublishedAt, &v.FetchedAt,
			&v.Views, &v.Likes, &v.Comments, &v.OutlierScore, &isShort); err != nil {
			return nil, fmt.Errorf("scanning video: %w", err)
		}
		v.IsShort = isShort != 0
		snapshots = append(snapshots, v)
	}
	return snapshots, rows.Err()
}

// Clear deletes every cached snapshot. This is an explicit operator action;
// nothing calls it automatically.
func (s *Store) Clear() error {
	if _, err := s.writeDB.Exec("DELETE FROM videos"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats reports the cached row count and the database file size.
func (s *Store) Stats(dbPath string) (count int64, size int64, err error) {
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM videos").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting videos: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("reading db file: %w", err)
	}
	return count, info.Size(), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
