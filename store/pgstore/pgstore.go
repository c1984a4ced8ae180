// Package pgstore is the PostgreSQL backend of store.DB. Every bucket shares
// one table; plain entities use version 0 and descriptions count up from 1.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	bucket  TEXT    NOT NULL,
	id      TEXT    NOT NULL,
	version INTEGER NOT NULL DEFAULT 0,
	body    BYTEA   NOT NULL,
	PRIMARY KEY (bucket, id, version)
)`

const (
	getQuery = `SELECT body FROM entities WHERE bucket = $1 AND id = $2 AND version = 0`
	putQuery = `
INSERT INTO entities (bucket, id, version, body) VALUES ($1, $2, 0, $3)
ON CONFLICT (bucket, id, version) DO UPDATE SET body = EXCLUDED.body`
	deleteQuery   = `DELETE FROM entities WHERE bucket = $1 AND id = $2 AND version = 0`
	versionsQuery = `SELECT COALESCE(MAX(version), 0) FROM entities WHERE bucket = $1 AND id = $2 AND version > 0`
	latestQuery   = `
SELECT version, body FROM entities
WHERE bucket = $1 AND id = $2 AND version > 0
ORDER BY version DESC LIMIT 1`
	appendQuery  = `INSERT INTO entities (bucket, id, version, body) VALUES ($1, $2, $3, $4)`
	forEachQuery = `SELECT id, body FROM entities WHERE bucket = $1 AND version = 0 ORDER BY id COLLATE "C"`
)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and creates the entities table when missing.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()

		return nil, fmt.Errorf("create entities table: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Update(ctx context.Context, fn func(store.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{ctx: ctx, tx: tx})
	})
}

func (s *Store) View(ctx context.Context, fn func(store.Reader) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		return fn(&pgTx{ctx: ctx, tx: tx})
	})
}

func (s *Store) Close() {
	s.pool.Close()
}

type pgTx struct {
	ctx context.Context //nolint:containedctx // scoped to one transaction
	tx  pgx.Tx
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", library.ErrMalformedKey)
	}

	return nil
}

func (t *pgTx) Get(bucket, id string, dst any) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}

	var body []byte

	err := t.tx.QueryRow(t.ctx, getQuery, bucket, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, store.Decode(body, dst)
}

func (t *pgTx) Latest(bucket, id string, dst any) (uint32, bool, error) {
	if err := checkID(id); err != nil {
		return 0, false, err
	}

	var (
		version int32
		body    []byte
	)

	err := t.tx.QueryRow(t.ctx, latestQuery, bucket, id).Scan(&version, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, err
	}

	return uint32(version), true, store.Decode(body, dst)
}

func (t *pgTx) Versions(bucket, id string) (uint32, error) {
	if err := checkID(id); err != nil {
		return 0, err
	}

	var version int32
	if err := t.tx.QueryRow(t.ctx, versionsQuery, bucket, id).Scan(&version); err != nil {
		return 0, err
	}

	return uint32(version), nil
}

// ForEach buffers the rows first: the connection is busy while rows are open
// and fn is allowed to issue its own queries.
func (t *pgTx) ForEach(bucket string, fn func(id string, raw []byte) error) error {
	rows, err := t.tx.Query(t.ctx, forEachQuery, bucket)
	if err != nil {
		return err
	}

	type row struct {
		id   string
		body []byte
	}

	var all []row

	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.body); err != nil {
			rows.Close()

			return err
		}

		all = append(all, r)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range all {
		if err := fn(r.id, r.body); err != nil {
			return err
		}
	}

	return nil
}

func (t *pgTx) Put(bucket, id string, v any) error {
	if err := checkID(id); err != nil {
		return err
	}

	body, err := store.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", bucket, id, err)
	}

	_, err = t.tx.Exec(t.ctx, putQuery, bucket, id, body)

	return err
}

func (t *pgTx) Append(bucket, id string, v any) (uint32, error) {
	last, err := t.Versions(bucket, id)
	if err != nil {
		return 0, err
	}

	body, err := store.Encode(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s/%s: %w", bucket, id, err)
	}

	next := last + 1
	if _, err := t.tx.Exec(t.ctx, appendQuery, bucket, id, int32(next), body); err != nil {
		return 0, err
	}

	return next, nil
}

func (t *pgTx) Delete(bucket, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	_, err := t.tx.Exec(t.ctx, deleteQuery, bucket, id)

	return err
}
