package cache

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// entryModel is the row shape backing the Postgres cache table.
type entryModel struct {
	bun.BaseModel `bun:"table:node_cache,alias:nc"`

	Key       string    `bun:"key,pk"`
	Value     any       `bun:"value,type:jsonb"`
	ExpiresAt time.Time `bun:"expires_at,nullzero"`
}

// Postgres is a durable Cache implementation for callers who want single-
// node memoization to survive process restarts. This durability is scoped
// to cache entries only — it does not make workflow runs themselves
// durable.
type Postgres struct {
	db *bun.DB
}

// NewPostgres opens a bun/pgdriver connection against dsn. Call InitSchema
// once before first use.
func NewPostgres(dsn string) *Postgres {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &Postgres{db: bun.NewDB(sqldb, pgdialect.New())}
}

// InitSchema creates the backing table if it doesn't already exist.
func (p *Postgres) InitSchema(ctx context.Context) error {
	_, err := p.db.NewCreateTable().Model((*entryModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

var _ Cache = (*Postgres)(nil)

func (p *Postgres) Get(key string) (any, bool) {
	ctx := context.Background()
	var row entryModel
	err := p.db.NewSelect().Model(&row).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, false
	}
	if !row.ExpiresAt.IsZero() && time.Now().After(row.ExpiresAt) {
		_, _ = p.db.NewDelete().Model((*entryModel)(nil)).Where("key = ?", key).Exec(ctx)
		return nil, false
	}
	return row.Value, true
}

func (p *Postgres) Set(key string, value any, ttl time.Duration) {
	ctx := context.Background()
	row := &entryModel{Key: key, Value: value}
	if ttl > 0 {
		row.ExpiresAt = time.Now().Add(ttl)
	}
	_, _ = p.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)
}

func (p *Postgres) Delete(key string) {
	_, _ = p.db.NewDelete().Model((*entryModel)(nil)).Where("key = ?", key).Exec(context.Background())
}
