package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rssreader/internal/config"
	"rssreader/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// pgxPool - часть pgxpool.Pool, которой пользуется хранилище.
type pgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

var newsColumns = []string{"position", "image", "title", "link", "published_at", "description"}

type PostgresNewsDB struct {
	pool             pgxPool
	log              *slog.Logger
	defaultNewsLimit int
}

func NewPostgresNewsDB(pool pgxPool, appCfg config.AppConfig, log *slog.Logger) *PostgresNewsDB {
	log.Info("Initializing Postgres news storage", slog.String("component", "storage"))
	return &PostgresNewsDB{
		pool:             pool,
		log:              log.With(slog.String("component", "storage")),
		defaultNewsLimit: appCfg.DefaultNewsLimit,
	}
}

func (db *PostgresNewsDB) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

func (db *PostgresNewsDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// ReplaceNews заменяет сохраненный снимок ленты новым в одной транзакции.
// Позиция новости в ленте сохраняется в колонке position.
func (db *PostgresNewsDB) ReplaceNews(ctx context.Context, items []domain.NewsItem) (saved int, err error) {
	const op = "storage.postgres.ReplaceNews"
	log := db.log.With(slog.String("op", op))
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		log.Error("Failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.Background()); rollbackErr != nil {
				log.Error("Failed to rollback transaction", slog.Any("error", rollbackErr))
			}
		}
	}()
	if _, err = tx.Exec(ctx, `DELETE FROM news_items`); err != nil {
		log.Error("Failed to clear previous snapshot", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to clear news: %w", op, err)
	}
	var copied int64
	if len(items) > 0 {
		rows := make([][]any, 0, len(items))
		for i, item := range items {
			rows = append(rows, []any{
				i,
				item.Image,
				item.Title,
				item.Link,
				timestamptz(item.PublishedAt),
				item.Description,
			})
		}
		copied, err = tx.CopyFrom(ctx, pgx.Identifier{"news_items"}, newsColumns, pgx.CopyFromRows(rows))
		if err != nil {
			log.Error("Failed to copy news items", slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to copy news: %w", op, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		log.Error("Failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	log.Info("News snapshot replaced", slog.Int("count", int(copied)))
	return int(copied), nil
}

// GetNews возвращает первые n новостей в порядке ленты.
// При n <= 0 используется лимит по умолчанию из конфигурации.
func (db *PostgresNewsDB) GetNews(ctx context.Context, n int) ([]domain.NewsItem, error) {
	limit := n
	if limit <= 0 {
		limit = db.defaultNewsLimit
	}
	const op = "storage.postgres.GetNews"
	log := db.log.With(slog.String("op", op), slog.Int("limit", limit))
	query := `
	SELECT image, title, link, published_at, description
	FROM news_items
	ORDER BY position
	LIMIT $1;
	`
	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		log.Error("Database query failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.NewsItem, error) {
		var item domain.NewsItem
		var published pgtype.Timestamptz
		err := row.Scan(
			&item.Image,
			&item.Title,
			&item.Link,
			&published,
			&item.Description,
		)
		if published.Valid {
			t := published.Time.UTC()
			item.PublishedAt = &t
		}
		return item, err
	})
	if err != nil {
		log.Error("Failed to collect rows", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
	}
	log.Debug("Successfully retrieved news items", slog.Int("count", len(items)))
	return items, nil
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
