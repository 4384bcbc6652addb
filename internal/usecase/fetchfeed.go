package usecase

import (
	"context"
	"io"
	"time"

	"rssreader/internal/domain"
)

// FeedFetcher определяет интерфейс для загрузки RSS-ленты из внешнего источника.
// Возвращает io.ReadCloser, который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser преобразует XML ленты в упорядоченный список новостей.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) ([]domain.NewsItem, error)
}

// FeedCache хранит последний XML ленты вместе с моментом сохранения.
type FeedCache interface {
	Load() ([]byte, time.Time, error)
	Store(data []byte) error
	Invalidate() error
}

// FeedStorage хранит текущий снимок списка новостей.
// ReplaceNews целиком заменяет предыдущий снимок и возвращает число сохраненных записей.
type FeedStorage interface {
	ReplaceNews(ctx context.Context, items []domain.NewsItem) (int, error)
}
