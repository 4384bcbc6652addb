package storage

import (
	"context"

	"rssreader/internal/domain"
)

// Storage определяет общий интерфейс для работы с хранилищем новостей.
// Хранилище держит один снимок ленты: каждое обновление заменяет его целиком.
type Storage interface {
	ReplaceNews(ctx context.Context, items []domain.NewsItem) (int, error)
	GetNews(ctx context.Context, n int) ([]domain.NewsItem, error)
	Ping(ctx context.Context) error
	Close()
}
