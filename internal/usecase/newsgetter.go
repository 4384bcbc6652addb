package usecase

import (
	"context"

	"rssreader/internal/domain"
)

// NewsStorage определяет интерфейс для чтения сохраненного списка новостей.
type NewsStorage interface {
	GetNews(ctx context.Context, n int) ([]domain.NewsItem, error)
}

// NewsGetterUseCase отдает сохраненный список новостей для API.
type NewsGetterUseCase struct {
	storage NewsStorage
}

func NewNewsGetterUseCase(s NewsStorage) *NewsGetterUseCase {
	return &NewsGetterUseCase{storage: s}
}

// GetNews возвращает первые limit новостей в порядке ленты.
func (us *NewsGetterUseCase) GetNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	return us.storage.GetNews(ctx, limit)
}
