package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"rssreader/internal/domain"
	"rssreader/internal/metrics"
)

const (
	sourceCache   = "cache"
	sourceNetwork = "network"
)

// FeedProcessingUseCase получает ленту из кеша или сети, разбирает ее
// и заменяет сохраненный список новостей.
type FeedProcessingUseCase struct {
	fetcher  FeedFetcher
	parser   FeedParser
	cache    FeedCache
	storage  FeedStorage
	log      *slog.Logger
	feedURL  string
	cacheTTL time.Duration
	now      func() time.Time
}

// NewFeedProcessingUseCase создает UseCase для одной ленты feedURL.
// Кеш считается свежим, пока с момента сохранения прошло меньше cacheTTL.
func NewFeedProcessingUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	cache FeedCache,
	storage FeedStorage,
	log *slog.Logger,
	feedURL string,
	cacheTTL time.Duration,
) *FeedProcessingUseCase {
	return &FeedProcessingUseCase{
		fetcher:  fetcher,
		parser:   parser,
		cache:    cache,
		storage:  storage,
		log:      log,
		feedURL:  feedURL,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// FetchNews возвращает актуальный список новостей.
// При invalidateCache=false используется свежий кеш, иначе лента загружается
// из сети. Разбор выполняется целиком: при ошибке ни кеш, ни хранилище не меняются.
func (uc *FeedProcessingUseCase) FetchNews(ctx context.Context, invalidateCache bool) ([]domain.NewsItem, error) {
	start := time.Now()
	log := uc.log.With(
		slog.String("component", "feed-processor"),
		slog.String("url", uc.feedURL),
		slog.Bool("invalidate_cache", invalidateCache),
	)
	log.Info("Processing feed started")

	source := sourceNetwork
	var items []domain.NewsItem
	if !invalidateCache {
		if cached, ok := uc.fromCache(ctx, log); ok {
			source = sourceCache
			items = cached
		}
	}
	if source == sourceNetwork {
		var err error
		items, err = uc.fromNetwork(ctx, log)
		if err != nil {
			metrics.RecordRefresh(source, "error", time.Since(start).Seconds())
			return nil, err
		}
	}

	savedCount, err := uc.storage.ReplaceNews(ctx, items)
	if err != nil {
		log.Error("Feed save failed",
			slog.String("stage", "save"),
			slog.Any("error", err),
		)
		metrics.RecordRefresh(source, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("save failed: %w", err)
	}
	metrics.SetNewsItems(savedCount)

	duration := time.Since(start)
	metrics.RecordRefresh(source, "ok", duration.Seconds())
	log.Info("Feed processing completed successfully",
		slog.String("source", source),
		slog.Int("items_found", len(items)),
		slog.Int("items_saved", savedCount),
		slog.Duration("duration", duration),
	)
	return items, nil
}

// Refresh обновляет список новостей; force=true игнорирует кеш.
func (uc *FeedProcessingUseCase) Refresh(ctx context.Context, force bool) error {
	_, err := uc.FetchNews(ctx, force)
	return err
}

// fromCache разбирает сохраненную ленту, если она моложе cacheTTL.
// Поврежденный кеш удаляется, а лента загружается заново.
func (uc *FeedProcessingUseCase) fromCache(ctx context.Context, log *slog.Logger) ([]domain.NewsItem, bool) {
	data, storedAt, err := uc.cache.Load()
	if err != nil {
		log.Debug("Feed cache unavailable", slog.String("stage", "cache"), slog.Any("error", err))
		return nil, false
	}
	age := uc.now().Sub(storedAt)
	if age >= uc.cacheTTL {
		log.Debug("Feed cache expired", slog.String("stage", "cache"), slog.Duration("age", age))
		return nil, false
	}
	items, err := uc.parser.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false
		}
		log.Warn("Cached feed is unreadable, refetching",
			slog.String("stage", "cache"),
			slog.Any("error", err),
		)
		if err := uc.cache.Invalidate(); err != nil {
			log.Warn("Feed cache invalidation failed",
				slog.String("stage", "cache"),
				slog.Any("error", err),
			)
		}
		return nil, false
	}
	log.Debug("Feed served from cache", slog.Duration("age", age))
	return items, true
}

func (uc *FeedProcessingUseCase) fromNetwork(ctx context.Context, log *slog.Logger) ([]domain.NewsItem, error) {
	reader, err := uc.fetcher.Fetch(ctx, uc.feedURL)
	if err != nil {
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Error("Feed read failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("read failed: %w", err)
	}
	log.Debug("Feed fetched successfully", slog.String("stage", "fetch"), slog.Int("bytes", len(data)))

	items, err := uc.parser.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		log.Error("Feed parsing failed",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	log.Debug("Feed parsed successfully",
		slog.String("stage", "parse"),
		slog.Int("items_parsed", len(items)),
	)

	if err := uc.cache.Store(data); err != nil {
		log.Warn("Feed cache write failed",
			slog.String("stage", "cache"),
			slog.Any("error", err),
		)
	}
	return items, nil
}
