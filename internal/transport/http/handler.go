package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rssreader/internal/domain"
)

type newsGetter interface {
	GetNews(ctx context.Context, limit int) ([]domain.NewsItem, error)
}

type newsFetcher interface {
	FetchNews(ctx context.Context, invalidateCache bool) ([]domain.NewsItem, error)
}

// Pinger проверяет доступность хранилища для /api/health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log        *slog.Logger
	newsGetter newsGetter
	fetcher    newsFetcher
	pinger     Pinger
}

// newsItemResponse - представление новости в ответах API.
type newsItemResponse struct {
	Image       string     `json:"image"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PublishedAt *time.Time `json:"published_at"`
	Description string     `json:"description"`
}

func NewHandler(log *slog.Logger, getter newsGetter, fetcher newsFetcher, pinger Pinger) *Handler {
	return &Handler{
		log:        log,
		newsGetter: getter,
		fetcher:    fetcher,
		pinger:     pinger,
	}
}

// getNews - хендлер для эндпоинта GET /api/news
func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getNews"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			log.Warn("invalid limit parameter", slog.String("limit", limitStr))
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
	}
	news, err := h.newsGetter.GetNews(r.Context(), limit)
	if err != nil {
		log.Error("Failed to get news", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, toResponse(news))
}

// refreshNews - хендлер для POST /api/news/refresh: загрузка ленты в обход кэша.
func (h *Handler) refreshNews(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/refreshNews"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
	news, err := h.fetcher.FetchNews(r.Context(), true)
	if err != nil {
		log.Error("Failed to refresh news", slog.Any("error", err))
		respondWithError(w, http.StatusBadGateway, "Fail to load news")
		return
	}
	log.Info("News refreshed", slog.Int("count", len(news)))
	respondWithJSON(w, http.StatusOK, map[string]int{"count": len(news)})
}

// healthCheck - хендлер для проверки состояния сервиса
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.log.Warn("Health check failed",
				slog.String("request_id", getRequestID(r.Context())),
				slog.Any("error", err),
			)
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toResponse(items []domain.NewsItem) []newsItemResponse {
	resp := make([]newsItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, newsItemResponse{
			Image:       item.Image,
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: item.PublishedAt,
			Description: item.Description,
		})
	}
	return resp
}

// Вспомогательные функции для ответов
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
