package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FeedRefresher определяет интерфейс обновления снимка ленты.
// force=true означает загрузку из сети в обход кэша.
type FeedRefresher interface {
	Refresh(ctx context.Context, force bool) error
}

// Worker реализует фонового воркера для периодического обновления ленты.
// Первое обновление при старте разрешает использовать свежий кэш,
// последующие по расписанию всегда идут в сеть.
type Worker struct {
	refresher FeedRefresher
	interval  time.Duration
	log       *slog.Logger
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New создает нового воркера, обновляющего ленту каждые interval.
func New(refresher FeedRefresher, interval time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		refresher: refresher,
		interval:  interval,
		log:       log.With(slog.String("component", "worker")),
	}
}

// Start запускает воркер в отдельной горутине.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop останавливает воркер и дожидается завершения текущего обновления.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	w.log.Info("Feed refresh worker started", slog.String("interval", w.interval.String()))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.refresh(ctx, false)
	for {
		select {
		case <-ticker.C:
			w.refresh(ctx, true)
		case <-ctx.Done():
			w.log.Info("Worker stopping")
			return
		}
	}
}

// refresh выполняет один цикл обновления. Цикл не может длиться дольше интервала.
func (w *Worker) refresh(ctx context.Context, force bool) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	opCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()
	if err := w.refresher.Refresh(opCtx, force); err != nil {
		w.log.Error("Feed refresh failed",
			slog.Bool("force", force),
			slog.Any("error", err),
		)
		return
	}
	w.log.Info("Feed refresh cycle completed",
		slog.Bool("force", force),
		slog.Duration("duration", time.Since(start)),
	)
}

// GetInterval возвращает интервал обновления ленты.
func (w *Worker) GetInterval() time.Duration { return w.interval }
