package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const feedFile = "news.xml"

// ErrCacheMiss возвращается, если сохраненной ленты нет.
var ErrCacheMiss = errors.New("feed cache miss")

// FileCache хранит последний успешно полученный XML ленты на диске.
// Время сохранения берется из времени модификации файла.
type FileCache struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewFileCache создает кеш в каталоге dir. Каталог создается при первой записи.
func NewFileCache(dir string, log *slog.Logger) *FileCache {
	return &FileCache{
		dir: dir,
		log: log.With(slog.String("component", "cache")),
		now: time.Now,
	}
}

// Load возвращает сохраненный XML и момент его сохранения.
func (c *FileCache) Load() ([]byte, time.Time, error) {
	path := filepath.Join(c.dir, feedFile)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to stat cache file %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read cache file %s: %w", path, err)
	}
	return data, info.ModTime(), nil
}

// Store атомарно заменяет сохраненный XML: данные пишутся во временный файл,
// который затем переименовывается поверх старого.
func (c *FileCache) Store(data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir %s: %w", c.dir, err)
	}
	tmp, err := os.CreateTemp(c.dir, feedFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	now := c.now()
	if err := os.Chtimes(tmp.Name(), now, now); err != nil {
		return fmt.Errorf("failed to set cache timestamp: %w", err)
	}
	path := filepath.Join(c.dir, feedFile)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace cache file %s: %w", path, err)
	}
	c.log.Debug("Feed cached", slog.Int("bytes", len(data)))
	return nil
}

// Invalidate удаляет сохраненную ленту.
func (c *FileCache) Invalidate() error {
	err := os.Remove(filepath.Join(c.dir, feedFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

// DefaultDir возвращает каталог кеша пользователя для приложения.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "rssreader"), nil
}
