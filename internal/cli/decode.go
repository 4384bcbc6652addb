package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"rssreader/internal/adapter/fetcher"
	"rssreader/internal/adapter/parser"
	"rssreader/internal/app"
	"rssreader/internal/config"
	"rssreader/internal/domain"
	"rssreader/internal/logger"

	"github.com/spf13/cobra"
)

type decodedItem struct {
	Image       string     `json:"image"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	PublishedAt *time.Time `json:"published_at"`
	Description string     `json:"description"`
}

func newDecodeCmd() *cobra.Command {
	var (
		lenientDates   bool
		thumbnailWidth string
		timeout        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "decode <file|url>",
		Short: "Decode one RSS document and print its news items as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(logger.NewReadableHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			source := args[0]
			body, err := openSource(cmd, log, source, timeout)
			if err != nil {
				return err
			}
			defer body.Close()
			opts := app.ParserOptions(config.AppConfig{
				ThumbnailWidth: thumbnailWidth,
				LenientDates:   lenientDates,
			})
			items, err := parser.NewXMLParser(log, opts...).Parse(cmd.Context(), body)
			if err != nil {
				return fmt.Errorf("decode %s: %w", source, err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(toDecoded(items))
		},
	}
	cmd.Flags().BoolVar(&lenientDates, "lenient-dates", false, "drop unparsable pubDate values instead of failing")
	cmd.Flags().StringVar(&thumbnailWidth, "thumbnail-width", parser.DefaultThumbnailWidth, "media:thumbnail width to accept")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout when the source is a URL")
	return cmd
}

func openSource(cmd *cobra.Command, log *slog.Logger, source string, timeout time.Duration) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetcher.NewHTTPFetcher(log, timeout).Fetch(cmd.Context(), source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("could not open feed file: %w", err)
	}
	return f, nil
}

func toDecoded(items []domain.NewsItem) []decodedItem {
	out := make([]decodedItem, 0, len(items))
	for _, item := range items {
		out = append(out, decodedItem{
			Image:       item.Image,
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: item.PublishedAt,
			Description: item.Description,
		})
	}
	return out
}
