// Package cli содержит команды rssreader: запуск сервиса и разбор отдельной ленты.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd собирает дерево команд rssreader.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "rssreader",
		Short: "RSS 2.0 feed reader",
		Long: `rssreader loads an RSS 2.0 feed, decodes it into news items and serves
the latest snapshot over HTTP.

Example usage:
  rssreader serve --config config.json     # Run the refresh worker and HTTP API
  rssreader decode feed.xml                # Print decoded items as JSON
  rssreader decode http://host/rss --lenient-dates`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newDecodeCmd())
	return root
}

// Execute запускает корневую команду с аргументами процесса.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}
