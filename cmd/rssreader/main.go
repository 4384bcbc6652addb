package main

import (
	"os"

	"rssreader/internal/cli"
)

// version задается при сборке через ldflags
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
