// Command seed ingests a JSON sample file for a keyword, so the API has
// data to serve without any live source credentials.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jonesrussell/globalpulse/internal/bootstrap"
	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/logging"
)

func main() {
	keyword := flag.String("keyword", "", "keyword to file the records under (required)")
	file := flag.String("file", "", "sample file path (defaults to the configured sample path)")
	engine := flag.String("engine", domain.EngineVader, "sentiment engine: gemini, vader, or auto")
	flag.Parse()

	// Keywords are stored lowercased so the API finds seeded records.
	kw := strings.ToLower(strings.TrimSpace(*keyword))
	if kw == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(kw, *file, *engine); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(keyword, file, engine string) error {
	app, err := bootstrap.NewApp(bootstrap.ConfigPath())
	if err != nil {
		return err
	}
	defer app.Close()

	if file == "" {
		file = app.Config.Sources.SamplePath
	}

	stats, err := app.Pipeline.IngestFile(context.Background(), keyword, file, engine)
	if err != nil {
		return err
	}

	app.Logger.Info("Seed complete",
		logging.String("keyword", keyword),
		logging.String("file", file),
		logging.Int("received", stats.Received),
		logging.Int("stored", stats.Stored),
		logging.Int("skipped", stats.Skipped),
	)
	return nil
}
