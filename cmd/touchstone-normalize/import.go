// CLAUDE:SUMMARY CLI subcommand that downloads and builds dictionaries from public data sources via import adapters.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/touchstone-normalize/pkg/importer"
)

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	source := fs.String("source", "", "adapter ID to import (e.g. insee-communes-fr)")
	all := fs.Bool("all", false, "import all available sources")
	outputDir := fs.String("output-dir", "dicts", "output directory for dictionaries")
	setURL := fs.String("set-url", "", "store a new source URL for -source before importing")
	fs.Parse(args)

	logger := newLogger()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Error("create output dir", "error", err)
		os.Exit(1)
	}

	// Open source DB and seed defaults.
	sdb, err := importer.OpenSourceDB(filepath.Join(*outputDir, "sources.db"))
	if err != nil {
		logger.Error("open sources.db", "error", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if err := sdb.Seed(importer.All()); err != nil {
		logger.Error("seed sources", "error", err)
		os.Exit(1)
	}

	if !*all && *source == "" {
		listSources(sdb)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if *all {
		failed := 0
		for _, a := range importer.All() {
			if _, err := importer.Run(ctx, a, sdb, *outputDir, logger); err != nil {
				logger.Error("import failed", "adapter", a.ID(), "error", err)
				failed++
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	a, err := importer.Get(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "\nAvailable sources:")
		for _, a := range importer.All() {
			fmt.Fprintf(os.Stderr, "  %s\n", a.ID())
		}
		os.Exit(1)
	}

	if *setURL != "" {
		if err := sdb.SetURL(a.ID(), *setURL); err != nil {
			logger.Error("set url", "adapter", a.ID(), "error", err)
			os.Exit(1)
		}
	}

	if _, err := importer.Run(ctx, a, sdb, *outputDir, logger); err != nil {
		logger.Error("import failed", "adapter", a.ID(), "error", err)
		os.Exit(1)
	}
	fmt.Printf("[%s] OK -> %s/%s/\n", a.ID(), *outputDir, a.DictID())
}

func listSources(sdb *importer.SourceDB) {
	sources, err := sdb.ListSources()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Available sources:")
	fmt.Println()
	for _, src := range sources {
		status := ""
		if src.LastStatus != nil {
			status = fmt.Sprintf("  [%d]", *src.LastStatus)
		}
		last := ""
		if runs, err := sdb.Runs(src.AdapterID, 1); err == nil && len(runs) > 0 {
			r := runs[0]
			if r.Error != nil {
				last = "  last import failed"
			} else {
				last = fmt.Sprintf("  last import %s, %d entries", time.Unix(r.FinishedAt, 0).Format(time.DateOnly), r.Entries)
			}
		}
		fmt.Printf("  %-22s  %s  (-> %s)%s%s\n", src.AdapterID, src.Description, src.DictID, status, last)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s import -source <id> [-set-url <url>] [-output-dir <dir>]\n", serviceName)
	fmt.Printf("  %s import -all [-output-dir <dir>]\n", serviceName)
}
