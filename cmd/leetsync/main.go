// Command leetsync exports a user's accepted submissions to local source
// files, one per (problem, language) pair, resuming incrementally from the
// watermark of the previous run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"leetsync/auth"
	"leetsync/browse"
	"leetsync/config"
	"leetsync/history"
	"leetsync/logging"
	"leetsync/scrape"
	"leetsync/watermark"
)

func main() {
	configPath := flag.String("config", "leetsync.yaml", "Path to config file")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}
	saveDir := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, saveDir, log); err != nil {
		log.Error("run aborted", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, saveDir string, log *zap.Logger) error {
	log.Info("starting submission scraper", zap.String("save_dir", saveDir))

	policy, err := scrape.ParsePolicy(cfg.DedupPolicy)
	if err != nil {
		return err
	}

	// Authentication is a hard precondition: no cookies, no run.
	cookies, err := auth.Load(cfg.CookieFile, log)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	client, err := browse.NewClient(cfg.BaseURL, cfg.Selectors, log)
	if err != nil {
		return err
	}
	client.SetCookies(cookies)

	scraper := scrape.NewScraper(
		client,
		scrape.NewWriter(saveDir, log),
		watermark.NewStore(cfg.StateFile, log),
		log,
		scrape.Options{
			SubmissionsURL: cfg.SubmissionsURL,
			TableSelector:  cfg.Selectors.Table,
			Languages:      cfg.Languages,
			Policy:         policy,
		},
	)

	// Run history is best-effort observability; a broken database never
	// blocks a scrape.
	var (
		hist    *history.Store
		histRun *history.Run
	)
	if hist, err = history.NewStore(cfg.HistoryDB); err != nil {
		log.Warn("failed to open run history, continuing without it", zap.Error(err))
		hist = nil
	} else {
		defer hist.Close()
		if histRun, err = hist.Begin(); err != nil {
			log.Warn("failed to record run start", zap.Error(err))
			histRun = nil
		}
	}

	result, runErr := scraper.Run(context.Background())

	if hist != nil && histRun != nil {
		status := "completed"
		if runErr != nil {
			status = "aborted"
		}
		if err := hist.Finish(histRun, status, result.RowsSeen, result.SolutionsSaved, result.Watermark); err != nil {
			log.Warn("failed to record run result", zap.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}

	log.Info("scraper finished",
		zap.Int("rows_seen", result.RowsSeen),
		zap.Int("solutions_saved", result.SolutionsSaved))
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "leetsync - export accepted submissions to local files")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  leetsync [-config path] <save-dir>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Arguments:")
	fmt.Fprintln(os.Stderr, "  save-dir   Directory where scraped solutions are written")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config    Path to config file (default: leetsync.yaml)")
}
