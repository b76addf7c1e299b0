package main

import (
	"fmt"
	"os"

	"github.com/pevans/prosefed/config"
	"github.com/pevans/prosefed/discovery"
	"github.com/pevans/prosefed/records"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [--start N] [--end N] [--output path]",
	Short: "Crawls translation pages in an id range and writes merged records.",
	Args:  cobra.NoArgs,
	RunE:  runCrawl,
}

func init() {
	flags := crawlCmd.Flags()
	flags.Int("start", 0, "First translation id (inclusive, default 1)")
	flags.Int("end", 0, "Last translation id (inclusive, default 5699)")
	flags.String("output", "", "JSON Lines output file, truncated at start (default poetry_with_translation.jsonl)")
	flags.String("store", "", "Also mirror records into a store: none or sqlite")
	flags.Bool("respect-robots", false, "Honour each host's robots.txt")
	rootCmd.AddCommand(crawlCmd)
}

// applyCrawlFlags overrides settings with explicitly set crawl flags.
func applyCrawlFlags(cmd *cobra.Command) func(*config.Settings) error {
	return func(s *config.Settings) error {
		flags := cmd.Flags()
		if flags.Changed("start") {
			s.StartID, _ = flags.GetInt("start")
		}
		if flags.Changed("end") {
			s.EndID, _ = flags.GetInt("end")
		}
		if flags.Changed("output") {
			s.OutputPath, _ = flags.GetString("output")
		}
		if flags.Changed("store") {
			s.StoreType, _ = flags.GetString("store")
		}
		if flags.Changed("respect-robots") {
			s.RespectRobots, _ = flags.GetBool("respect-robots")
		}
		return nil
	}
}

func runCrawl(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, applyCrawlFlags(cmd))
	if err != nil {
		return err
	}

	logger, err := newLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	var log logrus.FieldLogger = logger

	out, err := os.Create(settings.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	writers := []records.Writer{records.NewJSONLWriter(out)}

	var store *records.Store
	if settings.StoreType == config.StoreSQLite {
		store, err = records.NewStore(settings.StoreDSN)
		if err != nil {
			return fmt.Errorf("failed to open record store: %w", err)
		}
		defer store.Close()

		runID, err := store.StartRun(settings.StartID, settings.EndID)
		if err != nil {
			return err
		}
		log = log.WithField("run_id", runID.String())
		writers = append(writers, store)
	}

	var opts []discovery.FetcherOption
	if settings.RespectRobots {
		opts = append(opts, discovery.WithRobots())
	}
	fetcher := discovery.NewHTTPFetcher(log, opts...)

	service := discovery.NewService(
		fetcher,
		records.MultiWriter(writers...),
		discovery.NewDedupSet(),
		discovery.DefaultConfig(),
		log,
	)

	log.WithFields(logrus.Fields{
		"start":  settings.StartID,
		"end":    settings.EndID,
		"output": settings.OutputPath,
	}).Info("crawl starting")

	result, runErr := service.Run(cmd.Context(), settings.StartID, settings.EndID)

	if store != nil {
		if err := store.FinishRun(result.Emitted); err != nil {
			log.Warnf("unable to record run completion: %v", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.String())

	if runErr != nil {
		return fmt.Errorf("crawl stopped: %w", runErr)
	}
	return nil
}
