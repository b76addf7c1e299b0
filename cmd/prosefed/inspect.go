package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/prosefed/records"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [path/to/output.jsonl]",
	Short: "Summarizes a crawl output file or the record store.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	flags := inspectCmd.Flags()
	flags.Int("top", 10, "Number of authors and eras to list")
	flags.String("format", "table", "Output format: table or json")
	flags.Bool("from-store", false, "Read records from the SQLite store instead of a JSONL file")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	format, _ := cmd.Flags().GetString("format")
	fromStore, _ := cmd.Flags().GetBool("from-store")

	var result *records.ListResult
	if fromStore {
		result, err = readStore(settings.StoreDSN)
	} else {
		path := settings.OutputPath
		if len(args) > 0 {
			path = args[0]
		}
		result, err = readJSONLFile(path)
	}
	if err != nil {
		return err
	}

	summary := records.Summarize(result, top)
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		return printJSON(out, summary)
	case "table":
		printSummaryTable(out, summary, result.Errors)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func readJSONLFile(path string) (*records.ListResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return records.ReadJSONL(f)
}

// openExistingStore opens the record store without creating a new
// database file.
func openExistingStore(dsn string) (*records.Store, error) {
	if _, err := os.Stat(dsn); err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	store, err := records.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return store, nil
}

func readStore(dsn string) (*records.ListResult, error) {
	store, err := openExistingStore(dsn)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	recs, err := store.List()
	if err != nil {
		return nil, err
	}
	return &records.ListResult{Records: recs}, nil
}

// printSummaryTable renders the overview, the top tallies and the first
// few unreadable lines.
func printSummaryTable(out io.Writer, s records.Summary, lineErrors []records.LineError) {
	overview := newTable(out)
	overview.AppendHeader(table.Row{"Metric", "Value"})
	overview.AppendRows([]table.Row{
		{"Records", s.Records},
		{"Unreadable lines", s.Unreadable},
		{"Empty original text", s.EmptyBody},
		{"Without notes", s.EmptyNotes},
		{"Translation lines", s.TranslationLines},
	})
	overview.Render()

	for _, section := range []struct {
		title   string
		tallies []records.Tally
	}{
		{"Author", s.Authors},
		{"Dynasty", s.Eras},
	} {
		if len(section.tallies) == 0 {
			continue
		}

		t := newTable(out)
		t.AppendHeader(table.Row{section.title, "Records"})
		for _, tally := range section.tallies {
			value := tally.Value
			if value == "" {
				value = "(unknown)"
			}
			t.AppendRow(table.Row{value, tally.Count})
		}
		t.Render()
	}

	const maxShown = 5
	if len(lineErrors) > 0 {
		t := newTable(out)
		t.AppendHeader(table.Row{"Line", "Error"})
		for i, lineErr := range lineErrors {
			if i == maxShown {
				t.AppendFooter(table.Row{"", fmt.Sprintf("%d more", len(lineErrors)-maxShown)})
				break
			}
			t.AppendRow(table.Row{lineErr.Line, truncate(lineErr.Err.Error(), 60)})
		}
		t.Render()
	}
}
