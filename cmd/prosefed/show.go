package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pevans/prosefed/records"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <original_id>",
	Short: "Shows a stored record by its source document id.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().String("format", "text", "Output format: text or json")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	store, err := openExistingStore(settings.StoreDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(args[0])
	if errors.Is(err, records.ErrRecordNotFound) {
		return fmt.Errorf("record %s not found in %s", args[0], settings.StoreDSN)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return printJSON(out, rec)
	case "text":
		printRecord(out, rec)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func printRecord(out io.Writer, rec *records.Record) {
	fmt.Fprintf(out, "%s\n", rec.Title)
	fmt.Fprintf(out, "  %s | %s\n", orUnknown(rec.Era), orUnknown(rec.Author))
	fmt.Fprintf(out, "  Original ID: %s | Translation ID: %d\n", rec.SourceDocumentID, rec.TranslationID)
	fmt.Fprintf(out, "  URL: %s\n\n", rec.SourceURL)

	if rec.BodyText != "" {
		fmt.Fprintf(out, "%s\n\n", rec.BodyText)
	}

	fmt.Fprintln(out, "Translation:")
	for _, line := range rec.TranslationLines {
		fmt.Fprintf(out, "  %s\n", line)
	}

	if len(rec.AnnotationLines) > 0 {
		fmt.Fprintln(out, "\nNotes:")
		fmt.Fprintf(out, "  %s\n", strings.Join(rec.AnnotationLines, "\n  "))
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
