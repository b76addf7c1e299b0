package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pevans/prosefed/config"
	"github.com/pevans/prosefed/records"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: isolate HOME and clear prosefed environment variables
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"PROSEFED_START_ID", "PROSEFED_END_ID", "PROSEFED_RESPECT_ROBOTS",
		"PROSEFED_OUTPUT", "PROSEFED_STORE_TYPE", "PROSEFED_STORE_DSN",
		"PROSEFED_LOG_LEVEL", "PROSEFED_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

// Test helper: create a command carrying the root persistent flags
func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("log-format", "", "")
	cmd.Flags().String("store-dsn", "", "")
	return cmd
}

// Test helper: create a sample record
func sampleRecord(translationID int, sourceID, author string) records.Record {
	return records.Record{
		TranslationID:    translationID,
		SourceDocumentID: sourceID,
		Title:            "靜夜思",
		Era:              "唐代",
		Author:           author,
		BodyText:         "床前明月光",
		TranslationLines: []string{"明亮的月光"},
		AnnotationLines:  []string{},
		SourceURL:        "https://example.com/t/1",
	}
}

// TestLoadSettings_Precedence verifies flags beat env, env beats the file
func TestLoadSettings_Precedence(t *testing.T) {
	isolateEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`log:
  level: error
  format: json
output:
  path: file.jsonl
`), 0o600))
	t.Setenv("PROSEFED_LOG_LEVEL", "warn")

	cmd := newTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", configPath, "--log-level", "debug"}))

	settings, err := loadSettings(cmd, func(s *config.Settings) error {
		s.EndID = 10
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", settings.LogLevel, "flag should win over env")
	assert.Equal(t, config.LogFormatJSON, settings.LogFormat, "file should win over default")
	assert.Equal(t, "file.jsonl", settings.OutputPath)
	assert.Equal(t, 10, settings.EndID)
}

// TestLoadSettings_Invalid verifies validation errors surface
func TestLoadSettings_Invalid(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PROSEFED_STORE_TYPE", "mongo")

	_, err := loadSettings(newTestCommand(), nil)

	assert.ErrorIs(t, err, config.ErrInvalidStoreType)
}

// TestNewLogger verifies level and formatter selection
func TestNewLogger(t *testing.T) {
	settings := config.Defaults()
	settings.LogLevel = "warn"
	settings.LogFormat = config.LogFormatJSON

	var buf bytes.Buffer
	logger, err := newLogger(settings, &buf)
	require.NoError(t, err)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger.WithField("id", 3).Warn("skipped page")
	assert.Contains(t, buf.String(), `"id":3`)

	settings.LogLevel = "loud"
	_, err = newLogger(settings, &buf)
	assert.Error(t, err)
}

// TestTruncate verifies rune-aware shortening
func TestTruncate(t *testing.T) {
	assert.Equal(t, "床前明月光", truncate("床前明月光", 5))
	assert.Equal(t, "床前...", truncate("床前明月光疑", 5))
	assert.Equal(t, "床前", truncate("床前明月光", 2))
}

// TestInspect_JSONL verifies the inspect command summarizes an output file
func TestInspect_JSONL(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "out.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := records.NewJSONLWriter(f)
	require.NoError(t, w.Write(sampleRecord(1, "1", "李白")))
	require.NoError(t, w.Write(sampleRecord(2, "2", "李白")))
	require.NoError(t, w.Write(sampleRecord(3, "3", "杜甫")))
	_, err = f.WriteString("{broken\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"inspect", path, "--format", "json", "--top", "1"})
	require.NoError(t, rootCmd.Execute())

	var summary records.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, 1, summary.Unreadable)
	assert.Equal(t, []records.Tally{{Value: "李白", Count: 2}}, summary.Authors)
}

// TestPrintSummaryTable verifies the rendered tables
func TestPrintSummaryTable(t *testing.T) {
	result := &records.ListResult{
		Records: []records.Record{sampleRecord(1, "1", "李白"), sampleRecord(2, "2", "")},
	}

	var out bytes.Buffer
	printSummaryTable(&out, records.Summarize(result, 10), nil)

	rendered := out.String()
	assert.Contains(t, rendered, "Records")
	assert.Contains(t, rendered, "李白")
	assert.Contains(t, rendered, "(unknown)")
	assert.Contains(t, rendered, "唐代")
}

// TestShow_FromStore verifies a stored record is printed
func TestShow_FromStore(t *testing.T) {
	isolateEnv(t)

	dsn := filepath.Join(t.TempDir(), "records.db")
	store, err := records.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, store.Write(sampleRecord(7, "4021", "李白")))
	require.NoError(t, store.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"show", "4021", "--store-dsn", dsn})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "靜夜思")
	assert.Contains(t, out.String(), "唐代 | 李白")
	assert.Contains(t, out.String(), "Translation ID: 7")
	assert.Contains(t, out.String(), "明亮的月光")
}
