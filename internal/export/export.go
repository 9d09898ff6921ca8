package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MaudeOps/dredge/internal/serp"
)

// Supported output format names.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXML  = "xml"
)

var writers = map[string]struct {
	ext   string
	write func(io.Writer, []*serp.PageRecord) error
}{
	FormatJSON: {".json", WriteJSON},
	FormatCSV:  {".csv", WriteCSV},
	FormatXML:  {".xml", WriteXML},
}

// All writes the records to outputDir in every requested format, as
// <baseName>.<ext>. Unknown formats are logged and skipped; a failing
// format aborts the export.
func All(records []*serp.PageRecord, outputDir, baseName string, formats []string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, format := range formats {
		w, ok := writers[format]
		if !ok {
			logger.Warn("unknown output format ignored", "format", format)
			continue
		}

		path := filepath.Join(outputDir, baseName+w.ext)
		if err := writeFile(path, records, w.write); err != nil {
			return err
		}
		logger.Info("wrote output", "format", format, "path", path)
	}

	return nil
}

func writeFile(path string, records []*serp.PageRecord, write func(io.Writer, []*serp.PageRecord) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
