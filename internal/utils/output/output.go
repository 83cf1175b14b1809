// Package output exports business records as JSON, CSV or Markdown.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/bizscrape/pkg/models"
)

// Entry is one record to export, with the main-content markup of its page
// when it was scraped in this run
type Entry struct {
	Record      *models.Record
	ContentHTML string
}

// Entries wraps stored records that have no markup
func Entries(records []*models.Record) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{Record: r}
	}
	return entries
}

// Save writes entries to path in the format named by its extension
func Save(path string, entries []Entry) error {
	var (
		content []byte
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		content, err = JSON(entries)
	case ".csv":
		content, err = CSV(entries)
	case ".md", ".markdown":
		content, err = Markdown(entries)
	default:
		return fmt.Errorf("unsupported output format %q (use .json, .csv or .md)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}
