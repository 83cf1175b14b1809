package output

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/law-makers/bizscrape/pkg/models"
)

// CSV renders one row per record with a header row of field names
func CSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"id"}
	for _, f := range (&models.Record{}).Fields() {
		headers = append(headers, f.Name)
	}
	headers = append(headers, "scraped_at")
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, e := range entries {
		row := []string{e.Record.ID}
		for _, f := range e.Record.Fields() {
			row = append(row, f.Value)
		}
		scraped := ""
		if !e.Record.ScrapedAt.IsZero() {
			scraped = e.Record.ScrapedAt.Format(time.RFC3339)
		}
		row = append(row, scraped)
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}
