package output

import (
	"encoding/json"

	"github.com/law-makers/bizscrape/pkg/models"
)

// JSON renders the records as an indented JSON array
func JSON(entries []Entry) ([]byte, error) {
	records := make([]*models.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record)
	}
	return json.MarshalIndent(records, "", "  ")
}
