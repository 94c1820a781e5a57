package result

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Record is the flat export form of a StatusResult.
type Record struct {
	Link     string        `json:"link" csv:"link"`
	Status   string        `json:"status" csv:"status"`
	Code     int           `json:"status_code,omitempty" csv:"-"`
	Category ErrorCategory `json:"category" csv:"category"`
	Error    string        `json:"error,omitempty" csv:"error"`
}

// Records converts results to export records, preserving order.
func Records(results []StatusResult) []Record {
	records := make([]Record, 0, len(results))
	for _, res := range results {
		records = append(records, Record{
			Link:     res.Link,
			Status:   res.Status.String(),
			Code:     res.Status.Code,
			Category: CategoryOf(res.Status),
			Error:    res.Status.Err,
		})
	}
	return records
}

// WriteJSON writes the results as a formatted JSON array to the writer.
func WriteJSON(w io.Writer, results []StatusResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(results)); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the results as CSV to the writer.
// The header row is always written, even when there are no results.
func WriteCSV(w io.Writer, results []StatusResult) error {
	records := Records(results)
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("write csv output: %w", err)
	}
	return nil
}
