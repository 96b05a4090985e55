package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV flattens a document to its fixed column schema. Notes are not
// part of the schema; CSV consumers pivot on the numeric columns.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	headers := make([]string, 0, len(doc.Columns))
	for _, col := range doc.Columns {
		headers = append(headers, col.Header)
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range doc.Rows {
		record := make([]string, len(doc.Columns))
		copy(record, row.Cells)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
