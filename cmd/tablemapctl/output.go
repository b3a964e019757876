package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/user/tablemap/pkg/rowset"
)

func writeTable(w io.Writer, t *rowset.Table, format string) error {
	switch format {
	case "json":
		return writeJSON(w, t)
	case "csv":
		return writeCSV(w, t)
	case "table", "":
		return writeAligned(w, t)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeAligned(w io.Writer, t *rowset.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i := 0; i < t.NumColumns(); i++ {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, t.Column(i).Name())
	}
	fmt.Fprintln(tw)

	for r := 0; r < t.NumRows(); r++ {
		row := t.Row(r)
		for i := 0; i < t.NumColumns(); i++ {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(row.Value(i), "NULL"))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d rows)\n", t.NumRows())
	return err
}

func writeCSV(w io.Writer, t *rowset.Table) error {
	cw := csv.NewWriter(w)
	header := make([]string, t.NumColumns())
	for i := range header {
		header[i] = t.Column(i).Name()
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, t.NumColumns())
	for r := 0; r < t.NumRows(); r++ {
		row := t.Row(r)
		for i := range record {
			record[i] = formatCell(row.Value(i), "")
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, t *rowset.Table) error {
	records := make([]map[string]any, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		row := t.Row(r)
		record := make(map[string]any, t.NumColumns())
		for i := 0; i < t.NumColumns(); i++ {
			record[t.Column(i).Name()] = row.Value(i)
		}
		records = append(records, record)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatCell(v any, null string) string {
	switch t := v.(type) {
	case nil:
		return null
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
