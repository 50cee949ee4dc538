package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
)

// outputPath derives a sibling file: data/in.csv, "confidence" gives
// data/in_confidence.csv.
func outputPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_" + suffix + ".csv"
}

// readIDColumn returns column col of a header-less CSV file. Rows too
// short for the column yield an empty id.
func readIDColumn(path string, col int) ([]string, error) {
	if col < 0 {
		return nil, fmt.Errorf("column index %d: %w", col, internalerr.ErrInvalidInput)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		id := ""
		if col < len(rec) {
			id = strings.TrimSpace(rec[col])
		}
		out = append(out, id)
	}
	return out, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// readLabeled reads a dataset with "id" and "label" columns.
func readLabeled(path string) ([]cazy.Labeled, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	idCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "id":
			idCol = i
		case "label":
			labelCol = i
		}
	}
	if idCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("%s needs id and label columns: %w", path, internalerr.ErrInvalidInput)
	}

	var out []cazy.Labeled
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		label, err := strconv.Atoi(strings.TrimSpace(rec[labelCol]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: label %q: %w", path, line, rec[labelCol], internalerr.ErrInvalidInput)
		}
		out = append(out, cazy.Labeled{ID: strings.TrimSpace(rec[idCol]), Label: label})
	}
	return out, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeResultTable writes the id,pmcid,%confidence table.
func writeResultTable(path string, table ids.ResultTable) error {
	rows := make([][]string, len(table))
	for i, row := range table {
		rows[i] = []string{row.ID, row.PMCID, row.Confidence.String()}
	}
	return writeCSV(path, []string{"id", "pmcid", "%confidence"}, rows)
}

// writeFound writes the id,<TYPE> table of the find command.
func writeFound(path string, target ids.IDType, found []ids.Found) error {
	rows := make([][]string, len(found))
	for i, f := range found {
		rows[i] = []string{f.ID, f.Value}
	}
	return writeCSV(path, []string{"id", target.String()}, rows)
}
