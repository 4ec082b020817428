package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Feedback"

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps a query value to a format. csv is the default; any other
// unrecognised value falls back to JSON.
func ParseFormat(value string) Format {
	switch Format(strings.ToLower(value)) {
	case "", FormatCSV:
		return FormatCSV
	case FormatXLSX:
		return FormatXLSX
	}
	return FormatJSON
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Filename builds the attachment name, e.g. feedback_<id>.csv.
func (f Format) Filename(prefix, id string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, id, f)
}

// Write renders the table in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// WriteCSV quotes every cell, doubles embedded quotes and separates rows
// with a bare newline.
func WriteCSV(w io.Writer, t Table) error {
	var sb strings.Builder
	for i, record := range t.Records() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, cell := range record {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			sb.WriteByte('"')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteJSON encodes the table as an array of rows, header first.
func WriteJSON(w io.Writer, t Table) error {
	encoded, err := json.Marshal(t.Records())
	if err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}

func WriteXLSX(w io.Writer, t Table) error {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for i, record := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(record))
		for j, value := range record {
			row[j] = value
		}
		if err := file.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	if len(t.Header) > 0 {
		style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := file.SetCellStyle(sheetName, "A1", last, style); err != nil {
			return err
		}
	}

	return file.Write(w)
}
