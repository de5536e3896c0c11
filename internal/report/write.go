package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/errors"
)

// Format is an output format of the report file.
type Format string

// Report file formats.
const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "md"
)

// ParseFormat parses a report format, empty means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, FormatMarkdown:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: csv, xlsx, md")
	}
}

// FileName returns the report file name in dir for a format.
func FileName(dir string, format Format) string {
	return filepath.Join(dir, constants.DuplicatesFileName+"."+string(format))
}

// WriteCSV writes the flat report as CSV.
func WriteCSV(w io.Writer, d *Duplicates) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(d.Rows()); err != nil {
		return err
	}
	return cw.Error()
}

// sheet is the worksheet of a new excelize workbook.
const sheet = "Sheet1"

// WriteXLSX writes the flat report to a workbook at path.
func WriteXLSX(path string, d *Duplicates) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := setRow(f, 1, d.Header()); err != nil {
		return err
	}
	for i, row := range d.Rows() {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return errors.WrapIO("write", path, f.SaveAs(path))
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

// WriteMarkdown writes a summary per club followed by the identity table.
func WriteMarkdown(w io.Writer, d *Duplicates) error {
	counts := d.CountByClub()
	summary := make([][]string, 0, len(d.Clubs))
	for _, key := range d.Clubs {
		summary = append(summary, []string{key, fmt.Sprint(counts[key])})
	}

	identities := make([][]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		row := []string{e.Email}
		for _, key := range d.Clubs {
			row = append(row, e.Clubs[key].TypeOfMember)
		}
		identities = append(identities, row)
	}

	return md.NewMarkdown(w).
		H1("Identities in more than one club").
		PlainTextf("%d identities", len(d.Entries)).
		LF().
		H2("Identities per club").
		Table(md.TableSet{Header: []string{"Club", "Identities"}, Rows: summary}).
		H2("typeOfMember per club").
		Table(md.TableSet{Header: append([]string{"Email"}, d.Clubs...), Rows: identities}).
		Build()
}
