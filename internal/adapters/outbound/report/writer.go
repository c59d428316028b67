package report

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/driftcheck/driftcheck/internal/domain"
)

// Writer implements domain.ReportWriter: JSON dumps, XLSX workbooks and a
// ZIP bundle carrying both.
type Writer struct{}

// New creates a Writer.
func New() *Writer { return &Writer{} }

// WriteJSON writes the report as indented JSON, creating parent
// directories as needed.
func (w *Writer) WriteJSON(report *domain.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteExcel writes the report as a two-sheet workbook: "summary" with the
// session verdict, "details" with one row per field result.
func (w *Writer) WriteExcel(report *domain.Report, path string) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// WriteBundle writes a ZIP file containing report.json and report.xlsx.
func (w *Writer) WriteBundle(report *domain.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBundleTo(out, report); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteBundleTo streams the ZIP bundle to an arbitrary writer; the HTTP
// adapter uses this to serve download responses without temp files.
func WriteBundleTo(dst io.Writer, report *domain.Report) error {
	zw := zip.NewWriter(dst)

	jsonEntry, err := zw.Create("report.json")
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if _, err := jsonEntry.Write(data); err != nil {
		return err
	}

	xlsxEntry, err := zw.Create("report.xlsx")
	if err != nil {
		return err
	}
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(xlsxEntry); err != nil {
		return err
	}

	return zw.Close()
}

const (
	summarySheet = "summary"
	detailsSheet = "details"
)

func buildWorkbook(report *domain.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return nil, err
	}

	summaryRows := [][]any{
		{"key", "value"},
		{"total_fields", report.Summary.TotalFields},
		{"matches", report.Summary.Matches},
		{"partials", report.Summary.Partials},
		{"mismatches", report.Summary.Mismatches},
		{"missing", report.Summary.Missing},
		{"mismatch_ratio", report.Meta.MismatchRatio},
		{"likely_wrong_yaml", report.Meta.LikelyWrongYAML},
		{"warnings", strings.Join(report.Meta.Warnings, "; ")},
	}
	for i, row := range summaryRows {
		if err := f.SetSheetRow(summarySheet, cell(i), &row); err != nil {
			return nil, err
		}
	}

	header := []any{"field", "expected", "actual", "found_key", "status", "closest_match", "similarity", "explanation"}
	if err := f.SetSheetRow(detailsSheet, cell(0), &header); err != nil {
		return nil, err
	}
	for i, r := range report.Results {
		row := []any{
			r.Field,
			strings.Join(r.Expected, ", "),
			r.Actual,
			r.FoundKey,
			string(r.Status),
			r.ClosestMatch,
			r.Similarity,
			r.Explanation,
		}
		if err := f.SetSheetRow(detailsSheet, cell(i+1), &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func cell(row int) string {
	return fmt.Sprintf("A%d", row+1)
}
