// Package excel writes the analysis report as an xlsx workbook, one sheet
// per statistics section.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"crankview/domain/stats"
	"crankview/ports"
)

const (
	sheetPairwise = "Pairwise"
	sheetRanges   = "Angle Ranges"
	sheetBar      = "Bar"
)

// ReportWriter implements ports.ReportExporter on top of excelize.
type ReportWriter struct{}

func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// ExportReport writes the report sections that are present. An empty report
// still produces a valid workbook with header rows.
func (w *ReportWriter) ExportReport(ctx context.Context, path string, report ports.StatsReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writePairwiseSheet(f, report); err != nil {
		return err
	}
	if err := w.writeRangesSheet(f, report.Ranges); err != nil {
		return err
	}
	if err := w.writeBarSheet(f, report.Bar); err != nil {
		return err
	}

	// excelize seeds the workbook with "Sheet1"; drop it once real sheets
	// exist.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetPairwise); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report workbook: %w", err)
	}
	return nil
}

func (w *ReportWriter) writePairwiseSheet(f *excelize.File, report ports.StatsReport) error {
	if _, err := f.NewSheet(sheetPairwise); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Metric", report.MetricColumn, "Aggregation", report.AggLabel},
		{"Dataset A", "Dataset B", "N", "r", "p-value", "Verdict"},
	}
	if report.Global != nil {
		for _, p := range report.Global.Pairs {
			rows = append(rows, pairRow(p))
		}
		rows = appendErrorRows(rows, report.Global.Errors)
	}
	return writeRows(f, sheetPairwise, rows)
}

func (w *ReportWriter) writeRangesSheet(f *excelize.File, ranges *stats.RadarCartesianStats) error {
	if _, err := f.NewSheet(sheetRanges); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Range", "Start (deg)", "End (deg)", "Dataset A", "Dataset B", "N", "r", "p-value", "Verdict"},
	}
	if ranges != nil {
		for _, rng := range ranges.Ranges {
			for _, p := range rng.Pairs {
				rows = append(rows, append([]interface{}{rng.Index, rng.StartDeg, rng.EndDeg}, pairRow(p)...))
			}
		}
		rows = appendErrorRows(rows, ranges.Errors)
	}
	return writeRows(f, sheetRanges, rows)
}

func (w *ReportWriter) writeBarSheet(f *excelize.File, bar *stats.BarStats) error {
	if _, err := f.NewSheet(sheetBar); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Dataset", "Center", "Q25", "Q75"},
	}
	if bar != nil {
		for _, wk := range bar.Whiskers {
			row := []interface{}{wk.Label, wk.Center}
			if wk.HasWhisker {
				row = append(row, wk.Low, wk.High)
			}
			rows = append(rows, row)
		}
		if len(bar.Pairs) > 0 {
			rows = append(rows, []interface{}{})
			rows = append(rows, []interface{}{"Dataset A", "Dataset B", "N", "r", "p-value", "Verdict"})
			for _, p := range bar.Pairs {
				rows = append(rows, pairRow(p))
			}
		}
		rows = appendErrorRows(rows, bar.Errors)
	}
	return writeRows(f, sheetBar, rows)
}

func pairRow(p stats.PairwiseStat) []interface{} {
	return []interface{}{p.DatasetA, p.DatasetB, p.N, p.CorrR, p.PValue, p.Summary}
}

func appendErrorRows(rows [][]interface{}, errs []string) [][]interface{} {
	if len(errs) == 0 {
		return rows
	}
	rows = append(rows, []interface{}{})
	for _, e := range errs {
		rows = append(rows, []interface{}{"Error", e})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
