// Package report serializes analysis record sets for download. Rendering of
// charts stays out of scope; these are plain tabular encodings.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	analysis "chargefit/internal/analysis/domain"
)

// mixDisclaimer labels the greedy fill wherever it is user-facing. The fill
// is an estimate, not a minimum-remainder optimum.
const mixDisclaimer = "Greedy largest-first estimate (not an optimal packing)"

// EvaluationCSV serializes the per-hour capacity evaluation. Floats use the
// shortest exact representation so repeated runs stay byte-identical.
func EvaluationCSV(evaluations []analysis.HourEvaluation) []byte {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{
		"Hour",
		"Max_Power_kW",
		"Capacity_kW",
		"Excess_Power_kW",
		"Level2_Count",
		"Level3_Count",
		"Custom_Load_kW",
		"Total_Load_kW",
		"Exceeds_Capacity",
	})
	for _, row := range evaluations {
		_ = writer.Write([]string{
			strconv.Itoa(row.Hour),
			formatFloat(row.MaxPowerKW),
			formatFloat(row.CapacityKW),
			formatFloat(row.ExcessKW),
			strconv.Itoa(row.Level2Count),
			strconv.Itoa(row.Level3Count),
			formatFloat(row.CustomLoadKW),
			formatFloat(row.TotalLoadKW),
			strconv.FormatBool(row.ExceedsCapacity),
		})
	}
	writer.Flush()
	return buf.Bytes()
}

// MixCSV serializes the per-hour charger mix: one count column per rating,
// then the used and remaining headroom.
func MixCSV(mix analysis.MixResult) []byte {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := make([]string, 0, len(mix.RatingsKW)+3)
	header = append(header, "Hour")
	for _, rating := range mix.RatingsKW {
		header = append(header, ratingColumn(rating))
	}
	header = append(header, "Used_kW", "Remaining_kW")
	_ = writer.Write(header)

	for _, row := range mix.Hours {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(row.Hour))
		for _, count := range row.Counts {
			record = append(record, strconv.Itoa(count))
		}
		record = append(record, formatFloat(row.UsedKW), formatFloat(row.RemainingKW))
		_ = writer.Write(record)
	}
	writer.Flush()
	return buf.Bytes()
}

// BuildWorkbook renders the evaluation, and the mix when present, as an XLSX
// workbook.
func BuildWorkbook(name string, evaluations []analysis.HourEvaluation, mix *analysis.MixResult) ([]byte, error) {
	f := excelize.NewFile()
	evalSheet := "evaluation"
	f.SetSheetName("Sheet1", evalSheet)

	_ = f.SetCellValue(evalSheet, "A1", "Load analysis")
	_ = f.SetCellValue(evalSheet, "B1", name)

	headers := []string{"Hour", "Max_Power_kW", "Capacity_kW", "Excess_Power_kW", "Level2_Count", "Level3_Count", "Custom_Load_kW", "Total_Load_kW", "Exceeds_Capacity"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 3)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(evalSheet, cell, header)
	}
	for i, row := range evaluations {
		line := i + 4
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("A%d", line), row.Hour)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("B%d", line), row.MaxPowerKW)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("C%d", line), row.CapacityKW)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("D%d", line), row.ExcessKW)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("E%d", line), row.Level2Count)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("F%d", line), row.Level3Count)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("G%d", line), row.CustomLoadKW)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("H%d", line), row.TotalLoadKW)
		_ = f.SetCellValue(evalSheet, fmt.Sprintf("I%d", line), row.ExceedsCapacity)
	}

	if mix != nil {
		mixSheet := "mix"
		if _, err := f.NewSheet(mixSheet); err != nil {
			return nil, err
		}
		_ = f.SetCellValue(mixSheet, "A1", mixDisclaimer)
		_ = f.SetCellValue(mixSheet, "A3", "Hour")
		for col, rating := range mix.RatingsKW {
			cell, err := excelize.CoordinatesToCellName(col+2, 3)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(mixSheet, cell, ratingColumn(rating))
		}
		usedCell, err := excelize.CoordinatesToCellName(len(mix.RatingsKW)+2, 3)
		if err != nil {
			return nil, err
		}
		remainingCell, err := excelize.CoordinatesToCellName(len(mix.RatingsKW)+3, 3)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(mixSheet, usedCell, "Used_kW")
		_ = f.SetCellValue(mixSheet, remainingCell, "Remaining_kW")

		for i, row := range mix.Hours {
			line := i + 4
			_ = f.SetCellValue(mixSheet, fmt.Sprintf("A%d", line), row.Hour)
			for col, count := range row.Counts {
				cell, err := excelize.CoordinatesToCellName(col+2, line)
				if err != nil {
					return nil, err
				}
				_ = f.SetCellValue(mixSheet, cell, count)
			}
			cell, err := excelize.CoordinatesToCellName(len(row.Counts)+2, line)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(mixSheet, cell, row.UsedKW)
			cell, err = excelize.CoordinatesToCellName(len(row.Counts)+3, line)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(mixSheet, cell, row.RemainingKW)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildFeasibilityPDF renders the evaluation as a feasibility report.
func BuildFeasibilityPDF(name string, evaluations []analysis.HourEvaluation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "EV Charger Feasibility Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("File: %s", name))
	pdf.Ln(5)

	var peak, capacity float64
	overloaded := false
	for _, row := range evaluations {
		if row.MaxPowerKW > peak {
			peak = row.MaxPowerKW
		}
		capacity = row.CapacityKW
		if row.ExceedsCapacity {
			overloaded = true
		}
	}
	pdf.Cell(0, 6, fmt.Sprintf("Supply capacity (kW): %.1f", capacity))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Peak demand (kW): %.1f", peak))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Excess at peak (kW): %.1f", capacity-peak))
	pdf.Ln(5)
	if overloaded {
		pdf.Cell(0, 6, "Load exceeds site capacity at one or more hours.")
	} else {
		pdf.Cell(0, 6, "Load is within available capacity.")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(14, 6, "Hour", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Max kW", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Capacity kW", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Excess kW", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "L2", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "L3", "1", 0, "C", false, 0, "")
	pdf.CellFormat(26, 6, "Total kW", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Overload", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range evaluations {
		pdf.CellFormat(14, 6, strconv.Itoa(row.Hour), "1", 0, "C", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", row.MaxPowerKW), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", row.CapacityKW), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", row.ExcessKW), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(row.Level2Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, strconv.Itoa(row.Level3Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", row.TotalLoadKW), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, strconv.FormatBool(row.ExceedsCapacity), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ratingColumn(rating float64) string {
	return formatFloat(rating) + "kW_Count"
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
