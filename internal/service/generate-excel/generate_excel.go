package generate_excel

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"casting-tracker/internal/service/report"
	"casting-tracker/internal/storage"
)

const (
	SummarySheet = "Summary"
	RecordsSheet = "Records"

	timeLayout = "2006-01-02 15:04:05"
)

type ReportSource interface {
	TimeReport(ctx context.Context, f storage.ProductionFilter) (*report.TimeReport, error)
}

type GenerateExcelService struct {
	source ReportSource
}

func NewGenerateService(source ReportSource) *GenerateExcelService {
	return &GenerateExcelService{source: source}
}

var (
	summaryHeaders = []string{"Piece", "Service", "Operator", "Count", "Total", "Average", "Min", "Max"}
	recordHeaders  = []string{"Piece", "Service", "Operator", "Started at", "Finished at", "Elapsed (s)", "Elapsed"}
)

// GenerateExcel renders the time report for the filter as an XLSX workbook.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter storage.ProductionFilter) ([]byte, error) {
	rep, err := g.source.TimeReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(RecordsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for _, sh := range []struct {
		name    string
		headers []string
	}{{SummarySheet, summaryHeaders}, {RecordsSheet, recordHeaders}} {
		if err := writeHeader(f, sh.name, sh.headers, headerStyle); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, p := range rep.Summary {
		setRow(f, SummarySheet, row, p.PieceName, p.ServiceName, "", p.Count,
			p.TotalFormatted, p.AvgFormatted, p.MinFormatted, p.MaxFormatted)
		row++
		for _, o := range p.Operators {
			setRow(f, SummarySheet, row, "", "", o.OperatorName, o.Count, "", o.AvgFormatted, "", "")
			row++
		}
	}

	for i, r := range rep.Detailed {
		setRow(f, RecordsSheet, i+2, r.PieceName, r.ServiceName, r.OperatorName,
			formatTime(r.StartedAt), formatTime(r.FinishedAt), r.ElapsedSeconds, r.ElapsedFormatted)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", last, 18)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		f.SetCellValue(sheet, cellName(i+1, row), v)
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
