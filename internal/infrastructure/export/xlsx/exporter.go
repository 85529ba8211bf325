package xlsx

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

const (
	projectsSheet = "Projects"
	summarySheet  = "Summary"
)

var projectHeader = []any{"Title", "Category", "Location", "Source"}

// Exporter renders the catalog snapshot as an XLSX workbook.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(ctx context.Context, w io.Writer, projects []domain.ProjectRecord) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", projectsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeRow(f, projectsSheet, 1, projectHeader); err != nil {
		return err
	}
	for i, p := range projects {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := writeRow(f, projectsSheet, i+2, []any{p.Title, p.Category, p.Location, p.SourceID}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(projectsSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(projectsSheet, "A", "D", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, domain.SummarizeProjects(projects), bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, summary domain.CatalogSummary, headerStyle int) error {
	row := 1
	if err := writeRow(f, summarySheet, row, []any{"Total projects", summary.Total}); err != nil {
		return err
	}
	row += 2

	sections := []struct {
		title  string
		counts map[string]int
	}{
		{title: "Category", counts: summary.ByCategory},
		{title: "Location", counts: summary.ByLocation},
	}
	for _, section := range sections {
		header, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		if err := writeRow(f, summarySheet, row, []any{section.title, "Projects"}); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, header, header, headerStyle); err != nil {
			return fmt.Errorf("style summary header: %w", err)
		}
		row++
		for _, name := range sortedKeys(section.counts) {
			if err := writeRow(f, summarySheet, row, []any{name, section.counts[name]}); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d cell: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
