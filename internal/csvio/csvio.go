// Package csvio reads and writes the batch CSV tables. Input rows carry the
// raw product columns; output rows repeat them and append the refined
// content columns plus a violations column.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

// Input column names.
const (
	ColBrand              = "brand"
	ColProductType        = "product_type"
	ColAttributes         = "attributes"
	ColCurrentDescription = "current_description"
	ColCurrentBullets     = "current_bullets"
)

// Output column names appended to the input columns.
var outputColumns = []string{
	"refined_title",
	"refined_bullets",
	"refined_description",
	"meta_title",
	"meta_description",
	"violations",
}

// Row is one input row: the parsed facts plus the original raw cells, which
// are echoed into the output file.
type Row struct {
	Facts *model.ProductFacts
	Raw   []string
}

// Table is a loaded batch input file.
type Table struct {
	Header []string
	Rows   []Row
}

// Load reads a batch input CSV. The brand and product_type columns are
// required in the header; attribute and bullet cells are tolerant of
// malformed content (kept as opaque values rather than failing the row).
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{ColBrand, ColProductType} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	table := &Table{Header: header}
	for _, record := range records[1:] {
		facts := &model.ProductFacts{
			Brand:              cell(record, ColBrand),
			ProductType:        cell(record, ColProductType),
			Attributes:         model.ParseAttributes(cell(record, ColAttributes)),
			CurrentDescription: cell(record, ColCurrentDescription),
			CurrentBullets:     model.ParseBullets(cell(record, ColCurrentBullets)),
		}

		// Pad short records so raw cells line up with the header on output.
		raw := append([]string(nil), record...)
		for len(raw) < len(header) {
			raw = append(raw, "")
		}

		table.Rows = append(table.Rows, Row{Facts: facts, Raw: raw[:len(header)]})
	}

	return table, nil
}

// Save writes the refined batch: every input row's original columns followed
// by the refined content. A row whose refinement never produced a result
// (rowErr set) gets empty content columns and the error in the violations
// column, so one bad row never hides the rest of the batch.
func Save(path string, table *Table, results []*refine.RefineResult, rowErrs []error) error {
	if len(results) != len(table.Rows) || len(rowErrs) != len(table.Rows) {
		return fmt.Errorf("results/errors length mismatch: %d rows, %d results, %d errors",
			len(table.Rows), len(results), len(rowErrs))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	header := append(append([]string(nil), table.Header...), outputColumns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range table.Rows {
		record := append([]string(nil), row.Raw...)
		record = append(record, outputCells(results[i], rowErrs[i])...)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}

func outputCells(result *refine.RefineResult, rowErr error) []string {
	if rowErr != nil {
		return []string{"", "", "", "", "", rowErr.Error()}
	}
	if result == nil || result.Bundle == nil {
		return []string{"", "", "", "", "", "no result"}
	}
	return []string{
		result.Bundle.Title,
		result.Bundle.BulletsHTML(),
		result.Bundle.Description,
		result.Bundle.MetaTitle,
		result.Bundle.MetaDescription,
		model.RenderViolations(result.Violations),
	}
}
