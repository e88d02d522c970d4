package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/classify"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

var xlsxHeader = []string{"District", "DEI", "Access", "Update Load", "Stability", "Status"}

// WriteXLSX writes a score workbook to path with one sheet per state,
// each sorted by DEI descending. Sheet order follows the states slice.
func WriteXLSX(path string, states []string, groups map[string][]model.DistrictRecord) error {
	f := xlsx.NewFile()

	for _, state := range states {
		records := groups[state]
		if len(records) == 0 {
			continue
		}
		if err := addStateSheet(f, state, records); err != nil {
			return err
		}
	}

	if len(f.Sheets) == 0 {
		return eris.New("xlsx: no districts to export")
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func addStateSheet(f *xlsx.File, state string, records []model.DistrictRecord) error {
	// Sheet names are capped at 31 chars by the format.
	name := state
	if len(name) > 31 {
		name = name[:31]
	}
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", state)
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, rec := range aggregate.SortByDEI(records, false) {
		row := sheet.AddRow()
		row.AddCell().SetString(model.DisplayName(rec.District))
		row.AddCell().SetFloatWithFormat(rec.DEI, "0.000")
		row.AddCell().SetFloatWithFormat(rec.AHS, "0.000")
		row.AddCell().SetFloatWithFormat(rec.UBS, "0.000")
		row.AddCell().SetFloatWithFormat(rec.SRS, "0.000")
		row.AddCell().SetString(string(classify.RiskCategory(rec)))
	}
	return nil
}
