// Package equityfile reads and writes the consolidated district equity
// CSV. The file is keyed by columns state, district, DEI, AHS, UBS, SRS;
// the AHS column is still named ASS in older exports and both spellings
// are accepted on load.
package equityfile

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// columns maps each record field to its index in the header row.
type columns struct {
	state    int
	district int
	dei      int
	ahs      int
	ubs      int
	srs      int
}

func parseHeader(header []string) (columns, error) {
	cols := columns{state: -1, district: -1, dei: -1, ahs: -1, ubs: -1, srs: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "state":
			cols.state = i
		case "district":
			cols.district = i
		case "dei":
			cols.dei = i
		case "ahs", "ass": // legacy column name
			cols.ahs = i
		case "ubs":
			cols.ubs = i
		case "srs":
			cols.srs = i
		}
	}

	missing := func(idx int, name string) error {
		if idx < 0 {
			return eris.Errorf("equityfile: missing column %q", name)
		}
		return nil
	}
	for _, c := range []struct {
		idx  int
		name string
	}{
		{cols.state, "state"},
		{cols.district, "district"},
		{cols.dei, "DEI"},
		{cols.ahs, "AHS"},
		{cols.ubs, "UBS"},
		{cols.srs, "SRS"},
	} {
		if err := missing(c.idx, c.name); err != nil {
			return columns{}, err
		}
	}
	return cols, nil
}

// Load reads the district equity CSV at path.
func Load(path string) ([]model.DistrictRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "equityfile: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	records, err := Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "equityfile: read %s", path)
	}

	zap.L().Info("equityfile: loaded dataset",
		zap.String("path", path),
		zap.Int("districts", len(records)),
	)
	return records, nil
}

// Read parses district records from CSV data.
func Read(r io.Reader) ([]model.DistrictRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "equityfile: read header")
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var records []model.DistrictRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "equityfile: read row %d", line)
		}
		line++

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, eris.Wrapf(err, "equityfile: row %d", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, cols columns) (model.DistrictRecord, error) {
	get := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	score := func(idx int, name string) (float64, error) {
		v, err := strconv.ParseFloat(get(idx), 64)
		if err != nil {
			return 0, eris.Wrapf(err, "parse %s", name)
		}
		return v, nil
	}

	rec := model.DistrictRecord{
		State:    get(cols.state),
		District: get(cols.district),
	}
	var err error
	if rec.DEI, err = score(cols.dei, "DEI"); err != nil {
		return model.DistrictRecord{}, err
	}
	if rec.AHS, err = score(cols.ahs, "AHS"); err != nil {
		return model.DistrictRecord{}, err
	}
	if rec.UBS, err = score(cols.ubs, "UBS"); err != nil {
		return model.DistrictRecord{}, err
	}
	if rec.SRS, err = score(cols.srs, "SRS"); err != nil {
		return model.DistrictRecord{}, err
	}
	return rec, nil
}

// Save writes records to path as CSV with the canonical header.
func Save(path string, records []model.DistrictRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "equityfile: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := Write(f, records); err != nil {
		return eris.Wrapf(err, "equityfile: write %s", path)
	}
	return nil
}

// Write emits records as CSV with the canonical AHS header.
func Write(w io.Writer, records []model.DistrictRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"state", "district", "DEI", "AHS", "UBS", "SRS"}); err != nil {
		return eris.Wrap(err, "write header")
	}
	for _, r := range records {
		row := []string{
			r.State,
			r.District,
			formatScore(r.DEI),
			formatScore(r.AHS),
			formatScore(r.UBS),
			formatScore(r.SRS),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "write row for %s/%s", r.State, r.District)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "flush")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Merge folds incoming state rows into the master set. Existing rows of
// any state present in incoming are dropped first, so re-importing the
// same state file is idempotent. The result is sorted by state, then
// district.
func Merge(master, incoming []model.DistrictRecord) []model.DistrictRecord {
	replaced := make(map[string]bool)
	for _, r := range incoming {
		replaced[r.State] = true
	}

	merged := make([]model.DistrictRecord, 0, len(master)+len(incoming))
	for _, r := range master {
		if !replaced[r.State] {
			merged = append(merged, r)
		}
	}
	merged = append(merged, incoming...)

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].State != merged[j].State {
			return merged[i].State < merged[j].State
		}
		return merged[i].District < merged[j].District
	})
	return merged
}
