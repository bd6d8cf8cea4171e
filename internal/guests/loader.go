package guests

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Data directory file names. The main list is required, the extra list is
// optional.
const (
	MainFile  = "guests.csv"
	ExtraFile = "guests_extra.csv"
)

// ErrNoGuestList is returned when the data directory has no guest list.
var ErrNoGuestList = errors.New("no guest list found")

// LoadGuestsFromDataDir loads the guest lists in dataDir, main list first.
func LoadGuestsFromDataDir(dataDir string) ([]Guest, error) {
	main := filepath.Join(dataDir, MainFile)
	if _, err := os.Stat(main); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrNoGuestList, dataDir, err)
	}
	all, err := loadFile(main)
	if err != nil {
		return nil, err
	}
	extra := filepath.Join(dataDir, ExtraFile)
	if _, err := os.Stat(extra); err == nil {
		gs, err := loadFile(extra)
		if err != nil {
			return nil, err
		}
		all = append(all, gs...)
	}
	return all, nil
}

func loadFile(path string) ([]Guest, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	gs, err := ReadCSV(fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	src := filepath.Base(path)
	for i := range gs {
		gs[i].Source = src
	}
	return gs, nil
}

// ReadCSV parses a guest list. The header row names the columns; name,
// batch, phone and ticket_code are recognised in any order and case, other
// columns are ignored. Blank rows are skipped.
func ReadCSV(r io.Reader) ([]Guest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, errors.New("csv has no header")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[h] = i
	}
	if _, ok := cols["ticket_code"]; !ok {
		return nil, errors.New("csv header has no ticket_code column")
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Guest{}
	for _, row := range rows[1:] {
		g := Guest{
			Name:       get(row, "name"),
			Batch:      get(row, "batch"),
			Phone:      get(row, "phone"),
			TicketCode: get(row, "ticket_code"),
		}
		if g == (Guest{}) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
