package chainscan

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// csvDateLayout is the day-month-year prefix of snapshot file names.
const csvDateLayout = "02012006"

// WriteCSV persists the snapshot as <ddmmyyyy>_<network>.csv under dir and
// returns the written path.
func (s *Snapshot) WriteCSV(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", s.Taken.Format(csvDateLayout), s.Network))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"address", "tokens"}); err != nil {
		return "", err
	}
	for _, v := range s.Validators {
		if err := w.Write([]string{v.Address, strconv.FormatFloat(v.Tokens, 'g', -1, 64)}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

// ReadCSV loads a snapshot written by WriteCSV. The network name and the
// day it was taken come from the file name.
func ReadCSV(path string) (*Snapshot, error) {
	taken, network, err := parseSnapshotName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || records[0][0] != "address" {
		return nil, fmt.Errorf("%s: missing address,tokens header", path)
	}

	validators := make([]Validator, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 2 {
			return nil, fmt.Errorf("%s: short row %d", path, i+2)
		}
		tokens, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+2, err)
		}
		validators = append(validators, Validator{Address: rec[0], Tokens: tokens})
	}
	return &Snapshot{Network: network, Taken: taken, Validators: validators}, nil
}

// parseSnapshotName splits a <ddmmyyyy>_<network>.csv file name.
func parseSnapshotName(path string) (time.Time, string, error) {
	base := strings.TrimSuffix(filepath.Base(path), ".csv")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("%s: want <ddmmyyyy>_<network>.csv", path)
	}
	taken, err := time.Parse(csvDateLayout, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return taken, parts[1], nil
}
