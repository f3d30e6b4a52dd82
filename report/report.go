// Package report turns finished runs into files: indented JSON documents,
// per-epoch CSV histories and PNG evolution charts.
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/destake/go-destake/destake"
	"github.com/destake/go-destake/sim"
)

// RunDocument is the JSON form of a single simulation run.
type RunDocument struct {
	Scenario    string         `json:"scenario,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	Params      destake.Params `json:"params"`
	InitialGini float64        `json:"initialGini"`
	Start       sim.Snapshot   `json:"start"`
	Final       sim.Snapshot   `json:"final"`
	History     *sim.Result    `json:"history,omitempty"`
}

// NewRunDocument builds the document for one run. The full histories are
// embedded only when withHistory is set; the start/final snapshots always
// are.
func NewRunDocument(scenario string, p destake.Params, r *sim.Result, withHistory bool) *RunDocument {
	doc := &RunDocument{
		Scenario:    scenario,
		CreatedAt:   time.Now().UTC(),
		Params:      p,
		InitialGini: r.InitialGini,
		Final:       r.Final(),
	}
	if r.Len() > 0 {
		doc.Start = r.At(0)
	}
	if withHistory {
		doc.History = r
	}
	return doc
}

// WriteJSON writes v as indented JSON, creating parent directories as
// needed.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// WriteHistoryCSV writes the per-epoch histories of a run as
// epoch,gini,nakamoto,hhi,peers rows.
func WriteHistoryCSV(path string, r *sim.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"epoch", "gini", "nakamoto", "hhi", "peers"}); err != nil {
		return err
	}
	for i := 0; i < r.Len(); i++ {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(r.Gini[i], 'g', -1, 64),
			strconv.Itoa(r.Nakamoto[i]),
			strconv.FormatFloat(r.HHI[i], 'g', -1, 64),
			strconv.Itoa(r.PeerCount[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
