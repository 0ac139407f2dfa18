package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const fileName = "processing_history.json"

// ErrOutOfOrderSnapshot rejects a run whose snapshot date precedes the
// latest snapshot already applied. The version close-out and first-seen-date
// logic assume snapshots arrive in non-decreasing date order.
var ErrOutOfOrderSnapshot = errors.New("snapshot date precedes the latest applied snapshot")

type History struct {
	LastUpdate      string   `json:"last_update"`
	LastAppliedDate string   `json:"last_applied_date"`
	ProcessedDates  []string `json:"processed_dates"`
	FailedDates     []string `json:"failed_dates"`
}

// Tracker records which snapshot dates have been applied to the catalogs.
// Dates are compact YYYYMMDD strings, so ordering is plain string ordering.
type Tracker struct {
	path    string
	History History
}

func Load(directory string) *Tracker {
	tracker := &Tracker{path: filepath.Join(directory, fileName)}

	contents, err := os.ReadFile(tracker.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Msg("Could not read processing history, starting fresh")
		}
		return tracker
	}

	if err := json.Unmarshal(contents, &tracker.History); err != nil {
		log.Warn().Err(err).Msg("Could not parse processing history, starting fresh")
		tracker.History = History{}
	}

	return tracker
}

// CheckOrder enforces the non-decreasing snapshot date precondition.
// Re-running the latest applied date is allowed, reconciliation is
// idempotent over identical input.
func (t *Tracker) CheckOrder(date string) error {
	if t.History.LastAppliedDate != "" && date < t.History.LastAppliedDate {
		return fmt.Errorf("%w: %s < %s", ErrOutOfOrderSnapshot, date, t.History.LastAppliedDate)
	}

	return nil
}

func (t *Tracker) Processed(date string) bool {
	return slices.Contains(t.History.ProcessedDates, date)
}

func (t *Tracker) LastApplied() string {
	return t.History.LastAppliedDate
}

func (t *Tracker) RecordSuccess(date string) {
	if date > t.History.LastAppliedDate {
		t.History.LastAppliedDate = date
	}
	if !slices.Contains(t.History.ProcessedDates, date) {
		t.History.ProcessedDates = append(t.History.ProcessedDates, date)
		slices.Sort(t.History.ProcessedDates)
	}
	if index := slices.Index(t.History.FailedDates, date); index >= 0 {
		t.History.FailedDates = slices.Delete(t.History.FailedDates, index, index+1)
	}
	t.History.LastUpdate = time.Now().Format(time.RFC3339)

	t.save()
}

func (t *Tracker) RecordFailure(date string) {
	if !slices.Contains(t.History.FailedDates, date) {
		t.History.FailedDates = append(t.History.FailedDates, date)
		slices.Sort(t.History.FailedDates)
	}
	t.History.LastUpdate = time.Now().Format(time.RFC3339)

	t.save()
}

func (t *Tracker) save() {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		log.Warn().Err(err).Msg("Could not save processing history")
		return
	}

	contents, err := json.MarshalIndent(t.History, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("Could not encode processing history")
		return
	}

	if err := os.WriteFile(t.path, contents, 0644); err != nil {
		log.Warn().Err(err).Msg("Could not save processing history")
	}
}
