package reconciler

import (
	"strings"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type MergeResult struct {
	Rows []Candidate

	// DuplicatesRemoved counts rows discarded because another row carried
	// the same logical key. Operators watch this to spot feeds that publish
	// conflicting overrides.
	DuplicatesRemoved int
}

// MergeActivations combines the regular and exception candidate sets. For
// rows sharing a logical key an exception override always beats a regular
// activation; ties between rows of the same kind keep the first one seen.
// The surviving rows come back fully sorted for deterministic downstream
// processing.
func MergeActivations(regular, exceptional []Candidate) MergeResult {
	kept := map[ActivationKey]bool{}
	rows := make([]Candidate, 0, len(regular)+len(exceptional))

	// Exception rows are considered first so they win every key collision.
	for _, candidate := range exceptional {
		if kept[candidate.Key()] {
			continue
		}
		kept[candidate.Key()] = true
		rows = append(rows, candidate)
	}
	for _, candidate := range regular {
		if kept[candidate.Key()] {
			continue
		}
		kept[candidate.Key()] = true
		rows = append(rows, candidate)
	}

	slices.SortStableFunc(rows, compareCandidates)

	removed := len(regular) + len(exceptional) - len(rows)
	log.Info().Int("removed", removed).Msg("Removed duplicate activation candidates")

	return MergeResult{Rows: rows, DuplicatesRemoved: removed}
}

func compareCandidates(a, b Candidate) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := strings.Compare(a.RouteID, b.RouteID); c != 0 {
		return c
	}
	if a.DirectionID != b.DirectionID {
		if !a.DirectionID {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.ShapeID, b.ShapeID); c != 0 {
		return c
	}
	if c := strings.Compare(a.Headsign, b.Headsign); c != 0 {
		return c
	}

	return exceptionRank(a.Exception) - exceptionRank(b.Exception)
}

// exceptionRank orders coded rows ahead of regular ones in the final sort.
func exceptionRank(exception catalog.ExceptionType) int {
	if exception == catalog.ExceptionNone {
		return 1<<8 - 1
	}

	return int(exception)
}
