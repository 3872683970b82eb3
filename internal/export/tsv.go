// Package export writes and reads digitized ECG signals as delimited
// text, one time instant per line and one column per lead, ordered by
// standard lead position (spec.md §6).
package export

import (
	"fmt"
	"io"
	"sort"

	"ecgdigitize/internal/core"
)

// WriteTSV writes every lead's signal as tab-separated columns,
// ordered by LeadId, one row per sample index. Every signal in
// signals must have the same length.
func WriteTSV(w io.Writer, signals map[core.LeadId]core.Signal) error {
	return Write(w, signals, "\t")
}

// Write writes every lead's signal as delimited columns, ordered by
// LeadId, one row per sample index. Every signal must have the same
// length.
func Write(w io.Writer, signals map[core.LeadId]core.Signal, separator string) error {
	if len(signals) == 0 {
		return core.NewFailure("no signals to export")
	}

	ids := make([]core.LeadId, 0, len(signals))
	for id := range signals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	length := len(signals[ids[0]])
	for _, id := range ids {
		if len(signals[id]) != length {
			return core.NewFailure(fmt.Sprintf("lead %s has length %d, expected %d", id, len(signals[id]), length))
		}
	}

	for row := 0; row < length; row++ {
		for i, id := range ids {
			if i > 0 {
				if _, err := io.WriteString(w, separator); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%g", signals[id][row]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}
