package export

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ecgdigitize/internal/core"
)

func TestWriteTSVOrdersColumnsByLeadId(t *testing.T) {
	signals := map[core.LeadId]core.Signal{
		core.LeadII: {2, 2},
		core.LeadI:  {1, 1},
	}

	var sb strings.Builder
	if err := WriteTSV(&sb, signals); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	want := "1\t2\n1\t2\n"
	if sb.String() != want {
		t.Errorf("WriteTSV() = %q, want %q", sb.String(), want)
	}
}

func TestWriteRejectsMismatchedLengths(t *testing.T) {
	signals := map[core.LeadId]core.Signal{
		core.LeadI:  {1, 2, 3},
		core.LeadII: {1, 2},
	}

	var sb strings.Builder
	if err := Write(&sb, signals, ","); err == nil {
		t.Errorf("Write should reject signals of unequal length")
	}
}

func TestWriteRejectsEmptyInput(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, map[core.LeadId]core.Signal{}, ","); err == nil {
		t.Errorf("Write should reject an empty signal map")
	}
}

func TestWriteTSVRoundTripsThroughReadSignals(t *testing.T) {
	signals := map[core.LeadId]core.Signal{
		core.LeadI:  {1, 2, 3},
		core.LeadII: {4, 5, 6},
	}

	var sb strings.Builder
	if err := WriteTSV(&sb, signals); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	got, err := ReadSignals(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadSignals: %v", err)
	}
	want := []core.Signal{{1, 2, 3}, {4, 5, 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadSignals round-trip mismatch (-want +got):\n%s", diff)
	}
}
