package core

// LeadId enumerates the twelve standard ECG leads. The ordinal value
// fixes canonical output order, independent of how callers populate an
// InputParameters.Leads map.
type LeadId int

const (
	LeadI LeadId = iota
	LeadII
	LeadIII
	LeadAVR
	LeadAVL
	LeadAVF
	LeadV1
	LeadV2
	LeadV3
	LeadV4
	LeadV5
	LeadV6
)

// leadOrder fixes canonical ascending output order by ordinal.
var leadOrder = [12]LeadId{
	LeadI, LeadII, LeadIII, LeadAVR, LeadAVL, LeadAVF,
	LeadV1, LeadV2, LeadV3, LeadV4, LeadV5, LeadV6,
}

// LeadOrder returns the twelve lead identifiers in canonical ordinal order.
func LeadOrder() [12]LeadId {
	return leadOrder
}

func (id LeadId) String() string {
	switch id {
	case LeadI:
		return "I"
	case LeadII:
		return "II"
	case LeadIII:
		return "III"
	case LeadAVR:
		return "aVR"
	case LeadAVL:
		return "aVL"
	case LeadAVF:
		return "aVF"
	case LeadV1:
		return "V1"
	case LeadV2:
		return "V2"
	case LeadV3:
		return "V3"
	case LeadV4:
		return "V4"
	case LeadV5:
		return "V5"
	case LeadV6:
		return "V6"
	default:
		return "unknown"
	}
}

// Lead is the caller-supplied region of interest for one lead, plus the
// time at which its trace begins relative to the other leads.
type Lead struct {
	Rect      Rectangle
	StartTime float64 // seconds, >= 0
}

// ParseLeadId converts a standard lead name ("I", "aVR", "V1", ...)
// into its LeadId, reporting false for any unrecognized name.
func ParseLeadId(name string) (LeadId, bool) {
	for _, id := range leadOrder {
		if id.String() == name {
			return id, true
		}
	}
	return 0, false
}
