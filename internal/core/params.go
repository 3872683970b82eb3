package core

// DefaultTimeScale and DefaultVoltageScale are the clinical paper
// defaults (spec.md §6, §9). They belong to the caller-facing
// configuration layer, not the core; InputParameters always carries
// explicit values.
const (
	DefaultTimeScale    = 25.0 // mm/s
	DefaultVoltageScale = 10.0 // mm/mV
)

// InputParameters bundles everything Digitize needs beyond the source
// image itself.
type InputParameters struct {
	RotationDegrees float64
	TimeScale       float64 // mm/s, > 0
	VoltScale       float64 // mm/mV, > 0
	Leads           map[LeadId]Lead
}
