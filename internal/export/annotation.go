package export

import (
	"encoding/json"
	"fmt"
	"io"

	"ecgdigitize/internal/core"
)

// annotationFile is the on-disk JSON shape for a digitization job: the
// page-level rotation/scale parameters plus one region of interest per
// lead, keyed by lead name.
type annotationFile struct {
	RotationDegrees float64                  `json:"rotationDegrees"`
	TimeScale       float64                  `json:"timeScale"`
	VoltScale       float64                  `json:"voltScale"`
	Leads           map[string]annotatedLead `json:"leads"`
}

type annotatedLead struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	StartTime float64 `json:"startTime"`
}

// ReadAnnotation parses a lead-annotation JSON file into the input
// parameters the pipeline needs. Unrecognized lead names are rejected
// rather than silently dropped, since a typo there would silently
// drop a lead from the output.
func ReadAnnotation(r io.Reader) (core.InputParameters, error) {
	var raw annotationFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return core.InputParameters{}, err
	}

	params := core.InputParameters{
		RotationDegrees: raw.RotationDegrees,
		TimeScale:       raw.TimeScale,
		VoltScale:       raw.VoltScale,
		Leads:           make(map[core.LeadId]core.Lead, len(raw.Leads)),
	}
	if params.TimeScale == 0 {
		params.TimeScale = core.DefaultTimeScale
	}
	if params.VoltScale == 0 {
		params.VoltScale = core.DefaultVoltageScale
	}

	for name, lead := range raw.Leads {
		id, ok := core.ParseLeadId(name)
		if !ok {
			return core.InputParameters{}, fmt.Errorf("unrecognized lead name %q in annotation file", name)
		}
		params.Leads[id] = core.Lead{
			Rect: core.Rectangle{
				X:      lead.X,
				Y:      lead.Y,
				Width:  lead.Width,
				Height: lead.Height,
			},
			StartTime: lead.StartTime,
		}
	}

	return params, nil
}
