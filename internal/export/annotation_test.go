package export

import (
	"strings"
	"testing"

	"ecgdigitize/internal/core"
)

func TestReadAnnotationParsesLeadsAndScales(t *testing.T) {
	input := `{
		"rotationDegrees": 1.5,
		"timeScale": 50,
		"voltScale": 20,
		"leads": {
			"I": {"x": 0, "y": 0, "width": 100, "height": 50, "startTime": 0},
			"aVR": {"x": 100, "y": 0, "width": 100, "height": 50, "startTime": 0.5}
		}
	}`

	params, err := ReadAnnotation(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAnnotation: %v", err)
	}
	if params.RotationDegrees != 1.5 {
		t.Errorf("RotationDegrees = %v, want 1.5", params.RotationDegrees)
	}
	if params.TimeScale != 50 || params.VoltScale != 20 {
		t.Errorf("scales = (%v, %v), want (50, 20)", params.TimeScale, params.VoltScale)
	}
	if len(params.Leads) != 2 {
		t.Fatalf("len(Leads) = %d, want 2", len(params.Leads))
	}
	if lead, ok := params.Leads[core.LeadAVR]; !ok || lead.StartTime != 0.5 {
		t.Errorf("aVR lead = %+v, ok=%v, want StartTime 0.5", lead, ok)
	}
}

func TestReadAnnotationAppliesDefaultScales(t *testing.T) {
	input := `{"leads": {"II": {"x": 0, "y": 0, "width": 10, "height": 10}}}`

	params, err := ReadAnnotation(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAnnotation: %v", err)
	}
	if params.TimeScale != core.DefaultTimeScale {
		t.Errorf("TimeScale = %v, want default %v", params.TimeScale, core.DefaultTimeScale)
	}
	if params.VoltScale != core.DefaultVoltageScale {
		t.Errorf("VoltScale = %v, want default %v", params.VoltScale, core.DefaultVoltageScale)
	}
}

func TestReadAnnotationRejectsUnrecognizedLeadName(t *testing.T) {
	input := `{"leads": {"XV9": {"x": 0, "y": 0, "width": 10, "height": 10}}}`

	if _, err := ReadAnnotation(strings.NewReader(input)); err == nil {
		t.Errorf("ReadAnnotation should reject an unrecognized lead name")
	}
}

func TestReadAnnotationRejectsMalformedJSON(t *testing.T) {
	if _, err := ReadAnnotation(strings.NewReader("not json")); err == nil {
		t.Errorf("ReadAnnotation should reject malformed JSON")
	}
}
