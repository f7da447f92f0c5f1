package discharge

import "testing"

func strPtr(s string) *string { return &s }

func TestScoreConfidence_Empty(t *testing.T) {
	if got := scoreConfidence(&ParsedSummary{}); got != 0.0 {
		t.Errorf("expected 0.0 for empty summary, got %v", got)
	}
}

func TestScoreConfidence_Full(t *testing.T) {
	s := &ParsedSummary{
		PatientName:        strPtr("John Carter"),
		MRN:                strPtr("4471923"),
		DischargeDate:      strPtr("01/08/2025"),
		AttendingPhysician: &Physician{Name: "Dr. Vasquez"},
		DischargeDiagnosis: []string{"Pneumonia"},
		HospitalCourse:     strPtr("Improved on antibiotics."),
		LabResults:         []LabResult{{Name: "WBC", Value: "14.2"}},
		VitalSigns:         &VitalSigns{HeartRate: strPtr("72")},
		Medications:        []Medication{{Name: "Amoxicillin"}},
		FollowUps:          []FollowUp{{Provider: "Dr. Vasquez", Timeframe: "1 week"}},
	}
	if got := scoreConfidence(s); got != 1.0 {
		t.Errorf("expected 1.0 with every weighted field present, got %v", got)
	}
}

func TestScoreConfidence_CriticalOutweighsImportant(t *testing.T) {
	allCritical := &ParsedSummary{
		MRN:                strPtr("1"),
		DischargeDate:      strPtr("01/01/2025"),
		DischargeDiagnosis: []string{"x"},
		Medications:        []Medication{{Name: "x"}},
	}
	allImportant := &ParsedSummary{
		PatientName:        strPtr("x"),
		AttendingPhysician: &Physician{Name: "x"},
		HospitalCourse:     strPtr("x"),
		LabResults:         []LabResult{{Name: "x"}},
		VitalSigns:         &VitalSigns{HeartRate: strPtr("72")},
		FollowUps:          []FollowUp{{Provider: "x"}},
	}
	c, i := scoreConfidence(allCritical), scoreConfidence(allImportant)
	if c <= i {
		t.Errorf("expected critical fields to dominate: critical=%v important=%v", c, i)
	}
}

func TestScoreConfidence_SingleCritical(t *testing.T) {
	s := &ParsedSummary{MRN: strPtr("1")}
	want := 1.0 / 7.0
	if got := scoreConfidence(s); got != want {
		t.Errorf("expected %v for a lone critical field, got %v", want, got)
	}
}

func TestBuildErrorSentinel(t *testing.T) {
	b := newSummaryBuilder("raw", "default-v1")
	b.setStr(&b.s.MRN, "4471923")
	b.capture("labs", func() { panic("malformed lab table") })
	s := b.build()

	if s.Confidence != errorSentinelConfidence {
		t.Errorf("expected 0.5 sentinel after extraction failure, got %v", s.Confidence)
	}
	if len(s.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", s.Warnings)
	}
	if s.MRN == nil {
		t.Error("expected fields captured before the failure to survive")
	}
}

func TestCaptureIsolatesPanics(t *testing.T) {
	b := newSummaryBuilder("raw", "default-v1")
	b.capture("first", func() { panic("boom") })
	b.capture("second", func() { b.setStr(&b.s.PatientName, "John Carter") })
	s := b.build()
	if s.PatientName == nil {
		t.Error("expected extraction to continue past a failed field group")
	}
}
