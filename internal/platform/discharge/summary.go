// Package discharge extracts structured clinical fields from raw admission
// and discharge documents. Each supported document dialect is a parser
// kind; the registry selects kinds per tenant and returns the first
// non-trivial result. Parsers are pure functions over text and are safe
// for concurrent use.
package discharge

import (
	"strings"
)

// Redaction sentinels. A captured value equal to one of these placeholders
// is treated identically to an absent field.
var redactionSentinels = map[string]struct{}{
	"[redacted]": {},
	"[removed]":  {},
	"redacted":   {},
	"n/a":        {},
	"***":        {},
	"xxx":        {},
}

func isRedacted(v string) bool {
	_, ok := redactionSentinels[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Physician is an attending physician reference.
type Physician struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// LabResult is a single extracted laboratory value.
type LabResult struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// VitalSigns holds the named vital-sign slots. Unextracted slots stay nil.
type VitalSigns struct {
	Temperature      *string `json:"temperature,omitempty"`
	HeartRate        *string `json:"heartRate,omitempty"`
	RespiratoryRate  *string `json:"respiratoryRate,omitempty"`
	BloodPressure    *string `json:"bloodPressure,omitempty"`
	OxygenSaturation *string `json:"oxygenSaturation,omitempty"`
}

// Empty reports whether no vital-sign slot was extracted.
func (v *VitalSigns) Empty() bool {
	return v == nil || (v.Temperature == nil && v.HeartRate == nil &&
		v.RespiratoryRate == nil && v.BloodPressure == nil && v.OxygenSaturation == nil)
}

// Medication is a single extracted medication order.
type Medication struct {
	Name         string `json:"name"`
	Dose         string `json:"dose,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	IsNew        bool   `json:"isNew,omitempty"`
	IsStopped    bool   `json:"isStopped,omitempty"`
}

// FollowUp is a single follow-up appointment instruction.
type FollowUp struct {
	Provider  string `json:"provider"`
	Timeframe string `json:"timeframe"`
	Notes     string `json:"notes,omitempty"`
}

// ParsedSummary is the structured result of parsing a raw discharge
// summary. Every optional field is either absent or non-empty; RawText and
// ParserVersion are always present. The record is built once during a
// parse call and immutable thereafter.
type ParsedSummary struct {
	PatientName          *string      `json:"patientName,omitempty"`
	MRN                  *string      `json:"mrn,omitempty"`
	DateOfBirth          *string      `json:"dateOfBirth,omitempty"`
	AdmitDate            *string      `json:"admitDate,omitempty"`
	DischargeDate        *string      `json:"dischargeDate,omitempty"`
	AttendingPhysician   *Physician   `json:"attendingPhysician,omitempty"`
	ServiceLine          *string      `json:"serviceLine,omitempty"`
	AdmittingDiagnosis   []string     `json:"admittingDiagnosis,omitempty"`
	DischargeDiagnosis   []string     `json:"dischargeDiagnosis,omitempty"`
	HospitalCourse       *string      `json:"hospitalCourse,omitempty"`
	LabResults           []LabResult  `json:"labResults,omitempty"`
	VitalSigns           *VitalSigns  `json:"vitalSigns,omitempty"`
	ConditionAtDischarge *string      `json:"conditionAtDischarge,omitempty"`
	Medications          []Medication `json:"medications,omitempty"`
	FollowUps            []FollowUp   `json:"followUps,omitempty"`
	DietInstructions     *string      `json:"dietInstructions,omitempty"`
	ActivityRestrictions *string      `json:"activityRestrictions,omitempty"`
	PatientInstructions  *string      `json:"patientInstructions,omitempty"`
	ReturnPrecautions    []string     `json:"returnPrecautions,omitempty"`
	RawText              string       `json:"rawText"`
	Warnings             []string     `json:"warnings,omitempty"`
	ParserVersion        string       `json:"parserVersion"`
	Confidence           float64      `json:"confidence"`
}

// HasStructuredData reports whether at least one structured field was
// extracted. The registry uses it to decide whether a candidate parser
// produced a non-trivial result.
func (s *ParsedSummary) HasStructuredData() bool {
	if s == nil {
		return false
	}
	return s.PatientName != nil || s.MRN != nil || s.DateOfBirth != nil ||
		s.AdmitDate != nil || s.DischargeDate != nil || s.AttendingPhysician != nil ||
		s.ServiceLine != nil || len(s.AdmittingDiagnosis) > 0 || len(s.DischargeDiagnosis) > 0 ||
		s.HospitalCourse != nil || len(s.LabResults) > 0 || !s.VitalSigns.Empty() ||
		s.ConditionAtDischarge != nil || len(s.Medications) > 0 || len(s.FollowUps) > 0 ||
		s.DietInstructions != nil || s.ActivityRestrictions != nil ||
		s.PatientInstructions != nil || len(s.ReturnPrecautions) > 0
}

// summaryBuilder accumulates optional field values during a parse and
// materializes the final immutable ParsedSummary at the end. Setters drop
// empty and redacted values, so the finished record never holds a present
// but empty field.
type summaryBuilder struct {
	s       ParsedSummary
	errored bool
}

func newSummaryBuilder(rawText, version string) *summaryBuilder {
	return &summaryBuilder{s: ParsedSummary{RawText: rawText, ParserVersion: version}}
}

// setStr assigns a string field unless the value is empty or a redaction
// sentinel.
func (b *summaryBuilder) setStr(dst **string, v string) {
	v = strings.TrimSpace(v)
	if v == "" || isRedacted(v) {
		return
	}
	*dst = &v
}

func (b *summaryBuilder) setPhysician(name, id string) {
	name = strings.TrimSpace(name)
	if name == "" || isRedacted(name) {
		return
	}
	b.s.AttendingPhysician = &Physician{Name: name, ID: strings.TrimSpace(id)}
}

func (b *summaryBuilder) setList(dst *[]string, items []string) {
	var kept []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || isRedacted(it) {
			continue
		}
		kept = append(kept, it)
	}
	if len(kept) > 0 {
		*dst = kept
	}
}

func (b *summaryBuilder) setVitals(v VitalSigns) {
	if v.Empty() {
		return
	}
	b.s.VitalSigns = &v
}

// warnf records a parse-time notice. Warnings are informational only and
// never abort the parse.
func (b *summaryBuilder) warnf(msg string) {
	b.s.Warnings = append(b.s.Warnings, msg)
}

// capture runs a single field extractor, converting a panic into a warning
// so one malformed field never aborts the remaining extraction. Any
// recovered panic forces the error sentinel confidence.
func (b *summaryBuilder) capture(field string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.errored = true
			b.warnf("failed to extract " + field)
		}
	}()
	fn()
}

// build materializes the final record and computes its confidence. A parse
// that hit an extraction error gets the 0.5 sentinel instead of a computed
// score.
func (b *summaryBuilder) build() *ParsedSummary {
	s := b.s
	if b.errored {
		s.Confidence = errorSentinelConfidence
	} else {
		s.Confidence = scoreConfidence(&s)
	}
	return &s
}
