package simplified

import (
	"regexp"
	"strings"

	"github.com/medrelay/discharge/internal/platform/section"
)

// Summary is the render-ready overview decoded from simplified summary
// markup. Raw is populated if and only if no structured block was
// recognized at all.
type Summary struct {
	ReasonsForStay string `json:"reasonsForStay,omitempty"`
	WhatHappened   string `json:"whatHappened,omitempty"`
	Raw            string `json:"raw,omitempty"`
}

// Medication is one row of the simplified medications table.
type Medication struct {
	MedicineName        string `json:"medicineName"`
	Frequency           string `json:"frequency,omitempty"`
	WhenToTake          string `json:"whenToTake,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// DietActivity groups the diet and activity guidance lists.
type DietActivity struct {
	FoodsToInclude        []string `json:"foodsToInclude,omitempty"`
	FoodsToLimit          []string `json:"foodsToLimit,omitempty"`
	RecommendedActivities []string `json:"recommendedActivities,omitempty"`
	ActivitiesToAvoid     []string `json:"activitiesToAvoid,omitempty"`
}

// Empty reports whether every diet/activity list is absent.
func (d *DietActivity) Empty() bool {
	return d == nil || (len(d.FoodsToInclude) == 0 && len(d.FoodsToLimit) == 0 &&
		len(d.RecommendedActivities) == 0 && len(d.ActivitiesToAvoid) == 0)
}

// WarningSigns groups the escalation lists.
type WarningSigns struct {
	Call911           []string `json:"call911,omitempty"`
	CallDoctor        []string `json:"callDoctor,omitempty"`
	EmergencyContacts []string `json:"emergencyContacts,omitempty"`
}

// Empty reports whether every warning list is absent.
func (w *WarningSigns) Empty() bool {
	return w == nil || (len(w.Call911) == 0 && len(w.CallDoctor) == 0 && len(w.EmergencyContacts) == 0)
}

// Instructions is the render-ready instruction set decoded from simplified
// instructions markup. Raw is populated if and only if every structured
// field is absent.
type Instructions struct {
	Medications  []Medication  `json:"medications,omitempty"`
	Appointments []string      `json:"appointments,omitempty"`
	DietActivity *DietActivity `json:"dietActivity,omitempty"`
	WarningSigns *WarningSigns `json:"warningSigns,omitempty"`
	Raw          string        `json:"raw,omitempty"`
}

// HasStructuredData reports whether at least one structured field was
// decoded.
func (i *Instructions) HasStructuredData() bool {
	if i == nil {
		return false
	}
	return len(i.Medications) > 0 || len(i.Appointments) > 0 ||
		!i.DietActivity.Empty() || !i.WarningSigns.Empty()
}

// ParseSummary decodes simplified summary markup into its overview blocks.
// When no recognizable structure exists the whole text is returned in Raw
// so callers can render it verbatim rather than an empty page.
func ParseSummary(content string) Summary {
	var out Summary

	// The bold blocks normally live under "## Overview", but when that
	// header is missing they are still recognized anywhere in the text.
	container := content
	if body, ok := section.Extract(content, reOverview, []*regexp.Regexp{anySectionHeader}); ok {
		container = body
	}

	bounds := []*regexp.Regexp{anyBoldHeader, anySectionHeader}
	if body, ok := section.Extract(container, reReasons, bounds); ok {
		out.ReasonsForStay = body
	}
	if body, ok := section.Extract(container, reHappened, bounds); ok {
		out.WhatHappened = body
	}

	if out.ReasonsForStay == "" && out.WhatHappened == "" {
		out.Raw = content
	}
	return out
}

// ParseInstructions decodes simplified instructions markup into its
// render-ready sections. Header language is detected per header, never per
// document, so a Spanish medications table and an English appointments
// list coexist in one document.
func ParseInstructions(content string) Instructions {
	var out Instructions

	sectionBounds := []*regexp.Regexp{anySectionHeader}

	if body, ok := section.Extract(content, reMedications, sectionBounds); ok {
		out.Medications = parseMedicationTable(body)
	}
	if body, ok := section.Extract(content, reAppointments, sectionBounds); ok {
		out.Appointments = section.Bullets(body)
	}
	if body, ok := section.Extract(content, reDietActivity, sectionBounds); ok {
		if da := parseDietActivity(body); !da.Empty() {
			out.DietActivity = da
		}
	}
	if body, ok := section.Extract(content, reWarningSigns, sectionBounds); ok {
		if ws := parseWarningSigns(body); !ws.Empty() {
			out.WarningSigns = ws
		}
	}

	if !out.HasStructuredData() {
		out.Raw = content
	}
	return out
}

// medTableColumns is the fixed column layout of the simplified
// medications table: medicine | frequency | when to take | special
// instructions.
const medTableColumns = 4

func parseMedicationTable(body string) []Medication {
	rows, ok := section.Table(body, medTableColumns, reMedTableHint)
	if ok {
		var meds []Medication
		for _, row := range rows {
			med := Medication{
				MedicineName:        cleanCell(row[0]),
				Frequency:           cleanCell(row[1]),
				WhenToTake:          cleanCell(row[2]),
				SpecialInstructions: cleanCell(row[3]),
			}
			if med.MedicineName == "" {
				continue
			}
			meds = append(meds, med)
		}
		return meds
	}

	// No pipe structure: fall back to a name/description list heuristic.
	var meds []Medication
	for _, pair := range section.NameDescriptionLines(body) {
		if pair[0] == "" {
			continue
		}
		meds = append(meds, Medication{
			MedicineName:        pair[0],
			SpecialInstructions: pair[1],
		})
	}
	return meds
}

func parseDietActivity(body string) *DietActivity {
	bounds := []*regexp.Regexp{anyBoldHeader, anySectionHeader}
	da := &DietActivity{}
	if b, ok := section.Extract(body, reFoodsIncl, bounds); ok {
		da.FoodsToInclude = section.Bullets(b)
	}
	if b, ok := section.Extract(body, reFoodsLimit, bounds); ok {
		da.FoodsToLimit = section.Bullets(b)
	}
	if b, ok := section.Extract(body, reActRec, bounds); ok {
		da.RecommendedActivities = section.Bullets(b)
	}
	if b, ok := section.Extract(body, reActAvoid, bounds); ok {
		da.ActivitiesToAvoid = section.Bullets(b)
	}
	return da
}

func parseWarningSigns(body string) *WarningSigns {
	bounds := []*regexp.Regexp{anyBoldHeader, anySectionHeader}
	ws := &WarningSigns{}
	if b, ok := section.Extract(body, reCall911, bounds); ok {
		ws.Call911 = section.Bullets(b)
	}
	if b, ok := section.Extract(body, reCallDoctor, bounds); ok {
		ws.CallDoctor = section.Bullets(b)
	}
	if b, ok := section.Extract(body, reEmergency, bounds); ok {
		ws.EmergencyContacts = section.Bullets(b)
	}
	// A warning section without recognized subheaders still matters:
	// everything escalates to the call-your-doctor list.
	if ws.Empty() {
		ws.CallDoctor = section.Bullets(body)
	}
	return ws
}

// cleanCell normalizes a table cell: placeholder dashes mean absent.
func cleanCell(cell string) string {
	cell = strings.TrimSpace(cell)
	if cell == "-" || cell == "–" || cell == "—" || strings.EqualFold(cell, "n/a") {
		return ""
	}
	return cell
}
