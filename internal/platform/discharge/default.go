package discharge

import (
	"regexp"
	"strings"

	"github.com/medrelay/discharge/internal/platform/section"
	"github.com/medrelay/discharge/internal/platform/simplified"
)

// Identity and date fields are single-line captures; redacted values are
// filtered by the builder.
var (
	defPatientName = regexp.MustCompile(`(?im)^[ \t]*patient(?:[ \t]+name)?[ \t]*[:\-][ \t]*(.+)$`)
	defMRN         = regexp.MustCompile(`(?im)^[ \t]*(?:mrn|medical record (?:number|#))[ \t]*[:\-#][ \t]*([A-Za-z0-9\-]+)`)
	defDOB         = regexp.MustCompile(`(?im)^[ \t]*(?:dob|date of birth)[ \t]*[:\-][ \t]*([0-9][0-9/.\-]+)`)
	defAdmitDate   = regexp.MustCompile(`(?im)^[ \t]*(?:admi(?:t|ssion)[ \t]+date|date of admission)[ \t]*[:\-][ \t]*([0-9][0-9/.\-]+)`)
	defDischDate   = regexp.MustCompile(`(?im)^[ \t]*(?:discharge[ \t]+date|date of discharge)[ \t]*[:\-][ \t]*([0-9][0-9/.\-]+)`)
	defAttending   = regexp.MustCompile(`(?im)^[ \t]*attending(?:[ \t]+physician)?[ \t]*[:\-][ \t]*(.+)$`)
	defService     = regexp.MustCompile(`(?im)^[ \t]*service(?:[ \t]+line)?[ \t]*[:\-][ \t]*(.+)$`)

	// Optional physician identifier in parentheses: "Dr. Chen (NPI 1234)".
	physicianID = regexp.MustCompile(`\(\s*(?:NPI|ID)?\s*#?\s*([A-Za-z0-9\-]+)\s*\)\s*$`)
)

// Section start patterns for the default dialect. Headers are anchored to
// line starts and require a trailing colon so prose mentions of the same
// words never open a section.
var (
	defAdmitDx      = sectionStart(`admitting diagnos(?:is|es)|admission diagnos(?:is|es)`)
	defDischargeDx  = sectionStart(`discharge diagnos(?:is|es)|final diagnos(?:is|es)`)
	defCourse       = sectionStart(`(?:brief )?hospital course`)
	defLabs         = sectionStart(`lab(?:oratory)? (?:results|data|findings)|pertinent labs|labs`)
	defVitals       = sectionStart(`vital signs(?: (?:at|on) discharge)?|vitals`)
	defCondition    = sectionStart(`condition (?:at|on) discharge|discharge condition`)
	defMedsNew      = sectionStart(`new medications|medications started`)
	defMedsCont     = sectionStart(`continued medications|home medications|current medications|medications continued`)
	defMedsStopped  = sectionStart(`stopped medications|discontinued medications|medications (?:stopped|discontinued)`)
	defMedsGeneric  = sectionStart(`discharge medications|medications`)
	defFollowUp     = sectionStart(`follow[- ]?up(?: appointments| care)?`)
	defDiet         = sectionStart(`diet(?: instructions)?|diet/activity`)
	defActivity     = sectionStart(`activity(?: restrictions| instructions)?`)
	defInstructions = sectionStart(`(?:discharge|patient) instructions`)
	defPrecautions  = sectionStart(`return precautions|when to (?:seek care|return)|return to (?:the )?(?:ed|emergency)(?: department| room)?(?: if)?`)
)

// defaultSectionEnds is the boundary set for the default dialect: any
// known header ends the current section, nearest match first.
var defaultSectionEnds = []*regexp.Regexp{
	defAdmitDx, defDischargeDx, defCourse, defLabs, defVitals, defCondition,
	defMedsNew, defMedsCont, defMedsStopped, defMedsGeneric, defFollowUp,
	defDiet, defActivity, defInstructions, defPrecautions,
}

// sectionStart compiles a case-insensitive, line-anchored header
// alternation with a required colon.
func sectionStart(names string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*(?:` + names + `)[ \t]*:`)
}

// probeDefault accepts any non-empty text; the default dialect is the
// catch-all candidate.
func probeDefault(text string) bool {
	return strings.TrimSpace(text) != ""
}

func parseDefaultSummary(text string) *ParsedSummary {
	b := newSummaryBuilder(text, parserTable[KindDefault].version)

	grab := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}
	sect := func(start *regexp.Regexp) (string, bool) {
		return section.Extract(text, start, defaultSectionEnds)
	}

	b.capture("patient identity", func() {
		b.setStr(&b.s.PatientName, grab(defPatientName))
		b.setStr(&b.s.MRN, grab(defMRN))
		b.setStr(&b.s.DateOfBirth, grab(defDOB))
	})

	b.capture("encounter dates", func() {
		b.setStr(&b.s.AdmitDate, grab(defAdmitDate))
		b.setStr(&b.s.DischargeDate, grab(defDischDate))
	})

	b.capture("care team", func() {
		attending := grab(defAttending)
		id := ""
		if m := physicianID.FindStringSubmatch(attending); m != nil {
			id = m[1]
			attending = strings.TrimSpace(physicianID.ReplaceAllString(attending, ""))
		}
		b.setPhysician(attending, id)
		b.setStr(&b.s.ServiceLine, grab(defService))
	})

	b.capture("diagnoses", func() {
		if body, ok := sect(defAdmitDx); ok {
			b.setList(&b.s.AdmittingDiagnosis, diagnosisList(body))
		}
		if body, ok := sect(defDischargeDx); ok {
			b.setList(&b.s.DischargeDiagnosis, diagnosisList(body))
		}
	})

	b.capture("hospital course", func() {
		if body, ok := sect(defCourse); ok {
			b.setStr(&b.s.HospitalCourse, body)
		}
	})

	b.capture("labs", func() {
		if body, ok := sect(defLabs); ok {
			b.s.LabResults = parseLabs(body)
		}
	})

	b.capture("vitals", func() {
		if body, ok := sect(defVitals); ok {
			b.setVitals(parseVitals(body))
		}
	})

	b.capture("discharge condition", func() {
		if body, ok := sect(defCondition); ok {
			b.setStr(&b.s.ConditionAtDischarge, body)
		}
	})

	b.capture("medications", func() {
		var meds []Medication
		if body, ok := sect(defMedsNew); ok {
			meds = append(meds, parseMedicationBlock(body, true, false)...)
		}
		if body, ok := sect(defMedsCont); ok {
			meds = append(meds, parseMedicationBlock(body, false, false)...)
		}
		if body, ok := sect(defMedsStopped); ok {
			meds = append(meds, parseMedicationBlock(body, false, true)...)
		}
		if len(meds) == 0 {
			// Single undifferentiated medication list.
			if body, ok := sect(defMedsGeneric); ok {
				meds = parseMedicationBlock(body, false, false)
			}
		}
		b.s.Medications = meds
	})

	b.capture("follow-ups", func() {
		if body, ok := sect(defFollowUp); ok {
			b.s.FollowUps = parseFollowUps(body)
		}
	})

	b.capture("diet and activity", func() {
		dietBody, hasDiet := sect(defDiet)
		if hasDiet {
			b.setStr(&b.s.DietInstructions, dietBody)
		}
		if body, ok := sect(defActivity); ok {
			b.setStr(&b.s.ActivityRestrictions, body)
		} else if hasDiet {
			b.setStr(&b.s.ActivityRestrictions, activityFromDiet(dietBody))
		}
	})

	b.capture("instructions", func() {
		if body, ok := sect(defInstructions); ok {
			b.setStr(&b.s.PatientInstructions, body)
		}
	})

	b.capture("return precautions", func() {
		if body, ok := sect(defPrecautions); ok {
			b.setList(&b.s.ReturnPrecautions, section.Bullets(body))
		}
	})

	return b.build()
}

// Raw instruction documents reuse the simplified shape so the renderer has
// a single vocabulary for both pipelines.
var (
	defInstrMeds     = sectionStart(`(?:discharge |your )?medications?`)
	defInstrAppts    = sectionStart(`follow[- ]?up(?: appointments)?|appointments`)
	defInstrDiet     = sectionStart(`diet(?: instructions)?|diet/activity`)
	defInstrActivity = sectionStart(`activity(?: restrictions| instructions)?`)
	defInstrCall911  = sectionStart(`call 911(?: if)?|go to the emergency (?:room|department)(?: if)?`)
	defInstrCallDoc  = sectionStart(`call (?:your|the) (?:doctor|physician|clinic)(?: if)?|warning signs`)
	defInstrContacts = sectionStart(`emergency contacts?|important (?:phone )?numbers`)
)

var defInstrEnds = []*regexp.Regexp{
	defInstrMeds, defInstrAppts, defInstrDiet, defInstrActivity,
	defInstrCall911, defInstrCallDoc, defInstrContacts,
}

func parseDefaultInstructions(text string) *simplified.Instructions {
	return parseInstructionsWith(text, defInstrEnds)
}

// parseInstructionsWith extracts instruction sections using a dialect's
// boundary set. Both dialects share the section vocabulary; STEMI only
// widens the boundaries.
func parseInstructionsWith(text string, ends []*regexp.Regexp) *simplified.Instructions {
	out := &simplified.Instructions{}

	sect := func(start *regexp.Regexp) (string, bool) {
		return section.Extract(text, start, ends)
	}

	if body, ok := sect(defInstrMeds); ok {
		for _, m := range parseMedicationBlock(body, false, false) {
			out.Medications = append(out.Medications, simplified.Medication{
				MedicineName:        m.Name,
				Frequency:           m.Dose,
				WhenToTake:          m.Frequency,
				SpecialInstructions: m.Instructions,
			})
		}
	}
	if body, ok := sect(defInstrAppts); ok {
		out.Appointments = section.Bullets(body)
	}

	da := &simplified.DietActivity{}
	if body, ok := sect(defInstrDiet); ok {
		for _, item := range section.Bullets(body) {
			if avoidKeywords.MatchString(item) {
				da.FoodsToLimit = append(da.FoodsToLimit, item)
			} else {
				da.FoodsToInclude = append(da.FoodsToInclude, item)
			}
		}
	}
	if body, ok := sect(defInstrActivity); ok {
		for _, item := range section.Bullets(body) {
			if avoidKeywords.MatchString(item) {
				da.ActivitiesToAvoid = append(da.ActivitiesToAvoid, item)
			} else {
				da.RecommendedActivities = append(da.RecommendedActivities, item)
			}
		}
	}
	if !da.Empty() {
		out.DietActivity = da
	}

	ws := &simplified.WarningSigns{}
	if body, ok := sect(defInstrCall911); ok {
		ws.Call911 = section.Bullets(body)
	}
	if body, ok := sect(defInstrCallDoc); ok {
		ws.CallDoctor = section.Bullets(body)
	}
	if body, ok := sect(defInstrContacts); ok {
		ws.EmergencyContacts = section.Bullets(body)
	}
	if !ws.Empty() {
		out.WarningSigns = ws
	}

	if !out.HasStructuredData() {
		out.Raw = text
	}
	return out
}
