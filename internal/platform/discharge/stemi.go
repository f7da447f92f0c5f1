package discharge

import (
	"regexp"
	"strings"

	"github.com/medrelay/discharge/internal/platform/section"
	"github.com/medrelay/discharge/internal/platform/simplified"
)

// The STEMI dialect covers cardiac catheterization discharge paperwork.
// Its headers differ enough from the default layout that generic section
// matching misses most of the document.

var stemiSignature = regexp.MustCompile(`(?i)\b(?:STEMI|NSTEMI|ST[- ]elevation|cardiac catheterization|cath lab|culprit lesion)\b`)

var (
	stemiName      = regexp.MustCompile(`(?im)^[ \t]*(?:patient(?:[ \t]+name)?|name)[ \t]*[:\-][ \t]*(.+)$`)
	stemiProcDate  = regexp.MustCompile(`(?im)^[ \t]*(?:procedure|cath)[ \t]+date[ \t]*[:\-][ \t]*([0-9][0-9/.\-]+)`)
	stemiCardio    = regexp.MustCompile(`(?im)^[ \t]*(?:interventional cardiologist|cardiologist|operator)[ \t]*[:\-][ \t]*(.+)$`)
	stemiEF        = regexp.MustCompile(`(?i)\b(?:ejection fraction|EF|LVEF)\b[ \t]*[:=]?[ \t]*(\d{1,2}(?:\.\d+)?(?:[ \t]*[-–][ \t]*\d{1,2})?)[ \t]*%`)
	stemiPeakTrop  = regexp.MustCompile(`(?i)\bpeak troponin\b[ \t]*[:=]?[ \t]*([<>]?\d+(?:\.\d+)?)[ \t]*(ng/mL)?`)
)

var (
	stemiReason      = sectionStart(`reason for admission|presenting complaint|indication`)
	stemiProcedure   = sectionStart(`procedures? performed|cardiac catheterization(?: findings)?|cath findings|intervention`)
	stemiDischargeDx = sectionStart(`discharge diagnos(?:is|es)|final diagnos(?:is|es)`)
	stemiCourse      = sectionStart(`(?:brief )?hospital course|post[- ]?procedure course`)
	stemiLabs        = sectionStart(`cardiac (?:markers|enzymes)|lab(?:oratory)? (?:results|data)|labs`)
	stemiVitals      = sectionStart(`vital signs(?: (?:at|on) discharge)?|vitals`)
	stemiCondition   = sectionStart(`condition (?:at|on) discharge|discharge condition`)
	stemiDAPT        = sectionStart(`dual antiplatelet therapy|antiplatelet (?:regimen|therapy)`)
	stemiMeds        = sectionStart(`(?:other )?discharge medications|cardiac medications`)
	stemiMedsStopped = sectionStart(`medications? (?:stopped|discontinued|held)`)
	stemiRehab       = sectionStart(`cardiac rehab(?:ilitation)?`)
	stemiFollowUp    = sectionStart(`cardiology follow[- ]?up|follow[- ]?up(?: appointments| care)?`)
	stemiDiet        = sectionStart(`(?:cardiac )?diet(?: instructions)?`)
	stemiActivity    = sectionStart(`activity(?: restrictions| instructions)?`)
	stemiPrecautions = sectionStart(`when to call 911|chest pain instructions|return precautions|warning signs`)
	stemiInstr       = sectionStart(`(?:discharge|patient) instructions|stent care`)
)

var stemiSectionEnds = []*regexp.Regexp{
	stemiReason, stemiProcedure, stemiDischargeDx, stemiCourse, stemiLabs,
	stemiVitals, stemiCondition, stemiDAPT, stemiMeds, stemiMedsStopped,
	stemiRehab, stemiFollowUp, stemiDiet, stemiActivity, stemiPrecautions,
	stemiInstr,
}

func probeSTEMI(text string) bool {
	return stemiSignature.MatchString(text)
}

func parseSTEMISummary(text string) *ParsedSummary {
	b := newSummaryBuilder(text, parserTable[KindSTEMI].version)

	grab := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}
	sect := func(start *regexp.Regexp) (string, bool) {
		return section.Extract(text, start, stemiSectionEnds)
	}

	b.capture("patient identity", func() {
		b.setStr(&b.s.PatientName, grab(stemiName))
		b.setStr(&b.s.MRN, grab(defMRN))
		b.setStr(&b.s.DateOfBirth, grab(defDOB))
	})

	b.capture("encounter dates", func() {
		admit := grab(defAdmitDate)
		if admit == "" {
			admit = grab(stemiProcDate)
		}
		b.setStr(&b.s.AdmitDate, admit)
		b.setStr(&b.s.DischargeDate, grab(defDischDate))
	})

	b.capture("care team", func() {
		attending := grab(stemiCardio)
		if attending == "" {
			attending = grab(defAttending)
		}
		id := ""
		if m := physicianID.FindStringSubmatch(attending); m != nil {
			id = m[1]
			attending = strings.TrimSpace(physicianID.ReplaceAllString(attending, ""))
		}
		b.setPhysician(attending, id)

		svc := grab(defService)
		if svc == "" {
			svc = "Cardiology"
		}
		b.setStr(&b.s.ServiceLine, svc)
	})

	b.capture("diagnoses", func() {
		if body, ok := sect(stemiReason); ok {
			b.setList(&b.s.AdmittingDiagnosis, diagnosisList(body))
		}
		if body, ok := sect(stemiDischargeDx); ok {
			b.setList(&b.s.DischargeDiagnosis, diagnosisList(body))
		}
	})

	b.capture("hospital course", func() {
		course, hasCourse := sect(stemiCourse)
		if proc, ok := sect(stemiProcedure); ok {
			// The cath report is the clinical heart of the document;
			// fold it into the course narrative.
			if hasCourse {
				course = proc + "\n" + course
			} else {
				course = proc
			}
			hasCourse = true
		}
		if hasCourse {
			b.setStr(&b.s.HospitalCourse, course)
		}
	})

	b.capture("labs", func() {
		var labs []LabResult
		if m := stemiPeakTrop.FindStringSubmatch(text); m != nil {
			labs = append(labs, LabResult{Name: "Peak Troponin", Value: m[1], Unit: strings.TrimSpace(m[2])})
		}
		if m := stemiEF.FindStringSubmatch(text); m != nil {
			labs = append(labs, LabResult{Name: "Ejection Fraction", Value: strings.TrimSpace(m[1]), Unit: "%"})
		}
		if body, ok := sect(stemiLabs); ok {
			labs = append(labs, parseLabs(body)...)
		}
		b.s.LabResults = labs
	})

	b.capture("vitals", func() {
		if body, ok := sect(stemiVitals); ok {
			b.setVitals(parseVitals(body))
		}
	})

	b.capture("discharge condition", func() {
		if body, ok := sect(stemiCondition); ok {
			b.setStr(&b.s.ConditionAtDischarge, body)
		}
	})

	b.capture("medications", func() {
		var meds []Medication
		if body, ok := sect(stemiDAPT); ok {
			// Antiplatelet therapy started at the cath lab is always new.
			meds = append(meds, parseMedicationBlock(body, true, false)...)
		}
		if body, ok := sect(stemiMeds); ok {
			meds = append(meds, parseMedicationBlock(body, false, false)...)
		}
		if body, ok := sect(stemiMedsStopped); ok {
			meds = append(meds, parseMedicationBlock(body, false, true)...)
		}
		b.s.Medications = meds
	})

	b.capture("follow-ups", func() {
		var fups []FollowUp
		if body, ok := sect(stemiFollowUp); ok {
			fups = append(fups, parseFollowUps(body)...)
		}
		if body, ok := sect(stemiRehab); ok {
			for _, item := range section.Bullets(body) {
				fups = append(fups, FollowUp{Provider: "Cardiac Rehabilitation", Timeframe: item})
			}
		}
		b.s.FollowUps = fups
	})

	b.capture("diet and activity", func() {
		dietBody, hasDiet := sect(stemiDiet)
		if hasDiet {
			b.setStr(&b.s.DietInstructions, dietBody)
		}
		if body, ok := sect(stemiActivity); ok {
			b.setStr(&b.s.ActivityRestrictions, body)
		} else if hasDiet {
			b.setStr(&b.s.ActivityRestrictions, activityFromDiet(dietBody))
		}
	})

	b.capture("instructions", func() {
		if body, ok := sect(stemiInstr); ok {
			b.setStr(&b.s.PatientInstructions, body)
		}
	})

	b.capture("return precautions", func() {
		if body, ok := sect(stemiPrecautions); ok {
			b.setList(&b.s.ReturnPrecautions, section.Bullets(body))
		}
	})

	return b.build()
}

var stemiInstrCall911 = sectionStart(`when to call 911|call 911(?: if)?|chest pain instructions`)

func parseSTEMIInstructions(text string) *simplified.Instructions {
	// Same section vocabulary as the default dialect, widened with the
	// cardiac escalation header.
	ends := append([]*regexp.Regexp{stemiInstrCall911}, defInstrEnds...)
	out := parseInstructionsWith(text, ends)

	if out.WarningSigns == nil || len(out.WarningSigns.Call911) == 0 {
		if body, ok := section.Extract(text, stemiInstrCall911, ends); ok {
			if out.WarningSigns == nil {
				out.WarningSigns = &simplified.WarningSigns{}
			}
			out.WarningSigns.Call911 = section.Bullets(body)
			out.Raw = ""
		}
	}
	return out
}
