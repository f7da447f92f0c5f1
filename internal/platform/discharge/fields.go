package discharge

import (
	"regexp"
	"strings"

	"github.com/medrelay/discharge/internal/platform/section"
)

// ---- diagnosis normalization ----

var (
	// Parenthesized or bracketed ICD code, optionally labeled, at the end
	// of a diagnosis line: "(ICD-10: I21.3)", "[J18.9]".
	icdParen = regexp.MustCompile(`(?i)\s*[(\[](?:icd[-\s]?(?:9|10)(?:-cm)?\s*:?\s*)?[A-TV-Z]\d{2}(?:\.\d{1,4})?[)\]]\s*$`)
	// Bare trailing code after a dash: "Pneumonia - J18.9".
	icdTrailing = regexp.MustCompile(`\s+[-–]\s+[A-TV-Z]\d{2}(?:\.\d{1,4})?\s*$`)
)

// stripICD removes a trailing ICD-9/10 code annotation from a diagnosis
// line. Codes embedded mid-sentence are left alone.
func stripICD(item string) string {
	item = icdParen.ReplaceAllString(item, "")
	item = icdTrailing.ReplaceAllString(item, "")
	return strings.TrimSpace(item)
}

// diagnosisList bullet-decomposes a diagnosis section and strips ICD
// annotations from each entry.
func diagnosisList(block string) []string {
	var out []string
	for _, item := range section.Bullets(block) {
		if d := stripICD(item); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// ---- labs ----

// labVocabulary is the fixed set of laboratory names the parsers look for.
// Entries absent from the text are simply omitted, never an error. The
// slice is ordered so repeated parses of the same text produce
// byte-identical output.
var labVocabulary = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"WBC", labPattern(`WBC|white blood cells?`)},
	{"Hemoglobin", labPattern(`hemoglobin|hgb`)},
	{"Hematocrit", labPattern(`hematocrit|hct`)},
	{"Platelets", labPattern(`platelets?|plt`)},
	{"Sodium", labPattern(`sodium|na`)},
	{"Potassium", labPattern(`potassium|k`)},
	{"Creatinine", labPattern(`creatinine|cr`)},
	{"BUN", labPattern(`BUN`)},
	{"Glucose", labPattern(`glucose`)},
	{"Troponin", labPattern(`troponin(?:\s*[IT])?`)},
	{"BNP", labPattern(`BNP|NT-proBNP`)},
	{"INR", labPattern(`INR`)},
}

func labPattern(names string) *regexp.Regexp {
	// value: optional comparator, number; unit: common clinical units.
	return regexp.MustCompile(`(?i)\b(?:` + names + `)\b\s*[:=]?\s*([<>]?\d+(?:\.\d+)?)\s*(g/dL|mg/dL|mEq/L|mmol/L|ng/mL|pg/mL|K/uL|10\^3/uL|x10\^3/uL|U/L|%)?`)
}

// parseLabs scans a lab section against the fixed vocabulary and returns
// the values found, in vocabulary order.
func parseLabs(block string) []LabResult {
	var results []LabResult
	for _, lab := range labVocabulary {
		m := lab.pattern.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		results = append(results, LabResult{
			Name:  lab.name,
			Value: strings.TrimSpace(m[1]),
			Unit:  strings.TrimSpace(m[2]),
		})
	}
	return results
}

// ---- vitals ----

var vitalPatterns = struct {
	temperature, heartRate, respiratoryRate, bloodPressure, oxygenSaturation *regexp.Regexp
}{
	temperature:      regexp.MustCompile(`(?i)\b(?:temp(?:erature)?)\b\s*[:=]?\s*(\d+(?:\.\d+)?\s*°?[CF]?)`),
	heartRate:        regexp.MustCompile(`(?i)\b(?:heart rate|HR|pulse)\b\s*[:=]?\s*(\d{2,3})\b`),
	respiratoryRate:  regexp.MustCompile(`(?i)\b(?:respiratory rate|resp(?:irations)?|RR)\b\s*[:=]?\s*(\d{1,2})\b`),
	bloodPressure:    regexp.MustCompile(`(?i)\b(?:blood pressure|BP)\b\s*[:=]?\s*(\d{2,3}\s*/\s*\d{2,3})`),
	oxygenSaturation: regexp.MustCompile(`(?i)\b(?:O2\s*sat(?:uration)?|SpO2|oxygen saturation)\b\s*[:=]?\s*(\d{2,3}\s*%?)`),
}

// parseVitals captures the named vital-sign slots from a vitals section.
// Slots not present in the text stay nil.
func parseVitals(block string) VitalSigns {
	var v VitalSigns
	set := func(dst **string, re *regexp.Regexp) {
		if m := re.FindStringSubmatch(block); m != nil {
			val := strings.TrimSpace(m[1])
			*dst = &val
		}
	}
	set(&v.Temperature, vitalPatterns.temperature)
	set(&v.HeartRate, vitalPatterns.heartRate)
	set(&v.RespiratoryRate, vitalPatterns.respiratoryRate)
	set(&v.BloodPressure, vitalPatterns.bloodPressure)
	set(&v.OxygenSaturation, vitalPatterns.oxygenSaturation)
	return v
}

// ---- medications ----

// medLine matches the common "<name> <dose> [route] <frequency>" layout,
// e.g. "Aspirin 81mg PO once daily".
var medLine = regexp.MustCompile(`(?i)^(.+?)\s+(\d+(?:\.\d+)?\s*(?:mg|mcg|g|mL|units?|mEq)(?:/(?:day|dL|L|hr))?)\s*(?:\b(PO|IV|IM|SC|SubQ|SL|PR|INH)\b)?\s*(.*)$`)

// trailing parenthetical on a medication line, kept as instructions:
// "Metformin 500mg twice daily (take with meals)".
var medParenNote = regexp.MustCompile(`\s*\(([^)]+)\)\s*$`)

// parseMedicationLine attempts the structured name/dose/route/frequency
// match and falls back to whitespace-splitting the line into name + dose +
// remaining-as-frequency.
func parseMedicationLine(line string, isNew, isStopped bool) Medication {
	med := Medication{IsNew: isNew, IsStopped: isStopped}

	instructions := ""
	if m := medParenNote.FindStringSubmatch(line); m != nil {
		instructions = strings.TrimSpace(m[1])
		line = medParenNote.ReplaceAllString(line, "")
	}
	med.Instructions = instructions

	if m := medLine.FindStringSubmatch(line); m != nil {
		med.Name = strings.TrimSpace(m[1])
		med.Dose = strings.TrimSpace(m[2])
		freq := strings.TrimSpace(m[4])
		if route := strings.TrimSpace(m[3]); route != "" && freq != "" {
			freq = route + " " + freq
		} else if route != "" {
			freq = route
		}
		med.Frequency = freq
		return med
	}

	// Fallback: whitespace split.
	fields := strings.Fields(line)
	switch {
	case len(fields) == 0:
		return med
	case len(fields) == 1:
		med.Name = fields[0]
	case len(fields) == 2:
		med.Name = fields[0]
		med.Dose = fields[1]
	default:
		med.Name = fields[0]
		med.Dose = fields[1]
		med.Frequency = strings.Join(fields[2:], " ")
	}
	return med
}

// parseMedicationBlock bullet-decomposes a medication sub-list and parses
// each line.
func parseMedicationBlock(block string, isNew, isStopped bool) []Medication {
	var meds []Medication
	for _, item := range section.Bullets(block) {
		m := parseMedicationLine(item, isNew, isStopped)
		if m.Name == "" || isRedacted(m.Name) {
			continue
		}
		meds = append(meds, m)
	}
	return meds
}

// ---- follow-ups ----

// followUpLine matches "<provider> in <timeframe> for <notes>", with an
// optional leading "with"/"see" and an optional notes clause.
var followUpLine = regexp.MustCompile(`(?i)^(?:follow\s*up\s+)?(?:with\s+|see\s+)?(.+?)\s+in\s+(.+?)(?:\s+for\s+(.+))?$`)

// parseFollowUps bullet-decomposes a follow-up section. Items that do not
// match the provider/timeframe layout fall back to provider="Unknown" with
// the full line as the timeframe.
func parseFollowUps(block string) []FollowUp {
	var fups []FollowUp
	for _, item := range section.Bullets(block) {
		if m := followUpLine.FindStringSubmatch(item); m != nil {
			fups = append(fups, FollowUp{
				Provider:  strings.TrimSpace(m[1]),
				Timeframe: strings.TrimSpace(m[2]),
				Notes:     strings.TrimSpace(m[3]),
			})
			continue
		}
		fups = append(fups, FollowUp{Provider: "Unknown", Timeframe: item})
	}
	return fups
}

// ---- diet / activity ----

var activityKeywords = regexp.MustCompile(`(?i)\b(?:activity|walk|walking|lift|lifting|exercise|driving|stairs|rest|strenuous)\b`)

// avoidKeywords splits instruction lines into avoid/limit versus
// include/recommend buckets.
var avoidKeywords = regexp.MustCompile(`(?i)\b(?:avoid|limit|do not|don't|no\s+(?:heavy|strenuous|driving|lifting|alcohol|smoking)|restrict|stop)\b`)

// activityFromDiet pulls activity-related lines out of a combined
// diet/activity section when the document has no dedicated activity
// header.
func activityFromDiet(dietBlock string) string {
	var lines []string
	for _, item := range section.Bullets(dietBlock) {
		if activityKeywords.MatchString(item) {
			lines = append(lines, item)
		}
	}
	return strings.Join(lines, "\n")
}
