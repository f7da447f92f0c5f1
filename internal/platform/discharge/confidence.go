package discharge

// errorSentinelConfidence is assigned when any field extractor failed
// mid-parse. It deliberately sits between "nothing extracted" (0.0) and
// "everything extracted" (1.0) so downstream routing treats the result as
// partial rather than silently trusting or discarding it.
const errorSentinelConfidence = 0.5

const (
	criticalWeight  = 1.0
	importantWeight = 0.5
)

// scoreConfidence weighs the presence of critical fields (MRN, discharge
// date, discharge diagnosis, medications) against important fields
// (patient name, attending physician, hospital course, follow-ups, labs,
// vitals) and returns present/possible clamped to [0,1].
func scoreConfidence(s *ParsedSummary) float64 {
	critical := []bool{
		s.MRN != nil,
		s.DischargeDate != nil,
		len(s.DischargeDiagnosis) > 0,
		len(s.Medications) > 0,
	}
	important := []bool{
		s.PatientName != nil,
		s.AttendingPhysician != nil,
		s.HospitalCourse != nil,
		len(s.FollowUps) > 0,
		len(s.LabResults) > 0,
		!s.VitalSigns.Empty(),
	}

	var got, possible float64
	for _, present := range critical {
		possible += criticalWeight
		if present {
			got += criticalWeight
		}
	}
	for _, present := range important {
		possible += importantWeight
		if present {
			got += importantWeight
		}
	}

	score := got / possible
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
