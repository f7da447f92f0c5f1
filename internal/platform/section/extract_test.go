package section

import (
	"regexp"
	"testing"
)

var (
	startDiag = regexp.MustCompile(`(?i)DISCHARGE DIAGNOSIS:?`)
	endCourse = regexp.MustCompile(`(?i)HOSPITAL COURSE:?`)
	endMeds   = regexp.MustCompile(`(?i)MEDICATIONS:?`)
)

func TestExtract_BetweenStartAndNearestEnd(t *testing.T) {
	text := "DISCHARGE DIAGNOSIS:\nAcute appendicitis\nHOSPITAL COURSE:\nUneventful.\nMEDICATIONS:\nNone."

	// End order must not matter: HOSPITAL COURSE is nearer even when
	// listed last.
	body, ok := Extract(text, startDiag, []*regexp.Regexp{endMeds, endCourse})
	if !ok {
		t.Fatal("expected section to be found")
	}
	if body != "Acute appendicitis" {
		t.Errorf("expected 'Acute appendicitis', got %q", body)
	}
}

func TestExtract_NoStartMatch(t *testing.T) {
	if _, ok := Extract("nothing relevant here", startDiag, []*regexp.Regexp{endCourse}); ok {
		t.Error("expected absent section when start pattern never matches")
	}
}

func TestExtract_NoEndMatchRunsToEOF(t *testing.T) {
	text := "DISCHARGE DIAGNOSIS: Pneumonia, resolving"
	body, ok := Extract(text, startDiag, []*regexp.Regexp{endCourse, endMeds})
	if !ok {
		t.Fatal("expected section to be found")
	}
	if body != "Pneumonia, resolving" {
		t.Errorf("expected section to run to end of text, got %q", body)
	}
}

func TestExtract_EmptyBodyIsAbsent(t *testing.T) {
	text := "DISCHARGE DIAGNOSIS:\nHOSPITAL COURSE:\nstable"
	if _, ok := Extract(text, startDiag, []*regexp.Regexp{endCourse}); ok {
		t.Error("expected header with empty body to be treated as absent")
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	text := "discharge diagnosis: CHF exacerbation"
	body, ok := Extract(text, startDiag, nil)
	if !ok || body != "CHF exacerbation" {
		t.Errorf("expected case-insensitive match, got %q (ok=%v)", body, ok)
	}
}

func TestExtractAny_FirstPatternWins(t *testing.T) {
	text := "FINAL DIAGNOSIS: Sepsis\nHOSPITAL COURSE: improved"
	starts := []*regexp.Regexp{
		regexp.MustCompile(`(?i)DISCHARGE DIAGNOSIS:?`),
		regexp.MustCompile(`(?i)FINAL DIAGNOSIS:?`),
	}
	body, ok := ExtractAny(text, starts, []*regexp.Regexp{endCourse})
	if !ok || body != "Sepsis" {
		t.Errorf("expected fallback start pattern to match, got %q (ok=%v)", body, ok)
	}
}
