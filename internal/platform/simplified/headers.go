// Package simplified decodes the fixed markup convention produced by the
// upstream AI simplification step: "##" section headers, "**bold**"
// subheaders, pipe-delimited medication tables, and bullet lists. Header
// recognition is language-union matching — each semantic header compiles
// the literal synonyms of every supported locale into one alternation, so
// a document may mix languages header by header.
package simplified

import (
	"regexp"
	"sort"
	"strings"
)

// Semantic header keys. Adding a locale is a data change in headerSynonyms,
// not a code change.
const (
	keyOverview       = "overview"
	keyReasonsForStay = "reasonsForStay"
	keyWhatHappened   = "whatHappened"
	keyMedications    = "medications"
	keyAppointments   = "appointments"
	keyDietActivity   = "dietActivity"
	keyFoodsInclude   = "foodsToInclude"
	keyFoodsLimit     = "foodsToLimit"
	keyActivitiesRec  = "recommendedActivities"
	keyActivitiesAvd  = "activitiesToAvoid"
	keyWarningSigns   = "warningSigns"
	keyCall911        = "call911"
	keyCallDoctor     = "callDoctor"
	keyEmergency      = "emergencyContacts"
	keyMedTableHeader = "medicationTableHeader"
)

// headerSynonyms maps each semantic header to its literal spellings across
// the supported locales: English, Spanish, French, Hindi, Vietnamese, and
// Pashto.
var headerSynonyms = map[string][]string{
	keyOverview: {
		"Overview", "Summary",
		"Resumen", "Descripción General",
		"Aperçu", "Résumé",
		"सारांश", "अवलोकन",
		"Tổng quan", "Tóm tắt",
		"لنډیز", "عمومي کتنه",
	},
	keyReasonsForStay: {
		"Reasons for Your Hospital Stay", "Why You Were in the Hospital", "Reason for Stay",
		"Razones de su Estancia en el Hospital", "Por qué Estuvo en el Hospital",
		"Raisons de Votre Hospitalisation", "Pourquoi Vous Étiez à l'Hôpital",
		"आपके अस्पताल में रहने के कारण", "आप अस्पताल में क्यों थे",
		"Lý do Bạn Nằm Viện", "Lý do Nhập Viện",
		"ستاسو د روغتون د پاتې کیدو لاملونه",
	},
	keyWhatHappened: {
		"What Happened During Your Stay", "What Happened",
		"Qué Sucedió Durante su Estancia", "Qué Pasó",
		"Ce Qui s'est Passé Pendant Votre Séjour",
		"आपके प्रवास के दौरान क्या हुआ", "क्या हुआ",
		"Điều Gì Đã Xảy Ra Trong Thời Gian Nằm Viện",
		"ستاسو د پاتې کیدو پر مهال څه وشول",
	},
	keyMedications: {
		"Medications", "Your Medications",
		"Medicamentos", "Sus Medicamentos",
		"Médicaments", "Vos Médicaments",
		"दवाइयाँ", "आपकी दवाएं",
		"Thuốc", "Thuốc Của Bạn",
		"درمل", "ستاسو درمل",
	},
	keyAppointments: {
		"Appointments", "Upcoming Appointments", "Follow-up Appointments",
		"Citas", "Próximas Citas",
		"Rendez-vous", "Prochains Rendez-vous",
		"अपॉइंटमेंट", "आगामी अपॉइंटमेंट",
		"Cuộc Hẹn", "Các Cuộc Hẹn Sắp Tới",
		"ملاقاتونه", "راتلونکې ملاقاتونه",
	},
	keyDietActivity: {
		"Diet & Activity", "Diet and Activity",
		"Dieta y Actividad",
		"Alimentation et Activité", "Régime et Activité",
		"आहार और गतिविधि",
		"Chế Độ Ăn và Hoạt Động",
		"خواړه او فعالیت",
	},
	keyFoodsInclude: {
		"Foods to Include", "Foods to Eat",
		"Alimentos a Incluir", "Alimentos Recomendados",
		"Aliments à Privilégier", "Aliments à Inclure",
		"खाने योग्य खाद्य पदार्थ",
		"Thực Phẩm Nên Ăn",
		"هغه خواړه چې ویې خورئ",
	},
	keyFoodsLimit: {
		"Foods to Limit", "Foods to Avoid",
		"Alimentos a Limitar", "Alimentos a Evitar",
		"Aliments à Limiter", "Aliments à Éviter",
		"सीमित करने योग्य खाद्य पदार्थ",
		"Thực Phẩm Nên Hạn Chế",
		"هغه خواړه چې محدود یې کړئ",
	},
	keyActivitiesRec: {
		"Recommended Activities",
		"Actividades Recomendadas",
		"Activités Recommandées",
		"अनुशंसित गतिविधियाँ",
		"Hoạt Động Được Khuyến Nghị",
		"وړاندیز شوي فعالیتونه",
	},
	keyActivitiesAvd: {
		"Activities to Avoid",
		"Actividades a Evitar",
		"Activités à Éviter",
		"बचने योग्य गतिविधियाँ",
		"Hoạt Động Cần Tránh",
		"هغه فعالیتونه چې ډډه ترې وکړئ",
	},
	keyWarningSigns: {
		"Warning Signs",
		"Señales de Advertencia", "Signos de Alarma",
		"Signes d'Alerte",
		"चेतावनी के संकेत",
		"Dấu Hiệu Cảnh Báo",
		"د خبرداري نښې",
	},
	keyCall911: {
		"Call 911", "Call 911 If",
		"Llame al 911",
		"Appelez le 911",
		"911 पर कॉल करें",
		"Gọi 911",
		"911 ته زنګ ووهئ",
	},
	keyCallDoctor: {
		"Call Your Doctor", "Call Your Doctor If",
		"Llame a su Médico",
		"Appelez Votre Médecin",
		"अपने डॉक्टर को कॉल करें",
		"Gọi Bác Sĩ Của Bạn",
		"خپل ډاکټر ته زنګ ووهئ",
	},
	keyEmergency: {
		"Emergency Contacts",
		"Contactos de Emergencia",
		"Contacts d'Urgence",
		"आपातकालीन संपर्क",
		"Liên Hệ Khẩn Cấp",
		"بیړني اړیکې",
	},
	// Keywords that identify a medication table header row when the row
	// itself carries no pipe delimiter.
	keyMedTableHeader: {
		"Medicine", "Medication", "Name",
		"Medicamento", "Medicina",
		"Médicament",
		"दवा",
		"Thuốc",
		"درمل",
	},
}

// union builds a case-insensitive alternation of the literal synonyms for
// a semantic key. Longer synonyms are tried first so "Foods to Limit"
// wins over a shorter overlapping spelling.
func union(key string) string {
	syns := append([]string(nil), headerSynonyms[key]...)
	sort.Slice(syns, func(i, j int) bool { return len(syns[i]) > len(syns[j]) })
	quoted := make([]string, len(syns))
	for i, s := range syns {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// sectionHeader matches a "##"-level header for the given semantic key in
// any supported language.
func sectionHeader(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*#{2,3}[ \t]*` + union(key) + `[^\n]*$`)
}

// boldHeader matches a "**bold**" subheader for the given semantic key.
func boldHeader(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*\*\*[ \t]*` + union(key) + `[^\n]*$`)
}

// Compiled once; the decoder is read-only and safe for concurrent use.
var (
	reOverview     = sectionHeader(keyOverview)
	reMedications  = sectionHeader(keyMedications)
	reAppointments = sectionHeader(keyAppointments)
	reDietActivity = sectionHeader(keyDietActivity)
	reWarningSigns = sectionHeader(keyWarningSigns)

	reReasons    = boldHeader(keyReasonsForStay)
	reHappened   = boldHeader(keyWhatHappened)
	reFoodsIncl  = boldHeader(keyFoodsInclude)
	reFoodsLimit = boldHeader(keyFoodsLimit)
	reActRec     = boldHeader(keyActivitiesRec)
	reActAvoid   = boldHeader(keyActivitiesAvd)
	reCall911    = boldHeader(keyCall911)
	reCallDoctor = boldHeader(keyCallDoctor)
	reEmergency  = boldHeader(keyEmergency)

	reMedTableHint = regexp.MustCompile(`(?i)` + union(keyMedTableHeader))

	// Generic boundaries: the next header at the same or a higher level
	// terminates the current section.
	anySectionHeader = regexp.MustCompile(`(?m)^[ \t]*#{1,3}[ \t]+\S`)
	anyBoldHeader    = regexp.MustCompile(`(?m)^[ \t]*\*\*[^\n]+`)
)
