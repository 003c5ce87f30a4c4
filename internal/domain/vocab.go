package domain

// DoseForms is the fixed vocabulary of dosage-form names a reminder may use.
var DoseForms = []string{
	"Tablet",
	"Capsules",
	"Cream",
	"Drops",
	"Gel",
	"Inhaler",
	"Injection",
	"Lotion",
	"Mouthwash",
	"Ointment",
	"Others",
	"Physiotherapy",
	"Powder",
	"Spray",
	"Suppository",
	"Syrup",
	"TreatmentSessions",
}

// DoseInstructions is the fixed vocabulary of dosing-instruction phrases.
var DoseInstructions = []string{
	"Before meal",
	"After meal",
	"During meal",
	"Empty stomach",
	"With water",
	"Never take with milk",
	"Avoid sugar",
	"Avoid salty food",
	"Avoid fatty food",
	"Eat more vegetables",
	"Eat more iron-rich food",
	"No specific instruction",
}

// IsDoseForm reports whether s is one of the known dosage forms.
func IsDoseForm(s string) bool {
	for _, f := range DoseForms {
		if f == s {
			return true
		}
	}
	return false
}

// IsDoseInstruction reports whether s is one of the known instruction phrases.
func IsDoseInstruction(s string) bool {
	for _, i := range DoseInstructions {
		if i == s {
			return true
		}
	}
	return false
}
