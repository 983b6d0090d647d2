package workflow

var fieldLabels = map[string]string{
	"userDetails.applicantFirstName":   "First name",
	"userDetails.applicantLastName":    "Last name",
	"userDetails.purpose":              "Purpose",
	"userDetails.amountRequested":      "Amount requested",
	"userDetails.dob":                  "Date of birth",
	"familyDetails.fatherFirstName":    "Father's first name",
	"familyDetails.fatherLastName":     "Father's last name",
	"familyDetails.fatherOccupation":   "Father's occupation",
	"familyDetails.fatherIncome":       "Father's income",
	"familyDetails.motherFirstName":    "Mother's first name",
	"familyDetails.motherLastName":     "Mother's last name",
	"familyDetails.motherOccupation":   "Mother's occupation",
	"familyDetails.motherIncome":       "Mother's income",
	"familyDetails.guardianFirstName":  "Guardian's first name",
	"familyDetails.guardianLastName":   "Guardian's last name",
	"familyDetails.guardianOccupation": "Guardian's occupation",
}

var requiredOverrides = map[string]string{
	"userDetails.dob":                  "A date of birth is required.",
	"familyDetails.guardianFirstName":  "Guardian's first name is required when guardian details are provided",
	"familyDetails.guardianLastName":   "Guardian's last name is required when guardian details are provided",
	"familyDetails.guardianOccupation": "Guardian's occupation is required when guardian details are provided",
}

var documentMessages = map[string]string{
	"aadharCard":    "Aadhar card file is required",
	"marksheet10th": "10th marksheet file is required",
	"marksheet12th": "12th marksheet file is required",
	"rationCard":    "Ration card file is required if provided",
	"proofOfIncome": "Proof of income file is required if provided",
}

func label(path string) string {
	if l, ok := fieldLabels[path]; ok {
		return l
	}
	return path
}

func requiredMessage(path string) string {
	if m, ok := requiredOverrides[path]; ok {
		return m
	}
	return label(path) + " is required"
}

func message(path, tag string) string {
	switch tag {
	case "required":
		return requiredMessage(path)
	case "max":
		return label(path) + " is too long"
	case "positive_amount":
		return "Amount requested must be at least 1"
	case "nonneg_amount", "lenient_nonneg_amount":
		return label(path) + " must be a number that is not negative"
	case "dob_range":
		return "Date of birth must be a valid date between 1900-01-01 and today"
	case "occupation":
		return label(path) + " must be one of the listed occupations"
	}
	return label(path) + " is invalid"
}
