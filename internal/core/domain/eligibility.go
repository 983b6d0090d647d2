package domain

// CanApply is true when the profile has no applications or every one of
// them was rejected. A pending or accepted application blocks a new one.
func CanApply(applications []LoanApplication) bool {
	for _, a := range applications {
		if a.Status != StatusRejected {
			return false
		}
	}
	return true
}

// Tone is the display bucket for a status badge.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneDanger  Tone = "danger"
	ToneSuccess Tone = "success"
)

// DisplayStatus is the presentation form of an application status. Color
// names the badge color the web client renders for the bucket.
type DisplayStatus struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
	Color string `json:"color"`
}

// DisplayStatusOf maps the stored status into one of the three buckets.
// Unknown values fall into the pending bucket with their raw label.
func DisplayStatusOf(s ApplicationStatus) DisplayStatus {
	switch s {
	case StatusRejected:
		return DisplayStatus{Label: "rejected", Tone: ToneDanger, Color: "red"}
	case StatusAccepted:
		return DisplayStatus{Label: "accepted", Tone: ToneSuccess, Color: "green"}
	case StatusPending:
		return DisplayStatus{Label: "pending", Tone: ToneNeutral, Color: "gray"}
	default:
		return DisplayStatus{Label: string(s), Tone: ToneNeutral, Color: "gray"}
	}
}
