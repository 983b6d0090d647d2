package workflow

import (
	"fmt"
	"strings"

	"iledu-loan/internal/core/domain"
)

// Stage is one of the three sequential sub-forms.
type Stage int

const (
	StageLoanDetails Stage = iota
	StageFamilyDetails
	StageDocuments
)

// Stages in presentation order.
var Stages = []Stage{StageLoanDetails, StageFamilyDetails, StageDocuments}

func (s Stage) String() string {
	switch s {
	case StageLoanDetails:
		return "LoanDetails"
	case StageFamilyDetails:
		return "FamilyDetails"
	case StageDocuments:
		return "Documents"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) Valid() bool {
	return s >= StageLoanDetails && s <= StageDocuments
}

// Action is a transition requested by the client.
type Action string

const (
	ActionNext   Action = "next"
	ActionBack   Action = "back"
	ActionSubmit Action = "submit"
)

// ParseAction accepts the action names case-insensitively.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionNext, ActionBack, ActionSubmit:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Flow is the immutable state of the stage machine: where the applicant is
// and what they have typed so far. Every transition returns a new Flow.
type Flow struct {
	Stage Stage `json:"stage"`
	Draft Draft `json:"draft"`
}

// NewFlow starts at the first stage with an empty draft.
func NewFlow() Flow {
	return Flow{Stage: StageLoanDetails}
}

// WithDraft replaces the draft without moving.
func (f Flow) WithDraft(d Draft) Flow {
	f.Draft = d
	return f
}

// Next advances one stage when the current stage validates. On failure the
// flow is returned unchanged along with the field errors. Next on the last
// stage only validates.
func (f Flow) Next(v *Validator) (Flow, domain.FieldErrors) {
	if errs := v.ValidateStage(f.Stage, f.Draft); len(errs) > 0 {
		return f, errs
	}
	if f.Stage < StageDocuments {
		f.Stage++
	}
	return f, nil
}

// Back moves one stage back. It never validates and never touches the draft.
func (f Flow) Back() Flow {
	if f.Stage > StageLoanDetails {
		f.Stage--
	}
	return f
}

// Submit checks that the whole draft is ready to send. It is only allowed
// from the last stage.
func (f Flow) Submit(v *Validator) (Flow, domain.FieldErrors) {
	if f.Stage != StageDocuments {
		return f, domain.FieldErrors{{Field: "stage", Message: "Complete every stage before submitting"}}
	}
	return f, v.ValidateDraft(f.Draft)
}

// Complete applies the submission outcome: success resets to an empty
// first stage, failure keeps everything so the applicant can retry.
func (f Flow) Complete(err error) Flow {
	if err != nil {
		return f
	}
	return NewFlow()
}

// Apply dispatches an action.
func (f Flow) Apply(a Action, v *Validator) (Flow, domain.FieldErrors) {
	switch a {
	case ActionNext:
		return f.Next(v)
	case ActionBack:
		return f.Back(), nil
	case ActionSubmit:
		return f.Submit(v)
	}
	return f, domain.FieldErrors{{Field: "action", Message: "Unknown action"}}
}
