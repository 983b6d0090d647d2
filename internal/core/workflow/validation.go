package workflow

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"iledu-loan/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	sectionUser     = "userDetails"
	sectionFamily   = "familyDetails"
	sectionDocument = "documents"
)

var earliestDOB = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

type todayKey struct{}

// Validator checks stage sub-objects. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator builds a Validator. now supplies "today" for the date of
// birth bound; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch val := field.Interface().(type) {
		case Numeric:
			return val.Raw
		case Date:
			return val.Raw
		}
		return nil
	}, Numeric{}, Date{})

	mustRegister(v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive() && d.IntPart() > 0
	}))
	mustRegister(v.RegisterValidation("nonneg_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	}))
	// Optional incomes that are not numbers are stored as 0, so only a
	// parseable negative value is rejected.
	mustRegister(v.RegisterValidation("lenient_nonneg_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err != nil || !d.IsNegative()
	}))
	mustRegister(v.RegisterValidation("occupation", func(fl validator.FieldLevel) bool {
		return domain.IsOccupation(fl.Field().String())
	}))
	mustRegister(v.RegisterValidationCtx("dob_range", func(ctx context.Context, fl validator.FieldLevel) bool {
		dob, ok := Date{Raw: fl.Field().String()}.Time()
		if !ok {
			return false
		}
		today, _ := ctx.Value(todayKey{}).(time.Time)
		return !dob.Before(earliestDOB) && !dob.After(today)
	}))

	return &Validator{validate: v, now: now}
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

func (v *Validator) today() time.Time {
	return truncateDay(v.now().UTC())
}

// ValidateLoanDetails checks stage 0.
func (v *Validator) ValidateLoanDetails(l LoanDetails) domain.FieldErrors {
	ctx := context.WithValue(context.Background(), todayKey{}, v.today())
	return v.translate(sectionUser, v.validate.StructCtx(ctx, l.normalized()))
}

// ValidateFamilyDetails checks stage 1: per-field rules first, then the
// father/guardian requirement.
func (v *Validator) ValidateFamilyDetails(f FamilyDetails) domain.FieldErrors {
	f = f.normalized()
	errs := v.translate(sectionFamily, v.validate.Struct(f))
	for _, fe := range familyRule(f) {
		errs = errs.Add(fe.Field, fe.Message)
	}
	return errs
}

// ValidateDocuments checks stage 2: per-slot presence, then the ration
// card / proof of income rule.
func (v *Validator) ValidateDocuments(d Documents) domain.FieldErrors {
	var errs domain.FieldErrors
	for _, slot := range domain.DocumentSlots {
		f := d.Get(slot.Name)
		path := sectionDocument + "." + slot.Name
		switch {
		case slot.Required && !f.Present():
			errs = errs.Add(path, documentMessages[slot.Name])
		case !slot.Required && f != nil && !f.Present():
			errs = errs.Add(path, documentMessages[slot.Name])
		}
	}
	for _, fe := range DocumentRule(d) {
		errs = errs.Add(fe.Field, fe.Message)
	}
	return errs
}

// ValidateStage checks only the sub-object owned by stage.
func (v *Validator) ValidateStage(stage Stage, d Draft) domain.FieldErrors {
	switch stage {
	case StageLoanDetails:
		return v.ValidateLoanDetails(d.UserDetails)
	case StageFamilyDetails:
		return v.ValidateFamilyDetails(d.FamilyDetails)
	case StageDocuments:
		return v.ValidateDocuments(d.Documents)
	}
	return domain.FieldErrors{{Field: "stage", Message: "Unknown stage"}}
}

// ValidateDraft checks all three stages in order.
func (v *Validator) ValidateDraft(d Draft) domain.FieldErrors {
	var errs domain.FieldErrors
	for _, s := range Stages {
		errs = append(errs, v.ValidateStage(s, d)...)
	}
	return errs
}

// DocumentRule is the cross-field documents constraint: a ration card needs
// a proof of income. The violation is reported on proofOfIncome.
func DocumentRule(d Documents) domain.FieldErrors {
	var errs domain.FieldErrors
	if d.RationCard != nil && !d.ProofOfIncome.Present() {
		errs = errs.Add(sectionDocument+".proofOfIncome", "Proof of income is required if ration card is provided")
	}
	return errs
}

// familyRule makes the father block mandatory unless a complete guardian
// block replaces it, and makes a started guardian block all-or-nothing.
func familyRule(f FamilyDetails) domain.FieldErrors {
	var errs domain.FieldErrors
	require := func(field string, empty bool) {
		if empty {
			path := sectionFamily + "." + field
			errs = errs.Add(path, requiredMessage(path))
		}
	}

	if f.HasGuardian() {
		require("guardianFirstName", f.GuardianFirstName == "")
		require("guardianLastName", f.GuardianLastName == "")
		require("guardianOccupation", f.GuardianOccupation == "")
	}
	if !f.CompleteGuardian() {
		require("fatherFirstName", f.FatherFirstName == "")
		require("fatherLastName", f.FatherLastName == "")
		require("fatherOccupation", f.FatherOccupation == "")
		require("fatherIncome", f.FatherIncome.IsZero())
	}
	return errs
}

func (v *Validator) translate(section string, err error) domain.FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.FieldErrors{{Field: section, Message: err.Error()}}
	}
	var errs domain.FieldErrors
	for _, fe := range verrs {
		path := section + "." + fe.Field()
		errs = errs.Add(path, message(path, fe.Tag()))
	}
	return errs
}
