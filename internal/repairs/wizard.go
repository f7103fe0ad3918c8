package repairs

import (
	"fmt"
	"time"

	"github.com/repairdepot/storefront/pkg/enums"
	"github.com/repairdepot/storefront/pkg/validate"
)

// Step is one page of the booking wizard.
type Step int

const (
	StepDevice Step = iota + 1
	StepIssue
	StepContact
	StepService
)

// Steps lists the wizard pages in order.
var Steps = []Step{StepDevice, StepIssue, StepContact, StepService}

// DateLayout is the wire format of a preferred date.
const DateLayout = "2006-01-02"

// minIssueDescription mirrors the min tag on IssueDescription.
const minIssueDescription = 10

// stepFields names the Form fields each step validates.
var stepFields = map[Step][]string{
	StepDevice:  {"DeviceBrand", "DeviceModel"},
	StepIssue:   {"IssueCategory", "IssueDescription"},
	StepContact: {"Name", "Email", "Phone"},
	StepService: {"ServiceType", "StoreID", "PreferredDate"},
}

func (s Step) String() string {
	switch s {
	case StepDevice:
		return "device"
	case StepIssue:
		return "issue"
	case StepContact:
		return "contact"
	case StepService:
		return "service"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Form is everything the wizard collects.
type Form struct {
	DeviceBrand      string            `json:"device_brand" validate:"notblank"`
	DeviceModel      string            `json:"device_model" validate:"notblank"`
	IssueCategory    string            `json:"issue_category" validate:"notblank"`
	IssueDescription string            `json:"issue_description" validate:"min=10"`
	Name             string            `json:"name" validate:"notblank"`
	Email            string            `json:"email" validate:"required,email"`
	Phone            string            `json:"phone" validate:"phone"`
	ServiceType      enums.ServiceType `json:"service_type" validate:"oneof=in_store mail_in"`
	StoreID          string            `json:"store_id,omitempty" validate:"required_if=ServiceType in_store"`
	PreferredDate    string            `json:"preferred_date" validate:"required,datetime=2006-01-02"`
}

// FieldError names one field that failed its validator.
type FieldError struct {
	Step    Step   `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateStep runs the declared validators of one step. now decides what
// counts as a past date.
func ValidateStep(step Step, form Form, now time.Time) []FieldError {
	fields, ok := stepFields[step]
	if !ok {
		return []FieldError{{Step: step, Field: "step", Message: "unknown step"}}
	}

	verrs, ok := validate.Errors(validate.Default().StructPartial(form, fields...))
	if !ok {
		return []FieldError{{Step: step, Field: "form", Message: "form could not be validated"}}
	}
	errs := make([]FieldError, 0, len(verrs))
	dateFailed := false
	for _, fe := range verrs {
		if fe.Field() == "preferred_date" {
			dateFailed = true
		}
		errs = append(errs, FieldError{Step: step, Field: fe.Field(), Message: fieldMessage(fe.Field(), fe.Tag())})
	}
	if step == StepService && !dateFailed && inPast(form.PreferredDate, now) {
		errs = append(errs, FieldError{Step: step, Field: "preferred_date", Message: "preferred date cannot be in the past"})
	}
	return errs
}

func fieldMessage(field, tag string) string {
	switch field {
	case "device_brand":
		return "select a device brand"
	case "device_model":
		return "select a device model"
	case "issue_category":
		return "select an issue category"
	case "issue_description":
		return fmt.Sprintf("describe the issue in at least %d characters", minIssueDescription)
	case "name":
		return "name is required"
	case "email":
		return "enter a valid email address"
	case "phone":
		return fmt.Sprintf("phone number needs at least %d digits", validate.MinPhoneDigits)
	case "service_type":
		return "choose in-store or mail-in service"
	case "store_id":
		return "choose a store for in-store service"
	case "preferred_date":
		if tag == "required" {
			return "choose a preferred date"
		}
		return "use the YYYY-MM-DD date format"
	}
	return field + " is invalid"
}

// ValidateAll runs every step in order.
func ValidateAll(form Form, now time.Time) []FieldError {
	var errs []FieldError
	for _, step := range Steps {
		errs = append(errs, ValidateStep(step, form, now)...)
	}
	return errs
}

// inPast reports whether a well-formed date is before today in now's zone.
func inPast(value string, now time.Time) bool {
	date, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	return date.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}

// Wizard walks a Form through the steps, refusing to advance past a step
// whose validators fail.
type Wizard struct {
	Form Form
	step Step
	now  func() time.Time
}

// NewWizard starts at the device step. A nil clock uses time.Now.
func NewWizard(now func() time.Time) *Wizard {
	if now == nil {
		now = time.Now
	}
	return &Wizard{step: StepDevice, now: now}
}

// Current returns the active step.
func (w *Wizard) Current() Step {
	return w.step
}

// Errors validates the active step.
func (w *Wizard) Errors() []FieldError {
	return ValidateStep(w.step, w.Form, w.now())
}

// CanAdvance is true only when the active step has no field errors.
func (w *Wizard) CanAdvance() bool {
	return len(w.Errors()) == 0
}

// IsLast reports whether the active step is the final one.
func (w *Wizard) IsLast() bool {
	return w.step == StepService
}

// Next moves forward when the active step is valid and returns the errors
// that blocked it otherwise. It never moves past the last step.
func (w *Wizard) Next() []FieldError {
	if errs := w.Errors(); len(errs) > 0 {
		return errs
	}
	if !w.IsLast() {
		w.step++
	}
	return nil
}

// Back moves to the previous step without validating.
func (w *Wizard) Back() bool {
	if w.step == StepDevice {
		return false
	}
	w.step--
	return true
}
