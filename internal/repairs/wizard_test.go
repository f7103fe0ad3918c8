package repairs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repairdepot/storefront/pkg/enums"
)

var fixedNow = time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)

func completeForm() Form {
	return Form{
		DeviceBrand:      "Apple",
		DeviceModel:      "iPhone 14",
		IssueCategory:    "screen",
		IssueDescription: "Cracked across the top corner",
		Name:             "Jordan Lee",
		Email:            "jordan@example.com",
		Phone:            "(555) 010-2030",
		ServiceType:      enums.ServiceTypeMailIn,
		PreferredDate:    "2026-06-10",
	}
}

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateStepDevice(t *testing.T) {
	errs := ValidateStep(StepDevice, Form{DeviceBrand: " "}, fixedNow)
	assert.Equal(t, []string{"device_brand", "device_model"}, fields(errs))
	assert.Empty(t, ValidateStep(StepDevice, completeForm(), fixedNow))
}

func TestValidateStepIssueNeedsTenCharacters(t *testing.T) {
	form := completeForm()
	form.IssueDescription = "too short"
	assert.Equal(t, []string{"issue_description"}, fields(ValidateStep(StepIssue, form, fixedNow)))

	form.IssueDescription = "ten chars!"
	assert.Empty(t, ValidateStep(StepIssue, form, fixedNow))

	form.IssueCategory = ""
	assert.Equal(t, []string{"issue_category"}, fields(ValidateStep(StepIssue, form, fixedNow)))
}

func TestValidateStepIssueCountsDescriptionAsTyped(t *testing.T) {
	form := completeForm()
	form.IssueDescription = "  short  "
	assert.Equal(t, []string{"issue_description"}, fields(ValidateStep(StepIssue, form, fixedNow)))

	form.IssueDescription = "   short  "
	assert.Empty(t, ValidateStep(StepIssue, form, fixedNow), "whitespace counts toward the length")
}

func TestValidateStepChecksOnlyItsOwnFields(t *testing.T) {
	form := Form{DeviceBrand: "Apple", DeviceModel: "iPhone 14"}
	assert.Empty(t, ValidateStep(StepDevice, form, fixedNow))
	assert.Equal(t, []string{"name", "email", "phone"}, fields(ValidateStep(StepContact, form, fixedNow)))
}

func TestValidateStepMessages(t *testing.T) {
	form := completeForm()
	form.PreferredDate = ""
	errs := ValidateStep(StepService, form, fixedNow)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Step: StepService, Field: "preferred_date", Message: "choose a preferred date"}, errs[0])

	form = completeForm()
	form.Phone = "12345"
	errs = ValidateStep(StepContact, form, fixedNow)
	require.Len(t, errs, 1)
	assert.Equal(t, "phone number needs at least 10 digits", errs[0].Message)
}

func TestValidateStepContact(t *testing.T) {
	form := completeForm()
	form.Email = "jordan.example.com"
	form.Phone = "555-0102"
	assert.Equal(t, []string{"email", "phone"}, fields(ValidateStep(StepContact, form, fixedNow)))

	form.Email = "jordan@example.co"
	form.Phone = "+1 555 010 2030"
	assert.Empty(t, ValidateStep(StepContact, form, fixedNow))
}

func TestValidateStepService(t *testing.T) {
	form := completeForm()
	form.ServiceType = enums.ServiceTypeInStore
	assert.Equal(t, []string{"store_id"}, fields(ValidateStep(StepService, form, fixedNow)))

	form.ServiceType = "pickup"
	form.PreferredDate = "2026-06-09"
	assert.Equal(t, []string{"service_type", "preferred_date"}, fields(ValidateStep(StepService, form, fixedNow)))

	form = completeForm()
	form.PreferredDate = "06/12/2026"
	assert.Equal(t, []string{"preferred_date"}, fields(ValidateStep(StepService, form, fixedNow)))

	form.PreferredDate = "2026-06-10"
	assert.Empty(t, ValidateStep(StepService, form, fixedNow), "today is allowed")
}

func TestWizardBlocksNextUntilStepIsValid(t *testing.T) {
	w := NewWizard(func() time.Time { return fixedNow })
	require.Equal(t, StepDevice, w.Current())
	assert.False(t, w.CanAdvance())

	errs := w.Next()
	assert.NotEmpty(t, errs)
	assert.Equal(t, StepDevice, w.Current())

	w.Form.DeviceBrand = "Samsung"
	w.Form.DeviceModel = "Galaxy S23"
	assert.True(t, w.CanAdvance())
	assert.Empty(t, w.Next())
	assert.Equal(t, StepIssue, w.Current())

	w.Form.IssueCategory = "battery"
	w.Form.IssueDescription = "short"
	assert.Equal(t, []string{"issue_description"}, fields(w.Next()))
	assert.Equal(t, StepIssue, w.Current())

	assert.True(t, w.Back())
	assert.Equal(t, StepDevice, w.Current())
	assert.False(t, w.Back())
}

func TestWizardStopsAtLastStep(t *testing.T) {
	w := NewWizard(func() time.Time { return fixedNow })
	w.Form = completeForm()
	for range Steps {
		require.Empty(t, w.Next())
	}
	assert.True(t, w.IsLast())
	assert.Equal(t, StepService, w.Current())
	assert.Empty(t, w.Next())
	assert.Equal(t, StepService, w.Current())
}

func TestValidateAllTagsSteps(t *testing.T) {
	errs := ValidateAll(Form{}, fixedNow)
	steps := map[Step]bool{}
	for _, e := range errs {
		steps[e.Step] = true
	}
	assert.Len(t, steps, 4)
	assert.Equal(t, "contact", StepContact.String())
}
