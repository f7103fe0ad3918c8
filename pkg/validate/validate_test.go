package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"contact_email" validate:"required,email"`
	Phone string `json:"phone" validate:"phone"`
	SKU   string `json:"sku" validate:"omitempty,sku"`
}

func TestCustomTagsAndJSONNames(t *testing.T) {
	err := Default().Struct(contact{Name: "   ", Email: "not-an-email", Phone: "555-0102", SKU: "-bad"})
	errs, ok := Errors(err)
	require.True(t, ok)

	got := map[string]string{}
	for _, fe := range errs {
		got[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"name":          "notblank",
		"contact_email": "email",
		"phone":         "phone",
		"sku":           "sku",
	}, got)
}

func TestPhoneCountsDigitsOnly(t *testing.T) {
	assert.NoError(t, Default().Var("(555) 010-2030", "phone"))
	assert.NoError(t, Default().Var("+1 555 010 2030", "phone"))
	assert.Error(t, Default().Var("555-010-203", "phone"))
}

func TestStructPartialChecksNamedFieldsOnly(t *testing.T) {
	err := Default().StructPartial(contact{Name: "Jordan"}, "Name", "SKU")
	assert.NoError(t, err)
}

func TestErrorsRejectsForeignErrors(t *testing.T) {
	errs, ok := Errors(nil)
	assert.True(t, ok)
	assert.Empty(t, errs)

	_, ok = Errors(errors.New("boom"))
	assert.False(t, ok)
}
