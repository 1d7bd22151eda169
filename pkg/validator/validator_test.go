package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name   string `json:"name" validate:"required,min=2,max=50"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required,e164"`
	Agreed bool   `json:"agreed" validate:"consent"`
}

type palette struct {
	Color  string `json:"color" validate:"omitempty,color"`
	Agreed bool   `json:"agreed" validate:"consent"`
}

func TestValidateReportsFieldsByJSONName(t *testing.T) {
	v := New()
	fields, err := v.Validate(signup{Name: "A", Email: "nope", Phone: "0612"})
	require.NoError(t, err)

	assert.Equal(t, "Must be at least 2 characters", fields["name"])
	assert.Equal(t, "Invalid email address", fields["email"])
	assert.Equal(t, "Invalid phone number", fields["phone"])
	assert.Equal(t, "You must consent in order to proceed", fields["agreed"])
}

func TestValidatePasses(t *testing.T) {
	fields, err := New().Validate(signup{Name: "Ada", Email: "ada@example.com", Phone: "+14155550100", Agreed: true})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestCustomValidationAndFieldMessage(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterValidation("color", "Pick a primary color", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "red", "blue", "yellow":
			return true
		}
		return false
	}))
	v.SetMessage("agreed.consent", "You must agree to the terms")

	fields, err := v.Validate(palette{Color: "green"})
	require.NoError(t, err)
	assert.Equal(t, "Pick a primary color", fields["color"])
	assert.Equal(t, "You must agree to the terms", fields["agreed"])
}

func TestValidateRejectsNonStruct(t *testing.T) {
	_, err := New().Validate("not a struct")
	assert.Error(t, err)
}
