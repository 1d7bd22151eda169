package form

import "strings"

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone drops the separators people type between digit groups, so
// "+1 (415) 555-0100" becomes "+14155550100"
func NormalizePhone(s string) string {
	return phoneSeparators.Replace(strings.TrimSpace(s))
}

// UserInput is the entry form on the home page
type UserInput struct {
	Name  string `json:"name" form:"name" validate:"required,min=2,max=50"`
	Email string `json:"email" form:"email" validate:"required,email"`
	Phone string `json:"phone" form:"phone" validate:"required,e164"`
}

// Normalize returns the input with its phone number in E.164 form
func (in UserInput) Normalize() UserInput {
	in.Phone = NormalizePhone(in.Phone)
	return in
}

func (in UserInput) Validate() error {
	return check(in.Normalize())
}

func UserFields() []Field {
	return []Field{
		{Type: FieldInput, Name: "name", Label: "Full name", Placeholder: "John Doe", IconSrc: "/assets/icons/user.svg", IconAlt: "user"},
		{Type: FieldInput, Name: "email", Label: "Email", Placeholder: "johndoe@gmail.com", IconSrc: "/assets/icons/email.svg", IconAlt: "email", InputType: "email"},
		{Type: FieldPhoneInput, Name: "phone", Label: "Phone number", Placeholder: "+1 415 555 0100"},
	}
}

func (in UserInput) Values() map[string]string {
	return map[string]string{"name": in.Name, "email": in.Email, "phone": in.Phone}
}
