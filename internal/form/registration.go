package form

import (
	"bytes"
	"html/template"
	"time"

	"github.com/jwalitptl/caretrack/internal/model"
)

// RegistrationInput is the patient intake form
type RegistrationInput struct {
	Name                   string       `json:"name" validate:"required,min=2,max=50"`
	Email                  string       `json:"email" validate:"required,email"`
	Phone                  string       `json:"phone" validate:"required,e164"`
	BirthDate              time.Time    `json:"birthDate" validate:"required"`
	Gender                 model.Gender `json:"gender" validate:"required,oneof=male female other"`
	Address                string       `json:"address" validate:"required,min=5,max=500"`
	Occupation             string       `json:"occupation" validate:"required,min=2,max=500"`
	EmergencyContactName   string       `json:"emergencyContactName" validate:"required,min=2,max=50"`
	EmergencyContactNumber string       `json:"emergencyContactNumber" validate:"required,e164"`
	PrimaryPhysician       string       `json:"primaryPhysician" validate:"required,doctor"`
	InsuranceProvider      string       `json:"insuranceProvider" validate:"required,min=2,max=50"`
	InsurancePolicyNumber  string       `json:"insurancePolicyNumber" validate:"required,min=2,max=50"`
	Allergies              string       `json:"allergies" validate:"max=500"`
	CurrentMedication      string       `json:"currentMedication" validate:"max=500"`
	FamilyMedicalHistory   string       `json:"familyMedicalHistory" validate:"max=500"`
	PastMedicalHistory     string       `json:"pastMedicalHistory" validate:"max=500"`
	IdentificationType     string       `json:"identificationType" validate:"omitempty,idtype"`
	IdentificationNumber   string       `json:"identificationNumber" validate:"max=50"`
	TreatmentConsent       bool         `json:"treatmentConsent" validate:"consent"`
	DisclosureConsent      bool         `json:"disclosureConsent" validate:"consent"`
	PrivacyConsent         bool         `json:"privacyConsent" validate:"consent"`
}

// Validate runs every rule of the intake form. It never touches the backend.
func (in RegistrationInput) Normalize() RegistrationInput {
	in.Phone = NormalizePhone(in.Phone)
	in.EmergencyContactNumber = NormalizePhone(in.EmergencyContactNumber)
	return in
}

func (in RegistrationInput) Validate() error {
	return check(in.Normalize())
}

// RegistrationRequired lists the fields the intake form cannot be submitted without
func RegistrationRequired() []string {
	return requiredFields(RegistrationInput{})
}

// RegistrationDefaults merges the user record onto the catalog defaults
func RegistrationDefaults(user model.User, now time.Time) RegistrationInput {
	return RegistrationInput{
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		BirthDate:          now,
		Gender:             model.DefaultGender,
		IdentificationType: model.DefaultIdentificationType,
	}
}

// Patient builds the patient record for userID
func (in RegistrationInput) Patient(userID string) model.Patient {
	return model.Patient{
		UserID:               userID,
		Name:                 in.Name,
		Email:                in.Email,
		Phone:                in.Phone,
		BirthDate:            in.BirthDate,
		Gender:               in.Gender,
		Address:              in.Address,
		Occupation:           in.Occupation,
		EmergencyContact:     model.EmergencyContact{Name: in.EmergencyContactName, Number: in.EmergencyContactNumber},
		PrimaryPhysician:     in.PrimaryPhysician,
		Insurance:            model.Insurance{Provider: in.InsuranceProvider, PolicyNumber: in.InsurancePolicyNumber},
		Allergies:            in.Allergies,
		CurrentMedication:    in.CurrentMedication,
		FamilyMedicalHistory: in.FamilyMedicalHistory,
		PastMedicalHistory:   in.PastMedicalHistory,
		Identification:       model.Identification{Type: in.IdentificationType, Number: in.IdentificationNumber},
		Consents: model.Consents{
			Treatment:  in.TreatmentConsent,
			Disclosure: in.DisclosureConsent,
			Privacy:    in.PrivacyConsent,
		},
	}
}

var radioGroup = template.Must(template.New("radio").Parse(
	`<div class="radio-group-wrapper">{{$value := .Value}}{{$name := .Name}}{{range .Options}}` +
		`<div class="radio-group"><input type="radio" id="{{$name}}-{{.Value}}" name="{{$name}}" value="{{.Value}}"{{if eq .Value $value}} checked{{end}}>` +
		`<label for="{{$name}}-{{.Value}}" class="cursor-pointer">{{.Name}}</label></div>{{end}}</div>`))

func renderGender(field Field, value string) (template.HTML, error) {
	var buf bytes.Buffer
	err := radioGroup.Execute(&buf, struct {
		Name    string
		Value   string
		Options []Option
	}{field.Name, value, field.Options})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func genderOptions() []Option {
	opts := make([]Option, len(model.Genders))
	for i, g := range model.Genders {
		opts[i] = Option{Name: g.Name, Value: g.Value}
	}
	return opts
}

func identificationOptions() []Option {
	opts := make([]Option, len(model.IdentificationTypes))
	for i, t := range model.IdentificationTypes {
		opts[i] = Option{Name: t, Value: t}
	}
	return opts
}

var birthDateField = Field{
	Type:        FieldDatePicker,
	Name:        "birthDate",
	Label:       "Date of birth",
	Placeholder: "Select your birth date",
	IconSrc:     "/assets/icons/calendar.svg",
	IconAlt:     "calendar",
	DateFormat:  "dd/MM/yyyy",
}

// RegistrationSections lays out the intake form
func RegistrationSections() []Section {
	return []Section{
		{
			Title: "Personal Information",
			Fields: []Field{
				{Type: FieldInput, Name: "name", Label: "Full Name", Placeholder: "John Doe", IconSrc: "/assets/icons/user.svg", IconAlt: "user"},
				{Type: FieldInput, Name: "email", Label: "Email", Placeholder: "johndoe@gmail.com", IconSrc: "/assets/icons/email.svg", IconAlt: "email", InputType: "email"},
				{Type: FieldPhoneInput, Name: "phone", Label: "Phone number", Placeholder: "+1 415 555 0100"},
				birthDateField,
				{Type: FieldCustomRender, Name: "gender", Label: "Gender", Options: genderOptions(), Render: renderGender},
				{Type: FieldInput, Name: "address", Label: "Address", Placeholder: "14th Street, New York"},
				{Type: FieldInput, Name: "occupation", Label: "Occupation", Placeholder: "Software Engineer"},
				{Type: FieldInput, Name: "emergencyContactName", Label: "Emergency contact name", Placeholder: "Guardian's name"},
				{Type: FieldPhoneInput, Name: "emergencyContactNumber", Label: "Emergency contact number", Placeholder: "+1 415 555 0100"},
			},
		},
		{
			Title: "Medical Information",
			Fields: []Field{
				{Type: FieldSelect, Name: "primaryPhysician", Label: "Primary Physician", Placeholder: "Select a physician", Options: doctorOptions()},
				{Type: FieldInput, Name: "insuranceProvider", Label: "Insurance provider", Placeholder: "BlueCross BlueShield"},
				{Type: FieldInput, Name: "insurancePolicyNumber", Label: "Insurance policy number", Placeholder: "ABC123456789"},
				{Type: FieldTextarea, Name: "allergies", Label: "Allergies (if any)", Placeholder: "Peanuts, Penicillin, Pollen"},
				{Type: FieldTextarea, Name: "currentMedication", Label: "Current medication", Placeholder: "Ibuprofen 200mg, Levothyroxine 50mcg"},
				{Type: FieldTextarea, Name: "familyMedicalHistory", Label: "Family medical history (if relevant)", Placeholder: "Mother had brain cancer, Father has hypertension"},
				{Type: FieldTextarea, Name: "pastMedicalHistory", Label: "Past medical history", Placeholder: "Appendectomy in 2015, Asthma diagnosis in childhood"},
			},
		},
		{
			Title: "Identification and Verification",
			Fields: []Field{
				{Type: FieldSelect, Name: "identificationType", Label: "Identification Type", Placeholder: "Select identification type", Options: identificationOptions()},
				{Type: FieldInput, Name: "identificationNumber", Label: "Identification Number", Placeholder: "123456789"},
				{Type: FieldFileUpload, Name: "identificationDocument", Label: "Scanned Copy of Identification Document", Accept: "image/*,application/pdf"},
			},
		},
		{
			Title: "Consent and Privacy",
			Fields: []Field{
				{Type: FieldCheckbox, Name: "treatmentConsent", Label: "I consent to receive treatment for my health condition."},
				{Type: FieldCheckbox, Name: "disclosureConsent", Label: "I consent to the use and disclosure of my health information for treatment purposes."},
				{Type: FieldCheckbox, Name: "privacyConsent", Label: "I acknowledge that I have reviewed and agree to the privacy policy"},
			},
		},
	}
}

// RegistrationFields returns every field of the intake form in order
func RegistrationFields() []Field {
	var fields []Field
	for _, s := range RegistrationSections() {
		fields = append(fields, s.Fields...)
	}
	return fields
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func (in RegistrationInput) Values(loc *time.Location) map[string]string {
	return map[string]string{
		"name":                   in.Name,
		"email":                  in.Email,
		"phone":                  in.Phone,
		"birthDate":              DateValue(birthDateField, in.BirthDate, loc),
		"gender":                 string(in.Gender),
		"address":                in.Address,
		"occupation":             in.Occupation,
		"emergencyContactName":   in.EmergencyContactName,
		"emergencyContactNumber": in.EmergencyContactNumber,
		"primaryPhysician":       in.PrimaryPhysician,
		"insuranceProvider":      in.InsuranceProvider,
		"insurancePolicyNumber":  in.InsurancePolicyNumber,
		"allergies":              in.Allergies,
		"currentMedication":      in.CurrentMedication,
		"familyMedicalHistory":   in.FamilyMedicalHistory,
		"pastMedicalHistory":     in.PastMedicalHistory,
		"identificationType":     in.IdentificationType,
		"identificationNumber":   in.IdentificationNumber,
		"treatmentConsent":       boolValue(in.TreatmentConsent),
		"disclosureConsent":      boolValue(in.DisclosureConsent),
		"privacyConsent":         boolValue(in.PrivacyConsent),
	}
}

// RegistrationForm is the multipart body of the registration page
type RegistrationForm struct {
	Name                   string `form:"name"`
	Email                  string `form:"email"`
	Phone                  string `form:"phone"`
	BirthDate              string `form:"birthDate"`
	Gender                 string `form:"gender"`
	Address                string `form:"address"`
	Occupation             string `form:"occupation"`
	EmergencyContactName   string `form:"emergencyContactName"`
	EmergencyContactNumber string `form:"emergencyContactNumber"`
	PrimaryPhysician       string `form:"primaryPhysician"`
	InsuranceProvider      string `form:"insuranceProvider"`
	InsurancePolicyNumber  string `form:"insurancePolicyNumber"`
	Allergies              string `form:"allergies"`
	CurrentMedication      string `form:"currentMedication"`
	FamilyMedicalHistory   string `form:"familyMedicalHistory"`
	PastMedicalHistory     string `form:"pastMedicalHistory"`
	IdentificationType     string `form:"identificationType"`
	IdentificationNumber   string `form:"identificationNumber"`
	TreatmentConsent       bool   `form:"treatmentConsent"`
	DisclosureConsent      bool   `form:"disclosureConsent"`
	PrivacyConsent         bool   `form:"privacyConsent"`
}

func (f RegistrationForm) Input(loc *time.Location) (RegistrationInput, map[string]string) {
	in := RegistrationInput{
		Name:                   f.Name,
		Email:                  f.Email,
		Phone:                  f.Phone,
		Gender:                 model.Gender(f.Gender),
		Address:                f.Address,
		Occupation:             f.Occupation,
		EmergencyContactName:   f.EmergencyContactName,
		EmergencyContactNumber: f.EmergencyContactNumber,
		PrimaryPhysician:       f.PrimaryPhysician,
		InsuranceProvider:      f.InsuranceProvider,
		InsurancePolicyNumber:  f.InsurancePolicyNumber,
		Allergies:              f.Allergies,
		CurrentMedication:      f.CurrentMedication,
		FamilyMedicalHistory:   f.FamilyMedicalHistory,
		PastMedicalHistory:     f.PastMedicalHistory,
		IdentificationType:     f.IdentificationType,
		IdentificationNumber:   f.IdentificationNumber,
		TreatmentConsent:       f.TreatmentConsent,
		DisclosureConsent:      f.DisclosureConsent,
		PrivacyConsent:         f.PrivacyConsent,
	}
	birthDate, err := ParseDateValue(f.BirthDate, loc)
	if err != nil {
		return in, map[string]string{"birthDate": "Invalid date"}
	}
	in.BirthDate = birthDate
	return in, nil
}
