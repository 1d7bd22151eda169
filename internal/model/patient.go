package model

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type EmergencyContact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type Insurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policyNumber"`
}

type Identification struct {
	Type        string `json:"type"`
	Number      string `json:"number"`
	DocumentID  string `json:"documentId,omitempty"`
	DocumentURL string `json:"documentUrl,omitempty"`
}

type Consents struct {
	Treatment  bool `json:"treatment"`
	Disclosure bool `json:"disclosure"`
	Privacy    bool `json:"privacy"`
}

// Patient is the intake record created once per user at registration
type Patient struct {
	Base
	UserID               string           `json:"userId"`
	Name                 string           `json:"name"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone"`
	BirthDate            time.Time        `json:"birthDate"`
	Gender               Gender           `json:"gender"`
	Address              string           `json:"address"`
	Occupation           string           `json:"occupation"`
	EmergencyContact     EmergencyContact `json:"emergencyContact"`
	PrimaryPhysician     string           `json:"primaryPhysician"`
	Insurance            Insurance        `json:"insurance"`
	Allergies            string           `json:"allergies"`
	CurrentMedication    string           `json:"currentMedication"`
	FamilyMedicalHistory string           `json:"familyMedicalHistory"`
	PastMedicalHistory   string           `json:"pastMedicalHistory"`
	Identification       Identification   `json:"identification"`
	Consents             Consents         `json:"consents"`
}

// PatientDocument is the flat document body stored in the patients collection
type PatientDocument struct {
	UserID                    string    `json:"userId"`
	Name                      string    `json:"name"`
	Email                     string    `json:"email"`
	Phone                     string    `json:"phone"`
	BirthDate                 time.Time `json:"birthDate"`
	Gender                    Gender    `json:"gender"`
	Address                   string    `json:"address"`
	Occupation                string    `json:"occupation"`
	EmergencyContactName      string    `json:"emergencyContactName"`
	EmergencyContactNumber    string    `json:"emergencyContactNumber"`
	PrimaryPhysician          string    `json:"primaryPhysician"`
	InsuranceProvider         string    `json:"insuranceProvider"`
	InsurancePolicyNumber     string    `json:"insurancePolicyNumber"`
	Allergies                 string    `json:"allergies"`
	CurrentMedication         string    `json:"currentMedication"`
	FamilyMedicalHistory      string    `json:"familyMedicalHistory"`
	PastMedicalHistory        string    `json:"pastMedicalHistory"`
	IdentificationType        string    `json:"identificationType"`
	IdentificationNumber      string    `json:"identificationNumber"`
	IdentificationDocumentID  string    `json:"identificationDocumentId,omitempty"`
	IdentificationDocumentURL string    `json:"identificationDocumentUrl,omitempty"`
	TreatmentConsent          bool      `json:"treatmentConsent"`
	DisclosureConsent         bool      `json:"disclosureConsent"`
	PrivacyConsent            bool      `json:"privacyConsent"`
}

func (p Patient) Document() PatientDocument {
	return PatientDocument{
		UserID:                    p.UserID,
		Name:                      p.Name,
		Email:                     p.Email,
		Phone:                     p.Phone,
		BirthDate:                 p.BirthDate,
		Gender:                    p.Gender,
		Address:                   p.Address,
		Occupation:                p.Occupation,
		EmergencyContactName:      p.EmergencyContact.Name,
		EmergencyContactNumber:    p.EmergencyContact.Number,
		PrimaryPhysician:          p.PrimaryPhysician,
		InsuranceProvider:         p.Insurance.Provider,
		InsurancePolicyNumber:     p.Insurance.PolicyNumber,
		Allergies:                 p.Allergies,
		CurrentMedication:         p.CurrentMedication,
		FamilyMedicalHistory:      p.FamilyMedicalHistory,
		PastMedicalHistory:        p.PastMedicalHistory,
		IdentificationType:        p.Identification.Type,
		IdentificationNumber:      p.Identification.Number,
		IdentificationDocumentID:  p.Identification.DocumentID,
		IdentificationDocumentURL: p.Identification.DocumentURL,
		TreatmentConsent:          p.Consents.Treatment,
		DisclosureConsent:         p.Consents.Disclosure,
		PrivacyConsent:            p.Consents.Privacy,
	}
}

func (d PatientDocument) Patient(base Base) Patient {
	return Patient{
		Base:                 base,
		UserID:               d.UserID,
		Name:                 d.Name,
		Email:                d.Email,
		Phone:                d.Phone,
		BirthDate:            d.BirthDate,
		Gender:               d.Gender,
		Address:              d.Address,
		Occupation:           d.Occupation,
		EmergencyContact:     EmergencyContact{Name: d.EmergencyContactName, Number: d.EmergencyContactNumber},
		PrimaryPhysician:     d.PrimaryPhysician,
		Insurance:            Insurance{Provider: d.InsuranceProvider, PolicyNumber: d.InsurancePolicyNumber},
		Allergies:            d.Allergies,
		CurrentMedication:    d.CurrentMedication,
		FamilyMedicalHistory: d.FamilyMedicalHistory,
		PastMedicalHistory:   d.PastMedicalHistory,
		Identification: Identification{
			Type:        d.IdentificationType,
			Number:      d.IdentificationNumber,
			DocumentID:  d.IdentificationDocumentID,
			DocumentURL: d.IdentificationDocumentURL,
		},
		Consents: Consents{
			Treatment:  d.TreatmentConsent,
			Disclosure: d.DisclosureConsent,
			Privacy:    d.PrivacyConsent,
		},
	}
}
