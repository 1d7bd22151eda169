package model

type Doctor struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var Doctors = []Doctor{
	{Name: "John Green", Image: "/assets/images/dr-green.png"},
	{Name: "Leila Cameron", Image: "/assets/images/dr-cameron.png"},
	{Name: "David Livingston", Image: "/assets/images/dr-livingston.png"},
	{Name: "Evan Peter", Image: "/assets/images/dr-peter.png"},
	{Name: "Jane Powell", Image: "/assets/images/dr-powell.png"},
	{Name: "Alex Ramirez", Image: "/assets/images/dr-remirez.png"},
	{Name: "Jasmine Lee", Image: "/assets/images/dr-lee.png"},
	{Name: "Alyana Cruz", Image: "/assets/images/dr-cruz.png"},
	{Name: "Hardik Sharma", Image: "/assets/images/dr-sharma.png"},
}

var Specialties = []Option{
	{Name: "Cardiology", Value: "cardiology"},
	{Name: "Dermatology", Value: "dermatology"},
	{Name: "Endocrinology", Value: "endocrinology"},
	{Name: "Gastroenterology", Value: "gastroenterology"},
	{Name: "Hematology", Value: "hematology"},
	{Name: "Immunology", Value: "immunology"},
	{Name: "Nephrology", Value: "nephrology"},
	{Name: "Neurology", Value: "neurology"},
	{Name: "Oncology", Value: "oncology"},
	{Name: "Ophthalmology", Value: "ophthalmology"},
	{Name: "Orthopedics", Value: "orthopedics"},
	{Name: "Otolaryngology", Value: "otolaryngology"},
	{Name: "Pediatrics", Value: "pediatrics"},
	{Name: "Psychiatry", Value: "psychiatry"},
	{Name: "Pulmonology", Value: "pulmonology"},
	{Name: "Radiology", Value: "radiology"},
	{Name: "Rheumatology", Value: "rheumatology"},
	{Name: "Surgery", Value: "surgery"},
	{Name: "Urology", Value: "urology"},
}

var IdentificationTypes = []string{
	"Birth Certificate",
	"Driver's License",
	"Medical Insurance Card/Policy",
	"Military ID Card",
	"National Identity Card",
	"Passport",
	"Resident Alien Card (Green Card)",
	"Social Security Card",
	"State ID Card",
	"Student ID Card",
	"Voter ID Card",
}

var Genders = []Option{
	{Name: "Male", Value: string(GenderMale)},
	{Name: "Female", Value: string(GenderFemale)},
	{Name: "Other", Value: string(GenderOther)},
}

const (
	DefaultGender             = GenderMale
	DefaultIdentificationType = "Birth Certificate"
)

// FindDoctor looks a doctor up on the roster by display name
func FindDoctor(name string) (Doctor, bool) {
	for _, d := range Doctors {
		if d.Name == name {
			return d, true
		}
	}
	return Doctor{}, false
}

func IsSpecialty(value string) bool {
	for _, s := range Specialties {
		if s.Value == value {
			return true
		}
	}
	return false
}

func IsIdentificationType(value string) bool {
	for _, t := range IdentificationTypes {
		if t == value {
			return true
		}
	}
	return false
}

func DoctorNames() []string {
	names := make([]string, len(Doctors))
	for i, d := range Doctors {
		names[i] = d.Name
	}
	return names
}
