package student

import (
	"regexp"
	"strings"

	"github.com/trezcool/attendance/core"
)

// Classes
const (
	ClassPlay = "PLAY"
	Class1    = "CLASS1"
	Class2    = "CLASS2"
	Class3    = "CLASS3"
	Class4    = "CLASS4"
	Class5    = "CLASS5"
	Class6    = "CLASS6"
	Class7    = "CLASS7"
	Class8    = "CLASS8"
)

// Genders
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOthers = "OTHERS"
)

// ID document types
const (
	IDTypeNID   = "NID"
	IDTypeBirth = "BIRTH"
	IDTypeNone  = "NONE"
)

var (
	Classes     = []string{ClassPlay, Class1, Class2, Class3, Class4, Class5, Class6, Class7, Class8}
	Genders     = []string{GenderMale, GenderFemale, GenderOthers}
	IDTypes     = []string{IDTypeNID, IDTypeBirth, IDTypeNone}
	Religions   = []string{"ISLAM", "HINDU", "BUDDHIST", "CHRISTIAN", "OTHERS"}
	BloodGroups = []string{"UNKNOWN", "A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}
	Countries   = []string{"BD", "IN"}

	phoneCleaner = regexp.MustCompile(`[\s\-()]`)
)

func indexOf(codes []string, code string) int {
	for i, c := range codes {
		if c == code {
			return i
		}
	}
	return -1
}

func fromCode(codes []string, code, fallback string) string {
	if indexOf(codes, code) >= 0 {
		return code
	}
	return fallback
}

func ClassFromCode(code string) string   { return fromCode(Classes, code, ClassPlay) }
func GenderFromCode(code string) string  { return fromCode(Genders, code, GenderOthers) }
func IDTypeFromCode(code string) string  { return fromCode(IDTypes, code, IDTypeNone) }
func CountryFromCode(code string) string { return fromCode(Countries, code, "BD") }

// ClassOrder ranks class codes the way they are listed; unknown codes sort last.
func ClassOrder(code string) int {
	if idx := indexOf(Classes, code); idx >= 0 {
		return idx
	}
	return len(Classes)
}

type Student struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	RollNo        string `json:"roll_no"`
	DateOfBirth   string `json:"date_of_birth"`
	Age           string `json:"age"`
	NIDOrBirthReg string `json:"nid_or_birth_reg"`
	IDType        string `json:"id_type"`
	ClassName     string `json:"class_name"`
	FatherName    string `json:"father_name"`
	MotherName    string `json:"mother_name"`
	Phone         string `json:"phone"`
	Religion      string `json:"religion"`
	Gender        string `json:"gender"`
	BloodGroup    string `json:"blood_group"`
	Address       string `json:"address"`
	Country       string `json:"country"`
	AdmissionDate string `json:"admission_date"`
	Image         []byte `json:"-"`
}

// CurrentAge recomputes the age display string against today.
func (s Student) CurrentAge() string {
	dob, err := core.ParseDate(s.DateOfBirth)
	if err != nil {
		return s.Age
	}
	return core.Duration(dob, core.Today())
}

func (s Student) HasImage() bool { return len(s.Image) > 0 }

// NewStudent contains information needed to admit a new Student.
type NewStudent struct {
	Name          string `json:"name" validate:"notblank,max=100"`
	RollNo        string `json:"roll_no" validate:"notblank,max=10"`
	ClassName     string `json:"class_name" validate:"required,classcode"`
	Gender        string `json:"gender" validate:"required,gendercode"`
	DateOfBirth   string `json:"date_of_birth" validate:"required,ddmmyyyy"`
	IDType        string `json:"id_type" validate:"omitempty,idtype"`
	NIDOrBirthReg string `json:"nid_or_birth_reg" validate:"omitempty,max=32"`
	FatherName    string `json:"father_name" validate:"omitempty,max=100"`
	MotherName    string `json:"mother_name" validate:"omitempty,max=100"`
	Phone         string `json:"phone" validate:"omitempty,phone"`
	Religion      string `json:"religion" validate:"omitempty,religion"`
	BloodGroup    string `json:"blood_group" validate:"omitempty,bloodgroup"`
	Address       string `json:"address" validate:"omitempty,max=255"`
	Country       string `json:"country" validate:"omitempty,country"`
	AdmissionDate string `json:"admission_date" validate:"omitempty,ddmmyyyy"`
	Image         []byte `json:"-"`
}

func (ns *NewStudent) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNo = core.CleanString(ns.RollNo)
	ns.ClassName = strings.ToUpper(core.CleanString(ns.ClassName))
	ns.Gender = strings.ToUpper(core.CleanString(ns.Gender))
	ns.DateOfBirth = normalizeDate(ns.DateOfBirth)
	ns.IDType = strings.ToUpper(core.CleanString(ns.IDType))
	ns.NIDOrBirthReg = core.CleanString(ns.NIDOrBirthReg)
	ns.FatherName = core.CleanString(ns.FatherName)
	ns.MotherName = core.CleanString(ns.MotherName)
	ns.Phone = phoneCleaner.ReplaceAllString(core.CleanString(ns.Phone), "")
	ns.Religion = strings.ToUpper(core.CleanString(ns.Religion))
	ns.BloodGroup = strings.ToUpper(core.CleanString(ns.BloodGroup))
	ns.Address = core.CleanString(ns.Address)
	ns.Country = strings.ToUpper(core.CleanString(ns.Country))
	ns.AdmissionDate = normalizeDate(ns.AdmissionDate)
	if ns.IDType == "" {
		ns.IDType = IDTypeNone
	}
}

func (ns *NewStudent) Validate() error {
	ns.clean()
	return core.Validate.Struct(ns)
}

func (ns NewStudent) student() Student {
	s := Student{
		Name:          ns.Name,
		RollNo:        ns.RollNo,
		DateOfBirth:   ns.DateOfBirth,
		NIDOrBirthReg: ns.NIDOrBirthReg,
		IDType:        ns.IDType,
		ClassName:     ns.ClassName,
		FatherName:    ns.FatherName,
		MotherName:    ns.MotherName,
		Phone:         ns.Phone,
		Religion:      ns.Religion,
		Gender:        ns.Gender,
		BloodGroup:    ns.BloodGroup,
		Address:       ns.Address,
		Country:       ns.Country,
		AdmissionDate: ns.AdmissionDate,
		Image:         ns.Image,
	}
	s.Age = s.CurrentAge()
	return s
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Blank fields keep their current value.
type UpdateStudent struct {
	NewStudent
	RemoveImage bool `json:"remove_image"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	keep := func(val *string, origVal string) {
		if strings.TrimSpace(*val) == "" {
			*val = origVal
		}
	}
	keep(&us.Name, orig.Name)
	keep(&us.RollNo, orig.RollNo)
	keep(&us.ClassName, orig.ClassName)
	keep(&us.Gender, orig.Gender)
	keep(&us.DateOfBirth, orig.DateOfBirth)
	keep(&us.IDType, orig.IDType)
	keep(&us.NIDOrBirthReg, orig.NIDOrBirthReg)
	keep(&us.FatherName, orig.FatherName)
	keep(&us.MotherName, orig.MotherName)
	keep(&us.Phone, orig.Phone)
	keep(&us.Religion, orig.Religion)
	keep(&us.BloodGroup, orig.BloodGroup)
	keep(&us.Address, orig.Address)
	keep(&us.Country, orig.Country)
	keep(&us.AdmissionDate, orig.AdmissionDate)
	if us.Image == nil && !us.RemoveImage {
		us.Image = orig.Image
	}
	return us.NewStudent.Validate()
}

type QueryFilter struct {
	Search    string `query:"search"` // name or roll number
	ClassName string `query:"class"`
	Gender    string `query:"gender"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.ClassName == "" && qf.Gender == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.ClassName = strings.ToUpper(core.CleanString(qf.ClassName))
	qf.Gender = strings.ToUpper(core.CleanString(qf.Gender))
}

// normalizeDate rewrites valid dates in the padded "dd-MM-yyyy" form and leaves
// anything else for the validator to reject.
func normalizeDate(s string) string {
	s = core.CleanString(s)
	if d, err := core.ParseDate(s); err == nil {
		return d.String()
	}
	return s
}
