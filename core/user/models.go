package user

import (
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/attendance/core"
)

// ProfileID is the key of the single teacher profile row.
const ProfileID = 1

// Profile is the teacher operating the app. Credentials are stored as bcrypt hashes.
type Profile struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Designation        string `json:"designation"`
	Qualification      string `json:"qualification"`
	TeacherID          string `json:"teacher_id"`
	JoiningDate        string `json:"joining_date"`
	JobDuration        string `json:"job_duration"`
	AssignedClasses    string `json:"assigned_classes"`
	SubjectExpert      string `json:"subject_expert"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	PasswordHash       []byte `json:"-"`
	SecurityQuestion   string `json:"security_question"`
	SecurityAnswerHash []byte `json:"-"`
	Image              []byte `json:"-"`
}

var _ core.Person = Profile{}

func (p Profile) LogPerson() (id, name, email string) {
	return strconv.Itoa(p.ID), p.Name, p.Email
}

func (p *Profile) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

func (p *Profile) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(pwd))
}

func cleanAnswer(answer string) string {
	return strings.Join(strings.Fields(strings.ToLower(answer)), " ")
}

// SetSecurityAnswer stores the answer case and spacing insensitively.
func (p *Profile) SetSecurityAnswer(answer string) error {
	if answer = cleanAnswer(answer); answer == "" {
		p.SecurityAnswerHash = nil
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(answer), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.SecurityAnswerHash = hash
	return nil
}

func (p *Profile) CheckSecurityAnswer(answer string) error {
	if len(p.SecurityAnswerHash) == 0 {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword(p.SecurityAnswerHash, []byte(cleanAnswer(answer)))
}

// CurrentJobDuration recomputes the job duration against today.
func (p Profile) CurrentJobDuration() string {
	joined, err := core.ParseDate(p.JoiningDate)
	if err != nil {
		return p.JobDuration
	}
	return core.Duration(joined, core.Today())
}

// Details holds the descriptive part of a Profile.
type Details struct {
	Name            string `json:"name" validate:"notblank,max=100"`
	Designation     string `json:"designation" validate:"omitempty,max=100"`
	Qualification   string `json:"qualification" validate:"omitempty,max=100"`
	TeacherID       string `json:"teacher_id" validate:"omitempty,max=50"`
	JoiningDate     string `json:"joining_date" validate:"omitempty,ddmmyyyy"`
	AssignedClasses string `json:"assigned_classes" validate:"omitempty,max=255"`
	SubjectExpert   string `json:"subject_expert" validate:"omitempty,max=100"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Image           []byte `json:"-"`
}

func (d *Details) clean() {
	d.Name = core.CleanString(d.Name)
	d.Designation = core.CleanString(d.Designation)
	d.Qualification = core.CleanString(d.Qualification)
	d.TeacherID = core.CleanString(d.TeacherID)
	d.JoiningDate = core.CleanString(d.JoiningDate)
	if jd, err := core.ParseDate(d.JoiningDate); err == nil {
		d.JoiningDate = jd.String()
	}
	d.AssignedClasses = core.CleanString(d.AssignedClasses)
	d.SubjectExpert = core.CleanString(d.SubjectExpert)
	d.Phone = strings.NewReplacer(" ", "", "-", "").Replace(core.CleanString(d.Phone))
}

func (d Details) apply(p *Profile) {
	p.Name = d.Name
	p.Designation = d.Designation
	p.Qualification = d.Qualification
	p.TeacherID = d.TeacherID
	p.JoiningDate = d.JoiningDate
	p.AssignedClasses = d.AssignedClasses
	p.SubjectExpert = d.SubjectExpert
	p.Phone = d.Phone
	p.Image = d.Image
	p.JobDuration = p.CurrentJobDuration()
}

// SignUp contains information needed to register the teacher.
type SignUp struct {
	Details
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	PasswordConfirm  string `json:"password_confirm" validate:"required,eqfield=Password"`
	SecurityQuestion string `json:"security_question" validate:"required,max=255"`
	SecurityAnswer   string `json:"security_answer" validate:"required,max=255"`
}

func (su *SignUp) Validate() error {
	su.Details.clean()
	su.Email = core.CleanString(su.Email, true /* lower */)
	su.SecurityQuestion = core.CleanString(su.SecurityQuestion)
	su.SecurityAnswer = strings.TrimSpace(su.SecurityAnswer)
	return core.Validate.Struct(su)
}

// UpdateProfile defines the descriptive fields of the Profile that may be changed.
// Credentials are changed through ChangePassword only. Blank fields keep their current value.
type UpdateProfile struct {
	Details
	RemoveImage bool `json:"remove_image"`
}

func (up *UpdateProfile) Validate(orig Profile) error {
	keep := func(val *string, origVal string) {
		if strings.TrimSpace(*val) == "" {
			*val = origVal
		}
	}
	keep(&up.Name, orig.Name)
	keep(&up.Designation, orig.Designation)
	keep(&up.Qualification, orig.Qualification)
	keep(&up.TeacherID, orig.TeacherID)
	keep(&up.JoiningDate, orig.JoiningDate)
	keep(&up.AssignedClasses, orig.AssignedClasses)
	keep(&up.SubjectExpert, orig.SubjectExpert)
	keep(&up.Phone, orig.Phone)
	if up.Image == nil && !up.RemoveImage {
		up.Image = orig.Image
	}
	up.Details.clean()
	return core.Validate.Struct(up)
}

type ChangePassword struct {
	OldPassword     string `json:"old_password" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	name, email     string
}

func (cp *ChangePassword) Validate(p Profile) error {
	cp.name, cp.email = p.Name, p.Email
	return core.Validate.Struct(cp)
}

type RecoverPassword struct {
	Email           string `json:"email" validate:"required,email"`
	SecurityAnswer  string `json:"security_answer" validate:"notblank"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	name            string
}

func (rp *RecoverPassword) Validate(p Profile) error {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
	rp.name = p.Name
	return core.Validate.Struct(rp)
}
