package user

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/attendance/core"
)

var (
	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to your name or email"
)

func init() {
	core.Validate.RegisterStructValidation(profileStructValidation, SignUp{}, ChangePassword{}, RecoverPassword{})
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdAttrSimTag, pwdAttrSimText)
}

// profileStructValidation applies the password policy to the structs setting a new password.
func profileStructValidation(sl validator.StructLevel) {
	switch v := sl.Current().Interface().(type) {
	case SignUp:
		validatePassword(v.Password, v.Name, v.Email, sl)
	case ChangePassword:
		validatePassword(v.Password, v.name, v.email, sl)
	case RecoverPassword:
		validatePassword(v.Password, v.name, v.Email, sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 6
// - no whitespace
// - no similarity with the name or email
func validatePassword(pwd, name, email string, sl validator.StructLevel) {
	if pwd == "" {
		return // reported by "required"
	}
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	if len([]rune(pwd)) < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
	}

	getRatio := func(pass, attr string) float64 {
		if attr == "" {
			return 0
		}
		pass, attr = strings.ToLower(pass), strings.ToLower(attr)
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, "")).QuickRatio()
	}
	localPart := strings.SplitN(email, "@", 2)[0]
	if getRatio(pwd, name) >= pwdMaxSim || getRatio(pwd, email) >= pwdMaxSim || getRatio(pwd, localPart) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
	}
}
