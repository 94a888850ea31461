package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/attendance/core"
)

var (
	classCodeTag  = "classcode"
	classCodeText = "select a valid class"

	genderCodeTag  = "gendercode"
	genderCodeText = "select a valid gender"

	idTypeTag  = "idtype"
	idTypeText = "select a valid ID type"

	religionTag  = "religion"
	religionText = "select a valid religion"

	bloodGroupTag  = "bloodgroup"
	bloodGroupText = "select a valid blood group"

	countryTag  = "country"
	countryText = "select a valid country"
)

func init() {
	registerCodeValidation(classCodeTag, classCodeText, Classes)
	registerCodeValidation(genderCodeTag, genderCodeText, Genders)
	registerCodeValidation(idTypeTag, idTypeText, IDTypes)
	registerCodeValidation(religionTag, religionText, Religions)
	registerCodeValidation(bloodGroupTag, bloodGroupText, BloodGroups)
	registerCodeValidation(countryTag, countryText, Countries)
}

// registerCodeValidation registers `tag` as a check that the field holds one of `codes`.
func registerCodeValidation(tag, text string, codes []string) {
	_ = core.Validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return indexOf(codes, fl.Field().String()) >= 0
	})
	core.RegisterCustomTranslation(core.Validate, core.Translator, tag, text)
}
