package academia

import (
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/secundaria/core"
)

var (
	turnoTag  = "turno"
	turnoText = "{0} must be one of " + strings.Join([]string{string(TurnoManana), string(TurnoTarde), string(TurnoNoche)}, ", ")

	tipoTag  = "tipo"
	tipoText = "{0} must be one of alumno, docente"

	telefonoTag   = "telefono"
	telefonoText  = "{0} may only contain digits, spaces, +, - and parentheses"
	telefonoRegex = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// InitValidators registers the engine's custom tags and their translations.
// core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(turnoTag, func(fl validator.FieldLevel) bool {
		return Turno(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, turnoTag, turnoText)

	_ = validate.RegisterValidation(tipoTag, func(fl validator.FieldLevel) bool {
		return Tipo(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, tipoTag, tipoText)

	_ = validate.RegisterValidation(telefonoTag, func(fl validator.FieldLevel) bool {
		return telefonoRegex.MatchString(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, telefonoTag, telefonoText)
}

// NewValidator returns a validator ready for every form of the engine.
func NewValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}
