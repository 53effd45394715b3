package entry

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studyplanner/core"
)

var (
	statusTag  = "studystatus"
	statusText = "{0} must be one of: " + joinStatuses(", ")
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func joinStatuses(sep string) string {
	strs := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		strs = append(strs, string(s))
	}
	return strings.Join(strs, sep)
}

// statusValidation checks that the status is one of Statuses (exact match).
func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}
