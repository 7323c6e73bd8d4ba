package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Player names are stored in a comma separated, line oriented file.
	if err := validate.RegisterValidation("playername", validPlayerName); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

func validPlayerName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return strings.TrimSpace(name) == name && !strings.ContainsAny(name, ",\r\n")
}
