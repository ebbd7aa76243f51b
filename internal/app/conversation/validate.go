package conversation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// maxwords=N limits a string to N whitespace-separated words.
	if err := v.RegisterValidation("maxwords", maxWords); err != nil {
		panic(err)
	}
	return v
}

func maxWords(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(strings.Fields(fl.Field().String())) <= limit
}

// taskList is the validated shape of a gentle todo response.
type taskList struct {
	Tasks []string `validate:"min=3,max=5,dive,required,max=120"`
}
