package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"todographql/internal/core/model/response"
	"todographql/internal/core/port"
)

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() port.Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	english := en.New()
	uni := ut.New(english, english)

	translator, found := uni.GetTranslator("en")
	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	v := &Validator{
		validate:   validate,
		translator: translator,
	}
	v.addCustomTranslations()

	return v
}

func (v *Validator) addCustomTranslations() {
	v.validate.RegisterTranslation("required", v.translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", getFieldName(fe.Field()))
		return t
	})

	v.validate.RegisterTranslation("notblank", v.translator, func(ut ut.Translator) error {
		return ut.Add("notblank", "{0} must not be blank", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("notblank", getFieldName(fe.Field()))
		return t
	})

	v.validate.RegisterTranslation("max", v.translator, func(ut ut.Translator) error {
		return ut.Add("max", "{0} must be at most {1} characters", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("max", getFieldName(fe.Field()), fe.Param())
		return t
	})
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Title":       "title",
		"Description": "description",
		"Completed":   "completed",
		"ID":          "id",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) FormatValidationErrors(err error) []response.ValidationError {
	var errs []response.ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			errs = append(errs, response.ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Message: fieldError.Translate(v.translator),
			})
		}
	}

	return errs
}
