package expression

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type catalogValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newCatalogValidator() (*catalogValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).IsValid()
	}); err != nil {
		return nil, fmt.Errorf("failed to register category validation: %w", err)
	}
	if err := validate.RegisterTranslation("category", trans, func(ut ut.Translator) error {
		return ut.Add("category", "{0} must be one of Idioms, Business, Casual or Phrasal Verbs", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("category", fe.Field())
		return t
	}); err != nil {
		return nil, fmt.Errorf("failed to register category translation: %w", err)
	}

	return &catalogValidator{
		validate:   validate,
		translator: trans,
	}, nil
}

func (v *catalogValidator) check(item Expression) error {
	err := v.validate.Struct(item)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errorMsgs []string
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, e.Translate(v.translator))
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidExpression, item.ID, strings.Join(errorMsgs, ", "))
}
