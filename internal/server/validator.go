package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/dailyexpression/internal/expression"
)

type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := expression.ParseCategory(fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register category validation: %w", err)
	}
	if err := validate.RegisterTranslation("category", trans, func(ut ut.Translator) error {
		return ut.Add("category", "{0} must be a known expression category", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("category", fe.Field())
		return t
	}); err != nil {
		return nil, fmt.Errorf("failed to register category translation: %w", err)
	}

	return &requestValidator{
		validate:   validate,
		translator: trans,
	}, nil
}

// validateRequest returns an InvalidArgument error with a BadRequest detail
// listing every violated field.
func (v *requestValidator) validateRequest(msg any) *connect.Error {
	err := v.validate.Struct(msg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	var (
		messages        []string
		fieldViolations []*errdetails.BadRequest_FieldViolation
	)
	for _, e := range validationErrors {
		description := e.Translate(v.translator)
		messages = append(messages, description)
		fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       fieldPath(e.Namespace()),
			Description: description,
		})
	}
	connectErr := connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(messages, ", ")))
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: fieldViolations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

// fieldPath drops the struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
