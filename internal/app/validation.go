package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/okian/architect/internal/domain/types"
	"github.com/okian/architect/pkg/metrics"
)

var (
	actionStatusTag  = "actionstatus"
	actionStatusText = "{0} must be one of To Do, In Progress, Completed"

	requiredTag  = "required"
	requiredText = "{0} is required"

	datetimeTag  = "datetime"
	datetimeText = "{0} must be a date in YYYY-MM-DD format"
)

// FieldError describes one rejected field by its JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a record fails validation. It wraps
// ErrValidation.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(entity, field, message string) error {
	metrics.RecordValidationFailure(entity)
	return &ValidationError{Entity: entity, Fields: []FieldError{{Field: field, Message: message}}}
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(actionStatusTag, func(fl validator.FieldLevel) bool {
		return types.ActionStatus(fl.Field().String()).Valid()
	})
	registerTranslation(validate, translator, actionStatusTag, actionStatusText, false)
	registerTranslation(validate, translator, requiredTag, requiredText, true)
	registerTranslation(validate, translator, datetimeTag, datetimeText, true)

	return validate, translator
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// check validates v and converts field errors into a ValidationError.
func (s *Service) check(entity string, v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Entity: entity, Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fe.Translate(s.translator),
		})
	}
	metrics.RecordValidationFailure(entity)
	return out
}

// fieldPath drops the struct type prefix: "Observation.domains[0].competencies[1].rating"
// becomes "domains[0].competencies[1].rating".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
