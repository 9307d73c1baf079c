package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/glintai/internal/pkg/strcase"
)

// SymbolSet is the punctuation accepted by the hassymbol rule.
const SymbolSet = `!@#$%^&*(),.?":{}|<>`

var reLoginEmail = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are field names in snake_case to match typical JSON conventions.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := v10CustomValidation(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
//
// Every field is checked; for a single field only the first failing tag is
// reported, so tag order in the struct definition is the rule priority.
func (v *V10Validator) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		errV10 := make(V10ValidationError)
		for _, fe := range validateErrs {
			errV10[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
		}

		return errV10
	}

	return nil
}

type customRule struct {
	tag     string
	message string
	check   func(s string) bool
}

var customRules = []customRule{
	{
		tag:     "loginemail",
		message: "Invalid email format",
		check:   reLoginEmail.MatchString,
	},
	{
		tag:     "hasupper",
		message: "{0} must contain at least one capital letter",
		check:   func(s string) bool { return strings.IndexFunc(s, isASCIIUpper) >= 0 },
	},
	{
		tag:     "hasdigit",
		message: "{0} must contain at least one number",
		check:   func(s string) bool { return strings.IndexFunc(s, isASCIIDigit) >= 0 },
	},
	{
		tag:     "hassymbol",
		message: "{0} must contain at least one special character",
		check:   func(s string) bool { return strings.ContainsAny(s, SymbolSet) },
	},
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func v10CustomValidation(validate *validator.Validate, enTrans ut.Translator) error {
	for _, rule := range customRules {
		check := rule.check
		if err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			if !ok {
				return false
			}
			return check(s)
		}); err != nil {
			return err
		}

		if err := registerMessage(validate, enTrans, rule.tag, rule.message, false); err != nil {
			return err
		}
	}

	// the sign-in screen words these two differently from the library defaults
	if err := registerMessage(validate, enTrans, "required", "{0} is required", true); err != nil {
		return err
	}

	return validate.RegisterTranslation("min", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("min", "{0} must be at least {1} characters", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field(), fe.Param())
			if err != nil {
				slog.Warn("warning: error translating", "FieldError", fe, "error", err)
				return fe.Error()
			}
			return t
		},
	)
}

func registerMessage(validate *validator.Validate, enTrans ut.Translator, tag, message string, override bool) error {
	return validate.RegisterTranslation(tag, enTrans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, override)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("warning: error translating", "FieldError", fe, "error", err)
				return fe.Error()
			}
			return t
		},
	)
}
