// Package inputval validates decoded request bodies with
// go-playground/validator. Field errors are keyed by JSON name and carry
// English messages.
package inputval

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

// custom tags
const (
	notBlankTag = "notblank"
	objectIDTag = "objectid"
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(objectIDTag, objectID)

	messages := map[string]string{
		notBlankTag: "{0} cannot be blank",
		objectIDTag: "{0} must be a valid id",
	}
	for tag, msg := range messages {
		_ = validate.RegisterTranslation(tag, translator,
			func(t ut.Translator) error { return t.Add(tag, msg, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				s, _ := t.T(fe.Tag(), fe.Field())
				return s
			})
	}
}

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

func objectID(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && IsValidObjectID(s)
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result holds the field errors of one validation.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields maps each failing field to its first message.
func (r *Result) Fields() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Add records an error found outside the struct tags (cross-field rules).
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Validate checks v's `validate` tags.
func Validate(v any) *Result {
	r := &Result{}
	err := validate.Struct(v)
	if err == nil {
		return r
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		r.Add("", err.Error())
		return r
	}
	for _, fe := range verrs {
		r.Add(fe.Field(), fe.Translate(translator))
	}
	return r
}

// IsValidEmail reports whether s is a single bare address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return validate.Var(s, "email") == nil
}

// IsValidObjectID reports whether s (trimmed) is a 24-char hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
