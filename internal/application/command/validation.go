// Package command contains write operations (CQRS - Commands).
// Every command is validated here, at the entry boundary; the domain and the
// ranking engine trust what they are given.
package command

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag    = "notblank"
	schoolClassTag = "school_class"
	schoolTermTag  = "school_term"
	subjectIDTag   = "subject_id"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(schoolClassTag, schoolClassValidation)
	_ = validate.RegisterValidation(schoolTermTag, schoolTermValidation)
	_ = validate.RegisterValidation(subjectIDTag, subjectIDValidation)

	registerCustomTranslations(notBlankTag, schoolClassTag, schoolTermTag, subjectIDTag)
}

func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomErrs)
	}
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case schoolClassTag:
		return "unknown class"
	case schoolTermTag:
		return "term must be one of Term 1, Term 2, Term 3"
	case subjectIDTag:
		return "unknown subject"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func schoolClassValidation(fl validator.FieldLevel) bool {
	return student.Class(fl.Field().String()).IsValid()
}

func schoolTermValidation(fl validator.FieldLevel) bool {
	return academic.Term(fl.Field().String()).IsValid()
}

func subjectIDValidation(fl validator.FieldLevel) bool {
	_, ok := academic.SubjectByID(fl.Field().String())
	return ok
}

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATION ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// ValidationError lists the rejected fields of a command, keyed by JSON name.
// It matches shared.ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return shared.ErrValidation
}

// validateStruct runs the struct tags of v and translates failures.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.WrapError("command", "validate", shared.ErrValidation, "invalid command", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Translate(translator)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the struct name from the namespace: "RecordResultsCommand.marks[9]" -> "marks[9]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
