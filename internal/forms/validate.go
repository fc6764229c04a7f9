package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	mustRegister(v, "tmin", trimmedMin)
	mustRegister(v, "ref", positiveReference)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// trimmedMin is min length measured after trimming surrounding whitespace.
func trimmedMin(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= limit
}

// positiveReference accepts numeric foreign keys that point at a real record.
func positiveReference(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fl.Field().Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fl.Field().Uint() > 0
	}
	return false
}

// Result mirrors the form contract: Data on success, FieldErrors otherwise.
// FieldErrors is keyed by JSON path, e.g. "items[0].quantity".
type Result struct {
	Valid       bool
	Data        any
	FieldErrors map[string]string
}

// Err converts an invalid result into a validation error carrying the field messages.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(r.FieldErrors)
}

type normalizer interface {
	normalize()
}

// Validate checks input against its schema tags. It works on a copy: the
// caller's value is never modified, and Data holds the trimmed copy.
func Validate(input any) Result {
	rv := reflect.ValueOf(input)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return invalid(map[string]string{"": "input is required"})
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return invalid(map[string]string{"": fmt.Sprintf("unsupported form type %T", input)})
	}

	cp := reflect.New(rv.Type())
	cp.Elem().Set(rv)
	if n, ok := cp.Interface().(normalizer); ok {
		n.normalize()
	}

	if err := validate.Struct(cp.Interface()); err != nil {
		return invalid(fieldErrors(rv.Type(), err))
	}
	return Result{Valid: true, Data: cp.Elem().Interface()}
}

func invalid(fields map[string]string) Result {
	return Result{Valid: false, FieldErrors: fields}
}

func fieldErrors(root reflect.Type, err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"": err.Error()}
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		path := trimRoot(fe.Namespace())
		if _, exists := details[path]; exists {
			continue
		}
		details[path] = message(fe, labelFor(root, trimRoot(fe.StructNamespace()), fe.Field()))
	}
	return details
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required", "ref":
		return fmt.Sprintf("%s is required", label)
	case "tmin":
		if strings.TrimSpace(fmt.Sprint(fe.Value())) == "" {
			return fmt.Sprintf("%s is required", label)
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("At least %s %s must be included", fe.Param(), strings.ToLower(label))
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return fmt.Sprintf("%s cannot be negative", label)
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "email":
		return "Invalid email"
	}
	return fmt.Sprintf("%s is invalid", label)
}

func trimRoot(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

// labelFor walks the struct namespace (e.g. "Items[0].ProductID") to find the
// field's label tag, falling back to the JSON name.
func labelFor(root reflect.Type, structPath, fallback string) string {
	t := root
	var field reflect.StructField
	for _, segment := range strings.Split(structPath, ".") {
		if idx := strings.Index(segment, "["); idx >= 0 {
			segment = segment[:idx]
		}
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return fallback
		}
		f, ok := t.FieldByName(segment)
		if !ok {
			return fallback
		}
		field = f
		t = f.Type
	}
	if label := field.Tag.Get("label"); label != "" {
		return label
	}
	return fallback
}
