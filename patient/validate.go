package patient

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError reports one rejected input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rejected input of a submission.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid patient record: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// oldpeak is entered in steps of 0.1
		_ = validate.RegisterValidation("tenths", func(fl validator.FieldLevel) bool {
			scaled := fl.Field().Float() * 10
			return math.Abs(scaled-math.Round(scaled)) < 1e-6
		})
	})
	return validate
}

// Validate checks every field against its domain.
func (r Record) Validate() error {
	err := recordValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.add(fe.Field(), describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	field, _ := Lookup(fe.Field())
	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("must be between %s and %s", field.Display(field.Min), field.Display(field.Max))
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "tenths":
		return "must be a multiple of 0.1"
	default:
		return "is invalid"
	}
}

// FromValues builds a record from numeric inputs keyed by field name.
// Missing fields keep their defaults; unknown keys are ignored.
func FromValues(values map[string]float64) (Record, error) {
	r := Defaults()
	verr := &ValidationError{}
	for _, f := range fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if f.Integral() && v != math.Trunc(v) {
			verr.add(f.Name, "must be a whole number")
			continue
		}
		f.set(&r, v)
	}
	if err := r.Validate(); err != nil {
		var domainErr *ValidationError
		if !errors.As(err, &domainErr) {
			return Record{}, err
		}
		for _, fe := range domainErr.Fields {
			if !verr.has(fe.Field) {
				verr.Fields = append(verr.Fields, fe)
			}
		}
	}
	if len(verr.Fields) > 0 {
		return Record{}, verr
	}
	return r, nil
}

// ParseForm reads a form submission. Blank or absent controls fall back to
// their defaults.
func ParseForm(form url.Values) (Record, error) {
	values := make(map[string]float64, len(fields))
	verr := &ValidationError{}
	for _, f := range fields {
		raw := strings.TrimSpace(form.Get(f.Name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			verr.add(f.Name, "must be a number")
			continue
		}
		values[f.Name] = v
	}

	r, err := FromValues(values)
	if err != nil {
		var rest *ValidationError
		if !errors.As(err, &rest) {
			return Record{}, err
		}
		verr.Fields = append(verr.Fields, rest.Fields...)
	}
	if len(verr.Fields) > 0 {
		return Record{}, verr
	}
	return r, nil
}

// Values renders r back into form values.
func (r Record) Values() url.Values {
	out := make(url.Values, len(fields))
	for _, f := range fields {
		v := f.Value(r)
		if f.Integral() {
			out.Set(f.Name, strconv.FormatFloat(v, 'f', 0, 64))
		} else {
			out.Set(f.Name, strconv.FormatFloat(v, 'f', 1, 64))
		}
	}
	return out
}
