// Package validation turns raw JSON request payloads into typed input
// structs. Decoding and rule checks never stop at the first problem: every
// field error found is reported together in one *Error.
//
// Input structs describe their fields with `json` tags and rules with
// go-playground/validator `validate` tags. Optional-by-omission is not
// supported: fields should be pointers so that "missing" and "zero" differ.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/timex"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	decimalType   = reflect.TypeOf(decimal.Decimal{})
	timestampType = reflect.TypeOf(timex.Timestamp{})
)

// Decimals whose integer part is longer than this are never converted
// exactly; rules see them as +/-Inf (or 0 when the value is that small).
const maxDecimalDigits = 30

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(jsonName)

	// rules see decimals as float64 and timestamps as time.Time,
	// so built-in tags such as gte apply to them
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if ts, ok := field.Interface().(timex.Timestamp); ok {
			return ts.Time
		}
		return nil
	}, timex.Timestamp{})

	if err := v.RegisterValidation("scale", hasScale); err != nil {
		panic(err)
	}

	return v
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	if d.IsZero() {
		return 0.0
	}
	switch digits := d.NumDigits() + int(d.Exponent()); {
	case digits > maxDecimalDigits:
		return math.Inf(d.Sign())
	case digits < -maxDecimalDigits:
		return 0.0
	}
	f, _ := d.Float64()
	return f
}

// hasScale implements scale=N: a decimal with at most N digits after the point.
func hasScale(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("validation: bad scale param %q", fl.Param()))
	}

	parent := fl.Parent()
	for parent.Kind() == reflect.Pointer {
		parent = parent.Elem()
	}
	field := parent.FieldByName(fl.StructFieldName())
	for field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return false
		}
		field = field.Elem()
	}
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	if d.IsZero() || int(d.Exponent()) >= -n {
		return true
	}
	// the coefficient has at most NumDigits-1 trailing zeros
	if int(d.Exponent())+d.NumDigits()-1 < -n {
		return false
	}
	return d.Equal(d.Truncate(int32(n)))
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Bind reads one JSON object from r into dst (a pointer to struct) and
// validates it. Unknown keys, values of the wrong type, nulls and rule
// violations are all collected; the result is nil or an *Error.
func Bind(r io.Reader, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: Bind needs a pointer to struct, got %T", dst)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return NewError(SchemaField, "No input data provided.")
		}
		return NewError(SchemaField, "Invalid input type.")
	}
	if raw == nil {
		return NewError(SchemaField, "Invalid input type.")
	}

	verr := &Error{}
	decodeFields(raw, rv.Elem(), verr)
	checkRules(dst, verr)

	if verr.Empty() {
		return nil
	}
	return verr
}

func decodeFields(raw map[string]json.RawMessage, sv reflect.Value, verr *Error) {
	st := sv.Type()
	known := make(map[string]int, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		if name := jsonName(f); name != "" {
			known[name] = i
		}
	}

	for key, value := range raw {
		idx, ok := known[key]
		if !ok {
			verr.Add(key, "Unknown field.")
			continue
		}
		field := sv.Field(idx)

		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			verr.Add(key, "Field may not be null.")
			continue
		}
		if err := json.Unmarshal(value, field.Addr().Interface()); err != nil {
			field.Set(reflect.Zero(field.Type()))
			verr.Add(key, typeMessage(field.Type()))
		}
	}
}

func checkRules(v any, verr *Error) {
	err := validate.Struct(v)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(SchemaField, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		name := fe.Field()
		// a decode error already explains this field
		if verr.Has(name) {
			continue
		}
		verr.Add(name, ruleMessage(fe))
	}
}

func typeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == decimalType:
		return "Not a valid number."
	case t == timestampType, t == reflect.TypeOf(time.Time{}):
		return "Not a valid datetime."
	}
	switch t.Kind() {
	case reflect.String:
		return "Not a valid string."
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Not a valid integer."
	case reflect.Float32, reflect.Float64:
		return "Not a valid number."
	case reflect.Bool:
		return "Not a valid boolean."
	default:
		return "Invalid value."
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "email":
		return "Not a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s.", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s.", fe.Param())
	case "scale":
		return fmt.Sprintf("Must have at most %s decimal places.", fe.Param())
	default:
		return fmt.Sprintf("Failed %q rule.", fe.Tag())
	}
}
