// Package validation holds the course payload rule: a JSON object whose
// only key is "name", a string of at least three UTF-16 code units.
//
// Struct-level checks run through go-playground/validator; shape checks
// (object, key set, value types) come from decoding. Messages keep the
// wording clients of the original API already match on.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// CoursePayload is the body accepted by create and update.
type CoursePayload struct {
	Name *string `json:"name" validate:"required,minlen=3"`
}

// Violation is a single rule failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is the ordered list reported for one payload. It is never
// empty when returned as an error.
type Violations []Violation

func (v Violations) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return v[0].Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("minlen", minUTF16Len)
	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateCourse checks a raw request body and returns the accepted name.
// An empty body is treated as an empty object.
func ValidateCourse(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	fields, err := decodeObject(body)
	if err != nil {
		return "", Violations{{Field: "value", Message: `"value" must be an object`}}
	}

	var (
		payload    CoursePayload
		violations Violations
		unknown    Violations
	)
	for _, f := range fields {
		if f.key != "name" {
			unknown = append(unknown, Violation{Field: f.key, Message: fmt.Sprintf("%q is not allowed", f.key)})
			continue
		}
		var name string
		if bytes.Equal(bytes.TrimSpace(f.value), []byte("null")) {
			violations = append(violations, Violation{Field: "name", Message: `"name" must be a string`})
			continue
		}
		if err := json.Unmarshal(f.value, &name); err != nil {
			violations = append(violations, Violation{Field: "name", Message: `"name" must be a string`})
			continue
		}
		payload.Name = &name
	}

	// the type check already covers name when it was present but not a string
	if len(violations) == 0 {
		violations = append(violations, structViolations(payload)...)
	}
	violations = append(violations, unknown...)
	if len(violations) > 0 {
		return "", violations
	}
	return *payload.Name, nil
}

func structViolations(p CoursePayload) Violations {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Violations{{Field: "value", Message: err.Error()}}
	}
	out := make(Violations, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{Field: fe.Field(), Message: message(fe, p)})
	}
	return out
}

func message(fe validator.FieldError, p CoursePayload) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "minlen":
		if field == "name" && p.Name != nil && *p.Name == "" {
			return fmt.Sprintf("%q is not allowed to be empty", field)
		}
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%q failed on %s", field, fe.Tag())
	}
}

// minUTF16Len compares length in UTF-16 code units, the unit JavaScript
// clients measure strings in.
func minUTF16Len(fl validator.FieldLevel) bool {
	want, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(utf16.Encode([]rune(fl.Field().String()))) >= want
}

type field struct {
	key   string
	value json.RawMessage
}

// decodeObject reads a single JSON object, keeping key order.
func decodeObject(body []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("not an object")
	}
	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("invalid object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after object")
	}
	return fields, nil
}
