package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports violations under the wire field name (the json tag),
// matching the keys the frontend renders next to its inputs.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// atoiOr converts s to int, falling back to def.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// looseInt binds a JSON number or a numeric string: forms and spreadsheets
// send "21" and 21 interchangeably.
type looseInt int

func (n *looseInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %q", s)
	}
	*n = looseInt(v)
	return nil
}

// scoreText carries a score exactly as submitted: a JSON number, or a string
// using either "." or "," as the decimal separator.
type scoreText string

func (t *scoreText) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = scoreText(strings.TrimSpace(x))
	case float64:
		*t = scoreText(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return fmt.Errorf("invalid score value: %v", v)
	}
	return nil
}

// parseScore normalizes a comma decimal separator and parses the value.
func parseScore(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, errors.New("empty score")
	}
	return strconv.ParseFloat(s, 64)
}

// stringify renders a loosely-typed JSON cell value as text.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// validationFields flattens validator errors into the field->message map the
// frontend renders next to its inputs.
func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = "failed " + fe.Tag() + " check"
		}
		return fields
	}
	fields["payload"] = err.Error()
	return fields
}
