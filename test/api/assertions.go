/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Comparison operators accepted by the relational checks.
const (
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
	OpEqual              = "=="
	OpNotEqual           = "!="
)

var errUnknownOperator = errors.New("unknown comparison operator")

// CheckStatus passes if the response status is any of those expected, or if
// nothing is expected.
func CheckStatus(resp *Response, expected ...int) error {
	if len(expected) == 0 || slices.Contains(expected, resp.StatusCode) {
		return nil
	}

	return &UnexpectedStatusError{
		Expected: expected,
		Actual:   resp.StatusCode,
		Body:     string(resp.Body),
		TraceID:  resp.TraceID,
	}
}

// CheckStatusCompare checks the status code against a reference with an operator,
// e.g. CheckStatusCompare(resp, ">=", 400) for any client or server error.
func CheckStatusCompare(resp *Response, op string, ref int) error {
	ok, err := compareNumbers(float64(resp.StatusCode), op, float64(ref))
	if err != nil {
		return err
	}

	if !ok {
		return &UnexpectedStatusError{
			Expected: []int{ref},
			Actual:   resp.StatusCode,
			Body:     fmt.Sprintf("(status %s %d) %s", op, ref, string(resp.Body)),
			TraceID:  resp.TraceID,
		}
	}

	return nil
}

// CheckHeader passes when the header exists and, if expected is not empty,
// has that value.
func CheckHeader(resp *Response, name, expected string) error {
	values := resp.Header.Values(name)

	if len(values) == 0 {
		return &FieldAssertionError{Field: "header " + name, Expected: "present", Actual: "absent"}
	}

	if expected != "" && !slices.Contains(values, expected) {
		return &FieldAssertionError{Field: "header " + name, Expected: expected, Actual: strings.Join(values, ", ")}
	}

	return nil
}

// CheckCookie passes when the response set the named cookie.
func CheckCookie(resp *Response, name string) error {
	if slices.ContainsFunc(resp.Cookies, func(c *http.Cookie) bool { return c.Name == name }) {
		return nil
	}

	return &FieldAssertionError{Field: "cookie " + name, Expected: "present", Actual: "absent"}
}

// lookupField returns the value at a dot separated path in a JSON object body.
func lookupField(body []byte, path string) (any, bool, error) {
	var document map[string]any
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, false, fmt.Errorf("decoding body as a JSON object: %w", err)
	}

	value, found, err := unstructured.NestedFieldNoCopy(document, strings.Split(path, ".")...)
	if err != nil {
		return nil, false, fmt.Errorf("looking up %s: %w", path, err)
	}

	return value, found, nil
}

// normalize gives a Go value the shape it would have after a JSON round
// trip, so 1000 compares equal to a decoded float64(1000).
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func fieldValue(body []byte, path string) (any, error) {
	value, found, err := lookupField(body, path)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, &FieldAssertionError{Field: path, Expected: "present", Actual: "absent"}
	}

	return value, nil
}

// CheckFieldPresent passes when the field exists, whatever its value.
func CheckFieldPresent(body []byte, path string) error {
	_, err := fieldValue(body, path)

	return err
}

// CheckFieldNumeric passes when the field exists and holds a number.
func CheckFieldNumeric(body []byte, path string) error {
	value, err := fieldValue(body, path)
	if err != nil {
		return err
	}

	if _, ok := value.(float64); !ok {
		return &FieldAssertionError{Field: path, Expected: "a number", Actual: fmt.Sprintf("%v (%T)", value, value)}
	}

	return nil
}

// CheckField passes when the field equals the expected value once both are
// in JSON form.
func CheckField(body []byte, path string, expected any) error {
	actual, err := fieldValue(body, path)
	if err != nil {
		return err
	}

	want, err := normalize(expected)
	if err != nil {
		return fmt.Errorf("normalizing expected value for %s: %w", path, err)
	}

	if !reflect.DeepEqual(actual, want) {
		return &FieldAssertionError{Field: path, Expected: want, Actual: actual}
	}

	return nil
}

// CheckFieldNot passes when the field exists and does not equal the value.
func CheckFieldNot(body []byte, path string, unexpected any) error {
	actual, err := fieldValue(body, path)
	if err != nil {
		return err
	}

	notWant, err := normalize(unexpected)
	if err != nil {
		return fmt.Errorf("normalizing unexpected value for %s: %w", path, err)
	}

	if reflect.DeepEqual(actual, notWant) {
		return &FieldAssertionError{Field: path, Expected: fmt.Sprintf("not %v", notWant), Actual: actual}
	}

	return nil
}

// CheckFieldCompare orders a field against a reference. Numbers compare
// numerically, YYYY-MM-DD strings compare as dates.
func CheckFieldCompare(body []byte, path, op string, ref any) error {
	actual, err := fieldValue(body, path)
	if err != nil {
		return err
	}

	ok, err := compareValues(actual, op, ref)
	if errors.Is(err, errUnknownOperator) {
		return fmt.Errorf("comparing %s: %w", path, err)
	}

	if err != nil || !ok {
		return &FieldAssertionError{Field: path, Expected: fmt.Sprintf("%s %v", op, ref), Actual: actual}
	}

	return nil
}

func compareValues(actual any, op string, ref any) (bool, error) {
	if a, ok := toFloat(actual); ok {
		r, ok := toFloat(ref)
		if !ok {
			return false, fmt.Errorf("%w: cannot compare number with %T", ErrFieldAssertion, ref)
		}

		return compareNumbers(a, op, r)
	}

	a, err := toDate(actual)
	if err != nil {
		return false, err
	}

	r, err := toDate(ref)
	if err != nil {
		return false, err
	}

	return compareNumbers(float64(a.Unix()), op, float64(r.Unix()))
}

func compareNumbers(a float64, op string, b float64) (bool, error) {
	switch op {
	case OpLessThan:
		return a < b, nil
	case OpLessThanOrEqual:
		return a <= b, nil
	case OpGreaterThan:
		return a > b, nil
	case OpGreaterThanOrEqual:
		return a >= b, nil
	case OpEqual:
		return a == b, nil
	case OpNotEqual:
		return a != b, nil
	}

	return false, fmt.Errorf("%w: %q", errUnknownOperator, op)
}

func toFloat(value any) (float64, bool) {
	switch t := value.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case BookingID:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}

	return 0, false
}

func toDate(value any) (Date, error) {
	switch t := value.(type) {
	case Date:
		return t, nil
	case string:
		return ParseDate(t)
	}

	return Date{}, fmt.Errorf("%w: %v (%T)", ErrInvalidDate, value, value)
}
