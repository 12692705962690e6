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
	"time"

	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"
)

// checkMatcher adapts a Check* function to Gomega. Assertion errors become
// match failures, anything else (an undecodable body) is a matcher error.
type checkMatcher struct {
	description string
	check       func(actual any) error
	failure     error
}

func (m *checkMatcher) Match(actual any) (bool, error) {
	m.failure = m.check(actual)
	if m.failure == nil {
		return true, nil
	}

	if isAssertionFailure(m.failure) {
		return false, nil
	}

	return false, m.failure
}

func (m *checkMatcher) FailureMessage(actual any) string {
	return m.failure.Error()
}

func (m *checkMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, "not to "+m.description)
}

func isAssertionFailure(err error) bool {
	return errors.Is(err, ErrUnexpectedStatus) || errors.Is(err, ErrFieldAssertion) || errors.Is(err, ErrSchemaValidation)
}

func responseOf(actual any) (*Response, error) {
	resp, ok := actual.(*Response)
	if !ok || resp == nil {
		return nil, fmt.Errorf("expected a *api.Response, got %T", actual)
	}

	return resp, nil
}

func bodyOf(actual any) ([]byte, error) {
	switch t := actual.(type) {
	case *Response:
		if t == nil {
			return nil, fmt.Errorf("expected a response body, got a nil *api.Response")
		}

		return t.Body, nil
	case []byte:
		return t, nil
	case json.RawMessage:
		return t, nil
	case string:
		return []byte(t), nil
	}

	return nil, fmt.Errorf("expected a response body, got %T", actual)
}

// HaveStatusCode succeeds when a *Response has any of the given status codes.
func HaveStatusCode(codes ...int) types.GomegaMatcher {
	return &checkMatcher{
		description: fmt.Sprintf("have status code %v", codes),
		check: func(actual any) error {
			resp, err := responseOf(actual)
			if err != nil {
				return err
			}

			return CheckStatus(resp, codes...)
		},
	}
}

// HaveStatusCodeThat succeeds when the status code satisfies op against ref.
func HaveStatusCodeThat(op string, ref int) types.GomegaMatcher {
	return &checkMatcher{
		description: fmt.Sprintf("have status code %s %d", op, ref),
		check: func(actual any) error {
			resp, err := responseOf(actual)
			if err != nil {
				return err
			}

			return CheckStatusCompare(resp, op, ref)
		},
	}
}

// HaveHeader succeeds when the header is present and, if given, has the value.
func HaveHeader(name string, value ...string) types.GomegaMatcher {
	expected := ""
	if len(value) > 0 {
		expected = value[0]
	}

	return &checkMatcher{
		description: "have header " + name,
		check: func(actual any) error {
			resp, err := responseOf(actual)
			if err != nil {
				return err
			}

			return CheckHeader(resp, name, expected)
		},
	}
}

// HaveCookie succeeds when the response sets the named cookie.
func HaveCookie(name string) types.GomegaMatcher {
	return &checkMatcher{
		description: "have cookie " + name,
		check: func(actual any) error {
			resp, err := responseOf(actual)
			if err != nil {
				return err
			}

			return CheckCookie(resp, name)
		},
	}
}

// MatchJSONSchema succeeds when the body conforms to the named schema.
func MatchJSONSchema(registry *SchemaRegistry, name string) types.GomegaMatcher {
	return &checkMatcher{
		description: "match schema " + name,
		check: func(actual any) error {
			body, err := bodyOf(actual)
			if err != nil {
				return err
			}

			return registry.Validate(name, body)
		},
	}
}

// HaveFieldComparing orders a body field against a reference value.
func HaveFieldComparing(path, op string, ref any) types.GomegaMatcher {
	return &checkMatcher{
		description: fmt.Sprintf("have field %s %s %v", path, op, ref),
		check: func(actual any) error {
			body, err := bodyOf(actual)
			if err != nil {
				return err
			}

			return CheckFieldCompare(body, path, op, ref)
		},
	}
}

// HaveJSONField looks up a dot separated path in the body. A plain expected
// value is compared for JSON equality, a matcher is applied to the decoded
// value (numbers decode as float64).
func HaveJSONField(path string, expected any) types.GomegaMatcher {
	if matcher, ok := expected.(types.GomegaMatcher); ok {
		return &jsonFieldMatcher{path: path, matcher: matcher}
	}

	return &checkMatcher{
		description: fmt.Sprintf("have field %s equal to %v", path, expected),
		check: func(actual any) error {
			body, err := bodyOf(actual)
			if err != nil {
				return err
			}

			return CheckField(body, path, expected)
		},
	}
}

type jsonFieldMatcher struct {
	path    string
	matcher types.GomegaMatcher
	value   any
	found   bool
}

func (m *jsonFieldMatcher) Match(actual any) (bool, error) {
	body, err := bodyOf(actual)
	if err != nil {
		return false, err
	}

	m.value, m.found, err = lookupField(body, m.path)
	if err != nil {
		return false, err
	}

	if !m.found {
		return false, nil
	}

	return m.matcher.Match(m.value)
}

func (m *jsonFieldMatcher) FailureMessage(actual any) string {
	if !m.found {
		return (&FieldAssertionError{Field: m.path, Expected: "present", Actual: "absent"}).Error()
	}

	return fmt.Sprintf("field %q: %s", m.path, m.matcher.FailureMessage(m.value))
}

func (m *jsonFieldMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("field %q: %s", m.path, m.matcher.NegatedFailureMessage(m.value))
}

// BeOnOrAfterDate succeeds for a date (Date, time.Time or YYYY-MM-DD string)
// that is not before the reference.
func BeOnOrAfterDate(ref string) types.GomegaMatcher {
	return &checkMatcher{
		description: "be on or after " + ref,
		check: func(actual any) error {
			if t, ok := actual.(time.Time); ok {
				actual = DateOf(t)
			}

			ok, err := compareValues(actual, OpGreaterThanOrEqual, ref)
			if err != nil || !ok {
				return &FieldAssertionError{Field: "date", Expected: ">= " + ref, Actual: actual}
			}

			return nil
		},
	}
}
