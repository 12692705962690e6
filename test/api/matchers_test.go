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

package api_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive

	"github.com/unikorn-cloud/booker/test/api"
)

var _ = Describe("Assertion Matchers", func() {
	var (
		registry *api.SchemaRegistry
		resp     *api.Response
	)

	BeforeEach(func() {
		var err error

		registry, err = api.NewSchemaRegistry()
		Expect(err).NotTo(HaveOccurred())

		resp = &api.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       []byte(bookingBody),
		}
	})

	Context("When checking status codes", func() {
		It("should match exact and relational expectations", func() {
			Expect(resp).To(api.HaveStatusCode(http.StatusOK))
			Expect(resp).To(api.HaveStatusCode(http.StatusOK, http.StatusCreated))
			Expect(resp).NotTo(api.HaveStatusCode(http.StatusCreated))
			Expect(resp).To(api.HaveStatusCodeThat(api.OpLessThan, 300))
		})

		It("should report expected and actual codes on failure", func() {
			matcher := api.HaveStatusCode(http.StatusCreated)

			ok, err := matcher.Match(resp)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(matcher.FailureMessage(resp)).To(ContainSubstring("expected [201], got 200"))
		})

		It("should error on the wrong actual type", func() {
			_, err := api.HaveStatusCode(http.StatusOK).Match("not a response")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("When checking body fields", func() {
		It("should compare plain values as JSON", func() {
			Expect(resp).To(api.HaveJSONField("firstname", "Sally"))
			Expect(resp).To(api.HaveJSONField("totalprice", 111))
			Expect(resp).To(api.HaveJSONField("bookingdates.checkin", api.MustParseDate("2014-03-13")))
			Expect(resp).NotTo(api.HaveJSONField("lastname", "Smith"))
		})

		It("should apply nested matchers to the decoded value", func() {
			Expect(resp).To(api.HaveJSONField("totalprice", BeNumerically(">", 100)))
			Expect(resp.Body).To(api.HaveJSONField("bookingdates.checkin", api.BeOnOrAfterDate("2014-01-01")))
			Expect(resp).To(api.HaveJSONField("additionalneeds", ContainSubstring("Break")))
		})

		It("should name the field in failure messages", func() {
			matcher := api.HaveJSONField("lastname", "Smith")

			ok, err := matcher.Match(resp)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(matcher.FailureMessage(resp)).To(ContainSubstring(`field "lastname" expected Smith, got Brown`))

			nested := api.HaveJSONField("bookingid", BeNumerically(">", 0))

			ok, err = nested.Match(resp)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(nested.FailureMessage(resp)).To(ContainSubstring(`field "bookingid"`))
		})

		It("should order fields against references", func() {
			Expect(resp).To(api.HaveFieldComparing("bookingdates.checkout", api.OpGreaterThan, "2014-03-13"))
			Expect(resp).NotTo(api.HaveFieldComparing("totalprice", api.OpGreaterThan, 1000))
		})
	})

	Context("When checking dates", func() {
		It("should accept strings, dates and times", func() {
			Expect("2014-01-01").To(api.BeOnOrAfterDate("2014-01-01"))
			Expect(api.MustParseDate("2020-02-02")).To(api.BeOnOrAfterDate("2014-01-01"))
			Expect(time.Date(2013, 12, 31, 23, 0, 0, 0, time.UTC)).NotTo(api.BeOnOrAfterDate("2014-01-01"))
			Expect("garbage").NotTo(api.BeOnOrAfterDate("2014-01-01"))
		})
	})

	Context("When checking headers and cookies", func() {
		It("should detect presence and values", func() {
			Expect(resp).To(api.HaveHeader("Content-Type"))
			Expect(resp).To(api.HaveHeader("Content-Type", "application/json"))
			Expect(resp).NotTo(api.HaveHeader("Set-Cookie"))
			Expect(resp).NotTo(api.HaveCookie("token"))
		})
	})

	Context("When checking schemas", func() {
		It("should validate against named schemas", func() {
			Expect(resp).To(api.MatchJSONSchema(registry, "Booking"))
			Expect(resp).NotTo(api.MatchJSONSchema(registry, "BookingIds"))
			Expect([]byte(`[{"bookingid":3}]`)).To(api.MatchJSONSchema(registry, "jsonAllBookingIdsSchema"))
		})

		It("should error for unknown schemas", func() {
			_, err := api.MatchJSONSchema(registry, "Nope").Match(resp)
			Expect(err).To(MatchError(api.ErrSchemaNotFound))
		})
	})
})
