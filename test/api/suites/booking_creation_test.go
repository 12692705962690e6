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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/booker/test/api"
)

var _ = Describe("Booking Creation", func() {
	Context("When creating a new booking", func() {
		Describe("Given a valid booking", func() {
			It("should echo the submitted values", func() {
				created := api.CreateBookingWithCleanup(client, ctx, api.NewSampleBooking().Build())

				Expect(created.BookingID).To(BeNumerically(">", 0))
				Expect(created.Booking.FirstName).To(Equal("TestName"), "The First name is wrong")
				Expect(created.Booking.TotalPrice).To(Equal(1000), "The Total price is wrong")
				Expect(created.Booking.DepositPaid).To(BeFalse(), "The Deposit paid is wrong")
			})

			It("should return a body matching the declared schema", func() {
				resp, err := client.Do(ctx, api.Request{
					Method: http.MethodPost,
					Path:   api.NewEndpoints().CreateBooking(),
					Body:   api.NewSampleBooking().Build(),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatusCode(http.StatusOK))

				var created api.CreatedBooking
				Expect(json.Unmarshal(resp.Body, &created)).To(Succeed())
				DeferCleanup(func() { _ = client.DeleteBooking(ctx, created.BookingID) })

				Expect(resp).To(api.MatchJSONSchema(registry, "CreatedBooking"))
				Expect(resp).To(api.HaveJSONField("bookingid", BeNumerically(">", 0)))
				Expect(resp).To(api.HaveJSONField("booking.firstname", "TestName"))
				Expect(resp).To(api.HaveJSONField("booking.totalprice", 1000))
				Expect(resp).To(api.HaveJSONField("booking.depositpaid", false))
				Expect(resp).To(api.HaveJSONField("booking.bookingdates.checkin", "2023-07-01"))
			})

			It("should store exactly what was submitted", func() {
				record := api.NewBookingPayload().
					WithDepositPaid(true).
					WithAdditionalNeeds("Breakfast").
					Build()

				created := api.CreateBookingWithCleanup(client, ctx, record)
				api.VerifyBookingEquals(created.Booking, record)

				stored, err := client.GetBooking(ctx, created.BookingID)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyBookingEquals(*stored, record)
			})

			It("should accept a booking without additional needs", func() {
				created := api.CreateBookingWithCleanup(client, ctx, api.NewBookingPayload().WithoutAdditionalNeeds().Build())
				Expect(created.Booking.AdditionalNeeds).To(BeNil())
			})
		})

		Describe("Given an invalid booking", func() {
			It("should reject a body missing required fields", func() {
				resp, err := client.Do(ctx, api.Request{
					Method: http.MethodPost,
					Path:   api.NewEndpoints().CreateBooking(),
					Body:   api.NewBookingPatch().WithFirstName("OnlyAName").Build(),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).NotTo(api.HaveStatusCode(http.StatusOK))
				Expect(resp).To(api.HaveStatusCodeThat(api.OpGreaterThanOrEqual, http.StatusBadRequest))
			})

			It("should reject a malformed JSON body", func() {
				resp, err := client.Do(ctx, api.Request{
					Method: http.MethodPost,
					Path:   api.NewEndpoints().CreateBooking(),
					Body:   `{"firstname": "Broken",`,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatusCodeThat(api.OpGreaterThanOrEqual, http.StatusBadRequest))
			})
		})
	})
})
