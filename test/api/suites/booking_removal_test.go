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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/booker/test/api"
)

var _ = Describe("Booking Removal", func() {
	Context("When deleting a booking", func() {
		Describe("Given a booking that exists", func() {
			It("should answer 201 and the booking should no longer be readable", func() {
				created := api.CreateBookingWithCleanup(client, ctx, api.NewBookingPayload().Build())

				// 201 Created is the remote API's success code for DELETE.
				Expect(client.DeleteBooking(ctx, created.BookingID)).To(Succeed())

				api.WaitForBookingGone(client, ctx, config, created.BookingID)

				ids, err := client.ListBookingIDs(ctx, nil)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyBookingIDsAbsent(ids, created.BookingID)
			})
		})

		Describe("Given an arbitrary booking ID", func() {
			It("should never leave the booking readable", func() {
				id := api.RandomBookingID(2000)

				path, err := api.NewEndpoints().DeleteBooking(id)
				Expect(err).NotTo(HaveOccurred())

				// Other users share the remote API, the ID may or may not exist.
				resp, err := client.Do(ctx, api.Request{Method: http.MethodDelete, Path: path, Authenticated: true})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatusCode(http.StatusCreated, http.StatusMethodNotAllowed))

				api.WaitForBookingGone(client, ctx, config, id)
			})
		})

		Describe("Given a booking that was already deleted", func() {
			It("should not answer 201 again", func() {
				created := api.CreateBookingWithCleanup(client, ctx, api.NewBookingPayload().Build())
				Expect(client.DeleteBooking(ctx, created.BookingID)).To(Succeed())

				err := client.DeleteBooking(ctx, created.BookingID)
				Expect(err).To(MatchError(api.ErrUnexpectedStatus))
			})
		})
	})
})
