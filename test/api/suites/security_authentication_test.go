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
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/booker/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When exchanging credentials for a token", func() {
		Describe("Given valid credentials", func() {
			It("should return a token matching the declared schema", func() {
				resp, err := client.Do(ctx, api.Request{
					Method: http.MethodPost,
					Path:   "/auth",
					Body:   map[string]string{"username": config.Username, "password": config.Password},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatusCode(http.StatusOK))
				Expect(resp).To(api.MatchJSONSchema(registry, "AuthToken"))
			})

			It("should be obtained once and reused by the session", func() {
				first, err := session.Token(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(first).NotTo(BeEmpty())

				second, err := session.Token(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(second).To(Equal(first))
			})
		})

		Describe("Given invalid credentials", func() {
			It("should fail with an authentication error", func() {
				_, err := client.Authenticate(ctx, config.Username, "not-the-password")
				Expect(err).To(MatchError(api.ErrAuthentication))

				var authErr *api.AuthenticationError
				Expect(errors.As(err, &authErr)).To(BeTrue())
				Expect(authErr.Reason).NotTo(BeEmpty())
			})
		})
	})

	Context("When mutating bookings", func() {
		var created *api.CreatedBooking

		BeforeEach(func() {
			created = api.CreateBookingWithCleanup(client, ctx, api.NewBookingPayload().Build())
		})

		Describe("Given no token", func() {
			It("should reject the update with 403 Forbidden", func() {
				path, err := api.NewEndpoints().UpdateBooking(created.BookingID)
				Expect(err).NotTo(HaveOccurred())

				resp, err := client.Do(ctx, api.Request{
					Method: http.MethodPut,
					Path:   path,
					Body:   api.NewBookingPayload().Build(),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp).To(api.HaveStatusCode(http.StatusForbidden))
			})
		})

		Describe("Given an invalid token", func() {
			It("should reject the delete with 403 Forbidden and leave the booking readable", func() {
				invalid := api.NewAPIClientWithConfig(config)
				invalid.SetAuthToken("not-a-real-token")

				err := invalid.DeleteBooking(ctx, created.BookingID)
				Expect(err).To(MatchError(api.ErrUnexpectedStatus))

				var statusErr *api.UnexpectedStatusError
				Expect(errors.As(err, &statusErr)).To(BeTrue())
				Expect(statusErr.Actual).To(Equal(http.StatusForbidden))

				_, err = client.GetBooking(ctx, created.BookingID)
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})
})
