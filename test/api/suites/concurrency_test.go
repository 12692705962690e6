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
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/unikorn-cloud/booker/test/api"
)

const concurrentBookings = 5

var _ = Describe("Concurrency", func() {
	Context("When performing concurrent operations", func() {
		Describe("Given multiple simultaneous booking lifecycles sharing one session", func() {
			It("should keep every booking independent", func() {
				var wg sync.WaitGroup

				ids := make([]api.BookingID, concurrentBookings)
				errs := make([]error, concurrentBookings)

				for i := range concurrentBookings {
					wg.Add(1)

					go func() {
						defer GinkgoRecover()
						defer wg.Done()

						created, err := client.CreateBooking(ctx, api.NewBookingPayload().WithTotalPrice(100+i).Build())
						if err != nil {
							errs[i] = err
							return
						}

						ids[i] = created.BookingID

						_, errs[i] = client.PatchBooking(ctx, created.BookingID, api.NewBookingPatch().WithTotalPrice(200+i).Build())
					}()
				}

				wg.Wait()

				DeferCleanup(func() {
					for _, id := range ids {
						if id != 0 {
							_ = client.DeleteBooking(ctx, id)
						}
					}
				})

				for i := range concurrentBookings {
					Expect(errs[i]).NotTo(HaveOccurred())
				}

				// Each booking has a unique identifier.
				Expect(ids).To(HaveLen(concurrentBookings))
				for i, id := range ids {
					Expect(ids[i+1:]).NotTo(ContainElement(id))

					stored, err := client.GetBooking(ctx, id)
					Expect(err).NotTo(HaveOccurred())
					Expect(stored.TotalPrice).To(Equal(200 + i))
				}
			})
		})
	})
})
