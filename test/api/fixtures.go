/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"slices"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spjmurray/go-util/pkg/set"
)

// NewAuthenticatedClient returns a client whose mutating requests carry a
// token from a fresh session for the configured credentials.
func NewAuthenticatedClient(config *TestConfig) (*APIClient, *Session) {
	client := NewAPIClientWithConfig(config)
	session := NewSession(client, config.Username, config.Password)
	client.SetTokenSource(session)

	return client, session
}

// CreateBookingWithCleanup creates a booking and schedules its deletion.
// The remote API keeps everything that is not deleted, so always prefer this
// over a bare CreateBooking.
func CreateBookingWithCleanup(client *APIClient, ctx context.Context, record BookingRecord) *CreatedBooking {
	created, err := client.CreateBooking(ctx, record)
	Expect(err).NotTo(HaveOccurred())
	Expect(created.BookingID).To(BeNumerically(">", 0))

	GinkgoWriter.Printf("Created booking with ID: %s\n", created.BookingID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		deleteErr := client.DeleteBooking(ctx, created.BookingID)
		if deleteErr != nil && !IsNotFound(deleteErr) {
			GinkgoWriter.Printf("Warning: Failed to delete booking %s: %v\n", created.BookingID, deleteErr)
		}
	})

	return created
}

// BookingUpdateFixture holds a freshly created booking for update testing.
type BookingUpdateFixture struct {
	BookingID BookingID
	Original  BookingRecord
}

// CreateBookingUpdateFixture creates a booking and re-reads it so Original is
// what the API stored, not what was sent.
func CreateBookingUpdateFixture(client *APIClient, ctx context.Context, record BookingRecord) *BookingUpdateFixture {
	created := CreateBookingWithCleanup(client, ctx, record)

	stored, err := client.GetBooking(ctx, created.BookingID)
	Expect(err).NotTo(HaveOccurred())

	return &BookingUpdateFixture{
		BookingID: created.BookingID,
		Original:  *stored,
	}
}

// VerifyBookingEquals fails with a field by field diff if the bookings differ.
func VerifyBookingEquals(actual, expected BookingRecord) {
	diff := cmp.Diff(expected, actual)
	Expect(diff).To(BeEmpty(), "booking mismatch (-want +got):\n%s", diff)
}

// VerifyOnlyFieldsChanged fails if any field other than those named
// (Go field names, e.g. "TotalPrice") differs between the two bookings.
func VerifyOnlyFieldsChanged(before, after BookingRecord, fields ...string) {
	diff := cmp.Diff(before, after, cmpopts.IgnoreFields(BookingRecord{}, fields...))
	Expect(diff).To(BeEmpty(), "unexpected booking changes (-before +after):\n%s", diff)
}

// VerifyBookingIDsPresent verifies that every expected ID is in the listing.
func VerifyBookingIDsPresent(ids []BookingID, expected ...BookingID) {
	missing := set.New[BookingID](expected...).Difference(set.New[BookingID](ids...))
	Expect(slices.Collect(missing.All())).To(BeEmpty(), "expected booking IDs missing from the list")
}

// VerifyBookingIDsAbsent verifies that none of the IDs are in the listing.
func VerifyBookingIDsAbsent(ids []BookingID, unexpected ...BookingID) {
	present := set.New[BookingID](unexpected...).Intersection(set.New[BookingID](ids...))
	Expect(slices.Collect(present.All())).To(BeEmpty(), "unexpected booking IDs present in the list")
}

// WaitForBookingGone polls until reading the booking answers 404.
func WaitForBookingGone(client *APIClient, ctx context.Context, config *TestConfig, id BookingID) {
	Eventually(func() bool {
		_, err := client.GetBooking(ctx, id)
		return IsNotFound(err)
	}).WithTimeout(config.TestTimeout).WithPolling(time.Second).Should(BeTrue(), "booking %s still readable after delete", id)
}
