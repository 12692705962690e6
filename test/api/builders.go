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
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"k8s.io/utils/ptr"
)

const (
	defaultLastName   = "TestLastName"
	defaultTotalPrice = 1000
	defaultStayNights = 4
)

func generateRandomName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// RandomBookingID returns an ID in [1, upper), used where a test must not
// depend on any particular booking existing.
func RandomBookingID(upper int) BookingID {
	if upper < 2 {
		return 1
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(upper-1)))
	if err != nil {
		return 1
	}

	return BookingID(n.Int64() + 1)
}

// NewBookingDates builds a date range from YYYY-MM-DD literals.
func NewBookingDates(checkin, checkout string) BookingDates {
	return BookingDates{
		CheckIn:  MustParseDate(checkin),
		CheckOut: MustParseDate(checkout),
	}
}

// BookingPayloadBuilder builds booking payloads for testing.
type BookingPayloadBuilder struct {
	record BookingRecord
}

// NewBookingPayload creates a builder with a unique first name and a short
// stay starting tomorrow.
func NewBookingPayload() *BookingPayloadBuilder {
	checkin := DateOf(time.Now().AddDate(0, 0, 1))

	return &BookingPayloadBuilder{
		record: BookingRecord{
			FirstName:   generateRandomName("testautomation"),
			LastName:    defaultLastName,
			TotalPrice:  defaultTotalPrice,
			DepositPaid: false,
			BookingDates: BookingDates{
				CheckIn:  checkin,
				CheckOut: DateOf(checkin.AddDate(0, 0, defaultStayNights)),
			},
		},
	}
}

// NewSampleBooking is the canonical booking used by the creation scenarios.
func NewSampleBooking() *BookingPayloadBuilder {
	return NewBookingPayload().
		WithFirstName("TestName").
		WithLastName("TestLastName").
		WithTotalPrice(1000).
		WithDepositPaid(false).
		WithBookingDates(NewBookingDates("2023-07-01", "2023-07-05")).
		WithAdditionalNeeds("TestNeeds")
}

func (b *BookingPayloadBuilder) WithFirstName(name string) *BookingPayloadBuilder {
	b.record.FirstName = name
	return b
}

func (b *BookingPayloadBuilder) WithLastName(name string) *BookingPayloadBuilder {
	b.record.LastName = name
	return b
}

func (b *BookingPayloadBuilder) WithTotalPrice(price int) *BookingPayloadBuilder {
	b.record.TotalPrice = price
	return b
}

func (b *BookingPayloadBuilder) WithDepositPaid(paid bool) *BookingPayloadBuilder {
	b.record.DepositPaid = paid
	return b
}

func (b *BookingPayloadBuilder) WithBookingDates(dates BookingDates) *BookingPayloadBuilder {
	b.record.BookingDates = dates
	return b
}

func (b *BookingPayloadBuilder) WithCheckIn(date string) *BookingPayloadBuilder {
	b.record.BookingDates.CheckIn = MustParseDate(date)
	return b
}

func (b *BookingPayloadBuilder) WithCheckOut(date string) *BookingPayloadBuilder {
	b.record.BookingDates.CheckOut = MustParseDate(date)
	return b
}

func (b *BookingPayloadBuilder) WithAdditionalNeeds(needs string) *BookingPayloadBuilder {
	b.record.AdditionalNeeds = ptr.To(needs)
	return b
}

// WithoutAdditionalNeeds omits the optional field from the payload.
func (b *BookingPayloadBuilder) WithoutAdditionalNeeds() *BookingPayloadBuilder {
	b.record.AdditionalNeeds = nil
	return b
}

// Build returns a copy of the booking, later builder calls do not affect it.
// No validation is performed so deliberately broken bookings can be built.
func (b *BookingPayloadBuilder) Build() BookingRecord {
	out := b.record

	if b.record.AdditionalNeeds != nil {
		out.AdditionalNeeds = ptr.To(*b.record.AdditionalNeeds)
	}

	return out
}

// BuildValid is Build that rejects a checkout before the checkin.
func (b *BookingPayloadBuilder) BuildValid() (BookingRecord, error) {
	out := b.Build()

	if out.BookingDates.CheckIn.After(out.BookingDates.CheckOut) {
		return BookingRecord{}, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, out.BookingDates.CheckIn, out.BookingDates.CheckOut)
	}

	return out, nil
}

// BookingPatchBuilder builds partial update bodies.
type BookingPatchBuilder struct {
	patch BookingPatch
}

func NewBookingPatch() *BookingPatchBuilder {
	return &BookingPatchBuilder{
		patch: BookingPatch{},
	}
}

func (b *BookingPatchBuilder) WithFirstName(name string) *BookingPatchBuilder {
	b.patch["firstname"] = name
	return b
}

func (b *BookingPatchBuilder) WithLastName(name string) *BookingPatchBuilder {
	b.patch["lastname"] = name
	return b
}

func (b *BookingPatchBuilder) WithTotalPrice(price int) *BookingPatchBuilder {
	b.patch["totalprice"] = price
	return b
}

func (b *BookingPatchBuilder) WithDepositPaid(paid bool) *BookingPatchBuilder {
	b.patch["depositpaid"] = paid
	return b
}

func (b *BookingPatchBuilder) WithBookingDates(dates BookingDates) *BookingPatchBuilder {
	b.patch["bookingdates"] = dates
	return b
}

func (b *BookingPatchBuilder) WithAdditionalNeeds(needs string) *BookingPatchBuilder {
	b.patch["additionalneeds"] = needs
	return b
}

// WithField sets an arbitrary key, typically to send a malformed value.
func (b *BookingPatchBuilder) WithField(key string, value any) *BookingPatchBuilder {
	b.patch[key] = value
	return b
}

// Build returns a copy of the patch.
func (b *BookingPatchBuilder) Build() BookingPatch {
	out := make(BookingPatch, len(b.patch))

	for k, v := range b.patch {
		out[k] = v
	}

	return out
}
