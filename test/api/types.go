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
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}

	return d
}

// DateOf truncates a time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()

	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// MarshalJSON overrides the RFC3339 encoding promoted from time.Time.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}

	return d.UnmarshalText([]byte(s))
}

// BookingDates is the stay range of a booking.
type BookingDates struct {
	CheckIn  Date `json:"checkin"`
	CheckOut Date `json:"checkout"`
}

// BookingRecord is the booking resource as sent and returned by the API.
type BookingRecord struct {
	FirstName       string       `json:"firstname"`
	LastName        string       `json:"lastname"`
	TotalPrice      int          `json:"totalprice"`
	DepositPaid     bool         `json:"depositpaid"`
	BookingDates    BookingDates `json:"bookingdates"`
	AdditionalNeeds *string      `json:"additionalneeds,omitempty"`
}

// BookingID identifies a booking on the remote API.
type BookingID int

func (id BookingID) String() string {
	return strconv.Itoa(int(id))
}

// BookingIDEntry is a single element of the list bookings response.
type BookingIDEntry struct {
	BookingID BookingID `json:"bookingid"`
}

// CreatedBooking is the response to a booking creation.
type CreatedBooking struct {
	BookingID BookingID     `json:"bookingid"`
	Booking   BookingRecord `json:"booking"`
}

// BookingPatch is a partial booking body for PATCH requests.
type BookingPatch map[string]any

// BookingFilter narrows a booking ID listing, zero values are omitted.
type BookingFilter struct {
	FirstName string
	LastName  string
	CheckIn   *Date
	CheckOut  *Date
}

// AuthToken is an opaque session credential.
type AuthToken string

// String redacts the token so it is safe to log.
func (t AuthToken) String() string {
	if t == "" {
		return "<none>"
	}

	return "<redacted>"
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// unmarshal is json.Unmarshal with the target type in the error.
func unmarshal[T any](data []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling %T response: %w", out, err)
	}

	return &out, nil
}
