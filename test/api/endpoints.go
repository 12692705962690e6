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

package api

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

type queryParam struct {
	name  string
	value string
}

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Authentication endpoints.
func (e *Endpoints) CreateToken() string {
	return "/auth"
}

// Health endpoints.
func (e *Endpoints) Ping() string {
	return "/ping"
}

// Booking endpoints.
func (e *Endpoints) ListBookingIDs(filter *BookingFilter) (string, error) {
	path := "/booking"

	if filter == nil {
		return path, nil
	}

	query := url.Values{}

	params := []queryParam{
		{"firstname", filter.FirstName},
		{"lastname", filter.LastName},
	}

	if filter.CheckIn != nil {
		params = append(params, queryParam{"checkin", filter.CheckIn.String()})
	}

	if filter.CheckOut != nil {
		params = append(params, queryParam{"checkout", filter.CheckOut.String()})
	}

	for _, param := range params {
		if param.value == "" {
			continue
		}

		fragment, err := runtime.StyleParamWithLocation("form", true, param.name, runtime.ParamLocationQuery, param.value)
		if err != nil {
			return "", fmt.Errorf("styling query parameter %s: %w", param.name, err)
		}

		parsed, err := url.ParseQuery(fragment)
		if err != nil {
			return "", fmt.Errorf("parsing query parameter %s: %w", param.name, err)
		}

		for k, values := range parsed {
			for _, v := range values {
				query.Add(k, v)
			}
		}
	}

	if len(query) == 0 {
		return path, nil
	}

	return path + "?" + query.Encode(), nil
}

func (e *Endpoints) CreateBooking() string {
	return "/booking"
}

func (e *Endpoints) GetBooking(id BookingID) (string, error) {
	return e.booking(id)
}

func (e *Endpoints) UpdateBooking(id BookingID) (string, error) {
	return e.booking(id)
}

func (e *Endpoints) PatchBooking(id BookingID) (string, error) {
	return e.booking(id)
}

func (e *Endpoints) DeleteBooking(id BookingID) (string, error) {
	return e.booking(id)
}

func (e *Endpoints) booking(id BookingID) (string, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, int(id))
	if err != nil {
		return "", fmt.Errorf("styling path parameter id: %w", err)
	}

	return "/booking/" + pathParam, nil
}
