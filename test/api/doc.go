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

// Package api provides a functional test harness for the booking API.
//
// # Layers
//
// Each test case runs at most four steps: authenticate, build a payload,
// call the API, assert on the response.
//
//   - Session exchanges credentials for a token once and shares it between
//     concurrent callers. It is injected into the APIClient as a TokenSource.
//   - BookingPayloadBuilder and BookingPatchBuilder produce request bodies.
//     Build never validates, BuildValid rejects inverted date ranges.
//   - APIClient issues one request per verb. Typed methods fail on an
//     unexpected status with an *UnexpectedStatusError, Do returns any
//     response for negative path tests.
//   - The Check* functions and Gomega matchers (HaveStatusCode, HaveJSONField,
//     MatchJSONSchema) verify status codes, body fields and schema conformance
//     against the SchemaRegistry.
//
// # Separate Client Implementation
//
// The client is written by hand rather than generated from the embedded
// OpenAPI document. Any legitimate change to the remote contract must have a
// compensating change here, which makes API drift explicit. The document is
// still used to validate response shapes.
//
// # Remote Contract Quirks
//
// DELETE answers 201 Created, and POST /auth answers 200 with a "reason"
// field instead of a token for bad credentials. Both are preserved as is.
package api
