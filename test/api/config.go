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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultTestTimeout    = 5 * time.Minute
	defaultKnownBookingID = 1
)

type TestConfig struct {
	BaseURL        string
	Username       string
	Password       string
	RequestTimeout time.Duration
	TestTimeout    time.Duration
	RetryAttempts  int
	KnownBookingID BookingID
	// SkipIntegration disables the live suites, it defaults to true when no
	// base URL is configured.
	SkipIntegration bool
	DebugLogging    bool
	LogRequests     bool
	LogResponses    bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	baseURL := os.Getenv("API_BASE_URL")

	config := &TestConfig{
		BaseURL:         strings.TrimSuffix(baseURL, "/"),
		Username:        os.Getenv("API_USERNAME"),
		Password:        os.Getenv("API_PASSWORD"),
		RequestTimeout:  getRequestTimeout(),
		TestTimeout:     getDurationWithDefault("TEST_TIMEOUT", defaultTestTimeout),
		RetryAttempts:   getIntWithDefault("RETRY_ATTEMPTS", 0),
		KnownBookingID:  BookingID(getIntWithDefault("KNOWN_BOOKING_ID", defaultKnownBookingID)),
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", baseURL == ""),
		DebugLogging:    getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false),
	}

	if config.SkipIntegration {
		return config, nil
	}

	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// getRequestTimeout accepts either a Go duration or a plain millisecond count.
func getRequestTimeout() time.Duration {
	if ms := getIntWithDefault("REQUEST_TIMEOUT_MS", 0); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}

	return getDurationWithDefault("REQUEST_TIMEOUT", defaultRequestTimeout)
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil || intValue < 0 {
		return defaultValue
	}

	return intValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env",    // From test/api directory
		"../../../.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables take precedence.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	var missing []string

	required := []struct {
		envVar string
		value  string
	}{
		{"API_BASE_URL", config.BaseURL},
		{"API_USERNAME", config.Username},
		{"API_PASSWORD", config.Password},
	}

	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s. Please set these environment variables or add them to a .env file", ErrMissingConfig, strings.Join(missing, ", "))
	}

	return nil
}
