// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package result

import "fmt"

// NetworkError is the closed set of failures the posts API client reports.
type NetworkError int

const (
	Unknown NetworkError = iota
	Unauthorized
	RequestTimeout
	Conflict
	PayloadTooLarge
	ServerError
	NoInternet
	Serialization
)

var networkErrorNames = map[NetworkError]string{
	Unknown:         "UNKNOWN",
	Unauthorized:    "UNAUTHORIZED",
	RequestTimeout:  "REQUEST_TIMEOUT",
	Conflict:        "CONFLICT",
	PayloadTooLarge: "PAYLOAD_TOO_LARGE",
	ServerError:     "SERVER_ERROR",
	NoInternet:      "NO_INTERNET",
	Serialization:   "SERIALIZATION",
}

// NetworkErrors lists every NetworkError value.
func NetworkErrors() []NetworkError {
	return []NetworkError{
		Unauthorized,
		RequestTimeout,
		Conflict,
		PayloadTooLarge,
		ServerError,
		NoInternet,
		Serialization,
		Unknown,
	}
}

// String returns the identifier of e, e.g. "NO_INTERNET".
func (e NetworkError) String() string {
	name, ok := networkErrorNames[e]
	if !ok {
		return networkErrorNames[Unknown]
	}
	return name
}

// Error implements the [builtin.error] interface.
func (e NetworkError) Error() string {
	return "network error: " + e.String()
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (e NetworkError) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnknownNetworkErrorError is returned when unmarshalling an
// identifier which is not part of the NetworkError set.
type UnknownNetworkErrorError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e UnknownNetworkErrorError) Error() string {
	return fmt.Sprintf("unknown network error identifier: %q", e.Name)
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (e *NetworkError) UnmarshalText(b []byte) error {
	name := string(b)
	for v, n := range networkErrorNames {
		if n == name {
			*e = v
			return nil
		}
	}
	return UnknownNetworkErrorError{Name: name}
}
