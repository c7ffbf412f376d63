// SPDX-License-Identifier: MPL-2.0

package queryserve

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrInvalidBindAddress is the sentinel error wrapped by InvalidBindAddressError.
	ErrInvalidBindAddress = errors.New("invalid bind address")
	// ErrInvalidServeConfig is the sentinel error wrapped by InvalidServeConfigError.
	ErrInvalidServeConfig = errors.New("invalid query server config")
)

type (
	// BindAddress represents a host:port address for server binding.
	// A valid address must be non-empty and split into a host and port.
	BindAddress string

	// InvalidBindAddressError is returned when a BindAddress value is
	// empty or not a host:port pair.
	InvalidBindAddressError struct {
		Value  BindAddress
		Reason string
	}

	// InvalidServeConfigError is returned when a query server Config has
	// invalid fields. It wraps ErrInvalidServeConfig for errors.Is()
	// compatibility and collects field-level validation errors.
	InvalidServeConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the BindAddress.
func (a BindAddress) String() string { return string(a) }

// Validate returns nil if the BindAddress is a usable host:port pair,
// or an error wrapping ErrInvalidBindAddress if it is not.
func (a BindAddress) Validate() error {
	if strings.TrimSpace(string(a)) == "" {
		return &InvalidBindAddressError{Value: a, Reason: "must be non-empty"}
	}
	if _, _, err := net.SplitHostPort(string(a)); err != nil {
		return &InvalidBindAddressError{Value: a, Reason: "must be host:port"}
	}
	return nil
}

// Error implements the error interface for InvalidBindAddressError.
func (e *InvalidBindAddressError) Error() string {
	return fmt.Sprintf("invalid bind address %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidBindAddress for errors.Is() compatibility.
func (e *InvalidBindAddressError) Unwrap() error { return ErrInvalidBindAddress }

// Error implements the error interface for InvalidServeConfigError.
func (e *InvalidServeConfigError) Error() string {
	return fmt.Sprintf("invalid query server config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServeConfig for errors.Is() compatibility.
func (e *InvalidServeConfigError) Unwrap() error { return ErrInvalidServeConfig }
