package lldpreport

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedValue is returned when a TLV value is not valid hex or its
	// bytes cannot be rendered (invalid UTF-8, unsupported address length).
	ErrMalformedValue = errors.New("malformed TLV value")

	// ErrUnrecognizedSubtype is returned for an organizationally specific TLV
	// with an unknown OUI or subtype, and for TLV types outside 0-127.
	ErrUnrecognizedSubtype = errors.New("unexpected subtype")

	// ErrTableLookup is returned when a fixed table lookup (MAU type) gets an
	// index outside the table.
	ErrTableLookup = errors.New("table lookup failure")

	// ErrTruncated is returned when a TLV value is shorter than its layout
	// requires.
	ErrTruncated = errors.New("truncated TLV value")

	// ErrInterfaceNotFound is returned when a requested interface is not
	// present for a node.
	ErrInterfaceNotFound = errors.New("interface not found")
)

// TLVError describes one TLV that was skipped while decoding an interface.
type TLVError struct {
	// Index is the position of the TLV in the interface's TLV list.
	Index int
	Type  int

	// OUI and Subtype are set for organizationally specific TLVs once the
	// header could be read. OUI is the lowercase 6-digit hex form.
	OUI     string
	Subtype int

	Err error
}

func (e *TLVError) Error() string {
	if e.OUI != "" {
		return fmt.Sprintf("TLV #%d type %d (OUI %s subtype %d): %v", e.Index, e.Type, e.OUI, e.Subtype, e.Err)
	}
	return fmt.Sprintf("TLV #%d type %d: %v", e.Index, e.Type, e.Err)
}

func (e *TLVError) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the sentinel.
func (e *TLVError) Cause() error { return errors.Cause(e.Err) }
