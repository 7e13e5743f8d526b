package lldpreport

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// formatMAC renders any number of octets as lowercase colon separated hex.
func formatMAC(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, ":")
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func utf8Text(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.Wrap(ErrMalformedValue, "value is not valid UTF-8")
	}
	return string(b), nil
}
