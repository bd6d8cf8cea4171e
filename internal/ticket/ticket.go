// Package ticket holds the guest record a ticket image is rendered from.
package ticket

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrInvalidRequest = errors.New("invalid ticket request")

// Field limits, in runes.
const (
	MaxNameLen  = 64
	MaxBatchLen = 16
	MaxPhoneLen = 24
	MaxCodeLen  = 64

	// DisplayCodeLen is how much of the code the printed label shows. The QR
	// payload always carries the full code.
	DisplayCodeLen = 18
)

type Request struct {
	Name  string `json:"name"`
	Batch string `json:"batch"`
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Normalize trims every field, keeps at most the first two words of the name
// and fills the defaults the design prints for missing values.
func (r Request) Normalize() Request {
	name := strings.TrimSpace(r.Name)
	if parts := strings.Fields(name); len(parts) > 2 {
		name = strings.Join(parts[:2], " ")
	}
	if name == "" {
		name = "Guest"
	}
	batch := strings.TrimSpace(r.Batch)
	if batch == "" {
		batch = "N/A"
	}
	return Request{
		Name:  name,
		Batch: batch,
		Phone: strings.TrimSpace(r.Phone),
		Code:  strings.TrimSpace(r.Code),
	}
}

func (r Request) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidRequest)
	}
	fields := []struct {
		name, val string
		max       int
	}{
		{"name", r.Name, MaxNameLen},
		{"batch", r.Batch, MaxBatchLen},
		{"phone", r.Phone, MaxPhoneLen},
		{"code", r.Code, MaxCodeLen},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.val) {
			return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidRequest, f.name)
		}
		if n := utf8.RuneCountInString(f.val); n > f.max {
			return fmt.Errorf("%w: %s has %d characters, limit %d", ErrInvalidRequest, f.name, n, f.max)
		}
		if strings.IndexFunc(f.val, unicode.IsControl) >= 0 {
			return fmt.Errorf("%w: %s contains control characters", ErrInvalidRequest, f.name)
		}
	}
	return nil
}

// DisplayCode is the code as printed under the QR panel.
func (r Request) DisplayCode() string {
	if utf8.RuneCountInString(r.Code) <= DisplayCodeLen {
		return r.Code
	}
	return string([]rune(r.Code)[:DisplayCodeLen])
}

// FileName is the conventional file name for the rendered ticket. Characters
// outside [A-Za-z0-9._-] in the code become underscores.
func (r Request) FileName() string {
	safe := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			return c
		}
		return '_'
	}, r.Code)
	return "ticket_" + safe + ".png"
}
