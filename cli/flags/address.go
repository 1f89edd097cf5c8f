package flags

import (
	"encoding/hex"
	"flag"
	"fmt"
	"strings"

	"github.com/urfave/cli"
)

const (
	addressAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVXY"
	addressPrefix   = "NQ"
	// Prefix, two check digits and 32 base32 characters.
	addressLength = 36
	addressBytes  = 20
)

// Address is a wrapper for a user-friendly Nimiq address with flag.Value
// methods.
type Address struct {
	IsSet bool
	Value string
}

// AddressFlag is a flag with a Nimiq address value.
type AddressFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    Address
}

var (
	_ flag.Value = (*Address)(nil)
	_ cli.Flag   = AddressFlag{}
)

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	return a.Value
}

// Set implements the flag.Value interface.
func (a *Address) Set(s string) error {
	addr, err := ParseAddress(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	a.IsSet = true
	a.Value = addr
	return nil
}

// String returns a readable representation of this value
// (for usage defaults).
func (f AddressFlag) String() string {
	var names []string
	eachName(f.Name, func(name string) {
		names = append(names, getNameHelp(name))
	})

	return strings.Join(names, ", ") + "\t" + f.Usage
}

// GetName returns the name of the flag.
func (f AddressFlag) GetName() string {
	return f.Name
}

// IsRequired returns whether the flag is required.
func (f AddressFlag) IsRequired() bool {
	return f.Required
}

// Apply populates the flag given the flag set and environment.
// Ignores errors.
func (f AddressFlag) Apply(set *flag.FlagSet) {
	eachName(f.Name, func(name string) {
		set.Var(&f.Value, name, f.Usage)
	})
}

// AddressFromContext returns the address for the given flag name, it's empty
// if the flag was not set.
func AddressFromContext(ctx *cli.Context, name string) string {
	return ctx.Generic(name).(*Address).Value
}

// ParseAddress parses either a user-friendly address (with or without
// spaces, case-insensitive) or a 20-byte hex string and returns the address
// in the canonical user-friendly form, "NQ05 9VGU 0TYE ...".
func ParseAddress(s string) (string, error) {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if len(compact) == 2*addressBytes || len(compact) == 2*addressBytes+2 {
		b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(compact), "0x"))
		if err == nil {
			return addressFromBytes(b), nil
		}
	}
	if len(compact) != addressLength {
		return "", fmt.Errorf("invalid address %q: wrong length", s)
	}
	if !strings.HasPrefix(compact, addressPrefix) {
		return "", fmt.Errorf("invalid address %q: no %s prefix", s, addressPrefix)
	}
	for _, c := range compact[4:] {
		if !strings.ContainsRune(addressAlphabet, c) {
			return "", fmt.Errorf("invalid address %q: bad character %q", s, c)
		}
	}
	if ibanCheck(compact[4:]+compact[:4]) != 1 {
		return "", fmt.Errorf("invalid address %q: checksum mismatch", s)
	}
	return group(compact), nil
}

func addressFromBytes(b []byte) string {
	var (
		body strings.Builder
		acc  uint
		bits uint
	)
	for _, c := range b {
		acc = acc<<8 | uint(c)
		bits += 8
		for bits >= 5 {
			bits -= 5
			body.WriteByte(addressAlphabet[(acc>>bits)&0x1f])
		}
	}
	check := 98 - ibanCheck(body.String()+addressPrefix+"00")
	return group(fmt.Sprintf("%s%02d%s", addressPrefix, check, body.String()))
}

// ibanCheck computes the ISO 13616 remainder of s, letters count as 10..35.
func ibanCheck(s string) int {
	var rem int
	for _, c := range s {
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
			rem = (rem*10 + v) % 97
			continue
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 10
		default:
			return -1
		}
		rem = (rem*100 + v) % 97
	}
	return rem
}

func group(s string) string {
	var parts []string
	for i := 0; i < len(s); i += 4 {
		parts = append(parts, s[i:i+4])
	}
	return strings.Join(parts, " ")
}
