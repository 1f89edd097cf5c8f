package flags

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/urfave/cli"
)

// LunasPerNIM is the number of Luna in one NIM.
const LunasPerNIM = 100000

const decimals = 5

// Amount is a NIM amount stored in Luna with flag.Value methods.
type Amount struct {
	IsSet bool
	Value int64
}

// AmountFlag is a flag with a NIM amount value, it accepts decimal NIM
// strings like "1.5" and stores Luna.
type AmountFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    Amount
}

var (
	_ flag.Value = (*Amount)(nil)
	_ cli.Flag   = AmountFlag{}
)

// String implements the fmt.Stringer interface.
func (a Amount) String() string {
	return FormatNIM(a.Value)
}

// Set implements the flag.Value interface.
func (a *Amount) Set(s string) error {
	v, err := ParseNIM(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	a.IsSet = true
	a.Value = v
	return nil
}

// Luna returns the amount in Luna.
func (a *Amount) Luna() int64 {
	return a.Value
}

// String returns a readable representation of this value
// (for usage defaults).
func (f AmountFlag) String() string {
	var names []string
	eachName(f.Name, func(name string) {
		names = append(names, getNameHelp(name))
	})

	return strings.Join(names, ", ") + "\t" + f.Usage
}

// GetName returns the name of the flag.
func (f AmountFlag) GetName() string {
	return f.Name
}

// IsRequired returns whether the flag is required.
func (f AmountFlag) IsRequired() bool {
	return f.Required
}

// Apply populates the flag given the flag set and environment.
// Ignores errors.
func (f AmountFlag) Apply(set *flag.FlagSet) {
	eachName(f.Name, func(name string) {
		set.Var(&f.Value, name, f.Usage)
	})
}

// AmountFromContext returns the amount in Luna for the given flag name.
func AmountFromContext(ctx *cli.Context, name string) int64 {
	return ctx.Generic(name).(*Amount).Value
}

// ParseNIM parses a decimal NIM string with at most 5 fractional digits
// into Luna.
func ParseNIM(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty amount")
	}
	if s[0] == '-' || s[0] == '+' {
		return 0, fmt.Errorf("invalid amount %q: sign is not allowed", s)
	}
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && (!hasDot || fracPart == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(fracPart) > decimals {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", s, decimals)
	}
	var whole, frac int64
	var err error
	if intPart != "" {
		whole, err = strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	if fracPart != "" {
		frac, err = strconv.ParseInt(fracPart+strings.Repeat("0", decimals-len(fracPart)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	if whole > (math.MaxInt64-frac)/LunasPerNIM {
		return 0, fmt.Errorf("invalid amount %q: overflow", s)
	}
	return whole*LunasPerNIM + frac, nil
}

// FormatNIM formats an amount of Luna as a decimal NIM string without
// trailing zeroes.
func FormatNIM(luna int64) string {
	var sign string
	if luna < 0 {
		sign = "-"
		luna = -luna
	}
	s := strconv.FormatInt(luna/LunasPerNIM, 10)
	if frac := luna % LunasPerNIM; frac != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%05d", frac), "0")
	}
	return sign + s
}
