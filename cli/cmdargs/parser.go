package cmdargs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli"
)

const (
	// ArrayStartSeparator marks the start of array cli arg.
	ArrayStartSeparator = "["
	// ArrayEndSeparator marks the end of array cli arg.
	ArrayEndSeparator = "]"
)

const (
	// ParamsParsingDoc is a documentation for parameters parsing.
	ParamsParsingDoc = `   Every argument that is a valid JSON value (number, boolean, null, quoted
   string, object or array) is passed as is, anything else is passed as a
   string. Arrays can also be built with separate '[' and ']' words:

    > call getBlockByNumber 1 true
    > call sendTransaction '{"from":"NQ05 ...","to":"NQ87 ...","value":100,"fee":0}'
    > call someMethod [ a b [ 1 2 ] ]
`
)

// EnsureNone returns an error if there are any positional arguments present.
// It can be used to check for them in commands that don't accept arguments.
func EnsureNone(ctx *cli.Context) *cli.ExitError {
	if ctx.Args().Present() {
		return cli.NewExitError("additional arguments given while this command expects none", 1)
	}
	return nil
}

// EnsureExactly returns an error if the number of positional arguments is
// not n, what describes the expected ones.
func EnsureExactly(ctx *cli.Context, n int, what string) *cli.ExitError {
	switch l := len(ctx.Args()); {
	case l < n:
		return cli.NewExitError(fmt.Sprintf("missing %s", what), 1)
	case l > n:
		return cli.NewExitError("additional arguments given", 1)
	}
	return nil
}

// ParseUint32 parses a block number or some other 32-bit counter.
func ParseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint32(n), nil
}

// ParseHeightOrHash checks whether s is a block number. It returns the
// number and true in this case and false for anything else (which is then
// treated as a block hash).
func ParseHeightOrHash(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// ParseParams converts the given args into a list of RPC call parameters and
// returns the number of handled words, the list itself and an error.
// `calledFromMain` denotes whether the method was called from the outside or
// recursively and used to check if ArrayEndSeparator is allowed to be in
// `args` sequence.
func ParseParams(args []string, calledFromMain bool) (int, []interface{}, error) {
	res := []interface{}{}
	for k := 0; k < len(args); {
		s := args[k]
		switch s {
		case ArrayStartSeparator:
			numWordsRead, array, err := ParseParams(args[k+1:], false)
			if err != nil {
				return 0, nil, fmt.Errorf("failed to parse array: %w", err)
			}
			res = append(res, array)
			k += 1 + numWordsRead // `1` for opening bracket
		case ArrayEndSeparator:
			if calledFromMain {
				return 0, nil, errors.New("invalid array syntax: missing opening bracket")
			}
			return k + 1, res, nil // `1`to convert index to numWordsRead
		default:
			res = append(res, parseParam(s))
			k++
		}
	}
	if calledFromMain {
		return len(args), res, nil
	}
	return 0, []interface{}{}, errors.New("invalid array syntax: missing closing bracket")
}

func parseParam(s string) interface{} {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return v
}
