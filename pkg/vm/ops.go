package vm

import (
	"fmt"
	"sort"
)

// Operator combines the left and right operands into a result.
type Operator func(left, right int64) (int64, error)

var builtins = map[string]Operator{
	"+":   add,
	"add": add,
	"-":   sub,
	"sub": sub,
	"*":   mul,
	"mul": mul,
	"/":   div,
	"div": div,
	"%":   mod,
	"mod": mod,
	"min": func(l, r int64) (int64, error) { return min(l, r), nil },
	"max": func(l, r int64) (int64, error) { return max(l, r), nil },
	"pow": pow,
}

// OperatorNames returns the names of all builtin operators, sorted.
func OperatorNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsOperator reports whether name is a builtin operator.
func IsOperator(name string) bool {
	_, ok := builtins[name]
	return ok
}

func selectOperators(names []string) (map[string]Operator, error) {
	if len(names) == 0 {
		return builtins, nil
	}
	ops := make(map[string]Operator, len(names))
	for _, name := range names {
		op, ok := builtins[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownOperator, name)
		}
		ops[name] = op
	}
	return ops, nil
}

func add(l, r int64) (int64, error) { return l + r, nil }
func sub(l, r int64) (int64, error) { return l - r, nil }
func mul(l, r int64) (int64, error) { return l * r, nil }

// div truncates toward zero.
func div(l, r int64) (int64, error) {
	if r == 0 {
		return 0, ErrDivisionByZero
	}
	return l / r, nil
}

func mod(l, r int64) (int64, error) {
	if r == 0 {
		return 0, ErrDivisionByZero
	}
	return l % r, nil
}

func pow(base, exp int64) (int64, error) {
	if exp < 0 {
		return 0, fmt.Errorf("%w: negative exponent %d", ErrBadOperand, exp)
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result, nil
}
