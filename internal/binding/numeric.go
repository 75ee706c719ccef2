package binding

import "github.com/agbru/numkit/internal/numeric"

// ModuleName is the name under which the default module is exposed.
const ModuleName = "numkit"

// CalculatorClass is the bound name of numeric.Accumulator.
const CalculatorClass = "Calculator"

// NewDefaultModule returns a module with the numeric library registered.
func NewDefaultModule(opts ...Option) *Module {
	m := NewModule(ModuleName, opts...)
	if err := RegisterNumeric(m); err != nil {
		// Registration into a fresh module can only fail on programmer error.
		panic(err)
	}
	return m
}

// RegisterNumeric registers add_numbers, fibonacci, sort_numbers and the
// Calculator class into m.
func RegisterNumeric(m *Module) error {
	functions := []struct {
		name string
		fn   Function
	}{
		{"add_numbers", Function{
			Arity: 2,
			Doc:   "add_numbers(a, b) -> (a + b) mod 2^64",
			Call: func(args []any) (any, error) {
				a, err := ToUint64("a", args[0])
				if err != nil {
					return nil, err
				}
				b, err := ToUint64("b", args[1])
				if err != nil {
					return nil, err
				}
				return numeric.Add(a, b), nil
			},
		}},
		{"fibonacci", Function{
			Arity: 1,
			Doc:   "fibonacci(n) -> F(n) mod 2^64",
			Call: func(args []any) (any, error) {
				n, err := ToUint64("n", args[0])
				if err != nil {
					return nil, err
				}
				return numeric.Fibonacci(n), nil
			},
		}},
		{"sort_numbers", Function{
			Arity:   1,
			ListArg: true,
			Doc:     "sort_numbers(numbers) -> numbers in non-decreasing order",
			Call: func(args []any) (any, error) {
				numbers, err := ToInt32Slice("numbers", args[0])
				if err != nil {
					return nil, err
				}
				return numeric.SortNumbers(numbers), nil
			},
		}},
	}
	for _, f := range functions {
		if err := m.RegisterFunction(f.name, f.fn); err != nil {
			return err
		}
	}
	return m.RegisterClass(calculatorClass())
}

func calculatorClass() *Class {
	acc := func(receiver any) *numeric.Accumulator {
		return receiver.(*numeric.Accumulator)
	}
	return &Class{
		Name:  CalculatorClass,
		Doc:   "Calculator(initial) keeps a running unsigned 64-bit total",
		Arity: 1,
		New: func(args []any) (any, error) {
			initial, err := ToUint64("initial", args[0])
			if err != nil {
				return nil, err
			}
			return numeric.NewAccumulator(initial), nil
		},
		Methods: map[string]Method{
			"add": {
				Arity: 1,
				Doc:   "add(other) -> new value",
				Call: func(receiver any, args []any) (any, error) {
					other, err := ToUint64("other", args[0])
					if err != nil {
						return nil, err
					}
					return acc(receiver).Add(other), nil
				},
			},
			"get_value": {
				Arity: 0,
				Doc:   "get_value() -> current value",
				Call: func(receiver any, _ []any) (any, error) {
					return acc(receiver).Value(), nil
				},
			},
			"__repr__": {
				Arity: 0,
				Doc:   "__repr__() -> Calculator(value=<N>)",
				Call: func(receiver any, _ []any) (any, error) {
					return acc(receiver).String(), nil
				},
			},
		},
		Repr: func(receiver any) string {
			return acc(receiver).String()
		},
	}
}
