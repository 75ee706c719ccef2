package binding_test

import (
	"context"
	"fmt"

	"github.com/agbru/numkit/internal/binding"
)

func ExampleModule_Call() {
	m := binding.NewDefaultModule()
	ctx := context.Background()

	sum, _ := m.Call(ctx, "add_numbers", 10, 32)
	fib, _ := m.Call(ctx, "fibonacci", 15)
	sorted, _ := m.Call(ctx, "sort_numbers", []any{5, 2, 8, 1, 9})

	fmt.Println(sum, fib, sorted)
	// Output: 42 610 [1 2 5 8 9]
}

func ExampleModule_New() {
	m := binding.NewDefaultModule()
	ctx := context.Background()

	h, _ := m.New(ctx, binding.CalculatorClass, 10)
	defer m.Release(h)

	m.Invoke(ctx, h, "add", 5)
	repr, _ := m.Repr(h)
	value, _ := m.Invoke(ctx, h, "get_value")

	fmt.Println(repr)
	fmt.Println(value)
	// Output:
	// Calculator(value=15)
	// 15
}
