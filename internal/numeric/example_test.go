package numeric_test

import (
	"fmt"

	"github.com/agbru/numkit/internal/numeric"
)

func ExampleAdd() {
	fmt.Println(numeric.Add(10, 32))
	fmt.Println(numeric.Add(18446744073709551615, 1))
	// Output:
	// 42
	// 0
}

func ExampleFibonacci() {
	for _, n := range []uint64{0, 1, 10, 15, 93} {
		fmt.Printf("F(%d) = %d\n", n, numeric.Fibonacci(n))
	}
	// Output:
	// F(0) = 0
	// F(1) = 1
	// F(10) = 55
	// F(15) = 610
	// F(93) = 12200160415121876738
}

func ExampleSortNumbers() {
	fmt.Println(numeric.SortNumbers([]int32{5, 2, 8, 1, 9}))
	// Output: [1 2 5 8 9]
}

func ExampleAccumulator() {
	calc := numeric.NewAccumulator(10)
	fmt.Println(calc)
	calc.Add(5)
	fmt.Println(calc)
	fmt.Println(calc.Value())
	// Output:
	// Calculator(value=10)
	// Calculator(value=15)
	// 15
}
