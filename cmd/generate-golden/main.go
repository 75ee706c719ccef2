// Command generate-golden writes internal/numeric/testdata/fibonacci_golden.json,
// the reference table Fibonacci is tested against. Exact values come from
// math/big; the wrapped column is the exact value reduced modulo 2^64.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// modulusBits is the width the wrapped column is reduced to.
const modulusBits = 64

type entry struct {
	N       uint64 `json:"n"`
	Exact   string `json:"exact"`
	Wrapped string `json:"wrapped"`
}

type goldenFile struct {
	Description string  `json:"description"`
	ModulusBits int     `json:"modulus_bits"`
	Entries     []entry `json:"entries"`
}

// indices lists every n in the golden table: 0..100 densely, then a few
// larger values well past the 64-bit boundary at F(93).
func indices() []uint64 {
	var ns []uint64
	for n := uint64(0); n <= 100; n++ {
		ns = append(ns, n)
	}
	return append(ns, 128, 186, 200, 256, 300, 500, 1000, 4096, 10000)
}

// fibBig computes F(n) exactly by iteration.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint64(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

func buildGolden() goldenFile {
	modulus := new(big.Int).Lsh(big.NewInt(1), modulusBits)
	g := goldenFile{Description: "F(n) mod 2^64", ModulusBits: modulusBits}
	for _, n := range indices() {
		exact := fibBig(n)
		wrapped := new(big.Int).Mod(exact, modulus)
		g.Entries = append(g.Entries, entry{N: n, Exact: exact.String(), Wrapped: wrapped.String()})
	}
	return g
}

func run(outPath string) error {
	data, err := json.MarshalIndent(buildGolden(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, append(data, '\n'), 0o644)
}

func main() {
	out := flag.String("out", filepath.Join("internal", "numeric", "testdata", "fibonacci_golden.json"), "output file")
	flag.Parse()

	if err := run(*out); err != nil {
		fmt.Fprintf(os.Stderr, "generate-golden: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}
