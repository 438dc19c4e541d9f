package calc_test

import (
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("2(3+4)k!")
	f.Add("f(1, -2); 3")
	f.Add("1..2")
	f.Fuzz(func(t *testing.T, s string) {
		exprs, err := calc.ParseList(s)
		if err != nil {
			return
		}
		for _, e := range exprs {
			// Printing must not panic on any tree the parser builds.
			_ = e.String()
		}
	})
}
