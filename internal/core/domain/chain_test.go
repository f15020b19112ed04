package domain

import (
	"math/big"
	"testing"
)

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal: " + s)
	}
	return v
}

func TestFormatEther(t *testing.T) {
	cases := []struct {
		name string
		wei  *big.Int
		want string
	}{
		{"nil", nil, "0.0"},
		{"zero", big.NewInt(0), "0.0"},
		{"one ether", wei("1000000000000000000"), "1.0"},
		{"one and a half", wei("1500000000000000000"), "1.5"},
		{"five hundredths", wei("50000000000000000"), "0.05"},
		{"one wei", big.NewInt(1), "0.000000000000000001"},
		{"trailing zeros trimmed", wei("1200000000000000000"), "1.2"},
		{"large", wei("123456000000000000000000"), "123456.0"},
		{"negative", wei("-2500000000000000000"), "-2.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatEther(tc.wei); got != tc.want {
				t.Errorf("FormatEther(%v) = %q, want %q", tc.wei, got, tc.want)
			}
		})
	}
}
