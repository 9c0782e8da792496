package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain integer", input: "150000", want: "150000"},
		{name: "dot decimal", input: "12.34", want: "12.34"},
		{name: "comma decimal", input: "12,34", want: "12.34"},
		{name: "leading whitespace", input: " 500 ", want: "500"},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "negative rejected", input: "-10", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "garbage rejected", input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error", tt.input)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("ParseAmount(%q) error should wrap ErrValidation", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
