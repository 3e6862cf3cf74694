package imaging

import (
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    RGBColor
		wantErr bool
	}{
		{"#FF0000", Red, false},
		{"ff0000", Red, false},
		{"#00ff00", RGBColor{G: 255}, false},
		{"  #0000FF ", RGBColor{B: 255}, false},
		{"#FFF", White, false},
		{"#000", Black, false},
		{"#28A0F0", RGBColor{R: 40, G: 160, B: 240}, false},
		{"", RGBColor{}, true},
		{"#FF00", RGBColor{}, true},
		{"#GG0000", RGBColor{}, true},
		{"red", RGBColor{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHexColor(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGBColor_Hex(t *testing.T) {
	tests := []struct {
		c    RGBColor
		want string
	}{
		{Black, "#000000"},
		{White, "#ffffff"},
		{Red, "#ff0000"},
		{RGBColor{R: 40, G: 160, B: 240}, "#28a0f0"},
		{RGBColor{R: 1, G: 2, B: 3}, "#010203"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("%+v.Hex() = %s, want %s", tt.c, got, tt.want)
		}

		back, err := ParseHexColor(tt.want)
		if err != nil || back != tt.c {
			t.Errorf("ParseHexColor(%s) = %+v, %v; want %+v", tt.want, back, err, tt.c)
		}
	}
}
