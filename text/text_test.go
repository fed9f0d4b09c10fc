package text

import (
	"encoding/json"
	"testing"
)

func TestCharDirection(t *testing.T) {
	tests := []struct {
		name string
		char rune
		want Direction
	}{
		{"Arabic alif", 'ا', RTL},
		{"Arabic presentation form", 'ﻻ', RTL},
		{"Hebrew alef", 'א', RTL},
		{"Latin A", 'A', LTR},
		{"Latin é", 'é', LTR},
		{"Cyrillic я", 'я', LTR},
		{"Greek Omega", 'Ω', LTR},
		{"CJK 中", '中', LTR},
		{"digit", '7', Neutral},
		{"space", ' ', Neutral},
		{"comma", ',', Neutral},
		{"dollar", '$', Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CharDirection(tt.char); got != tt.want {
				t.Errorf("CharDirection(%q) = %v, want %v", tt.char, got, tt.want)
			}
		})
	}
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"empty", "", Neutral},
		{"numbers only", "123 456", Neutral},
		{"english", "Hello World", LTR},
		{"hebrew", "שלום עולם", RTL},
		{"mostly arabic", "مرحبا hi", RTL},
		{"mostly english", "Hello مر", LTR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDirection(tt.text); got != tt.want {
				t.Errorf("DetectDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDominant(t *testing.T) {
	if Dominant(0, 0) != Neutral || Dominant(2, 2) != LTR || Dominant(1, 3) != RTL {
		t.Error("Dominant() tie and count handling wrong")
	}
}

func TestDirectionMarshal(t *testing.T) {
	b, err := json.Marshal(struct{ D Direction }{RTL})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"D":"RTL"}` {
		t.Errorf("Marshal = %s", b)
	}
	if Direction(42).String() != "Unknown" {
		t.Error("unknown direction should print Unknown")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapse spaces", "  Hello \t  World \n", "Hello World"},
		{"compose accent", "Cafe\u0301", "Caf\u00e9"},
		{"drop controls", "a\x00b\u0007c", "abc"},
		{"drop bom", "\ufefftitle", "title"},
		{"only whitespace", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("  \u0000 ") {
		t.Error("control and spaces should be blank")
	}
	if IsBlank(" x ") {
		t.Error("x is not blank")
	}
}
