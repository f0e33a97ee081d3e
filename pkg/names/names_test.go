package names

import (
	"testing"

	"github.com/rushteam/scholarfeed/core"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want core.Author
	}{
		{"two tokens", "Geoffrey Hinton", core.Author{FirstName: "geoffrey", LastName: "hinton"}},
		{"middle name", "Yann André LeCun", core.Author{FirstName: "yann", MiddleName: "andre", LastName: "lecun"}},
		{"several middle tokens", "A B C D", core.Author{FirstName: "a", MiddleName: "b c", LastName: "d"}},
		{"diacritics", "Łukasz Kaiser", core.Author{FirstName: "lukasz", LastName: "kaiser"}},
		{"accents", "José Hernández-Orallo", core.Author{FirstName: "jose", LastName: "hernandez-orallo"}},
		{"extra spaces", "  Fei-Fei   Li ", core.Author{FirstName: "fei-fei", LastName: "li"}},
		{"single token", "Plato", core.Author{FirstName: "plato", LastName: "plato"}},
		{"empty", "   ", core.Author{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %+v, 期望 %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeWithAffiliation(t *testing.T) {
	a := NormalizeWithAffiliation("Ada Lovelace", "University of London")
	if a.Affiliation != "University of London" || a.LastName != "lovelace" {
		t.Errorf("NormalizeWithAffiliation = %+v", a)
	}
}
