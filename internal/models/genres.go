package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenreList принимает как массив строк, так и строку через запятую.
type GenreList []string

func (g *GenreList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*g = NormalizeGenres(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("favouriteGenres must be an array or a comma-separated string")
	}
	*g = NormalizeGenres(strings.Split(s, ","))
	return nil
}

// NormalizeGenres обрезает пробелы и выкидывает пустые значения.
func NormalizeGenres(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
