package entities

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
)

// Recipe is one catalog entry. Only id and recette are interpreted; every
// other field of the stored record is kept verbatim so listings round-trip.
type Recipe struct {
	ID      int
	HasID   bool
	Recette string

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw record and extracts the fields the API uses.
// An id that is not an integer leaves HasID false rather than failing, and
// an entry that is not an object is kept as is and never matches a lookup.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return errors.New("recipe: invalid JSON value")
	}

	*r = Recipe{raw: append(json.RawMessage(nil), data...)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	if rawID, ok := fields["id"]; ok {
		var n float64
		if err := json.Unmarshal(rawID, &n); err == nil && n == math.Trunc(n) {
			r.ID = int(n)
			r.HasID = true
		}
	}
	if rawName, ok := fields["recette"]; ok {
		var name string
		if err := json.Unmarshal(rawName, &name); err == nil {
			r.Recette = name
		}
	}
	return nil
}

// MarshalJSON emits the stored record unchanged.
func (r Recipe) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	out := map[string]interface{}{"recette": r.Recette}
	if r.HasID {
		out["id"] = r.ID
	}
	return json.Marshal(out)
}

// DocumentFileName derives the HTML document name of the recipe: whitespace
// runs become a single underscore and the result is lower-cased.
func (r Recipe) DocumentFileName() string {
	return DocumentFileName(r.Recette)
}

// DocumentFileName is the name-to-file rule shared by the catalog and tools.
func DocumentFileName(name string) string {
	var b strings.Builder
	inSpace := false
	for _, c := range name {
		if unicode.IsSpace(c) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(c)
	}
	return strings.ToLower(b.String()) + ".html"
}

// Favorite marks one recipe document as favorited. Fields other than id and
// recetteFile, and values of those two that are not an integer or a string,
// are kept in extra and written back unchanged.
type Favorite struct {
	ID          int    `json:"id"`
	RecetteFile string `json:"recetteFile"`

	extra map[string]json.RawMessage
}

// UnmarshalJSON reads one stored favorite without rejecting unknown shapes
func (f *Favorite) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*f = Favorite{}

	if rawID, ok := fields["id"]; ok {
		var n float64
		if err := json.Unmarshal(rawID, &n); err == nil && n == math.Trunc(n) {
			f.ID = int(n)
			delete(fields, "id")
		}
	}
	if rawFile, ok := fields["recetteFile"]; ok {
		var name string
		if err := json.Unmarshal(rawFile, &name); err == nil {
			f.RecetteFile = name
			delete(fields, "recetteFile")
		}
	}

	if len(fields) > 0 {
		f.extra = make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			f.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return nil
}

// MarshalJSON merges id and recetteFile back into the kept fields
func (f Favorite) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(f.extra)+2)
	for k, v := range f.extra {
		out[k] = v
	}
	if _, kept := f.extra["id"]; !kept {
		out["id"] = f.ID
	}
	if _, kept := f.extra["recetteFile"]; !kept {
		out["recetteFile"] = f.RecetteFile
	}
	return json.Marshal(out)
}

// NextFavoriteID returns an id no live favorite uses.
func NextFavoriteID(favorites []Favorite) int {
	highest := 0
	for _, f := range favorites {
		if f.ID > highest {
			highest = f.ID
		}
	}
	return highest + 1
}

// FindFavorite returns the index of the first favorite for recetteFile, or -1.
func FindFavorite(favorites []Favorite, recetteFile string) int {
	for i, f := range favorites {
		if f.RecetteFile == recetteFile {
			return i
		}
	}
	return -1
}
