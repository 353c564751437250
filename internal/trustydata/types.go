// ABOUTME: Typed model of the locality search response.
// ABOUTME: Loose scalar fields decode into Figure so numbers and strings both survive verbatim.

package trustydata

import (
	"bytes"
	"encoding/json"
)

// StatusOK is the status value the API reports for a successful search.
const StatusOK = "OK"

// SearchResponse is the body of a locality search.
type SearchResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Count   int        `json:"count"`
	Choices []Locality `json:"choices"`
}

// Locality is one matching commune.
type Locality struct {
	Name       string       `json:"nom_commune"`
	PostalCode Figure       `json:"code_postal"`
	COG        COG          `json:"cog"`
	Population []Population `json:"population"`
	Department *Area        `json:"departement"`
	Region     *Area        `json:"region"`
}

// COG holds the official geographic codes (Code Officiel Géographique).
type COG struct {
	INSEE Figure `json:"insee"`
}

// Area is a department or region a locality belongs to.
type Area struct {
	Code       Figure       `json:"id"`
	Name       string       `json:"libelle"`
	Population []Population `json:"population"`
}

// Population is one census period's figures.
type Population struct {
	Period            Figure `json:"periode"`
	Total             Figure `json:"totale"`
	Municipal         Figure `json:"municipale"`
	CountedSeparately Figure `json:"comptee_a_part"`
}

// Figure is a scalar kept in its textual JSON form. Strings are unquoted,
// numbers keep their exact digits, null and absent values are empty.
type Figure string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Figure) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Figure(s)
		return nil
	}
	*f = Figure(b)
	return nil
}

// Present reports whether the field carried a non-empty value.
func (f Figure) Present() bool {
	return f != ""
}

// String returns the value, or "N/A" when absent.
func (f Figure) String() string {
	if f == "" {
		return "N/A"
	}
	return string(f)
}
