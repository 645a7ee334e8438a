package corrset

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// gzipMagic is the two-byte header every gzip stream starts with.
var gzipMagic = []byte{0x1f, 0x8b}

// Input declares one correction parameter: its name and declared kind
// ("real", "int" or "string").
type Input struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Output describes the single value a correction produces.
type Output struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Correction is one named, independently compilable correction: ordered
// inputs plus a content tree rooted at Data.
type Correction struct {
	Name        string
	Description string
	Version     int
	Inputs      []Input
	Output      Output
	Data        Content
}

// UnmarshalJSON decodes the correction, resolving the content union in Data.
func (c *Correction) UnmarshalJSON(raw []byte) error {
	var head struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Version     int             `json:"version"`
		Inputs      []Input         `json:"inputs"`
		Output      Output          `json:"output"`
		Data        json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return fmt.Errorf("correction: %v: %w", err, ErrBadDocument)
	}
	if head.Name == "" {
		return fmt.Errorf("correction without a name: %w", ErrBadDocument)
	}
	if len(head.Data) == 0 {
		return fmt.Errorf("correction %q: missing data: %w", head.Name, ErrBadDocument)
	}

	data, err := decodeContent(head.Data)
	if err != nil {
		return fmt.Errorf("correction %q: %w", head.Name, err)
	}

	c.Name = head.Name
	c.Description = head.Description
	c.Version = head.Version
	c.Inputs = head.Inputs
	c.Output = head.Output
	c.Data = data

	return nil
}

// CorrectionSet is a decoded correction-set document.
type CorrectionSet struct {
	SchemaVersion int           `json:"schema_version"`
	Description   string        `json:"description"`
	Corrections   []*Correction `json:"corrections"`
}

// Lookup returns the correction with the given name, if present.
func (s *CorrectionSet) Lookup(name string) (*Correction, bool) {
	for _, c := range s.Corrections {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// Decode reads one correction-set document from r.
func Decode(r io.Reader) (*CorrectionSet, error) {
	var set CorrectionSet
	dec := json.NewDecoder(r)
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("corrset: decode: %w", err)
	}
	if len(set.Corrections) == 0 {
		return nil, fmt.Errorf("no corrections in document: %w", ErrBadDocument)
	}

	return &set, nil
}

// OpenAuto opens path and decodes it as a correction set, transparently
// decompressing gzip streams (detected by magic bytes, not file extension).
func OpenAuto(path string) (*CorrectionSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corrset: open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(len(gzipMagic))
	if err == nil && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		gz, gzErr := gzip.NewReader(br)
		if gzErr != nil {
			return nil, fmt.Errorf("corrset: gunzip %s: %w", path, gzErr)
		}
		defer gz.Close()

		return Decode(gz)
	}

	return Decode(br)
}
