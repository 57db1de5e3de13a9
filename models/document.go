package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

const DefaultSectionName = "Introduction"

// Sections is an insertion-ordered map of section name to section text.
// Setting an existing name replaces its text and keeps its original position.
type Sections struct {
	names []string
	text  map[string]string
}

func NewSections() *Sections {
	return &Sections{text: map[string]string{}}
}

func (s *Sections) Set(name, text string) {
	if s.text == nil {
		s.text = map[string]string{}
	}
	if _, ok := s.text[name]; !ok {
		s.names = append(s.names, name)
	}
	s.text[name] = text
}

func (s *Sections) Get(name string) (string, bool) {
	t, ok := s.text[name]
	return t, ok
}

func (s *Sections) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Sections) Len() int { return len(s.names) }

// Texts returns the section texts in order.
func (s *Sections) Texts() []string {
	out := make([]string, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, s.text[n])
	}
	return out
}

// MarshalJSON writes the sections as a JSON object in insertion order.
func (s *Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.text[n])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NormalizedDocument is the canonical shape every content source is reduced
// to before text generation. It is built per request and never persisted.
type NormalizedDocument struct {
	Title     string    `json:"title"`
	SourceURL *string   `json:"url"`
	Sections  *Sections `json:"sections"`
	Text      string    `json:"-"`
}
