package alias

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Entry holds the ordered aliases of one constructor parameter.
type Entry struct {
	Parameter string
	Aliases   []string
}

// Map is the ordered alias map of one class: one Entry per constructor
// parameter, in declaration order. Its JSON form is an object whose member
// order is the declaration order.
type Map []Entry

// Names returns the parameter names in declaration order.
func (m Map) Names() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Parameter
	}
	return names
}

// Aliases returns the aliases derived for the named parameter.
func (m Map) Aliases(parameter string) ([]string, bool) {
	for _, e := range m {
		if e.Parameter == parameter {
			return e.Aliases, true
		}
	}
	return nil, false
}

// Equal reports whether m and other hold the same entries in the same order.
func (m Map) Equal(other Map) bool {
	return slices.EqualFunc(m, other, func(a, b Entry) bool {
		return a.Parameter == b.Parameter && slices.Equal(a.Aliases, b.Aliases)
	})
}

func (m Map) clone() Map {
	out := make(Map, len(m))
	for i, e := range m {
		out[i] = Entry{Parameter: e.Parameter, Aliases: slices.Clone(e.Aliases)}
	}
	return out
}

// MarshalJSON encodes m as an object in declaration order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Parameter)
		if err != nil {
			return nil, err
		}
		aliases := e.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		value, err := json.Marshal(aliases)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of non-empty string arrays, keeping the
// member order.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	out := Map{}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("alias map: expected parameter name, got %v", tok)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("alias map: duplicate parameter %q", name)
		}
		seen[name] = struct{}{}

		aliases, err := decodeAliases(dec, name)
		if err != nil {
			return err
		}
		out = append(out, Entry{Parameter: name, Aliases: aliases})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*m = out
	return nil
}

func decodeAliases(dec *json.Decoder, parameter string) ([]string, error) {
	if err := expectDelim(dec, '['); err != nil {
		return nil, fmt.Errorf("alias map: parameter %q: %w", parameter, err)
	}
	var aliases []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		s, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("alias map: parameter %q: expected string alias, got %v", parameter, tok)
		}
		aliases = append(aliases, s)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if len(aliases) == 0 {
		return nil, fmt.Errorf("alias map: parameter %q has no aliases", parameter)
	}
	return aliases, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("alias map: unexpected end of input, expected %q", want)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("alias map: expected %q, got %v", want, tok)
	}
	return nil
}

// Table maps class identities to their alias maps.
type Table map[string]Map

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for id, m := range t {
		out[id] = m.clone()
	}
	return out
}

// EncodeTable serializes t as an indented JSON object keyed by class identity.
func EncodeTable(t Table) ([]byte, error) {
	if t == nil {
		t = Table{}
	}
	return json.MarshalIndent(t, "", "  ")
}

// DecodeTable parses a payload produced by EncodeTable. Anything that is not
// an object of alias maps is rejected.
func DecodeTable(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode alias table: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("decode alias table: payload is not an object")
	}
	return t, nil
}
