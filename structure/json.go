package structure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyName is returned when a decoded document contains an empty key.
var ErrEmptyName = errors.New("structure: empty entry name")

// MarshalJSON encodes n as a JSON object in insertion order. Files encode as
// null and directories as nested objects.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, e := range n.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if child, ok := e.Content.(*Node); ok {
			if err := child.writeJSON(buf); err != nil {
				return err
			}
			continue
		}
		buf.WriteString("null")
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON decodes a JSON object into n, keeping key order. Only
// objects and null are accepted as values.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	decoded, err := decodeNode(dec, "")
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("structure: unexpected data after top-level object")
	}
	*n = *decoded
	return nil
}

// Decode reads a single JSON object from r.
func Decode(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	n, err := decodeNode(dec, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("structure: unexpected data after top-level object")
	}
	return n, nil
}

func decodeNode(dec *json.Decoder, path string) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, typeError(path, tok)
	}
	return decodeObjectBody(dec, path)
}

// decodeObjectBody reads entries up to and including the closing brace.
func decodeObjectBody(dec *json.Decoder, path string) (*Node, error) {
	n := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("structure: expected key at %q", path)
		}
		if name == "" {
			return nil, fmt.Errorf("%w at %q", ErrEmptyName, path)
		}
		childPath := name
		if path != "" {
			childPath = path + "/" + name
		}
		c, err := decodeContent(dec, childPath)
		if err != nil {
			return nil, err
		}
		n.Set(name, c)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeContent(dec *json.Decoder, path string) (Content, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case nil:
		return File, nil
	case json.Delim:
		if v == '{' {
			return decodeObjectBody(dec, path)
		}
	}
	return nil, typeError(path, tok)
}

func typeError(path string, tok json.Token) error {
	if path == "" {
		path = "/"
	}
	return fmt.Errorf("structure: %s: expected object or null, got %v", path, tok)
}
