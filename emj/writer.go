package emj

import (
	"bytes"
	"encoding/json"
	"io"
)

// Indent is the indentation used for written documents.
var Indent = "  "

// Marshal encodes v (a *Document or *AnimationDefinition) as indented JSON.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write encodes the whole document in memory before writing it to w.
func Write(doc *Document, w io.Writer) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
