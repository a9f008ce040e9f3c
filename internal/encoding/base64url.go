package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("payload is not valid UTF-8")

// toBase64URL serializes v the way a browser's JSON.stringify does (no HTML
// escaping, no trailing newline) and encodes it as unpadded base64url.
func toBase64URL(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// fromBase64URL decodes an unpadded (or padded) base64url payload into a
// generic JSON value. Numbers are kept as json.Number.
func fromBase64URL(payload string) (any, error) {
	payload = strings.TrimSpace(payload)
	payload = strings.TrimRight(payload, "=")
	payload = strings.NewReplacer("+", "-", "/", "_").Replace(payload)

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, errInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("trailing data after json value")
	}
	return v, nil
}
