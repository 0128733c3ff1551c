package export

import (
	"encoding/base64"
	"fmt"
	"net/url"
)

// Share links carry the component in the URL itself, so nothing has to be
// hosted: the code is percent-encoded then base64'd into the "code" query
// parameter, and the prompt travels as plain text.

// ShareURL builds a shareable link to base carrying the component.
func ShareURL(base *url.URL, code, prompt string) string {
	u := *base
	q := u.Query()
	q.Set("code", EncodeShareCode(code))
	q.Set("prompt", prompt)
	u.RawQuery = q.Encode()
	return u.String()
}

// EncodeShareCode encodes component code for the "code" query parameter.
func EncodeShareCode(code string) string {
	return base64.StdEncoding.EncodeToString([]byte(url.QueryEscape(code)))
}

// DecodeShareCode reverses EncodeShareCode.
func DecodeShareCode(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode share code: %w", err)
	}
	code, err := url.QueryUnescape(string(raw))
	if err != nil {
		return "", fmt.Errorf("unescape share code: %w", err)
	}
	return code, nil
}
