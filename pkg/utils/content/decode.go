package content

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidBase64       = goerr.New("invalid base64 content")
	ErrUnsupportedEncoding = goerr.New("unsupported content encoding")
	ErrContentUnavailable  = goerr.New("file content is not included in the response")
)

// Decoder turns file content as delivered by the GitHub contents API into text
type Decoder struct{}

// NewDecoder creates a new Decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes content according to encoding. Invalid UTF-8 in the decoded
// bytes is replaced with U+FFFD instead of being rejected.
func (d *Decoder) Decode(content, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "base64":
		return DecodeBase64(content)
	case "", "utf-8", "utf8":
		return toValidUTF8([]byte(content)), nil
	case "none":
		// GitHub returns "none" for files over 1MB
		return "", ErrContentUnavailable
	default:
		return "", goerr.Wrap(ErrUnsupportedEncoding, fmt.Sprintf("encoding %q", encoding))
	}
}

// DecodeBase64 decodes standard base64 that may be wrapped across lines
func DecodeBase64(s string) (string, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) {
			return "", goerr.Wrap(ErrInvalidBase64, fmt.Sprintf("illegal data at input byte %d", int64(corrupt)))
		}
		return "", goerr.Wrap(ErrInvalidBase64, err.Error())
	}

	return toValidUTF8(raw), nil
}

func toValidUTF8(raw []byte) string {
	if !utf8.Valid(raw) {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return string(raw)
}
