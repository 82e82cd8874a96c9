package loader

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	apperrors "attendcli/internal/errors"
)

// charsetCandidates is the detection order for uploaded punch exports.
// It mirrors the encodings these time-clock vendors actually emit; latin-1
// accepts any byte sequence so it doubles as the catch-all before cp1252.
var charsetCandidates = []struct {
	Name     string
	Encoding encoding.Encoding
}{
	{"utf-8", nil},
	{"big5", traditionalchinese.Big5},
	{"gb2312", simplifiedchinese.GBK}, // GBK is the GB2312 superset vendors use
	{"latin-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
}

// Decode converts raw upload bytes to a UTF-8 string, trying each charset
// in order and reporting the one that succeeded. A candidate fails when the
// decoder has to substitute replacement runes.
func Decode(name string, data []byte) (string, string, error) {
	// Strip a UTF-8 BOM some exports carry.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	for _, candidate := range charsetCandidates {
		if candidate.Encoding == nil {
			if utf8.Valid(data) {
				return string(data), candidate.Name, nil
			}
			continue
		}

		reader := transform.NewReader(bytes.NewReader(data), candidate.Encoding.NewDecoder())
		decoded, err := io.ReadAll(reader)
		if err != nil {
			continue
		}
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			continue
		}
		return string(decoded), candidate.Name, nil
	}

	return "", "", fmt.Errorf("decode %s: %w", name, &apperrors.DecodeError{Filename: name})
}

// normalizeNewlines folds CRLF and bare CR line endings so the CSV reader
// sees a consistent stream regardless of the export's origin platform.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
