package progress

import (
	"strconv"
	"unicode/utf16"
)

// Checksum computes the record hash: h = h*31 + c over the UTF-16 code
// units of data, wrapped to a signed 32-bit integer and rendered base 36.
func Checksum(data []byte) string {
	var h int32
	for _, c := range utf16.Encode([]rune(string(data))) {
		h = h*31 + int32(c)
	}
	return strconv.FormatInt(int64(h), 36)
}
