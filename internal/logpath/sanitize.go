package logpath

import "strings"

// Sanitize strips characters that are not valid in file names on common
// filesystems: / \ : * ? " < > | and the ASCII control range. Names that
// differ only in stripped characters collapse to the same directory.
func Sanitize(name string) string {
	if strings.IndexFunc(name, isIllegal) < 0 {
		return name
	}

	// All illegal characters are single-byte ASCII, which never occurs inside
	// a multi-byte UTF-8 sequence, so filtering bytes keeps everything else intact.
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		if !isIllegal(rune(name[i])) {
			b.WriteByte(name[i])
		}
	}
	return b.String()
}

func isIllegal(r rune) bool {
	if r < 0x20 {
		return true
	}
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
		return true
	}
	return false
}
