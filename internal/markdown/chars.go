package markdown

import "github.com/yuin/goldmark/util"

func isSpace(c byte) bool { return util.IsSpace(c) }
func isPunct(c byte) bool { return util.IsPunct(c) }
func isAlnum(c byte) bool { return util.IsAlphaNumeric(c) }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func hasPrefixFold(data []byte, prefix string) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		c := data[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != prefix[i] {
			return false
		}
	}
	return true
}
