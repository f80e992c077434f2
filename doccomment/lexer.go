package doccomment

import "strings"

type tokenKind int

const (
	tokText    tokenKind = iota
	tokType              // :type NAME:
	tokParam             // :param NAME:
	tokRType             // :rtype:
	tokReturns           // :return: or :returns:
)

// token is one lexeme of a whitespace-collapsed block. start and end index
// the block so trailing text can be recovered verbatim.
type token struct {
	kind  tokenKind
	arg   string
	start int
	end   int
}

// lex splits a block into field markers and the text between them. A ':'
// that does not open a recognised field is ordinary text.
func lex(block string) []token {
	var toks []token
	textStart := 0

	flushText := func(end int) {
		if end > textStart {
			toks = append(toks, token{kind: tokText, arg: block[textStart:end], start: textStart, end: end})
		}
	}

	for i := 0; i < len(block); i++ {
		if block[i] != ':' {
			continue
		}
		kind, arg, n, ok := field(block[i:])
		if !ok {
			continue
		}
		flushText(i)
		toks = append(toks, token{kind: kind, arg: arg, start: i, end: i + n})
		i += n - 1
		textStart = i + 1
	}
	flushText(len(block))
	return toks
}

// field recognises a field marker at the start of s and returns its kind,
// argument and byte length.
func field(s string) (tokenKind, string, int, bool) {
	switch {
	case strings.HasPrefix(s, ":rtype:"):
		return tokRType, "", len(":rtype:"), true
	case strings.HasPrefix(s, ":returns:"):
		return tokReturns, ":returns:", len(":returns:"), true
	case strings.HasPrefix(s, ":return:"):
		return tokReturns, ":return:", len(":return:"), true
	case strings.HasPrefix(s, ":type "):
		return named(s, ":type ", tokType)
	case strings.HasPrefix(s, ":param "):
		return named(s, ":param ", tokParam)
	}
	return 0, "", 0, false
}

func named(s, prefix string, kind tokenKind) (tokenKind, string, int, bool) {
	rest := s[len(prefix):]
	end := strings.IndexByte(rest, ':')
	if end <= 0 {
		return 0, "", 0, false
	}
	return kind, rest[:end], len(prefix) + end + 1, true
}
