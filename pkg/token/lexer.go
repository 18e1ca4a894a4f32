package token

// Tokenize scans text into a flat token stream. It never fails: unrecognized
// characters become [KindOther] tokens and an unterminated string consumes to
// the end of input. The returned slice always ends with a [KindEOF] token.
//
// Scanning is stateless per call and uses no lookahead beyond single
// characters. Ordering matters: multi-character connectors ("-->", "->",
// "<>") are recognized before the single-character fallbacks ("-", ">"), and
// a dash inside an identifier run ("api-gateway") is folded into the
// identifier rather than emitted as a connector.
func Tokenize(text string) []Token {
	s := scanner{src: []rune(text), line: 1, col: 1}
	return s.run()
}

type scanner struct {
	src  []rune
	pos  int
	line int
	col  int
	toks []Token
}

func (s *scanner) run() []Token {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.emit(KindNewline, "\n")
			s.pos++
			s.line++
			s.col = 1
		case c == ' ' || c == '\t' || c == '\r':
			s.advance(1)
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '{':
			s.single(KindLBrace, c)
		case c == '}':
			s.single(KindRBrace, c)
		case c == '[':
			s.single(KindLBracket, c)
		case c == ']':
			s.single(KindRBracket, c)
		case c == ':':
			s.single(KindColon, c)
		case c == ',':
			s.single(KindComma, c)
		case c == '|':
			s.single(KindPipe, c)
		case c == '@':
			s.single(KindAt, c)
		case c == '"' || c == '\'':
			s.scanString(c)
		case c == '<':
			if s.peek(1) == '>' {
				s.emit(KindConnector, "<>")
				s.advance(2)
			} else {
				s.single(KindOther, c)
			}
		case c == '>':
			s.single(KindConnector, c)
		case c == '-':
			// The dash only forms a connector when it completes a full
			// connector shape. Dashes inside identifiers never reach this
			// branch because the identifier scanner consumes them.
			switch {
			case s.peek(1) == '-' && s.peek(2) == '>':
				s.emit(KindConnector, "-->")
				s.advance(3)
			case s.peek(1) == '>':
				s.emit(KindConnector, "->")
				s.advance(2)
			default:
				s.single(KindConnector, c)
			}
		case isIdentStart(c):
			s.scanIdent()
		default:
			s.single(KindOther, c)
		}
	}
	s.emit(KindEOF, "")
	return s.toks
}

func (s *scanner) peek(n int) rune {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) emit(k Kind, text string) {
	s.toks = append(s.toks, Token{Kind: k, Text: text, Line: s.line, Col: s.col})
}

func (s *scanner) single(k Kind, c rune) {
	s.emit(k, string(c))
	s.advance(1)
}

func (s *scanner) advance(n int) {
	s.pos += n
	s.col += n
}

func (s *scanner) skipLineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.advance(1)
	}
}

// scanIdent consumes a run of identifier characters: letters, digits,
// underscore, dash and dot. A run consisting solely of digits (with optional
// dots) is emitted as a number token.
func (s *scanner) scanIdent() {
	start := s.pos
	startCol := s.col
	numeric := true
	for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
		c := s.src[s.pos]
		if c == '-' && s.connectorAhead() {
			// "a-->b": the dashes belong to the arrow, not the identifier.
			break
		}
		if (c < '0' || c > '9') && c != '.' {
			numeric = false
		}
		s.pos++
		s.col++
	}
	text := string(s.src[start:s.pos])
	kind := KindIdent
	if numeric && hasDigit(text) {
		kind = KindNumber
	}
	s.toks = append(s.toks, Token{Kind: kind, Text: text, Line: s.line, Col: startCol})
}

// scanString consumes a quoted string, resolving backslash escapes. Escape
// state is tracked with a single-character lookback. An unterminated string
// consumes to end of input rather than erroring.
func (s *scanner) scanString(quote rune) {
	startCol := s.col
	startLine := s.line
	s.pos++
	s.col++

	var out []rune
	escaped := false
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if escaped {
			out = append(out, c)
			escaped = false
		} else if c == '\\' {
			escaped = true
		} else if c == quote {
			s.pos++
			s.col++
			break
		} else {
			out = append(out, c)
			if c == '\n' {
				s.line++
				s.col = 0
			}
		}
		s.pos++
		s.col++
	}
	s.toks = append(s.toks, Token{Kind: KindString, Text: string(out), Line: startLine, Col: startCol})
}

// connectorAhead reports whether the dash at the current position begins a
// full arrow shape ("->" or "-->").
func (s *scanner) connectorAhead() bool {
	if s.peek(1) == '>' {
		return true
	}
	return s.peek(1) == '-' && s.peek(2) == '>'
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c > 127
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || c == '-' || c == '.'
}

func hasDigit(s string) bool {
	for _, c := range s {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}
