package token

// Stream replays an already lexed token sequence. Once the slice is
// exhausted it keeps returning an EOF token positioned after the last one.
type Stream struct {
	toks []Token
	pos  int
}

func NewStream(toks []Token) *Stream {
	return &Stream{toks: toks}
}

func (s *Stream) NextToken() Token {
	if s.pos < len(s.toks) {
		tok := s.toks[s.pos]
		s.pos++
		return tok
	}
	eof := Token{Type: EOF}
	if n := len(s.toks); n > 0 {
		last := s.toks[n-1]
		eof.FileName = last.FileName
		eof.Line = last.Line
		eof.Column = last.Column + len(last.Literal)
	}
	return eof
}
