package parser

import "github.com/seafold/seafold/internal/ir"

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal
	TokenReturn
	TokenNumber
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenLParen    // (
	TokenRParen    // )
	TokenSemicolon // ;
)

// String returns the token name for error messages.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "illegal"
	case TokenReturn:
		return "return"
	case TokenNumber:
		return "number"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenSemicolon:
		return ";"
	default:
		return "unknown"
	}
}

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     ir.Pos
}

// Lexer produces tokens from source text, tracking line and column
// for diagnostics.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	col          int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.col++
}

// NextToken returns the next token, consuming input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := ir.Pos{Line: l.line, Col: l.col}

	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Pos: pos}
	case '+':
		l.readChar()
		return Token{Type: TokenPlus, Literal: "+", Pos: pos}
	case '-':
		l.readChar()
		return Token{Type: TokenMinus, Literal: "-", Pos: pos}
	case '*':
		l.readChar()
		return Token{Type: TokenStar, Literal: "*", Pos: pos}
	case '/':
		l.readChar()
		return Token{Type: TokenSlash, Literal: "/", Pos: pos}
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}
	case ';':
		l.readChar()
		return Token{Type: TokenSemicolon, Literal: ";", Pos: pos}
	}

	if isDigit(l.ch) {
		return Token{Type: TokenNumber, Literal: l.readNumber(), Pos: pos}
	}
	if isLetter(l.ch) {
		word := l.readWord()
		if word == "return" {
			return Token{Type: TokenReturn, Literal: word, Pos: pos}
		}
		return Token{Type: TokenIllegal, Literal: word, Pos: pos}
	}

	illegal := string(l.ch)
	l.readChar()
	return Token{Type: TokenIllegal, Literal: illegal, Pos: pos}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readWord() string {
	start := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isDigit(ch byte) bool  { return '0' <= ch && ch <= '9' }
func isLetter(ch byte) bool { return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' }
