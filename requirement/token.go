package requirement

import "fmt"

type TokenType int

const (
	TokenCourse TokenType = iota
	TokenRange
	TokenInt
	TokenDash
	TokenAnd
	TokenOr
	TokenNot
	TokenPrecedes
	TokenAt
	TokenLBrace
	TokenRBrace
	TokenColon
	TokenComma
	TokenKey
	TokenLParen
	TokenRParen
	TokenEnd
)

var tokenNames = map[TokenType]string{
	TokenCourse:   "course code",
	TokenRange:    "course range",
	TokenInt:      "number",
	TokenDash:     "'-'",
	TokenAnd:      "'&'",
	TokenOr:       "'|'",
	TokenNot:      "'!'",
	TokenPrecedes: "'->'",
	TokenAt:       "'@'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenColon:    "':'",
	TokenComma:    "','",
	TokenKey:      "key",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenEnd:      "end of expression",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

type LexerState int

const (
	LexerDepartment LexerState = iota
	LexerNumber
	LexerSuffix
	LexerDone
)

var punctuation = map[byte]TokenType{
	'(': TokenLParen,
	')': TokenRParen,
	'&': TokenAnd,
	'|': TokenOr,
	'!': TokenNot,
	'@': TokenAt,
	'{': TokenLBrace,
	'}': TokenRBrace,
	':': TokenColon,
	',': TokenComma,
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isKey(c byte) bool   { return (c >= 'a' && c <= 'z') || c == '_' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Tokenize splits an expression into tokens. The final token is always
// TokenEnd.
func Tokenize(expression string) ([]Token, error) {
	var tokens []Token

	pos := 0
	for pos < len(expression) {
		char := expression[pos]
		switch {
		case isSpace(char):
			pos++
		case char == '-':
			if pos+1 < len(expression) && expression[pos+1] == '>' {
				tokens = append(tokens, Token{Type: TokenPrecedes, Value: "->", Pos: pos})
				pos += 2
				continue
			}
			tokens = append(tokens, Token{Type: TokenDash, Value: "-", Pos: pos})
			pos++
		case isDigit(char):
			end := pos
			for end < len(expression) && isDigit(expression[end]) {
				end++
			}
			tokens = append(tokens, Token{Type: TokenInt, Value: expression[pos:end], Pos: pos})
			pos = end
		case isUpper(char):
			token, end, err := scanCourse(expression, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			pos = end
		case isKey(char):
			end := pos
			for end < len(expression) && isKey(expression[end]) {
				end++
			}
			tokens = append(tokens, Token{Type: TokenKey, Value: expression[pos:end], Pos: pos})
			pos = end
		case char == '"':
			end := pos + 1
			for end < len(expression) && isKey(expression[end]) {
				end++
			}
			if end >= len(expression) || expression[end] != '"' || end == pos+1 {
				return nil, &TokenizeError{Pos: pos, Text: unrecognizedRun(expression, pos)}
			}
			tokens = append(tokens, Token{Type: TokenKey, Value: expression[pos+1 : end], Pos: pos})
			pos = end + 1
		default:
			tokenType, ok := punctuation[char]
			if !ok {
				return nil, &TokenizeError{Pos: pos, Text: unrecognizedRun(expression, pos)}
			}
			tokens = append(tokens, Token{Type: tokenType, Value: string(char), Pos: pos})
			pos++
		}
	}
	tokens = append(tokens, Token{Type: TokenEnd, Value: "$", Pos: len(expression)})
	return tokens, nil
}

// scanCourse reads a course code starting at pos, and a range when the
// code is followed directly by '-' and another code or number.
func scanCourse(expression string, pos int) (Token, int, error) {
	end, ok := scanCode(expression, pos)
	if !ok {
		return Token{}, 0, &TokenizeError{Pos: pos, Text: unrecognizedRun(expression, pos)}
	}
	if end+1 < len(expression) && expression[end] == '-' {
		next := expression[end+1]
		if isDigit(next) || isUpper(next) {
			highEnd, ok := scanHigh(expression, end+1)
			if !ok {
				return Token{}, 0, &TokenizeError{Pos: pos, Text: unrecognizedRun(expression, pos)}
			}
			return Token{Type: TokenRange, Value: expression[pos:highEnd], Pos: pos}, highEnd, nil
		}
	}
	return Token{Type: TokenCourse, Value: expression[pos:end], Pos: pos}, end, nil
}

func scanHigh(expression string, pos int) (int, bool) {
	if isUpper(expression[pos]) {
		return scanCode(expression, pos)
	}
	return scanCodeFrom(expression, pos, LexerNumber, 0)
}

func scanCode(expression string, pos int) (int, bool) {
	return scanCodeFrom(expression, pos, LexerDepartment, 0)
}

// scanCodeFrom matches [A-Z]{2,4}[0-9]{1,4}[A-Z]{0,2} (or its number and
// suffix tail when started in LexerNumber) and requires the code to end at
// a boundary.
func scanCodeFrom(expression string, pos int, state LexerState, count int) (int, bool) {
	for state != LexerDone {
		var char byte
		if pos < len(expression) {
			char = expression[pos]
		}
		switch state {
		case LexerDepartment:
			if isUpper(char) {
				count++
				pos++
				continue
			}
			if count < 2 || count > 4 || !isDigit(char) {
				return 0, false
			}
			state, count = LexerNumber, 0
		case LexerNumber:
			if isDigit(char) {
				count++
				pos++
				continue
			}
			if count < 1 || count > 4 {
				return 0, false
			}
			state, count = LexerSuffix, 0
		case LexerSuffix:
			if isUpper(char) {
				count++
				pos++
				continue
			}
			if count > 2 || isDigit(char) || isKey(char) {
				return 0, false
			}
			state = LexerDone
		}
	}
	return pos, true
}

func unrecognizedRun(expression string, pos int) string {
	end := pos + 1
	for end < len(expression) && !isSpace(expression[end]) {
		if _, ok := punctuation[expression[end]]; ok {
			break
		}
		end++
	}
	return expression[pos:end]
}
