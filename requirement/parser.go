package requirement

import (
	"strconv"
	"strings"
)

// MaxDepth is the deepest parenthesis nesting Parse accepts.
const MaxDepth = 64

// negation is a "!(...)" operand. It only lives while a set is being
// built and is folded into that set's Excluded list.
type negation struct {
	members []Node
	pos     int
}

func (*negation) precedence() precedence { return atomicPrecedence }
func (n *negation) String() string       { return "!(" + joinNodes(n.members, ", ") + ")" }

type parser struct {
	tokens []Token
	depth  int
}

// Parse turns a requirement expression into a tree. Legacy dialect is
// normalized first; an empty expression yields Empty.
func Parse(expression string) (Node, error) {
	tokens, err := Tokenize(Normalize(expression))
	if err != nil {
		return nil, err
	}
	if tokens[0].Type == TokenEnd {
		return &Empty{}, nil
	}

	p := parser{tokens: tokens}
	node, err := p.expression()
	if err != nil {
		return nil, err
	}
	if token := p.peek(); token.Type != TokenEnd {
		if token.Type == TokenRParen {
			return nil, &ParseError{Pos: token.Pos, Msg: "unbalanced parentheses: unexpected ')'"}
		}
		return nil, &ParseError{Pos: token.Pos, Msg: "expected an operator, found " + describe(token)}
	}
	if neg, ok := node.(*negation); ok {
		return nil, &ParseError{Pos: neg.pos, Msg: "exclusion is not attached to a set"}
	}
	return node, nil
}

// MustParse is like Parse but panics on error. It is meant for fixtures.
func MustParse(expression string) Node {
	node, err := Parse(expression)
	if err != nil {
		panic(err)
	}
	return node
}

func describe(token Token) string {
	if token.Type == TokenEnd {
		return token.Type.String()
	}
	return token.Type.String() + " " + strconv.Quote(token.Value)
}

func (p *parser) peek() Token {
	return p.tokens[0]
}

func (p *parser) eat(tokenType TokenType) (Token, error) {
	token := p.tokens[0]
	if token.Type != tokenType {
		return Token{}, &ParseError{Pos: token.Pos, Msg: "expected " + tokenType.String() + ", found " + describe(token)}
	}
	if token.Type != TokenEnd {
		p.tokens = p.tokens[1:]
	}
	return token, nil
}

func (p *parser) enter(open Token) error {
	p.depth++
	if p.depth > MaxDepth {
		return &ParseError{Pos: open.Pos, Msg: "expression nests deeper than " + strconv.Itoa(MaxDepth) + " levels"}
	}
	return nil
}

func (p *parser) close(open Token) error {
	if p.peek().Type == TokenRParen {
		p.eat(TokenRParen)
		p.depth--
		return nil
	}
	if p.peek().Type == TokenEnd {
		return &ParseError{Pos: open.Pos, Msg: "unbalanced parentheses: '(' is never closed"}
	}
	return &ParseError{Pos: p.peek().Pos, Msg: "expected ')' or an operator, found " + describe(p.peek())}
}

// expression := term ('&' term)*
func (p *parser) expression() (Node, error) {
	pos := p.peek().Pos
	head, err := p.term()
	if err != nil {
		return nil, err
	}

	items := []Node{head}
	for p.peek().Type == TokenAnd {
		p.eat(TokenAnd)
		item, err := p.term()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 1 {
		return head, nil
	}
	return group(OpAnd, items, pos)
}

// term := chain ('|' chain)*
func (p *parser) term() (Node, error) {
	pos := p.peek().Pos
	head, err := p.chain()
	if err != nil {
		return nil, err
	}

	items := []Node{head}
	for p.peek().Type == TokenOr {
		p.eat(TokenOr)
		item, err := p.chain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) == 1 {
		return head, nil
	}
	for _, item := range items {
		if neg, ok := item.(*negation); ok {
			return nil, &ParseError{Pos: neg.pos, Msg: "exclusion must be joined with '&', not '|'"}
		}
	}
	return group(OpOr, items, pos)
}

// chain := factor ('->' factor)*
func (p *parser) chain() (Node, error) {
	before, err := p.factor()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == TokenPrecedes {
		arrow, _ := p.eat(TokenPrecedes)
		after, err := p.factor()
		if err != nil {
			return nil, err
		}
		if isNegation(before) || isNegation(after) {
			return nil, &ParseError{Pos: arrow.Pos, Msg: "exclusion cannot take part in '->'"}
		}
		before = &Precedes{Before: before, After: after}
	}
	return before, nil
}

// factor := courseRange | courseCode | '!' exclusion | boundedSet
func (p *parser) factor() (Node, error) {
	token := p.peek()
	switch token.Type {
	case TokenCourse:
		p.eat(TokenCourse)
		return &CourseRef{Code: token.Value}, nil
	case TokenRange:
		p.eat(TokenRange)
		return courseRange(token)
	case TokenNot:
		p.eat(TokenNot)
		members, err := p.exclusion()
		if err != nil {
			return nil, err
		}
		return &negation{members: members, pos: token.Pos}, nil
	case TokenInt, TokenAt, TokenLParen:
		return p.boundedSet()
	case TokenRParen:
		return nil, &ParseError{Pos: token.Pos, Msg: "unbalanced parentheses: unexpected ')'"}
	case TokenEnd:
		return nil, &ParseError{Pos: token.Pos, Msg: "unexpected end of expression"}
	default:
		return nil, &ParseError{Pos: token.Pos, Msg: "unexpected " + describe(token)}
	}
}

func courseRange(token Token) (Node, error) {
	low, high, _ := strings.Cut(token.Value, "-")
	r, err := NewCourseRange(low, high)
	if err != nil {
		if parseErr, ok := err.(*ParseError); ok {
			parseErr.Pos = token.Pos
		}
		return nil, err
	}
	return r, nil
}

// boundedSet := [bound] [diversity] '(' expression ')' [diversity] ['!' exclusion]
func (p *parser) boundedSet() (Node, error) {
	start := p.peek()

	var lower, upper int
	bounded := start.Type == TokenInt
	if bounded {
		var err error
		lower, upper, err = p.bound()
		if err != nil {
			return nil, err
		}
	}

	var diversity *Diversity
	if p.peek().Type == TokenAt {
		var err error
		diversity, err = p.diversity()
		if err != nil {
			return nil, err
		}
	}

	if p.peek().Type != TokenLParen {
		return nil, &ParseError{Pos: p.peek().Pos, Msg: "expected '(' after bound, found " + describe(p.peek())}
	}
	open, _ := p.eat(TokenLParen)
	if err := p.enter(open); err != nil {
		return nil, err
	}
	inner, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.close(open); err != nil {
		return nil, err
	}
	if neg, ok := inner.(*negation); ok {
		return nil, &ParseError{Pos: neg.pos, Msg: "exclusion is not attached to a set"}
	}

	if p.peek().Type == TokenAt {
		if diversity != nil {
			return nil, &ParseError{Pos: p.peek().Pos, Msg: "set has more than one diversity constraint"}
		}
		diversity, err = p.diversity()
		if err != nil {
			return nil, err
		}
	}

	var excluded []Node
	if p.peek().Type == TokenNot {
		p.eat(TokenNot)
		excluded, err = p.exclusion()
		if err != nil {
			return nil, err
		}
	}

	set := asSet(inner)
	if bounded {
		set.Lower = lower
		set.Upper = upper
	}
	if diversity != nil {
		set.Diversity = diversity
	}
	set.Excluded = append(set.Excluded, excluded...)

	if set.Plain() && len(set.Children) == 1 {
		return set.Children[0], nil
	}
	return set, nil
}

// bound := INT | INT '-' INT
func (p *parser) bound() (int, int, error) {
	lowToken, err := p.eat(TokenInt)
	if err != nil {
		return 0, 0, err
	}
	lower, err := strconv.Atoi(lowToken.Value)
	if err != nil {
		return 0, 0, &ParseError{Pos: lowToken.Pos, Msg: "bound " + lowToken.Value + " is out of range"}
	}
	if p.peek().Type != TokenDash {
		return lower, 0, nil
	}

	p.eat(TokenDash)
	highToken, err := p.eat(TokenInt)
	if err != nil {
		return 0, 0, &ParseError{Pos: p.peek().Pos, Msg: "expected upper bound after '-', found " + describe(p.peek())}
	}
	upper, err := strconv.Atoi(highToken.Value)
	if err != nil {
		return 0, 0, &ParseError{Pos: highToken.Pos, Msg: "bound " + highToken.Value + " is out of range"}
	}
	if upper < lower {
		return 0, 0, &ParseError{Pos: highToken.Pos, Msg: "upper bound " + highToken.Value + " is less than lower bound " + lowToken.Value}
	}
	if upper < 1 {
		return 0, 0, &ParseError{Pos: highToken.Pos, Msg: "upper bound must be at least 1"}
	}
	return lower, upper, nil
}

const (
	keyMinUniqueDepts        = "min_unique_depts"
	keyMaxCoursesFromOneDept = "max_courses_from_one_dept"
)

// diversity := '@' '{' (KEY ':' INT (',' KEY ':' INT)*)? '}'
func (p *parser) diversity() (*Diversity, error) {
	p.eat(TokenAt)
	if _, err := p.eat(TokenLBrace); err != nil {
		return nil, &ParseError{Pos: p.peek().Pos, Msg: "expected '{' after '@', found " + describe(p.peek())}
	}

	diversity := &Diversity{}
	seen := make(map[string]bool)
	for p.peek().Type != TokenRBrace {
		key, err := p.eat(TokenKey)
		if err != nil {
			return nil, &ParseError{Pos: p.peek().Pos, Msg: "expected a diversity key, found " + describe(p.peek())}
		}
		if seen[key.Value] {
			return nil, &ParseError{Pos: key.Pos, Msg: "duplicate diversity key " + strconv.Quote(key.Value)}
		}
		seen[key.Value] = true
		if _, err := p.eat(TokenColon); err != nil {
			return nil, err
		}
		valueToken, err := p.eat(TokenInt)
		if err != nil {
			return nil, err
		}
		value, err := strconv.Atoi(valueToken.Value)
		if err != nil {
			return nil, &ParseError{Pos: valueToken.Pos, Msg: "diversity value " + valueToken.Value + " is out of range"}
		}

		switch key.Value {
		case keyMinUniqueDepts:
			diversity.MinUniqueDepts = value
		case keyMaxCoursesFromOneDept:
			if value < 1 {
				return nil, &ParseError{Pos: valueToken.Pos, Msg: keyMaxCoursesFromOneDept + " must be at least 1"}
			}
			diversity.MaxCoursesFromOneDept = value
		default:
			return nil, &ParseError{Pos: key.Pos, Msg: "unknown diversity key " + strconv.Quote(key.Value)}
		}

		if p.peek().Type == TokenComma {
			p.eat(TokenComma)
			continue
		}
		if p.peek().Type != TokenRBrace {
			return nil, &ParseError{Pos: p.peek().Pos, Msg: "expected ',' or '}', found " + describe(p.peek())}
		}
	}
	p.eat(TokenRBrace)

	if *diversity == (Diversity{}) {
		return nil, nil
	}
	return diversity, nil
}

// exclusion := courseCode | courseRange | '(' expression (',' expression)* ')'
func (p *parser) exclusion() ([]Node, error) {
	token := p.peek()
	switch token.Type {
	case TokenCourse, TokenRange:
		member, err := p.factor()
		if err != nil {
			return nil, err
		}
		return []Node{member}, nil
	case TokenLParen:
	default:
		return nil, &ParseError{Pos: token.Pos, Msg: "expected a course, range or '(' after '!', found " + describe(token)}
	}

	open, _ := p.eat(TokenLParen)
	if err := p.enter(open); err != nil {
		return nil, err
	}
	var members []Node
	for {
		member, err := p.expression()
		if err != nil {
			return nil, err
		}
		if neg, ok := member.(*negation); ok {
			return nil, &ParseError{Pos: neg.pos, Msg: "exclusion inside an exclusion"}
		}
		members = append(members, exclusionMembers(member)...)
		if p.peek().Type != TokenComma {
			break
		}
		p.eat(TokenComma)
	}
	if err := p.close(open); err != nil {
		return nil, err
	}
	return members, nil
}

// exclusionMembers spreads "A | B" into its alternatives; excluding either
// is the same as excluding both.
func exclusionMembers(member Node) []Node {
	if s, ok := member.(*Set); ok && s.Plain() && s.Op == OpOr {
		return s.Children
	}
	return []Node{member}
}

// asSet returns a fresh set for the contents of a parenthesized group.
// An unbounded group is absorbed so that a bound written around it
// applies to its alternatives directly.
func asSet(inner Node) *Set {
	if s, ok := inner.(*Set); ok && s.Implicit() && s.Diversity == nil {
		c := *s
		c.Children = append([]Node(nil), s.Children...)
		c.Excluded = append([]Node(nil), s.Excluded...)
		return &c
	}
	return &Set{Op: OpOr, Children: []Node{inner}, Lower: 1}
}

// group builds the set for a list of operands joined by op, flattening
// nested plain groups of the same operator and folding negations into
// the exclusion list.
func group(op Op, items []Node, pos int) (Node, error) {
	var children, excluded []Node
	for _, item := range items {
		if neg, ok := item.(*negation); ok {
			excluded = append(excluded, neg.members...)
			continue
		}
		if s, ok := item.(*Set); ok && s.Plain() && s.Op == op {
			children = append(children, s.Children...)
			continue
		}
		children = append(children, item)
	}
	if len(children) == 0 {
		return nil, &ParseError{Pos: pos, Msg: "exclusion has nothing to exclude from"}
	}

	if len(children) == 1 {
		set := asSet(children[0])
		set.Excluded = append(set.Excluded, excluded...)
		return set, nil
	}

	set := &Set{Op: op, Children: children, Excluded: excluded}
	set.Lower = set.DefaultLower()
	return set, nil
}

func isNegation(n Node) bool {
	_, ok := n.(*negation)
	return ok
}
