package registrar

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brequin/brequin/advise/requirement"
)

// Requisites are the requisites of a class detail tooltip as requirement
// expressions. Other holds the requisites that are not courses and the
// minimum grades of those that are.
type Requisites struct {
	Prerequisites string
	Corequisites  string
	Other         []string
}

type tokenType int

const (
	tokenRequisite tokenType = iota
	tokenLParen
	tokenRParen
	tokenAnd
	tokenOr
	tokenEnd
)

// A requisite token with a nil Node is a requisite that does not apply to
// the expression being built.
type token struct {
	Type tokenType
	Node requirement.Node
}

// requisiteRow is one row of the requisites table, such as
// "(Mathematics 31A or".
type requisiteRow struct {
	opens        int
	closes       int
	text         string
	code         string
	connector    tokenType
	minimumGrade string
	prereq       bool
	coreq        bool
}

func splitRow(text string, names DepartmentNames) requisiteRow {
	text = strings.Join(strings.Fields(text), " ")
	row := requisiteRow{connector: tokenEnd}
	if before, found := strings.CutSuffix(text, " and"); found {
		text, row.connector = before, tokenAnd
	} else if before, found := strings.CutSuffix(text, " or"); found {
		text, row.connector = before, tokenOr
	}

	trimmed := strings.TrimLeft(text, "( ")
	row.opens = strings.Count(text[:len(text)-len(trimmed)], "(")
	row.text = strings.TrimRight(trimmed, ") ")
	row.closes = strings.Count(trimmed[len(row.text):], ")")

	fields := strings.Fields(row.text)
	if len(fields) >= 2 {
		name := strings.Join(fields[:len(fields)-1], " ")
		if department, ok := names[name]; ok {
			if code, ok := CourseCode(department, fields[len(fields)-1]); ok {
				row.code = code
			}
		}
	}
	return row
}

// ParseRequisites reads the requisites table of a class detail tooltip.
// Subject area names are looked up in names. Requisites that are not
// courses are left out of both expressions, together with any "or" group
// they are an alternative of.
func ParseRequisites(document *goquery.Document, names DepartmentNames) (Requisites, error) {
	var rows []requisiteRow
	var rowErr error
	document.Find("table.requisites_content").Find("tbody").Find("tr.requisite").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() < 4 {
			rowErr = fmt.Errorf("requisite %d: %d cells", i, cells.Length())
			return false
		}
		row := splitRow(cells.Eq(0).Text(), names)
		row.minimumGrade = strings.TrimSpace(cells.Eq(1).Text())
		row.prereq = strings.TrimSpace(cells.Eq(2).Text()) == "Yes"
		row.coreq = strings.TrimSpace(cells.Eq(3).Text()) == "Yes"
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return Requisites{}, rowErr
	}

	var requisites Requisites
	for i, row := range rows {
		if row.connector == tokenEnd && i != len(rows)-1 {
			return Requisites{}, fmt.Errorf("requisite %d: %q has no connector", i, row.text)
		}
		switch {
		case row.code == "":
			requisites.Other = appendMissing(requisites.Other, row.text)
		case row.minimumGrade != "":
			requisites.Other = appendMissing(requisites.Other, fmt.Sprintf("minimum grade %s in %s", row.minimumGrade, row.code))
		}
	}

	var err error
	requisites.Prerequisites, err = requisiteExpression(rows, func(row requisiteRow) bool { return row.prereq })
	if err != nil {
		return Requisites{}, fmt.Errorf("prerequisites: %w", err)
	}
	requisites.Corequisites, err = requisiteExpression(rows, func(row requisiteRow) bool { return row.coreq })
	if err != nil {
		return Requisites{}, fmt.Errorf("corequisites: %w", err)
	}
	return requisites, nil
}

func appendMissing(notes []string, note string) []string {
	for _, n := range notes {
		if n == note {
			return notes
		}
	}
	return append(notes, note)
}

// requisiteExpression builds the expression of the course rows that
// applies selects, keeping the table's grouping.
func requisiteExpression(rows []requisiteRow, applies func(requisiteRow) bool) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	var tokens []token
	for _, row := range rows {
		for range row.opens {
			tokens = append(tokens, token{Type: tokenLParen})
		}
		requisite := token{Type: tokenRequisite}
		if row.code != "" && applies(row) {
			requisite.Node = &requirement.CourseRef{Code: row.code}
		}
		tokens = append(tokens, requisite)
		for range row.closes {
			tokens = append(tokens, token{Type: tokenRParen})
		}
		if row.connector != tokenEnd {
			tokens = append(tokens, token{Type: row.connector})
		}
	}
	tokens = append(tokens, token{Type: tokenEnd})

	p := &requisiteParser{tokens: tokens}
	node, err := p.expression()
	if err != nil {
		return "", err
	}
	if _, err := p.eat(tokenEnd); err != nil {
		return "", err
	}
	if node == nil {
		return "", nil
	}

	expression := node.String()
	if _, err := requirement.Parse(expression); err != nil {
		return "", err
	}
	return expression, nil
}

type requisiteParser struct {
	tokens []token
	pos    int
}

func (p *requisiteParser) peek() token {
	return p.tokens[p.pos]
}

func (p *requisiteParser) eat(tokenType tokenType) (token, error) {
	t := p.peek()
	if t.Type != tokenType {
		return token{}, fmt.Errorf("unbalanced requisites at token %d", p.pos)
	}
	if t.Type != tokenEnd {
		p.pos++
	}
	return t, nil
}

// expression drops the whole group when an alternative does not apply,
// since that alternative alone can meet it.
func (p *requisiteParser) expression() (requirement.Node, error) {
	var alternatives []requirement.Node
	open := false
	for {
		term, err := p.term()
		if err != nil {
			return nil, err
		}
		if term == nil {
			open = true
		}
		alternatives = appendNode(alternatives, term, requirement.OpOr)
		if p.peek().Type != tokenOr {
			break
		}
		p.eat(tokenOr)
	}
	if open {
		return nil, nil
	}
	return join(alternatives, requirement.NewOr), nil
}

func (p *requisiteParser) term() (requirement.Node, error) {
	var factors []requirement.Node
	for {
		factor, err := p.factor()
		if err != nil {
			return nil, err
		}
		factors = appendNode(factors, factor, requirement.OpAnd)
		if p.peek().Type != tokenAnd {
			break
		}
		p.eat(tokenAnd)
	}
	return join(factors, requirement.NewAnd), nil
}

func (p *requisiteParser) factor() (requirement.Node, error) {
	switch p.peek().Type {
	case tokenRequisite:
		t, _ := p.eat(tokenRequisite)
		return t.Node, nil
	case tokenLParen:
		p.eat(tokenLParen)
		node, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(tokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unexpected token %d in requisites", p.pos)
	}
}

// appendNode appends n to nodes, splicing in the children of a plain set
// joined by the same operator. Nil nodes are dropped.
func appendNode(nodes []requirement.Node, n requirement.Node, op requirement.Op) []requirement.Node {
	if n == nil {
		return nodes
	}
	if set, ok := n.(*requirement.Set); ok && set.Op == op && set.Plain() {
		return append(nodes, set.Children...)
	}
	return append(nodes, n)
}

func join(nodes []requirement.Node, newSet func(...requirement.Node) *requirement.Set) requirement.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	default:
		return newSet(nodes...)
	}
}
