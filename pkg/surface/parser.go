// Package surface implements a minimal textual front end for term.Book:
// a hand-rolled lexer and recursive-descent parser, generalized from
// the teacher's pkg/lambda/parser.go token/backtracking style to cover
// data declarations, pattern-matching rules, match expressions,
// dup/sup, tuples, lists, and numeric operators.
package surface

import (
	"fmt"
	"strconv"

	"github.com/inkc/inkc/pkg/term"
)

// Parser turns source text into a term.Book. It is single-use: build
// one per Parse call.
type Parser struct {
	lex   *lexer
	scope []map[string]bool
}

// Parse parses src as a sequence of `data` declarations and function
// definitions and returns the resulting book. Definitions may be split
// across several consecutive rule lines sharing the same name, the way
// pattern-matching clauses are written in source.
func Parse(src string) (*term.Book, error) {
	p := &Parser{lex: newLexer(src)}
	book := term.NewBook()
	for p.cur().kind != tokEOF {
		if p.cur().kind == tokData {
			if err := p.parseDataDecl(book); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.parseRule(book); err != nil {
			return nil, err
		}
	}
	return book, nil
}

func (p *Parser) cur() token { return p.lex.cur }

func (p *Parser) next() { p.lex.advance() }

func (p *Parser) expect(k tokKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, fmt.Errorf("surface: expected %s, got %q", what, p.cur().lit)
	}
	t := p.cur()
	p.next()
	return t, nil
}

func (p *Parser) pushScope(names ...string) {
	frame := make(map[string]bool, len(names))
	for _, n := range names {
		frame[n] = true
	}
	p.scope = append(p.scope, frame)
}

func (p *Parser) popScope() { p.scope = p.scope[:len(p.scope)-1] }

func (p *Parser) bind(name string) {
	p.scope[len(p.scope)-1][name] = true
}

func (p *Parser) isBound(name string) bool {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if p.scope[i][name] {
			return true
		}
	}
	return false
}

// parseDataDecl parses `data Name = Ctr1 f1 f2 | Ctr2 | ...`.
func (p *Parser) parseDataDecl(book *term.Book) error {
	p.next() // consume 'data'
	name, err := p.expect(tokCtrIdent, "ADT name")
	if err != nil {
		return err
	}
	if _, err := p.expect(tokEqual, "'='"); err != nil {
		return err
	}

	arities := make(map[string]int)
	var order []string
	for {
		ctr, err := p.expect(tokCtrIdent, "constructor name")
		if err != nil {
			return err
		}
		fields := 0
		for p.cur().kind == tokIdent {
			fields++
			p.next()
		}
		arities[ctr.lit] = fields
		order = append(order, ctr.lit)
		if p.cur().kind == tokOp && p.cur().lit == "|" {
			p.next()
			continue
		}
		break
	}
	book.AddAdt(name.lit, arities, order)
	return nil
}

// parseRule parses one `name pat1 pat2 = body` clause and appends it to
// the named definition, creating the definition on first sight.
func (p *Parser) parseRule(book *term.Book) error {
	nameTok, err := p.expect(tokIdent, "definition name")
	if err != nil {
		return err
	}

	var pats []term.Pattern
	for p.cur().kind != tokEqual {
		pat, err := p.parsePattern()
		if err != nil {
			return err
		}
		pats = append(pats, pat)
	}
	p.next() // consume '='

	p.pushScope()
	for _, pat := range pats {
		for _, b := range term.PatternBinders(pat) {
			p.bind(b)
		}
	}
	body, err := p.parseTerm()
	p.popScope()
	if err != nil {
		return err
	}

	if p.cur().kind == tokSemicolon {
		p.next()
	}

	def, ok := book.Defs[nameTok.lit]
	if !ok {
		def = &term.Definition{Name: nameTok.lit}
		book.Defs[nameTok.lit] = def
	}
	def.Rules = append(def.Rules, term.Rule{Pats: pats, Body: body})
	return nil
}

// parsePattern parses one rule/let-binder pattern.
func (p *Parser) parsePattern() (term.Pattern, error) {
	switch p.cur().kind {
	case tokWildcard:
		p.next()
		return term.PatVar{Name: nil}, nil
	case tokIdent:
		name := p.cur().lit
		p.next()
		return term.PatVar{Name: &name}, nil
	case tokNum:
		n, err := strconv.ParseUint(p.cur().lit, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("surface: invalid numeric pattern %q: %w", p.cur().lit, err)
		}
		p.next()
		return term.PatNum{Val: n}, nil
	case tokCtrIdent:
		name := p.cur().lit
		p.next()
		return term.PatCtr{Name: name}, nil
	case tokLBracket:
		p.next()
		var items []term.Pattern
		for p.cur().kind != tokRBracket {
			item, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.cur().kind == tokComma {
				p.next()
			}
		}
		p.next() // ']'
		return term.PatLst{Items: items}, nil
	case tokLParen:
		p.next()
		return p.parseParenPattern()
	default:
		return nil, fmt.Errorf("surface: unexpected token %q in pattern", p.cur().lit)
	}
}

// parseParenPattern parses what follows an already-consumed '(': either
// a constructor pattern `Ctr p1 p2)`, a tuple pattern `p1, p2)`, or a
// parenthesized pattern `p)`.
func (p *Parser) parseParenPattern() (term.Pattern, error) {
	if p.cur().kind == tokCtrIdent {
		name := p.cur().lit
		p.next()
		var args []term.Pattern
		for p.cur().kind != tokRParen {
			arg, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		p.next() // ')'
		return term.PatCtr{Name: name, Args: args}, nil
	}

	first, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tokComma {
		p.next()
		second, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return term.PatTup{Fst: first, Snd: second}, nil
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return first, nil
}
