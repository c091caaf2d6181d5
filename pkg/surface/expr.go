package surface

import (
	"fmt"
	"strconv"

	"github.com/inkc/inkc/pkg/term"
)

// parseTerm parses a full expression: let/dup/match/lambda at the top,
// falling through to operator precedence climbing over application
// chains.
func (p *Parser) parseTerm() (term.Term, error) {
	switch p.cur().kind {
	case tokLet:
		return p.parseLet()
	case tokDup:
		return p.parseDup()
	case tokMatch:
		return p.parseMatch()
	case tokLambda:
		return p.parseLambda()
	default:
		return p.parseOp(0)
	}
}

var opPrec = map[string]int{
	"|": 1, "^": 1, "&": 1,
	"==": 2, "!=": 2, "<": 2, ">": 2,
	"+": 3, "-": 3,
	"*": 4, "/": 4, "%": 4,
}

var opKind = map[string]term.NumOp{
	"+": term.OpAdd, "-": term.OpSub, "*": term.OpMul, "/": term.OpDiv, "%": term.OpMod,
	"==": term.OpEq, "!=": term.OpNe, "<": term.OpLt, ">": term.OpGt,
	"&": term.OpAnd, "|": term.OpOr, "^": term.OpXor,
}

// parseOp implements precedence-climbing over left-associative binary
// operators, bottoming out at application chains.
func (p *Parser) parseOp(minPrec int) (term.Term, error) {
	left, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokOp {
		op := p.cur().lit
		prec, ok := opPrec[op]
		if !ok || prec < minPrec {
			break
		}
		p.next()
		right, err := p.parseOp(prec + 1)
		if err != nil {
			return nil, err
		}
		left = term.Opx{Op: opKind[op], Fst: left, Snd: right}
	}
	return left, nil
}

// parseApp parses a left-associative chain of atoms as application.
func (p *Parser) parseApp() (term.Term, error) {
	fn, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.startsAtom() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		fn = term.App{Fun: fn, Arg: arg}
	}
	return fn, nil
}

func (p *Parser) startsAtom() bool {
	switch p.cur().kind {
	case tokIdent, tokCtrIdent, tokNum, tokStr, tokLParen, tokLBracket, tokLBrace, tokWildcard:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAtom() (term.Term, error) {
	switch p.cur().kind {
	case tokIdent:
		name := p.cur().lit
		p.next()
		if p.isBound(name) {
			return term.Var{Name: name}, nil
		}
		return term.Ref{Name: name}, nil
	case tokCtrIdent:
		name := p.cur().lit
		p.next()
		return term.Ref{Name: name}, nil
	case tokWildcard:
		p.next()
		return term.Era{}, nil
	case tokNum:
		n, err := strconv.ParseUint(p.cur().lit, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("surface: invalid numeric literal %q: %w", p.cur().lit, err)
		}
		p.next()
		return term.Num{Val: n}, nil
	case tokStr:
		s := p.cur().lit
		p.next()
		return term.Str{Val: s}, nil
	case tokLParen:
		p.next()
		return p.parseParenTerm()
	case tokLBracket:
		return p.parseListTerm()
	case tokLBrace:
		return p.parseSupTerm(nil)
	case tokHash:
		p.next()
		tag, err := p.expect(tokIdent, "tag name after '#'")
		if err != nil {
			return nil, err
		}
		dt := &term.DupTag{Name: tag.lit}
		if p.cur().kind != tokLBrace {
			return nil, fmt.Errorf("surface: expected '{' after tagged sup, got %q", p.cur().lit)
		}
		return p.parseSupTerm(dt)
	default:
		return nil, fmt.Errorf("surface: unexpected token %q in expression", p.cur().lit)
	}
}

// parseParenTerm parses what follows an already-consumed '(': a
// grouped expression `e)` or a tuple literal `e1, e2)`.
func (p *Parser) parseParenTerm() (term.Term, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tokComma {
		p.next()
		second, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return term.Tup{Fst: first, Snd: second}, nil
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return first, nil
}

func (p *Parser) parseListTerm() (term.Term, error) {
	p.next() // '['
	var items []term.Term
	for p.cur().kind != tokRBracket {
		item, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur().kind == tokComma {
			p.next()
		}
	}
	p.next() // ']'
	return term.Lst{Items: items}, nil
}

// parseSupTerm parses `{e1, e2}`, starting at its '{', with an optional
// tag from the caller.
func (p *Parser) parseSupTerm(tag *term.DupTag) (term.Term, error) {
	p.next() // '{'
	fst, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokComma, "',' in sup literal"); err != nil {
		return nil, err
	}
	snd, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return term.Sup{Tag: tag, Fst: fst, Snd: snd}, nil
}

// parseLambda parses `\x. body` or `\_. body` (erased parameter).
func (p *Parser) parseLambda() (term.Term, error) {
	p.next() // consume '\'
	if p.cur().kind == tokWildcard {
		p.next()
		if _, err := p.expect(tokDot, "'.' after lambda parameter"); err != nil {
			return nil, err
		}
		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return term.NewErasedLam(body), nil
	}
	nameTok, err := p.expect(tokIdent, "lambda parameter")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDot, "'.' after lambda parameter"); err != nil {
		return nil, err
	}
	p.pushScope(nameTok.lit)
	body, err := p.parseTerm()
	p.popScope()
	if err != nil {
		return nil, err
	}
	return term.NewLam(nameTok.lit, body), nil
}

// parseLet parses `let pat = val; next`, supporting both a plain
// variable binding and a destructuring tuple/list/constructor pattern.
func (p *Parser) parseLet() (term.Term, error) {
	p.next() // 'let'
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEqual, "'=' in let binding"); err != nil {
		return nil, err
	}
	val, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemicolon, "';' after let binding"); err != nil {
		return nil, err
	}

	p.pushScope()
	for _, b := range term.PatternBinders(pat) {
		p.bind(b)
	}
	nxt, err := p.parseTerm()
	p.popScope()
	if err != nil {
		return nil, err
	}
	return term.Let{Pat: pat, Val: val, Nxt: nxt}, nil
}

// parseDup parses `dup a b = val; next` or the tagged form
// `dup#tag a b = val; next`.
func (p *Parser) parseDup() (term.Term, error) {
	p.next() // 'dup'
	var tag *term.DupTag
	if p.cur().kind == tokHash {
		p.next()
		name, err := p.expect(tokIdent, "tag name after '#'")
		if err != nil {
			return nil, err
		}
		tag = &term.DupTag{Name: name.lit}
	}

	fst, err := p.parseDupBinder()
	if err != nil {
		return nil, err
	}
	snd, err := p.parseDupBinder()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEqual, "'=' in dup binding"); err != nil {
		return nil, err
	}
	val, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemicolon, "';' after dup binding"); err != nil {
		return nil, err
	}

	p.pushScope()
	if fst != nil {
		p.bind(*fst)
	}
	if snd != nil {
		p.bind(*snd)
	}
	nxt, err := p.parseTerm()
	p.popScope()
	if err != nil {
		return nil, err
	}
	return term.Dup{Tag: tag, Fst: fst, Snd: snd, Val: val, Nxt: nxt}, nil
}

func (p *Parser) parseDupBinder() (*string, error) {
	if p.cur().kind == tokWildcard {
		p.next()
		return nil, nil
	}
	name, err := p.expect(tokIdent, "dup binder")
	if err != nil {
		return nil, err
	}
	n := name.lit
	return &n, nil
}

// parseMatch parses `match scrutinee { pat1 => body1; pat2 => body2 }`.
// The scrutinee is a single atom (a name, literal or parenthesized term).
func (p *Parser) parseMatch() (term.Term, error) {
	p.next() // 'match'
	scrutinee, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace, "'{' to start match arms"); err != nil {
		return nil, err
	}

	var arms []term.MatchArm
	for p.cur().kind != tokRBrace {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokArrow, "'=>' in match arm"); err != nil {
			return nil, err
		}
		p.pushScope()
		for _, b := range term.PatternBinders(pat) {
			p.bind(b)
		}
		body, err := p.parseTerm()
		p.popScope()
		if err != nil {
			return nil, err
		}
		arms = append(arms, term.MatchArm{Pat: pat, Body: body})
		if p.cur().kind == tokSemicolon {
			p.next()
		}
	}
	p.next() // '}'
	return term.Mat{Matched: scrutinee, Arms: arms}, nil
}
