package descent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/recipelang/ladle/driver/lexer"
	verr "github.com/recipelang/ladle/error"
	"github.com/recipelang/ladle/lang"
)

// tracer traces with key 'ladle.descent'.
func tracer() tracing.Trace {
	return tracing.Select("ladle.descent")
}

const (
	precOr = iota + 1
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
)

var precedences = map[string]int{
	lang.TermOr:      precOr,
	lang.TermAnd:     precAnd,
	lang.TermEq:      precEquality,
	lang.TermNeq:     precEquality,
	lang.TermLT:      precComparison,
	lang.TermGT:      precComparison,
	lang.TermLE:      precComparison,
	lang.TermGE:      precComparison,
	lang.TermPlus:    precSum,
	lang.TermMinus:   precSum,
	lang.TermStar:    precProduct,
	lang.TermSlash:   precProduct,
	lang.TermPercent: precProduct,
}

// exprStarters are the terminals an expression can begin with.
var exprStarters = []string{
	lang.TermMinus, lang.TermBang,
	lang.TermID, lang.TermNumber, lang.TermString, lang.TermTrue, lang.TermFalse, lang.TermLParen,
}

var stmtStarters = append([]string{
	lang.TermRecipe, lang.TermPut, lang.TermIf, lang.TermWhile, lang.TermReturn, lang.TermLBrace,
}, exprStarters...)

func isOneOf(term string, terms []string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}

type parser struct {
	toks   []*lexer.Token
	pos    int
	mapper lang.Mapper
	la     string
	mapped bool
}

// Parse recognizes a Recipe program and builds its syntax tree. It consumes the same tokens
// as the table-driven parser and accepts exactly the same programs. Errors are
// *error.MappingError or *error.SyntaxError values.
func Parse(toks []*lexer.Token) (*Program, error) {
	if len(toks) == 0 || !toks[len(toks)-1].EOF() {
		return nil, fmt.Errorf("a token sequence must end with an EOF token")
	}
	p := &parser{
		toks: toks,
	}
	prog, err := p.parseProgram()
	if err != nil {
		tracer().Debugf("rejected: %v", err)
		return nil, err
	}
	tracer().Debugf("accepted %d top-level statements", len(prog.Stmts))
	return prog, nil
}

// peek returns the terminal of the current token.
func (p *parser) peek() (string, error) {
	if p.mapped {
		return p.la, nil
	}
	term, err := p.mapper.Terminal(p.toks[p.pos])
	if err != nil {
		return "", err
	}
	p.la = term
	p.mapped = true
	return term, nil
}

func (p *parser) current() *lexer.Token {
	return p.toks[p.pos]
}

func (p *parser) advance() *lexer.Token {
	tok := p.toks[p.pos]
	if !tok.EOF() {
		p.pos++
		p.mapped = false
	}
	return tok
}

func (p *parser) expect(term string) (*lexer.Token, error) {
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != term {
		return nil, p.errorf(la, []string{term}, "expected %v, found %v", term, la)
	}
	return p.advance(), nil
}

func (p *parser) unexpected(la string, what string, expected []string) error {
	exp := append([]string{}, expected...)
	sort.Strings(exp)
	return p.errorf(la, exp, "unexpected %v at the beginning of %v", la, what)
}

func (p *parser) errorf(found string, expected []string, format string, a ...interface{}) error {
	return &verr.SyntaxError{
		Position: p.current().Position(),
		Message:  fmt.Sprintf(format, a...),
		Found:    found,
		Expected: expected,
	}
}

func (p *parser) parseProgram() (*Program, error) {
	stmts, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != "$" {
		return nil, p.unexpected(la, "a statement", append([]string{"$"}, stmtStarters...))
	}
	return &Program{
		Stmts: stmts,
	}, nil
}

// parseStmtList stops at the first token that cannot start a statement. The caller checks
// that token.
func (p *parser) parseStmtList() ([]Stmt, error) {
	stmts := []Stmt{}
	for {
		la, err := p.peek()
		if err != nil {
			return nil, err
		}
		if !isOneOf(la, stmtStarters) {
			return stmts, nil
		}
		stmt, err := p.parseStmt(la)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *parser) parseStmt(la string) (Stmt, error) {
	switch la {
	case lang.TermRecipe:
		return p.parseFuncDecl()
	case lang.TermPut:
		return p.parseVarDecl()
	case lang.TermIf:
		return p.parseIfStmt()
	case lang.TermWhile:
		return p.parseWhileStmt()
	case lang.TermReturn:
		return p.parseReturnStmt()
	case lang.TermLBrace:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseFuncDecl() (*FuncDecl, error) {
	kw := p.advance()
	name, err := p.expect(lang.TermID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TermLParen); err != nil {
		return nil, err
	}
	params := []string{}
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la == lang.TermID {
		params = append(params, p.advance().Text)
		for {
			la, err := p.peek()
			if err != nil {
				return nil, err
			}
			if la != lang.TermComma {
				break
			}
			p.advance()
			param, err := p.expect(lang.TermID)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Text)
		}
	}
	if _, err := p.expect(lang.TermRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{
		Name:     name.Text,
		Params:   params,
		Body:     body,
		position: kw.Position(),
	}, nil
}

func (p *parser) parseVarDecl() (*VarDecl, error) {
	kw := p.advance()
	name, err := p.expect(lang.TermID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TermAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TermSemicolon); err != nil {
		return nil, err
	}
	return &VarDecl{
		Name:     name.Text,
		Value:    value,
		position: kw.Position(),
	}, nil
}

func (p *parser) parseIfStmt() (*IfStmt, error) {
	kw, err := p.expect(lang.TermIf)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{
		Cond:     cond,
		Then:     then,
		position: kw.Position(),
	}

	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != lang.TermElse {
		return stmt, nil
	}
	p.advance()
	la, err = p.peek()
	if err != nil {
		return nil, err
	}
	switch la {
	case lang.TermLBrace:
		stmt.Else, err = p.parseBlock()
	case lang.TermIf:
		stmt.Else, err = p.parseIfStmt()
	default:
		return nil, p.unexpected(la, "an else branch", []string{lang.TermLBrace, lang.TermIf})
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseWhileStmt() (*WhileStmt, error) {
	kw := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{
		Cond:     cond,
		Body:     body,
		position: kw.Position(),
	}, nil
}

func (p *parser) parseCondition() (Expr, error) {
	if _, err := p.expect(lang.TermLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TermRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) parseReturnStmt() (*ReturnStmt, error) {
	kw := p.advance()
	stmt := &ReturnStmt{
		position: kw.Position(),
	}
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != lang.TermSemicolon {
		stmt.Value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lang.TermSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseBlock() (*Block, error) {
	lbrace, err := p.expect(lang.TermLBrace)
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != lang.TermRBrace {
		return nil, p.unexpected(la, "a statement", append([]string{lang.TermRBrace}, stmtStarters...))
	}
	p.advance()
	return &Block{
		Stmts:    stmts,
		position: lbrace.Position(),
	}, nil
}

func (p *parser) parseExprStmt() (*ExprStmt, error) {
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lang.TermSemicolon); err != nil {
		return nil, err
	}
	return &ExprStmt{
		X: x,
	}, nil
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != lang.TermAssign {
		return left, nil
	}
	p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &AssignExpr{
		Target: left,
		Value:  value,
	}, nil
}

// parseBinary parses a chain of left-associative operators whose precedence is at least
// minPrec.
func (p *parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		la, err := p.peek()
		if err != nil {
			return nil, err
		}
		prec, ok := precedences[la]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{
			Op:       op.Text,
			Left:     left,
			Right:    right,
			position: op.Position(),
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != lang.TermMinus && la != lang.TermBang {
		return p.parseCall()
	}
	op := p.advance()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{
		Op:       op.Text,
		X:        x,
		position: op.Position(),
	}, nil
}

func (p *parser) parseCall() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		la, err := p.peek()
		if err != nil {
			return nil, err
		}
		if la != lang.TermLParen {
			return x, nil
		}
		lparen := p.advance()
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		x = &CallExpr{
			Callee:   x,
			Args:     args,
			position: lparen.Position(),
		}
	}
}

// parseArgs parses arguments up to and including the closing parenthesis.
func (p *parser) parseArgs() ([]Expr, error) {
	args := []Expr{}
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	if la != lang.TermRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			la, err := p.peek()
			if err != nil {
				return nil, err
			}
			if la != lang.TermComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lang.TermRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	la, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch la {
	case lang.TermID:
		tok := p.advance()
		return &Ident{Name: tok.Text, position: tok.Position()}, nil
	case lang.TermNumber:
		tok := p.advance()
		return &NumberLit{Text: tok.Text, position: tok.Position()}, nil
	case lang.TermString:
		tok := p.advance()
		return &StringLit{Value: unquote(tok.Text), position: tok.Position()}, nil
	case lang.TermTrue, lang.TermFalse:
		tok := p.advance()
		return &BoolLit{Value: la == lang.TermTrue, position: tok.Position()}, nil
	case lang.TermLParen:
		lparen := p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lang.TermRParen); err != nil {
			return nil, err
		}
		return &ParenExpr{X: x, position: lparen.Position()}, nil
	}
	return nil, p.unexpected(la, "an expression", exprStarters)
}

// unquote strips the quotes of a string literal and resolves its escapes. \n and \t stand
// for a newline and a tab; any other escaped character stands for itself.
func unquote(lit string) string {
	body := strings.TrimSuffix(strings.TrimPrefix(lit, `"`), `"`)
	var b strings.Builder
	escaped := false
	for _, r := range body {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		if escaped {
			switch r {
			case 'n':
				r = '\n'
			case 't':
				r = '\t'
			}
			escaped = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
