// Package parser builds expression trees from ascript source text.
//
// The parser is a precedence-climbing recursive descent parser. After each
// operand it reads an infix operator and appends it to the tree built so far:
// the new operator either takes the whole tree as its left operand, or it is
// spliced into the right spine of the tree when it binds tighter (or groups
// to the right at equal precedence). Comma-separated operands at the tuple
// level are flattened into a single n-ary node.
//
// Call, index and member suffixes bind tightest. Each bracketed sub-parse
// installs its closing bracket as the parser's single current stop token,
// restoring the previous stop when it returns.
package parser

import (
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/ascript/lang/ast"
	"github.com/ardnew/ascript/lang/diag"
	"github.com/ardnew/ascript/lang/lexer"
	"github.com/ardnew/ascript/lang/token"
	"github.com/ardnew/ascript/lang/value"
)

// Parser holds the state of a single parse.
type Parser struct {
	lex   *lexer.Lexer
	table *Table
	stop  string // closing punctuation of the innermost open bracket
	last  token.Token
	prev  token.Token
}

// New returns a parser reading src with the given operator table. A nil
// table selects [Default].
func New(src string, table *Table) *Parser {
	if table == nil {
		table = Default
	}

	return &Parser{lex: lexer.New(src, table), table: table}
}

// Parse parses a complete program: a sequence of expressions separated by
// semicolons.
func Parse(src string, table *Table) (*ast.Block, error) {
	return New(src, table).Program()
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string, table *Table) (ast.Node, error) {
	p := New(src, table)

	n, err := p.expr()
	if err != nil {
		return nil, err
	}

	if tok, err := p.next(); err != nil {
		return nil, err
	} else if tok.Kind != token.EOF {
		return nil, unexpected(tok)
	}

	return finish(n), nil
}

// Program parses the whole input as a statement sequence.
func (p *Parser) Program() (*ast.Block, error) {
	pos := p.lex.Pos()

	body, err := p.sequence()
	if err != nil {
		return nil, err
	}

	if tok, err := p.next(); err != nil {
		return nil, err
	} else if tok.Kind != token.EOF {
		return nil, unexpected(tok)
	}

	for i, n := range body {
		body[i] = finish(n)
	}

	return &ast.Block{At: ast.At{Position: pos}, Body: body}, nil
}

func (p *Parser) next() (token.Token, error) {
	tok, err := p.lex.Next()
	if err == nil {
		p.prev, p.last = p.last, tok
	}

	return tok, err
}

// push returns the most recently read token to the lexer.
func (p *Parser) push(tok token.Token) {
	p.lex.Push(tok)
	p.last = p.prev
}

func (p *Parser) peek() (token.Token, error) {
	tok, err := p.lex.Next()
	if err == nil {
		p.lex.Push(tok)
	}

	return tok, err
}

// enter installs stop as the current stop token and returns the previous
// one for restoring with leave.
func (p *Parser) enter(stop string) string {
	prev := p.stop
	p.stop = stop

	return prev
}

func (p *Parser) leave(prev string) { p.stop = prev }

// expect consumes the closing punctuation of the current bracket.
func (p *Parser) expect(punct string) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	if !tok.IsPunct(punct) {
		return tok, diag.ErrMissingTerminator.
			Detail("expected " + strconv.Quote(punct) + ", found " + tok.String()).
			At(tok.Pos)
	}

	return tok, nil
}

// terminates reports whether tok ends the expression being parsed.
func (p *Parser) terminates(tok token.Token) bool {
	switch tok.Kind {
	case token.EOF:
		return true
	case token.Punct:
		switch tok.Lexeme {
		case ";", ")", "]", "}":
			return true
		}
	case token.Keyword:
		return tok.Lexeme == "else" || tok.Lexeme == "catch"
	}

	return false
}

func unexpected(tok token.Token) error {
	if tok.Kind == token.EOF {
		return diag.ErrUnterminated.Detail("unexpected end of input").At(tok.Pos)
	}

	return diag.ErrUnexpectedToken.Detail(tok.String()).At(tok.Pos)
}

// sequence parses expressions separated by semicolons until the current stop
// token, which is left unread.
func (p *Parser) sequence() ([]ast.Node, error) {
	var body []ast.Node

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case tok.IsPunct(";"):
			_, _ = p.next()

			continue
		case p.atStop(tok):
			return body, nil
		}

		n, err := p.expr()
		if err != nil {
			return nil, err
		}

		body = append(body, n)

		tok, err = p.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case tok.IsPunct(";"), p.atStop(tok):
		case p.last.IsPunct("}") && !p.terminates(tok):
		default:
			if tok.Kind == token.EOF {
				return nil, diag.ErrMissingTerminator.
					Detail("expected " + p.stopName() + ", found " + tok.String()).
					At(tok.Pos)
			}

			return nil, unexpected(tok)
		}
	}
}

func (p *Parser) atStop(tok token.Token) bool {
	if p.stop == "" {
		return tok.Kind == token.EOF
	}

	return tok.IsPunct(p.stop)
}

func (p *Parser) stopName() string {
	if p.stop == "" {
		return "end of input"
	}

	return strconv.Quote(p.stop)
}

// expr parses one expression up to a terminating token, which is left
// unread.
func (p *Parser) expr() (ast.Node, error) { return p.climb(math.MaxInt) }

// operand parses the operand of a keyword construct. It stops before the
// tuple comma, so a construct used as one argument or tuple item does not
// absorb the items that follow it.
func (p *Parser) operand() (ast.Node, error) { return p.climb(LevelTuple) }

// climb parses an expression whose operators bind tighter than limit. The
// first operator at or below limit is left unread.
func (p *Parser) climb(limit int) (ast.Node, error) {
	root, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		// a statement ending in a block may be followed by another
		// statement without a separator
		if p.terminates(tok) || (tok.Kind != token.Op && p.prev.IsPunct("}")) {
			p.push(tok)

			return root, nil
		}

		if tok.Kind != token.Op {
			return nil, unexpected(tok)
		}

		op, ok := p.table.Lookup(tok.Lexeme)
		if !ok {
			return nil, diag.ErrUnknownOperator.
				Detail(strconv.Quote(tok.Lexeme)).
				At(tok.Pos)
		}

		if op.Level >= limit {
			p.push(tok)

			return root, nil
		}

		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}

		if root, err = p.append(root, op, tok.Pos, rhs); err != nil {
			return nil, err
		}
	}
}

// append adds the operator op with right operand rhs to the tree root.
func (p *Parser) append(
	root ast.Node,
	op Operator,
	pos token.Position,
	rhs ast.Node,
) (ast.Node, error) {
	in, ok := root.(ast.Infix)

	switch {
	case !ok, op.Level > in.Prec(), op.Level == in.Prec() && op.Assoc == Left:
		return build(op, pos, root, rhs)

	case op.Level == in.Prec() && op.Assoc == NAry:
		if t, ok := root.(*ast.Tuple); ok {
			t.Items = append(t.Items, rhs)

			return t, nil
		}
	}

	r, err := p.append(in.Rhs(), op, pos, rhs)
	if err != nil {
		return nil, err
	}

	in.SetRhs(r)

	return root, nil
}

// build creates the node for op applied to complete left operand lhs.
func build(op Operator, pos token.Position, lhs, rhs ast.Node) (ast.Node, error) {
	at := ast.At{Position: pos}

	switch op.Form {
	case FormAssign:
		if err := checkTarget(lhs, op.Symbol == "="); err != nil {
			return nil, err
		}

		return &ast.Assign{At: at, Op: op.Symbol, Level: op.Level, Target: lhs, Value: rhs}, nil

	case FormLambda:
		params, err := paramList(lhs)
		if err != nil {
			return nil, err
		}

		return &ast.Lambda{At: at, Params: params, Level: op.Level, Body: rhs}, nil

	case FormLabel:
		id, ok := lhs.(*ast.Ident)
		if !ok {
			return nil, diag.ErrInvalidTarget.
				Detail("label must be an identifier").
				At(lhs.Pos())
		}

		return &ast.Label{At: at, Name: id.Name, Level: op.Level, Value: rhs}, nil

	case FormTuple:
		return &ast.Tuple{At: at, Level: op.Level, Items: []ast.Node{lhs, rhs}}, nil

	case FormCast:
		return &ast.Cast{At: at, Level: op.Level, Value: lhs, Type: rhs}, nil

	case FormInstanceOf:
		return &ast.InstanceOf{At: at, Level: op.Level, Value: lhs, Type: rhs}, nil
	}

	return &ast.Binary{At: at, Op: op.Symbol, Level: op.Level, Left: lhs, Right: rhs}, nil
}

// checkTarget validates the left operand of an assignment. Tuple patterns
// are only valid for plain assignment.
func checkTarget(n ast.Node, plain bool) error {
	switch t := ast.Unwrap(n).(type) {
	case *ast.Ident, *ast.Member, *ast.Call, *ast.Index:
		return nil

	case *ast.Var:
		if plain {
			return nil
		}

	case *ast.Tuple:
		if !plain {
			break
		}

		for _, item := range t.Items {
			if err := checkTarget(item, true); err != nil {
				return err
			}
		}

		return nil
	}

	return diag.ErrInvalidTarget.Detail(ast.String(n)).At(n.Pos())
}

// paramList converts the left operand of "=>" into a parameter list.
func paramList(n ast.Node) ([]ast.Param, error) {
	var items []ast.Node

	switch g := n.(type) {
	case *ast.Group:
		switch inner := g.Inner.(type) {
		case nil:
		case *ast.Tuple:
			items = inner.Items
		default:
			items = []ast.Node{inner}
		}
	default:
		items = []ast.Node{n}
	}

	params := make([]ast.Param, 0, len(items))

	for i, item := range items {
		var p ast.Param

		switch it := item.(type) {
		case *ast.Ident:
			p.Name = it.Name

		case *ast.Assign:
			id, ok := it.Target.(*ast.Ident)
			if !ok || it.Op != "=" {
				return nil, invalidParam(item)
			}

			p.Name, p.Default = id.Name, it.Value

		case *ast.Spread:
			id, ok := it.Value.(*ast.Ident)
			if !ok || i != len(items)-1 {
				return nil, invalidParam(item)
			}

			p.Name, p.Variadic = id.Name, true

		default:
			return nil, invalidParam(item)
		}

		if slices.ContainsFunc(params, func(q ast.Param) bool { return q.Name == p.Name }) {
			return nil, diag.ErrInvalidParameter.
				Detail("duplicate parameter " + p.Name.Name()).
				At(item.Pos())
		}

		params = append(params, p)
	}

	return params, nil
}

func invalidParam(n ast.Node) error {
	return diag.ErrInvalidParameter.Detail(ast.String(n)).At(n.Pos())
}

// unary parses prefix operators applied to a postfix expression.
func (p *Parser) unary() (ast.Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Kind == token.Op && slices.Contains(prefixOps, tok.Lexeme):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}

		if tok.Lexeme == "-" {
			if lit, ok := operand.(*ast.Literal); ok {
				if v, ok := negate(lit.Value); ok {
					return &ast.Literal{At: ast.At{Position: tok.Pos}, Value: v}, nil
				}
			}
		}

		return &ast.Unary{At: ast.At{Position: tok.Pos}, Op: tok.Lexeme, Operand: operand}, nil

	case tok.IsPunct("..."):
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &ast.Spread{At: ast.At{Position: tok.Pos}, Value: operand}, nil
	}

	atom, err := p.atom(tok)
	if err != nil {
		return nil, err
	}

	return p.postfix(atom)
}

// negate folds a negative sign into a numeric literal.
func negate(v any) (any, bool) {
	switch v := v.(type) {
	case int32:
		if v == -v && v != 0 {
			return -int64(v), true
		}

		return -v, true
	case int64:
		if v == -v && v != 0 {
			return new(big.Int).Neg(big.NewInt(v)), true
		}

		if -v == -(1<<31) {
			return int32(-v), true
		}

		return -v, true
	case *big.Int:
		n := new(big.Int).Neg(v)
		if n.IsInt64() {
			return n.Int64(), true
		}

		return n, true
	case float64:
		return -v, true
	}

	return nil, false
}

// postfix parses member, call, index and postfix increment suffixes.
func (p *Parser) postfix(n ast.Node) (ast.Node, error) {
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		at := ast.At{Position: tok.Pos}

		switch {
		case tok.IsPunct("."):
			name, err := p.next()
			if err != nil {
				return nil, err
			}

			if name.Kind != token.Ident && name.Kind != token.Keyword {
				return nil, diag.ErrUnexpectedToken.
					Detail("expected member name, found " + name.String()).
					At(name.Pos)
			}

			n = &ast.Member{At: at, Recv: n, Name: value.Intern(name.Lexeme)}

		case tok.IsPunct("("):
			args, err := p.arguments(")")
			if err != nil {
				return nil, err
			}

			n = &ast.Call{At: at, Fn: n, Args: args}

		case tok.IsPunct("["):
			args, err := p.arguments("]")
			if err != nil {
				return nil, err
			}

			n = &ast.Index{At: at, Recv: n, Args: args}

		case tok.Kind == token.Op && slices.Contains(postfixOps, tok.Lexeme):
			n = &ast.Postfix{At: at, Op: tok.Lexeme, Operand: n}

		default:
			p.push(tok)

			return n, nil
		}
	}
}

// arguments parses a comma-separated list closed by stop. The opening
// bracket has been consumed.
func (p *Parser) arguments(stop string) ([]ast.Node, error) {
	defer p.leave(p.enter(stop))

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.IsPunct(stop) {
		_, _ = p.next()

		return nil, nil
	}

	n, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(stop); err != nil {
		return nil, err
	}

	if t, ok := n.(*ast.Tuple); ok {
		return t.Items, nil
	}

	return []ast.Node{n}, nil
}

// enclosed parses a single expression closed by stop. The opening bracket
// has been consumed.
func (p *Parser) enclosed(stop string) (ast.Node, error) {
	defer p.leave(p.enter(stop))

	n, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(stop); err != nil {
		return nil, err
	}

	return n, nil
}

// condition parses a parenthesized expression following a keyword.
func (p *Parser) condition(keyword string) (ast.Node, error) {
	if _, err := p.open("(", keyword); err != nil {
		return nil, err
	}

	return p.enclosed(")")
}

func (p *Parser) open(punct, after string) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	if !tok.IsPunct(punct) {
		return tok, diag.ErrUnexpectedToken.
			Detail("expected " + strconv.Quote(punct) + " after " + after +
				", found " + tok.String()).
			At(tok.Pos)
	}

	return tok, nil
}

// atom parses a primary expression starting with tok.
func (p *Parser) atom(tok token.Token) (ast.Node, error) {
	at := ast.At{Position: tok.Pos}

	switch tok.Kind {
	case token.Ident:
		return &ast.Ident{At: at, Name: value.Intern(tok.Lexeme)}, nil

	case token.Int:
		v, err := integer(tok)
		if err != nil {
			return nil, err
		}

		return &ast.Literal{At: at, Value: v}, nil

	case token.Decimal:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Lexeme, "_", ""), 64)
		if err != nil {
			return nil, diag.ErrMalformedLiteral.Wrap(err).At(tok.Pos)
		}

		return &ast.Literal{At: at, Value: f}, nil

	case token.String:
		return &ast.Literal{At: at, Value: tok.Lexeme}, nil

	case token.Chunk:
		return p.interpolation(tok)

	case token.Char:
		r := []rune(tok.Lexeme)

		return &ast.Literal{At: at, Value: value.Char(r[0])}, nil

	case token.Symbol:
		return &ast.Literal{At: at, Value: value.Intern(tok.Lexeme)}, nil

	case token.Keyword:
		return p.keyword(tok)

	case token.Punct:
		switch tok.Lexeme {
		case "(":
			return p.group(tok)

		case "[":
			items, err := p.arguments("]")
			if err != nil {
				return nil, err
			}

			return &ast.List{At: at, Items: items}, nil

		case "{":
			return p.block(tok)
		}
	}

	return nil, unexpected(tok)
}

func integer(tok token.Token) (any, error) {
	s, base := strings.ReplaceAll(tok.Lexeme, "_", ""), 10
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s, base = s[2:], 16
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, diag.ErrMalformedLiteral.Detail(tok.Lexeme).At(tok.Pos)
	}

	switch {
	case !n.IsInt64():
		return n, nil
	case n.Int64() >= -1<<31 && n.Int64() < 1<<31:
		return int32(n.Int64()), nil
	default:
		return n.Int64(), nil
	}
}

func (p *Parser) group(tok token.Token) (ast.Node, error) {
	at := ast.At{Position: tok.Pos}

	next, err := p.peek()
	if err != nil {
		return nil, err
	}

	if next.IsPunct(")") {
		_, _ = p.next()

		return &ast.Group{At: at}, nil
	}

	inner, err := p.enclosed(")")
	if err != nil {
		return nil, err
	}

	return &ast.Group{At: at, Inner: inner}, nil
}

func (p *Parser) block(tok token.Token) (*ast.Block, error) {
	defer p.leave(p.enter("}"))

	body, err := p.sequence()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect("}"); err != nil {
		return nil, err
	}

	return &ast.Block{At: ast.At{Position: tok.Pos}, Body: body}, nil
}

// interpolation parses the remainder of a string literal that embeds
// expressions. tok is its first fragment.
func (p *Parser) interpolation(tok token.Token) (ast.Node, error) {
	defer p.leave(p.enter("}"))

	n := &ast.Interp{At: ast.At{Position: tok.Pos}}

	for {
		if tok.Lexeme != "" {
			n.Parts = append(n.Parts, &ast.Literal{At: ast.At{Position: tok.Pos}, Value: tok.Lexeme})
		}

		if tok.Kind == token.String {
			return n, nil
		}

		expr, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect("}"); err != nil {
			return nil, err
		}

		n.Parts = append(n.Parts, expr)

		if tok, err = p.lex.ResumeString(); err != nil {
			return nil, err
		}
	}
}

// keyword parses a keyword-led construct.
func (p *Parser) keyword(tok token.Token) (ast.Node, error) {
	at := ast.At{Position: tok.Pos}

	switch tok.Lexeme {
	case "true", "false":
		return &ast.Literal{At: at, Value: tok.Lexeme == "true"}, nil

	case "null":
		return &ast.Literal{At: at}, nil

	case "var", "val":
		name, err := p.next()
		if err != nil {
			return nil, err
		}

		if name.Kind != token.Ident {
			return nil, diag.ErrUnexpectedToken.
				Detail("expected identifier after " + tok.Lexeme + ", found " + name.String()).
				At(name.Pos)
		}

		return &ast.Var{At: at, Name: value.Intern(name.Lexeme), Mutable: tok.Lexeme == "var"}, nil

	case "if":
		cond, err := p.condition("if")
		if err != nil {
			return nil, err
		}

		then, err := p.operand()
		if err != nil {
			return nil, err
		}

		n := &ast.If{At: at, Cond: cond, Then: then}

		next, err := p.peek()
		if err != nil {
			return nil, err
		}

		if next.IsKeyword("else") {
			_, _ = p.next()

			if n.Else, err = p.operand(); err != nil {
				return nil, err
			}
		}

		return n, nil

	case "while":
		cond, err := p.condition("while")
		if err != nil {
			return nil, err
		}

		body, err := p.operand()
		if err != nil {
			return nil, err
		}

		return &ast.While{At: at, Cond: cond, Body: body}, nil

	case "with":
		scope, err := p.condition("with")
		if err != nil {
			return nil, err
		}

		body, err := p.operand()
		if err != nil {
			return nil, err
		}

		return &ast.With{At: at, Scope: scope, Body: body}, nil

	case "throw":
		v, err := p.operand()
		if err != nil {
			return nil, err
		}

		return &ast.Throw{At: at, Value: v}, nil

	case "return":
		next, err := p.peek()
		if err != nil {
			return nil, err
		}

		if p.terminates(next) {
			return &ast.Return{At: at}, nil
		}

		v, err := p.operand()
		if err != nil {
			return nil, err
		}

		return &ast.Return{At: at, Value: v}, nil

	case "try":
		return p.try(tok)

	case "new":
		return p.construct(tok)
	}

	return nil, unexpected(tok)
}

func (p *Parser) try(tok token.Token) (ast.Node, error) {
	body, err := p.operand()
	if err != nil {
		return nil, err
	}

	catch, err := p.next()
	if err != nil {
		return nil, err
	}

	if !catch.IsKeyword("catch") {
		return nil, diag.ErrMissingTerminator.
			Detail("expected catch, found " + catch.String()).
			At(catch.Pos)
	}

	if _, err := p.open("(", "catch"); err != nil {
		return nil, err
	}

	name, err := p.next()
	if err != nil {
		return nil, err
	}

	if name.Kind != token.Ident {
		return nil, diag.ErrUnexpectedToken.
			Detail("expected identifier, found " + name.String()).
			At(name.Pos)
	}

	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	handler, err := p.operand()
	if err != nil {
		return nil, err
	}

	return &ast.Try{
		At:      ast.At{Position: tok.Pos},
		Body:    body,
		Name:    value.Intern(name.Lexeme),
		Handler: handler,
	}, nil
}

// construct parses "new Type(args)" or "new { ... }".
func (p *Parser) construct(tok token.Token) (ast.Node, error) {
	at := ast.At{Position: tok.Pos}

	next, err := p.next()
	if err != nil {
		return nil, err
	}

	if next.IsPunct("{") {
		body, err := p.block(next)
		if err != nil {
			return nil, err
		}

		return &ast.Object{At: at, Body: body}, nil
	}

	if next.Kind != token.Ident {
		return nil, diag.ErrUnexpectedToken.
			Detail("expected type name after new, found " + next.String()).
			At(next.Pos)
	}

	var typ ast.Node = &ast.Ident{At: ast.At{Position: next.Pos}, Name: value.Intern(next.Lexeme)}

	for {
		sep, err := p.next()
		if err != nil {
			return nil, err
		}

		if sep.IsPunct("(") {
			break
		}

		if !sep.IsPunct(".") {
			return nil, diag.ErrUnexpectedToken.
				Detail("expected \"(\" after type name, found " + sep.String()).
				At(sep.Pos)
		}

		name, err := p.next()
		if err != nil {
			return nil, err
		}

		if name.Kind != token.Ident {
			return nil, unexpected(name)
		}

		typ = &ast.Member{At: ast.At{Position: sep.Pos}, Recv: typ, Name: value.Intern(name.Lexeme)}
	}

	args, err := p.arguments(")")
	if err != nil {
		return nil, err
	}

	return &ast.New{At: at, Type: typ, Args: args}, nil
}

var update = value.Intern("update")

// finish applies parse-time rewrites to a completed statement: an indexed
// assignment t(i) = v or t[i] = v becomes the call t.update(v, i).
func finish(n ast.Node) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		a, ok := n.(*ast.Assign)
		if !ok {
			return n
		}

		var (
			recv ast.Node
			args []ast.Node
		)

		switch t := ast.Unwrap(a.Target).(type) {
		case *ast.Call:
			recv, args = t.Fn, t.Args
		case *ast.Index:
			recv, args = t.Recv, t.Args
		default:
			return n
		}

		v := a.Value
		if a.Op != "=" {
			v = &ast.Binary{
				At:    a.At,
				Op:    strings.TrimSuffix(a.Op, "="),
				Level: LevelAdd,
				Left:  a.Target,
				Right: a.Value,
			}
		}

		return &ast.Call{
			At:   a.At,
			Fn:   &ast.Member{At: a.At, Recv: recv, Name: update},
			Args: append([]ast.Node{v}, args...),
		}
	})
}
