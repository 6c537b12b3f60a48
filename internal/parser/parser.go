package parser

import (
	"fmt"
	"math/big"

	"github.com/seafold/seafold/internal/ir"
	"github.com/seafold/seafold/internal/optimizer"
)

// Operator precedence levels.
const (
	lowest  = iota
	sum     // + -
	product // * /
)

func precedence(t TokenType) int {
	switch t {
	case TokenPlus, TokenMinus:
		return sum
	case TokenStar, TokenSlash:
		return product
	default:
		return lowest
	}
}

// Error is a parse-time diagnostic with a source position.
type Error struct {
	Message string
	Pos     ir.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Result is a parsed and peephole-optimized compilation unit.
type Result struct {
	// Ret is the graph root (a Ret node; defs[0] is Start, defs[1]
	// is the returned value).
	Ret *ir.Node

	// Start is the control anchor; canonical constants hang off it.
	Start *ir.Node
}

// Parser builds the node graph from source text. Every node is handed
// to the peephole rewriter the moment it is constructed, and the
// parser only ever keeps the reference the rewriter returns.
type Parser struct {
	lex   *Lexer
	cur   Token
	peek  Token
	ids   *ir.NodeIDCounter
	opt   *optimizer.Optimizer
	start *ir.Node
}

// New creates a Parser over src. The caller supplies the compilation
// unit's id counter.
func New(src string, ids *ir.NodeIDCounter) *Parser {
	p := &Parser{
		lex: NewLexer(src),
		ids: ids,
	}
	p.cur = p.lex.NextToken()
	p.peek = p.lex.NextToken()
	return p
}

// Parse is the convenience entry point: one compilation unit, one
// fresh counter.
func Parse(src string, opts ...optimizer.Option) (*Result, error) {
	return New(src, ir.NewNodeIDCounter()).ParseWith(opts...)
}

// ParseWith parses the program `return <expr>;` and returns the
// optimized graph. Optimizer options (e.g. a fold recorder) are
// passed through to the peephole rewriter.
func (p *Parser) ParseWith(opts ...optimizer.Option) (*Result, error) {
	// The start anchor is built first and, like every node, goes
	// through the rewriter.
	p.start = ir.New(p.ids, ir.OpStart, ir.Pos{Line: 1, Col: 1})
	p.opt = optimizer.New(p.ids, p.start, opts...)

	startNode, err := p.opt.Peephole(p.start)
	if err != nil {
		return nil, err
	}
	p.start = startNode

	if p.cur.Type != TokenReturn {
		return nil, p.errorf("expected 'return', got %q", p.cur.Literal)
	}
	retPos := p.cur.Pos
	p.advance()

	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}

	if p.cur.Type != TokenSemicolon {
		return nil, p.errorf("expected ';', got %q", p.cur.Literal)
	}
	p.advance()
	if p.cur.Type != TokenEOF {
		return nil, p.errorf("unexpected trailing input %q", p.cur.Literal)
	}

	ret := ir.New(p.ids, ir.OpRet, retPos, p.start, expr)
	ret, err = p.opt.Peephole(ret)
	if err != nil {
		return nil, err
	}

	return &Result{Ret: ret, Start: p.start}, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: p.cur.Pos}
}

// parseExpression is a precedence climber over binary + - * /.
func (p *Parser) parseExpression(minPrec int) (*ir.Node, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	for {
		opPrec := precedence(p.cur.Type)
		if opPrec <= minPrec {
			return left, nil
		}

		var op ir.OpCode
		switch p.cur.Type {
		case TokenPlus:
			op = ir.OpAdd
		case TokenMinus:
			op = ir.OpSub
		case TokenStar:
			op = ir.OpMul
		case TokenSlash:
			op = ir.OpDiv
		default:
			return left, nil
		}
		opPos := p.cur.Pos
		p.advance()

		right, err := p.parseExpression(opPrec)
		if err != nil {
			return nil, err
		}

		node := ir.New(p.ids, op, opPos, left, right)
		node, err = p.opt.Peephole(node)
		if err != nil {
			return nil, err
		}
		left = node
	}
}

func (p *Parser) parseOperand() (*ir.Node, error) {
	switch p.cur.Type {
	case TokenNumber:
		return p.parseNumber()

	case TokenLParen:
		p.advance()
		expr, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if p.cur.Type != TokenRParen {
			return nil, p.errorf("expected ')', got %q", p.cur.Literal)
		}
		p.advance()
		return expr, nil

	default:
		return nil, p.errorf("expected expression, got %q", p.cur.Literal)
	}
}

// parseNumber builds a Con node for an integer literal, anchors it
// under start, and runs it through the rewriter (a no-op for Con).
func (p *Parser) parseNumber() (*ir.Node, error) {
	v, ok := new(big.Int).SetString(p.cur.Literal, 10)
	if !ok {
		return nil, p.errorf("malformed integer literal %q", p.cur.Literal)
	}
	if !ir.InIntRange(v) {
		return nil, p.errorf("integer literal %s out of 128-bit range", p.cur.Literal)
	}

	con := ir.NewConstant(p.ids, ir.Int(v), p.cur.Pos)
	p.start.AddDef(con)
	p.advance()

	return p.opt.Peephole(con)
}
