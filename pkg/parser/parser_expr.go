package parser

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// Expression grammar (lowest to highest precedence):
//
//	assignment  → arrow | conditional [('=' | op'=') assignment]
//	arrow       → ['async'] [type_params] (id | params [':' type]) '=>' (block | assignment)
//	conditional → binary ['?' assignment ':' assignment]
//	binary      → unary (binop unary | ('as'|'satisfies') type)*
//	unary       → ('!'|'-'|'+'|'~'|'typeof'|'void'|'delete'|'await'|'++'|'--') unary | postfix
//	postfix     → call_member ['++'|'--']
//	call_member → primary ('.' name | '?.' name | '[' expr ']' | [type_args] args | '!')*

// parseExpression parses an expression.
func (p *Parser) parseExpression() *syntax.Node {
	return p.parseAssignment()
}

// parseAssignment parses an assignment expression or arrow function.
func (p *Parser) parseAssignment() *syntax.Node {
	if p.arrowAhead() {
		return p.parseArrow()
	}
	start := p.token.Pos
	left := p.parseConditional()
	if p.check(token.ASSIGN) || p.check(token.OPASSIGN) {
		op := p.token.Literal
		p.nextToken()
		right := p.parseAssignment()
		n := p.finish(syntax.AssignmentExpression, start)
		n.Operator = op
		p.b.Set(n, syntax.FieldLeft, left)
		p.b.Set(n, syntax.FieldRight, right)
		return n
	}
	return left
}

// parseArrow parses an arrow function. The caller has checked arrowAhead.
func (p *Parser) parseArrow() *syntax.Node {
	start := p.token.Pos
	var flags syntax.Flag
	if p.checkWord("async") && p.peek(1).Type != token.ARROW {
		p.nextToken()
		flags |= syntax.Async
	}
	var fp functionParts
	if p.check(token.LT) {
		fp.typeParams = p.parseTypeParameters()
	}
	if p.check(token.IDENT) {
		fp.params = []*syntax.Node{p.ident(p.expectIdent())}
	} else {
		fp.params = p.parseParams(false)
		if p.check(token.COLON) {
			fp.returnType = p.parseTypeAnnotation()
		}
	}
	p.expect(token.ARROW)

	saved := p.noIn
	p.noIn = false
	if p.check(token.LBRACE) {
		fp.body = p.parseBlock()
	} else {
		fp.body = p.parseAssignment()
	}
	p.noIn = saved

	n := p.finish(syntax.ArrowFunctionExpression, start)
	n.Flags |= flags
	p.setFunctionParts(n, fp)
	return n
}

// parseConditional parses test '?' consequent ':' alternate.
func (p *Parser) parseConditional() *syntax.Node {
	start := p.token.Pos
	test := p.parseBinary(0)
	if !p.match(token.QUESTION) {
		return test
	}
	saved := p.noIn
	p.noIn = false
	cons := p.parseAssignment()
	p.noIn = saved
	p.expect(token.COLON)
	alt := p.parseAssignment()
	n := p.finish(syntax.ConditionalExpression, start)
	p.b.Set(n, syntax.FieldTest, test)
	p.b.Set(n, syntax.FieldConsequent, cons)
	p.b.Set(n, syntax.FieldAlternate, alt)
	return n
}

type binaryOp struct {
	prec int
	kind syntax.Kind
}

var binaryOps = map[token.TokenType]binaryOp{
	token.QQ:       {1, syntax.LogicalExpression},
	token.OR:       {2, syntax.LogicalExpression},
	token.AND:      {3, syntax.LogicalExpression},
	token.PIPE:     {4, syntax.BinaryExpression},
	token.CARET:    {5, syntax.BinaryExpression},
	token.AMP:      {6, syntax.BinaryExpression},
	token.EQ:       {7, syntax.BinaryExpression},
	token.NE:       {7, syntax.BinaryExpression},
	token.STRICTEQ: {7, syntax.BinaryExpression},
	token.STRICTNE: {7, syntax.BinaryExpression},
	token.LT:       {8, syntax.BinaryExpression},
	token.GT:       {8, syntax.BinaryExpression},
	token.LE:       {8, syntax.BinaryExpression},
	token.GE:       {8, syntax.BinaryExpression},
	token.PLUS:     {9, syntax.BinaryExpression},
	token.MINUS:    {9, syntax.BinaryExpression},
	token.STAR:     {10, syntax.BinaryExpression},
	token.SLASH:    {10, syntax.BinaryExpression},
	token.PERCENT:  {10, syntax.BinaryExpression},
}

// binaryOperator classifies the current token as a binary operator.
func (p *Parser) binaryOperator() (binaryOp, bool) {
	if op, ok := binaryOps[p.token.Type]; ok {
		return op, true
	}
	if p.token.Type != token.IDENT {
		return binaryOp{}, false
	}
	switch p.token.Literal {
	case "instanceof":
		return binaryOp{8, syntax.BinaryExpression}, true
	case "in":
		return binaryOp{8, syntax.BinaryExpression}, !p.noIn
	case "as", "satisfies":
		return binaryOp{8, syntax.TSAsExpression}, !p.token.NewlineBefore
	}
	return binaryOp{}, false
}

// parseBinary parses binary operators binding tighter than minPrec.
func (p *Parser) parseBinary(minPrec int) *syntax.Node {
	start := p.token.Pos
	left := p.parseUnary()
	for {
		op, ok := p.binaryOperator()
		if !ok || op.prec <= minPrec {
			return left
		}
		text := p.token.Literal
		p.nextToken()
		if op.kind == syntax.TSAsExpression {
			typ := p.parseType()
			n := p.finish(syntax.TSAsExpression, start)
			n.Variant = text
			p.b.Set(n, syntax.FieldExpression, left)
			p.b.Set(n, syntax.FieldTypeAnnotation, typ)
			left = n
			continue
		}
		right := p.parseBinary(op.prec)
		n := p.finish(op.kind, start)
		n.Operator = text
		p.b.Set(n, syntax.FieldLeft, left)
		p.b.Set(n, syntax.FieldRight, right)
		left = n
	}
}

// parseUnary parses prefix operators.
func (p *Parser) parseUnary() *syntax.Node {
	start := p.token.Pos
	switch p.token.Type {
	case token.BANG, token.MINUS, token.PLUS, token.TILDE:
		return p.parsePrefix(start, syntax.UnaryExpression)
	case token.INC, token.DEC:
		return p.parsePrefix(start, syntax.UpdateExpression)
	case token.LT:
		p.errorf(ErrUnsupported, "angle-bracket type assertion")
	case token.IDENT:
		switch p.token.Literal {
		case "typeof", "void", "delete":
			return p.parsePrefix(start, syntax.UnaryExpression)
		case "await":
			p.nextToken()
			arg := p.parseUnary()
			n := p.finish(syntax.AwaitExpression, start)
			p.b.Set(n, syntax.FieldArgument, arg)
			return n
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePrefix(start token.Position, kind syntax.Kind) *syntax.Node {
	op := p.token.Literal
	p.nextToken()
	arg := p.parseUnary()
	n := p.finish(kind, start)
	n.Operator = op
	if kind == syntax.UpdateExpression {
		n.Variant = "prefix"
	}
	p.b.Set(n, syntax.FieldArgument, arg)
	return n
}

// parsePostfix parses postfix increment and decrement.
func (p *Parser) parsePostfix() *syntax.Node {
	start := p.token.Pos
	expr := p.parseCallMember(true)
	if (p.check(token.INC) || p.check(token.DEC)) && !p.token.NewlineBefore {
		op := p.token.Literal
		p.nextToken()
		n := p.finish(syntax.UpdateExpression, start)
		n.Operator = op
		n.Variant = "postfix"
		p.b.Set(n, syntax.FieldArgument, expr)
		return n
	}
	return expr
}

// parseCallMember parses member access, calls and non-null assertions.
// Calls are not consumed when allowCall is false ('new' callees).
func (p *Parser) parseCallMember(allowCall bool) *syntax.Node {
	start := p.token.Pos
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(token.DOT):
			p.nextToken()
			expr = p.member(start, expr, p.parseMemberName(), 0)
		case p.check(token.QDOT):
			p.nextToken()
			switch {
			case p.check(token.LPAREN):
				if !allowCall {
					return expr
				}
				expr = p.call(start, expr, nil, syntax.Optional)
			case p.check(token.LBRACKET):
				p.nextToken()
				prop := p.parseBracketed()
				expr = p.member(start, expr, prop, syntax.Optional|syntax.Computed)
			default:
				expr = p.member(start, expr, p.parseMemberName(), syntax.Optional)
			}
		case p.check(token.LBRACKET):
			p.nextToken()
			prop := p.parseBracketed()
			expr = p.member(start, expr, prop, syntax.Computed)
		case p.check(token.LPAREN) && allowCall:
			expr = p.call(start, expr, nil, 0)
		case p.check(token.LT) && allowCall && p.typeArgumentsAhead():
			args := p.parseTypeArguments()
			expr = p.call(start, expr, args, 0)
		case p.check(token.BANG) && !p.token.NewlineBefore:
			p.nextToken()
			n := p.finish(syntax.TSNonNullExpression, start)
			p.b.Set(n, syntax.FieldExpression, expr)
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parseMemberName() *syntax.Node {
	if p.check(token.HASH) {
		start := p.token.Pos
		p.nextToken()
		name := p.expectAnyWord()
		id := p.finish(syntax.Identifier, start)
		id.Name = "#" + name.Literal
		return id
	}
	return p.ident(p.expectAnyWord())
}

// parseBracketed parses expr ']' after a consumed '['.
func (p *Parser) parseBracketed() *syntax.Node {
	saved := p.noIn
	p.noIn = false
	expr := p.parseExpression()
	p.noIn = saved
	p.expect(token.RBRACKET)
	return expr
}

func (p *Parser) member(start token.Position, object, prop *syntax.Node, flags syntax.Flag) *syntax.Node {
	n := p.finish(syntax.MemberExpression, start)
	n.Flags |= flags
	p.b.Set(n, syntax.FieldObject, object)
	p.b.Set(n, syntax.FieldProperty, prop)
	return n
}

func (p *Parser) call(start token.Position, callee, typeArgs *syntax.Node, flags syntax.Flag) *syntax.Node {
	args := p.parseArguments()
	n := p.finish(syntax.CallExpression, start)
	n.Flags |= flags
	p.b.Set(n, syntax.FieldCallee, callee)
	p.b.Set(n, syntax.FieldTypeArguments, typeArgs)
	p.b.Append(n, syntax.FieldArguments, args...)
	return n
}

// parseArguments parses '(' (['...'] assignment) ,* ')'.
func (p *Parser) parseArguments() []*syntax.Node {
	p.expect(token.LPAREN)
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	var args []*syntax.Node
	for !p.check(token.RPAREN) {
		args = append(args, p.parseSpreadOrAssignment())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseSpreadOrAssignment() *syntax.Node {
	if !p.check(token.ELLIPSIS) {
		return p.parseAssignment()
	}
	start := p.token.Pos
	p.nextToken()
	arg := p.parseAssignment()
	n := p.finish(syntax.SpreadElement, start)
	p.b.Set(n, syntax.FieldArgument, arg)
	return n
}

// parsePrimary parses literals, identifiers, grouping and 'new'.
func (p *Parser) parsePrimary() *syntax.Node {
	tok := p.token
	start := tok.Pos
	switch tok.Type {
	case token.IDENT:
		switch tok.Literal {
		case "this":
			p.nextToken()
			return p.finish(syntax.ThisExpression, start)
		case "true", "false", "null":
			p.nextToken()
			return p.keywordLiteral(tok)
		case "function":
			return p.parseFunction(start, 0, false)
		case "async":
			if p.peek(1).Is("function") && !p.peek(1).NewlineBefore {
				p.nextToken()
				return p.parseFunction(start, syntax.Async, false)
			}
		case "new":
			return p.parseNew()
		case "class":
			p.errorf(ErrUnsupported, "class expression")
		case "super", "import":
			p.nextToken()
			return p.ident(tok)
		}
		if token.IsReserved(tok.Literal) {
			p.errorf(ErrUnexpectedToken, describe(tok), "expression")
		}
		p.nextToken()
		return p.ident(tok)
	case token.NUMBER:
		p.nextToken()
		return p.numberLiteral(tok)
	case token.STRING:
		p.nextToken()
		return p.stringLiteral(tok)
	case token.REGEX:
		p.nextToken()
		return p.regexLiteral(tok)
	case token.TEMPLATE:
		p.nextToken()
		return p.templateLiteral(tok)
	case token.LPAREN:
		p.nextToken()
		saved := p.noIn
		p.noIn = false
		expr := p.parseExpression()
		p.noIn = saved
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	}
	p.errorf(ErrUnexpectedToken, describe(tok), "expression")
	return nil
}

// parseNew parses 'new' callee [type_args] [args].
func (p *Parser) parseNew() *syntax.Node {
	start := p.token.Pos
	p.expectWord("new")
	callee := p.parseCallMember(false)
	var typeArgs *syntax.Node
	if p.check(token.LT) && p.typeArgumentsAhead() {
		typeArgs = p.parseTypeArguments()
	}
	var args []*syntax.Node
	if p.check(token.LPAREN) {
		args = p.parseArguments()
	}
	n := p.finish(syntax.NewExpression, start)
	p.b.Set(n, syntax.FieldCallee, callee)
	p.b.Set(n, syntax.FieldTypeArguments, typeArgs)
	p.b.Append(n, syntax.FieldArguments, args...)
	return n
}

// parseArrayLiteral parses '[' (['...'] assignment) ,* ']'. Holes are
// dropped.
func (p *Parser) parseArrayLiteral() *syntax.Node {
	start := p.expect(token.LBRACKET).Pos
	saved := p.noIn
	p.noIn = false
	var elems []*syntax.Node
	for !p.check(token.RBRACKET) {
		if p.match(token.COMMA) {
			continue
		}
		elems = append(elems, p.parseSpreadOrAssignment())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.noIn = saved
	p.expect(token.RBRACKET)
	n := p.finish(syntax.ArrayExpression, start)
	p.b.Append(n, syntax.FieldElements, elems...)
	return n
}

// parseObjectLiteral parses '{' property ,* '}'. A shorthand property
// carries two Identifier nodes over the same span.
func (p *Parser) parseObjectLiteral() *syntax.Node {
	start := p.expect(token.LBRACE).Pos
	saved := p.noIn
	p.noIn = false
	var props []*syntax.Node
	for !p.check(token.RBRACE) {
		props = append(props, p.parseObjectMember())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.noIn = saved
	p.expect(token.RBRACE)
	n := p.finish(syntax.ObjectExpression, start)
	p.b.Append(n, syntax.FieldProperties, props...)
	return n
}

func (p *Parser) parseObjectMember() *syntax.Node {
	start := p.token.Pos
	if p.check(token.ELLIPSIS) {
		return p.parseSpreadOrAssignment()
	}

	variant := "init"
	var flags syntax.Flag
	if (p.checkWord("get") || p.checkWord("set") || p.checkWord("async")) && p.modifierApplies() {
		if p.checkWord("async") {
			flags |= syntax.Async
		} else {
			variant = p.token.Literal
		}
		p.nextToken()
	}
	key, computed := p.parsePropertyKey()
	var propFlags syntax.Flag
	if computed {
		propFlags |= syntax.Computed
	}

	var value *syntax.Node
	switch {
	case p.check(token.LPAREN) || p.check(token.LT):
		fnStart := p.token.Pos
		parts := p.parseFunctionParts(false, false)
		value = p.finish(syntax.FunctionExpression, fnStart)
		value.Flags |= flags
		p.setFunctionParts(value, parts)
	case p.match(token.COLON):
		value = p.parseAssignment()
	default:
		if key.Kind != syntax.Identifier || computed {
			p.errorf(ErrUnexpectedToken, describe(p.token), "':'")
		}
		propFlags |= syntax.Shorthand
		value = p.b.New(syntax.Identifier, key.Span)
		value.Name = key.Name
	}

	n := p.finish(syntax.Property, start)
	n.Variant = variant
	n.Flags |= propFlags
	p.b.Set(n, syntax.FieldKey, key)
	p.b.Set(n, syntax.FieldValue, value)
	return n
}
