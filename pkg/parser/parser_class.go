package parser

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// Class and function grammar:
//
//	class     → decorator* ['abstract'] 'class' [id] [type_params] ['extends' lhs [type_args]]
//	            ['implements' ref (',' ref)*] '{' member* '}'
//	member    → decorator* modifier* key ['?'|'!'] (method_rest | [':' type] ['=' assignment] ';')
//	function  → ['async'] 'function' [id] [type_params] params [':' type] block
//	params    → '(' (param (',' param)*)? [','] ')'
//	param     → decorator* modifier* ['...'] binding ['?'] [':' type] ['=' assignment]

// parseDecorators parses '@' lhs, repeatedly.
func (p *Parser) parseDecorators() []*syntax.Node {
	var out []*syntax.Node
	for p.check(token.AT) {
		start := p.token.Pos
		p.nextToken()
		expr := p.parseCallMember(true)
		d := p.finish(syntax.Decorator, start)
		p.b.Set(d, syntax.FieldExpression, expr)
		out = append(out, d)
	}
	return out
}

// parseClass parses a class declaration. start is the position of the first
// decorator when present.
func (p *Parser) parseClass(start token.Position, decorators []*syntax.Node) *syntax.Node {
	var flags syntax.Flag
	if p.matchWord("abstract") {
		flags |= syntax.Abstract
	}
	p.expectWord("class")

	var id, typeParams, super, superArgs *syntax.Node
	if p.check(token.IDENT) && !p.checkWord("extends") && !p.checkWord("implements") {
		id = p.ident(p.expectIdent())
	}
	if p.check(token.LT) {
		typeParams = p.parseTypeParameters()
	}
	if p.matchWord("extends") {
		super = p.parseCallMember(true)
		if p.check(token.LT) {
			superArgs = p.parseTypeArguments()
		}
	}
	var impls []*syntax.Node
	if p.matchWord("implements") {
		for {
			is := p.token.Pos
			expr := p.parseEntityExpression()
			var args *syntax.Node
			if p.check(token.LT) {
				args = p.parseTypeArguments()
			}
			impl := p.finish(syntax.TSClassImplements, is)
			p.b.Set(impl, syntax.FieldExpression, expr)
			p.b.Set(impl, syntax.FieldTypeArguments, args)
			impls = append(impls, impl)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	body := p.parseClassBody()

	n := p.finish(syntax.ClassDeclaration, start)
	n.Flags |= flags
	p.b.Append(n, syntax.FieldDecorators, decorators...)
	p.b.Set(n, syntax.FieldID, id)
	p.b.Set(n, syntax.FieldTypeParameters, typeParams)
	p.b.Set(n, syntax.FieldSuperClass, super)
	p.b.Set(n, syntax.FieldSuperTypeArguments, superArgs)
	p.b.Append(n, syntax.FieldImplements, impls...)
	p.b.Set(n, syntax.FieldBody, body)
	return n
}

// parseEntityExpression parses id ('.' id)* as an expression.
func (p *Parser) parseEntityExpression() *syntax.Node {
	start := p.token.Pos
	expr := p.ident(p.expectIdent())
	for p.check(token.DOT) {
		p.nextToken()
		prop := p.ident(p.expectAnyWord())
		m := p.finish(syntax.MemberExpression, start)
		p.b.Set(m, syntax.FieldObject, expr)
		p.b.Set(m, syntax.FieldProperty, prop)
		expr = m
	}
	return expr
}

// expectAnyWord consumes an identifier token, reserved words included.
func (p *Parser) expectAnyWord() token.Token {
	tok := p.token
	if tok.Type != token.IDENT {
		p.errorf(ErrUnexpectedToken, describe(tok), "name")
	}
	p.nextToken()
	return tok
}

// parseClassBody parses '{' member* '}'.
func (p *Parser) parseClassBody() *syntax.Node {
	start := p.expect(token.LBRACE).Pos
	var members []*syntax.Node
	for !p.check(token.RBRACE) {
		if p.match(token.SEMI) {
			continue
		}
		if p.check(token.EOF) {
			p.errorf(ErrUnexpectedToken, describe(p.token), "'}'")
		}
		members = append(members, p.parseClassMember())
	}
	p.nextToken()
	n := p.finish(syntax.ClassBody, start)
	p.b.Append(n, syntax.FieldBody, members...)
	return n
}

// modifierApplies reports whether the current word is used as a modifier
// rather than as a member or parameter name.
func (p *Parser) modifierApplies() bool {
	next := p.peek(1)
	switch next.Type {
	case token.IDENT, token.STRING, token.NUMBER, token.LBRACKET, token.HASH, token.LBRACE:
		return !(p.checkWord("async") && next.NewlineBefore)
	}
	return false
}

// parseClassMember parses a property, method, accessor or constructor.
func (p *Parser) parseClassMember() *syntax.Node {
	start := p.token.Pos
	decorators := p.parseDecorators()

	var flags syntax.Flag
	var accessibility, accessor string
modifiers:
	for p.check(token.IDENT) && p.modifierApplies() {
		switch p.token.Literal {
		case "public", "private", "protected":
			accessibility = p.token.Literal
		case "static":
			if p.peek(1).Type == token.LBRACE {
				p.errorf(ErrUnsupported, "static block")
			}
			flags |= syntax.Static
		case "readonly":
			flags |= syntax.Readonly
		case "abstract":
			flags |= syntax.Abstract
		case "override":
			flags |= syntax.Override
		case "declare":
			flags |= syntax.Declare
		case "async":
			flags |= syntax.Async
		case "get", "set":
			accessor = p.token.Literal
		default:
			break modifiers
		}
		p.nextToken()
	}
	key, computed := p.parsePropertyKey()
	if computed {
		flags |= syntax.Computed
	}
	if p.match(token.QUESTION) {
		flags |= syntax.Optional
	} else if p.check(token.BANG) && !p.token.NewlineBefore {
		p.nextToken()
		flags |= syntax.Definite
	}

	if p.check(token.LPAREN) || p.check(token.LT) {
		variant := "method"
		if accessor != "" {
			variant = accessor
		} else if !computed && key.Kind == syntax.Identifier && key.Name == "constructor" {
			variant = "constructor"
		}
		fnStart := p.token.Pos
		parts := p.parseFunctionParts(variant == "constructor", true)
		fn := p.finish(syntax.FunctionExpression, fnStart)
		fn.Flags |= flags & syntax.Async
		p.setFunctionParts(fn, parts)

		m := p.finish(syntax.MethodDefinition, start)
		m.Variant = variant
		m.Accessibility = accessibility
		m.Flags |= flags &^ syntax.Async
		p.b.Append(m, syntax.FieldDecorators, decorators...)
		p.b.Set(m, syntax.FieldKey, key)
		p.b.Set(m, syntax.FieldValue, fn)
		return m
	}
	var typeAnn, value *syntax.Node
	if p.check(token.COLON) {
		typeAnn = p.parseTypeAnnotation()
	}
	if p.match(token.ASSIGN) {
		value = p.parseAssignment()
	}
	p.semicolon()

	n := p.finish(syntax.PropertyDefinition, start)
	n.Accessibility = accessibility
	n.Flags |= flags
	p.b.Append(n, syntax.FieldDecorators, decorators...)
	p.b.Set(n, syntax.FieldKey, key)
	p.b.Set(n, syntax.FieldTypeAnnotation, typeAnn)
	p.b.Set(n, syntax.FieldValue, value)
	return n
}

// parsePropertyKey parses a member or property name. Computed keys return
// the inner expression.
func (p *Parser) parsePropertyKey() (*syntax.Node, bool) {
	tok := p.token
	switch tok.Type {
	case token.IDENT:
		p.nextToken()
		return p.ident(tok), false
	case token.STRING:
		p.nextToken()
		return p.stringLiteral(tok), false
	case token.NUMBER:
		p.nextToken()
		return p.numberLiteral(tok), false
	case token.HASH:
		p.nextToken()
		name := p.expectAnyWord()
		id := p.finish(syntax.Identifier, tok.Pos)
		id.Name = "#" + name.Literal
		return id, false
	case token.LBRACKET:
		p.nextToken()
		if p.check(token.IDENT) && p.peek(1).Type == token.COLON {
			p.errorf(ErrUnsupported, "index signature")
		}
		expr := p.parseAssignment()
		p.expect(token.RBRACKET)
		return expr, true
	}
	p.errorf(ErrUnexpectedToken, describe(tok), "property name")
	return nil, false
}

// ---------- Functions ----------

type functionParts struct {
	typeParams *syntax.Node
	params     []*syntax.Node
	returnType *syntax.Node
	body       *syntax.Node
}

// parseFunction parses a function declaration or expression after any
// 'async' modifier. start is the position of the first token.
func (p *Parser) parseFunction(start token.Position, flags syntax.Flag, declaration bool) *syntax.Node {
	p.expectWord("function")
	if p.check(token.STAR) {
		p.errorf(ErrUnsupported, "generator function")
	}
	var id *syntax.Node
	if p.check(token.IDENT) {
		id = p.ident(p.expectIdent())
	}
	parts := p.parseFunctionParts(false, false)
	kind := syntax.FunctionExpression
	if declaration {
		kind = syntax.FunctionDeclaration
	}
	n := p.finish(kind, start)
	n.Flags |= flags
	p.b.Set(n, syntax.FieldID, id)
	p.setFunctionParts(n, parts)
	return n
}

// parseFunctionParts parses [type_params] params [':' type] block. With
// bodyOptional a missing body is terminated like a statement (overloads and
// abstract members).
func (p *Parser) parseFunctionParts(allowParamProps, bodyOptional bool) functionParts {
	var fp functionParts
	if p.check(token.LT) {
		fp.typeParams = p.parseTypeParameters()
	}
	fp.params = p.parseParams(allowParamProps)
	if p.check(token.COLON) {
		fp.returnType = p.parseTypeAnnotation()
	}
	if bodyOptional && !p.check(token.LBRACE) {
		p.semicolon()
		return fp
	}
	fp.body = p.parseBlock()
	return fp
}

func (p *Parser) setFunctionParts(n *syntax.Node, fp functionParts) {
	p.b.Set(n, syntax.FieldTypeParameters, fp.typeParams)
	p.b.Append(n, syntax.FieldParams, fp.params...)
	p.b.Set(n, syntax.FieldReturnType, fp.returnType)
	p.b.Set(n, syntax.FieldBody, fp.body)
}

// parseParams parses a parenthesized parameter list.
func (p *Parser) parseParams(allowParamProps bool) []*syntax.Node {
	p.expect(token.LPAREN)
	var params []*syntax.Node
	for !p.check(token.RPAREN) {
		params = append(params, p.parseParam(allowParamProps))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseParam parses one parameter. Constructor parameters with modifiers
// become TSParameterProperty nodes.
func (p *Parser) parseParam(allowParamProps bool) *syntax.Node {
	start := p.token.Pos
	decorators := p.parseDecorators()

	var flags syntax.Flag
	var accessibility string
modifiers:
	for allowParamProps && p.check(token.IDENT) && p.modifierApplies() {
		switch p.token.Literal {
		case "public", "private", "protected":
			accessibility = p.token.Literal
		case "readonly":
			flags |= syntax.Readonly
		case "override":
			flags |= syntax.Override
		default:
			break modifiers
		}
		p.nextToken()
	}
	param := p.parseBindingElement()

	if accessibility != "" || flags != 0 {
		pp := p.finish(syntax.TSParameterProperty, start)
		pp.Accessibility = accessibility
		pp.Flags |= flags
		p.b.Append(pp, syntax.FieldDecorators, decorators...)
		p.b.Set(pp, syntax.FieldParameter, param)
		return pp
	}
	if len(decorators) > 0 {
		if !syntax.IsListField(param.Kind, syntax.FieldDecorators) {
			p.errorf(ErrUnsupported, "decorated rest parameter")
		}
		param.Span.Start = start
		p.b.Append(param, syntax.FieldDecorators, decorators...)
	}
	return param
}

// parseBindingElement parses ['...'] binding ['?'] [':' type] ['=' default].
func (p *Parser) parseBindingElement() *syntax.Node {
	start := p.token.Pos
	if p.match(token.ELLIPSIS) {
		arg := p.parseBindingTarget()
		var typeAnn *syntax.Node
		if p.check(token.COLON) {
			typeAnn = p.parseTypeAnnotation()
		}
		rest := p.finish(syntax.RestElement, start)
		p.b.Set(rest, syntax.FieldArgument, arg)
		p.b.Set(rest, syntax.FieldTypeAnnotation, typeAnn)
		return rest
	}
	target := p.parseBindingTarget()
	if p.match(token.QUESTION) {
		target.Flags |= syntax.Optional
		p.extend(target)
	}
	if p.check(token.COLON) {
		p.b.Set(target, syntax.FieldTypeAnnotation, p.parseTypeAnnotation())
		p.extend(target)
	}
	if p.match(token.ASSIGN) {
		right := p.parseAssignment()
		ap := p.finish(syntax.AssignmentPattern, start)
		p.b.Set(ap, syntax.FieldLeft, target)
		p.b.Set(ap, syntax.FieldRight, right)
		return ap
	}
	return target
}

// parseBindingTarget parses an identifier or object pattern.
func (p *Parser) parseBindingTarget() *syntax.Node {
	switch {
	case p.check(token.IDENT):
		tok := p.token
		if token.IsReserved(tok.Literal) && tok.Literal != "this" {
			p.errorf(ErrUnexpectedToken, describe(tok), "binding name")
		}
		p.nextToken()
		return p.ident(tok)
	case p.check(token.LBRACE):
		return p.parseObjectPattern()
	case p.check(token.LBRACKET):
		p.errorf(ErrUnsupported, "array destructuring")
	}
	p.errorf(ErrUnexpectedToken, describe(p.token), "binding name")
	return nil
}

// parseObjectPattern parses '{' (prop | '...' id) ,* '}'.
func (p *Parser) parseObjectPattern() *syntax.Node {
	start := p.expect(token.LBRACE).Pos
	var props []*syntax.Node
	for !p.check(token.RBRACE) {
		ps := p.token.Pos
		if p.match(token.ELLIPSIS) {
			arg := p.parseBindingTarget()
			rest := p.finish(syntax.RestElement, ps)
			p.b.Set(rest, syntax.FieldArgument, arg)
			props = append(props, rest)
		} else {
			key, computed := p.parsePropertyKey()
			var value *syntax.Node
			var flags syntax.Flag
			if computed {
				flags |= syntax.Computed
			}
			if p.match(token.COLON) {
				value = p.parseBindingTarget()
			} else {
				if key.Kind != syntax.Identifier {
					p.errorf(ErrUnexpectedToken, describe(p.token), "':'")
				}
				flags |= syntax.Shorthand
				value = p.b.New(syntax.Identifier, key.Span)
				value.Name = key.Name
			}
			if p.match(token.ASSIGN) {
				right := p.parseAssignment()
				ap := p.finish(syntax.AssignmentPattern, value.Span.Start)
				p.b.Set(ap, syntax.FieldLeft, value)
				p.b.Set(ap, syntax.FieldRight, right)
				value = ap
			}
			prop := p.finish(syntax.Property, ps)
			prop.Variant = "init"
			prop.Flags |= flags
			p.b.Set(prop, syntax.FieldKey, key)
			p.b.Set(prop, syntax.FieldValue, value)
			props = append(props, prop)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	n := p.finish(syntax.ObjectPattern, start)
	p.b.Append(n, syntax.FieldProperties, props...)
	return n
}

// ---------- Enums ----------

// parseEnum parses 'enum' id '{' (name ['=' assignment]) ,* '}'.
func (p *Parser) parseEnum(start token.Position) *syntax.Node {
	p.expectWord("enum")
	id := p.ident(p.expectIdent())
	p.expect(token.LBRACE)
	var members []*syntax.Node
	for !p.check(token.RBRACE) {
		ms := p.token.Pos
		nameTok := p.token
		var name *syntax.Node
		switch nameTok.Type {
		case token.IDENT:
			name = p.ident(nameTok)
		case token.STRING:
			name = p.stringLiteral(nameTok)
		default:
			p.errorf(ErrUnexpectedToken, describe(nameTok), "enum member")
		}
		p.nextToken()
		var init *syntax.Node
		if p.match(token.ASSIGN) {
			init = p.parseAssignment()
		}
		m := p.finish(syntax.TSEnumMember, ms)
		p.b.Set(m, syntax.FieldID, name)
		p.b.Set(m, syntax.FieldInit, init)
		members = append(members, m)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	n := p.finish(syntax.TSEnumDeclaration, start)
	p.b.Set(n, syntax.FieldID, id)
	p.b.Append(n, syntax.FieldMembers, members...)
	return n
}
