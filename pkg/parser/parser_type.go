package parser

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// Type grammar:
//
//	type        → ['|'] intersection ('|' intersection)*
//	intersection→ ['&'] operator ('&' operator)*
//	operator    → ('keyof'|'readonly'|'unique') operator | postfix
//	postfix     → primary ('[' ']')*
//	primary     → '(' type ')' | function_type | '{' members '}' | '[' types ']'
//	              | literal | 'typeof' entity | keyword | entity [type_args]
//	type_alias  → 'type' id [type_params] '=' type ';'
//	interface   → 'interface' id [type_params] ['extends' ref (',' ref)*] '{' members '}'

var typeKeywords = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true, "unknown": true,
	"never": true, "void": true, "undefined": true, "null": true, "object": true,
	"symbol": true, "bigint": true, "this": true,
}

// parseTypeAnnotation parses ':' type into a TSTypeAnnotation.
func (p *Parser) parseTypeAnnotation() *syntax.Node {
	start := p.expect(token.COLON).Pos
	typ := p.parseType()
	n := p.finish(syntax.TSTypeAnnotation, start)
	p.b.Set(n, syntax.FieldTypeAnnotation, typ)
	return n
}

// parseType parses a type.
func (p *Parser) parseType() *syntax.Node {
	return p.parseComposite(token.PIPE, syntax.TSUnionType, p.parseIntersectionType)
}

func (p *Parser) parseIntersectionType() *syntax.Node {
	return p.parseComposite(token.AMP, syntax.TSIntersectionType, p.parseTypeOperator)
}

// parseComposite parses [sep] elem (sep elem)*; a single element is
// returned as is.
func (p *Parser) parseComposite(sep token.TokenType, kind syntax.Kind, elem func() *syntax.Node) *syntax.Node {
	start := p.token.Pos
	p.match(sep)
	types := []*syntax.Node{elem()}
	for p.match(sep) {
		types = append(types, elem())
	}
	if len(types) == 1 {
		return types[0]
	}
	n := p.finish(kind, start)
	p.b.Append(n, syntax.FieldTypes, types...)
	return n
}

func (p *Parser) parseTypeOperator() *syntax.Node {
	start := p.token.Pos
	if (p.checkWord("keyof") || p.checkWord("readonly") || p.checkWord("unique")) && p.startsType(p.peek(1)) {
		op := p.token.Literal
		p.nextToken()
		arg := p.parseTypeOperator()
		n := p.finish(syntax.TSTypeOperator, start)
		n.Operator = op
		p.b.Set(n, syntax.FieldTypeAnnotation, arg)
		return n
	}
	typ := p.parsePrimaryType()
	for p.check(token.LBRACKET) && !p.token.NewlineBefore {
		if p.peek(1).Type != token.RBRACKET {
			p.errorf(ErrUnsupported, "indexed access type")
		}
		p.nextToken()
		p.nextToken()
		arr := p.finish(syntax.TSArrayType, start)
		p.b.Set(arr, syntax.FieldElementType, typ)
		typ = arr
	}
	return typ
}

func (p *Parser) startsType(tok token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.LPAREN, token.LBRACE, token.LBRACKET, token.STRING, token.NUMBER:
		return true
	}
	return false
}

// parsePrimaryType parses a non-composite type.
func (p *Parser) parsePrimaryType() *syntax.Node {
	tok := p.token
	start := tok.Pos
	switch tok.Type {
	case token.LPAREN:
		if p.functionTypeAhead() {
			return p.parseFunctionType()
		}
		p.nextToken()
		typ := p.parseType()
		p.expect(token.RPAREN)
		return typ
	case token.LT:
		return p.parseFunctionType()
	case token.LBRACE:
		members := p.parseTypeMembers()
		n := p.finish(syntax.TSTypeLiteral, start)
		p.b.Append(n, syntax.FieldMembers, members...)
		return n
	case token.LBRACKET:
		p.nextToken()
		var elems []*syntax.Node
		for !p.check(token.RBRACKET) {
			elems = append(elems, p.parseType())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACKET)
		n := p.finish(syntax.TSTupleType, start)
		p.b.Append(n, syntax.FieldTypes, elems...)
		return n
	case token.STRING:
		p.nextToken()
		return p.literalType(start, p.stringLiteral(tok))
	case token.NUMBER:
		p.nextToken()
		return p.literalType(start, p.numberLiteral(tok))
	case token.MINUS:
		p.nextToken()
		num := p.token
		p.expect(token.NUMBER)
		lit := p.finish(syntax.Literal, start)
		lit.Variant = "number"
		lit.Raw = "-" + num.Literal
		lit.Value = "-" + num.Literal
		return p.literalType(start, lit)
	case token.TEMPLATE:
		p.errorf(ErrUnsupported, "template literal type")
	case token.IDENT:
		switch {
		case tok.Literal == "true" || tok.Literal == "false":
			p.nextToken()
			return p.literalType(start, p.keywordLiteral(tok))
		case tok.Literal == "typeof":
			p.nextToken()
			name := p.parseEntityName()
			n := p.finish(syntax.TSTypeQuery, start)
			p.b.Set(n, syntax.FieldExprName, name)
			return n
		case typeKeywords[tok.Literal] && p.peek(1).Type != token.DOT:
			p.nextToken()
			n := p.finish(syntax.TSKeyword, start)
			n.Name = tok.Literal
			return n
		case tok.Literal == "infer" || tok.Literal == "new" || tok.Literal == "asserts":
			p.errorf(ErrUnsupported, tok.Literal+" type")
		}
		name := p.parseEntityName()
		var args *syntax.Node
		if p.check(token.LT) && !p.token.NewlineBefore {
			args = p.parseTypeArguments()
		}
		if p.checkWord("extends") && !p.token.NewlineBefore {
			p.errorf(ErrUnsupported, "conditional type")
		}
		if p.checkWord("is") && !p.token.NewlineBefore {
			p.errorf(ErrUnsupported, "type predicate")
		}
		n := p.finish(syntax.TSTypeReference, start)
		p.b.Set(n, syntax.FieldTypeName, name)
		p.b.Set(n, syntax.FieldTypeArguments, args)
		return n
	}
	p.errorf(ErrUnexpectedToken, describe(tok), "type")
	return nil
}

func (p *Parser) literalType(start token.Position, lit *syntax.Node) *syntax.Node {
	n := p.finish(syntax.TSLiteralType, start)
	p.b.Set(n, syntax.FieldLiteral, lit)
	return n
}

// parseEntityName parses id ('.' id)* into an Identifier or TSQualifiedName.
func (p *Parser) parseEntityName() *syntax.Node {
	start := p.token.Pos
	name := p.ident(p.expectAnyWord())
	for p.check(token.DOT) {
		p.nextToken()
		right := p.ident(p.expectAnyWord())
		q := p.finish(syntax.TSQualifiedName, start)
		p.b.Set(q, syntax.FieldLeft, name)
		p.b.Set(q, syntax.FieldRight, right)
		name = q
	}
	return name
}

// parseTypeArguments parses '<' type (',' type)* '>'.
func (p *Parser) parseTypeArguments() *syntax.Node {
	start := p.expect(token.LT).Pos
	var params []*syntax.Node
	for !p.check(token.GT) {
		params = append(params, p.parseType())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	n := p.finish(syntax.TSTypeParameterInstantiation, start)
	p.b.Append(n, syntax.FieldParams, params...)
	return n
}

// parseTypeParameters parses '<' (id ['extends' type] ['=' type]) ,* '>'.
func (p *Parser) parseTypeParameters() *syntax.Node {
	start := p.expect(token.LT).Pos
	var params []*syntax.Node
	for !p.check(token.GT) {
		ps := p.token.Pos
		if p.checkWord("const") || p.checkWord("in") || p.checkWord("out") {
			if p.peek(1).Type == token.IDENT {
				p.nextToken()
			}
		}
		name := p.expectIdent()
		var constraint, def *syntax.Node
		if p.matchWord("extends") {
			constraint = p.parseType()
		}
		if p.match(token.ASSIGN) {
			def = p.parseType()
		}
		tp := p.finish(syntax.TSTypeParameter, ps)
		tp.Name = name.Literal
		p.b.Set(tp, syntax.FieldConstraint, constraint)
		p.b.Set(tp, syntax.FieldDefault, def)
		params = append(params, tp)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.GT)
	n := p.finish(syntax.TSTypeParameterDeclaration, start)
	p.b.Append(n, syntax.FieldParams, params...)
	return n
}

// parseFunctionType parses [type_params] params '=>' type.
func (p *Parser) parseFunctionType() *syntax.Node {
	start := p.token.Pos
	var typeParams *syntax.Node
	if p.check(token.LT) {
		typeParams = p.parseTypeParameters()
	}
	params := p.parseParams(false)
	arrow := p.expect(token.ARROW).Pos
	ret := p.parseType()
	ann := p.finish(syntax.TSTypeAnnotation, arrow)
	p.b.Set(ann, syntax.FieldTypeAnnotation, ret)

	n := p.finish(syntax.TSFunctionType, start)
	p.b.Set(n, syntax.FieldTypeParameters, typeParams)
	p.b.Append(n, syntax.FieldParams, params...)
	p.b.Set(n, syntax.FieldReturnType, ann)
	return n
}

// parseTypeMembers parses '{' member (sep member)* '}' where sep is ';', ','
// or a line break.
func (p *Parser) parseTypeMembers() []*syntax.Node {
	p.expect(token.LBRACE)
	var members []*syntax.Node
	for !p.check(token.RBRACE) {
		if p.check(token.EOF) {
			p.errorf(ErrUnexpectedToken, describe(p.token), "'}'")
		}
		members = append(members, p.parseTypeMember())
		if !p.match(token.SEMI) && !p.match(token.COMMA) && !p.check(token.RBRACE) && !p.token.NewlineBefore {
			p.errorf(ErrMissingSemicolon, describe(p.token))
		}
	}
	p.nextToken()
	return members
}

// parseTypeMember parses a property, method or index signature.
func (p *Parser) parseTypeMember() *syntax.Node {
	start := p.token.Pos
	var flags syntax.Flag
	if p.checkWord("readonly") && p.modifierApplies() {
		p.nextToken()
		flags |= syntax.Readonly
	}
	if p.check(token.LPAREN) || p.check(token.LT) {
		p.errorf(ErrUnsupported, "call signature")
	}

	var key *syntax.Node
	if p.check(token.LBRACKET) && p.peek(1).Type == token.IDENT && p.peek(2).Type == token.COLON {
		// index signature: [key: K]: V
		p.nextToken()
		key = p.ident(p.expectAnyWord())
		p.b.Set(key, syntax.FieldTypeAnnotation, p.parseTypeAnnotation())
		p.extend(key)
		p.expect(token.RBRACKET)
		flags |= syntax.Computed
	} else {
		var computed bool
		key, computed = p.parsePropertyKey()
		if computed {
			flags |= syntax.Computed
		}
	}
	if p.match(token.QUESTION) {
		flags |= syntax.Optional
	}

	var typeAnn *syntax.Node
	variant := ""
	switch {
	case p.check(token.LPAREN) || p.check(token.LT):
		variant = "method"
		fs := p.token.Pos
		var typeParams, ret *syntax.Node
		if p.check(token.LT) {
			typeParams = p.parseTypeParameters()
		}
		params := p.parseParams(false)
		if p.check(token.COLON) {
			ret = p.parseTypeAnnotation()
		}
		fn := p.finish(syntax.TSFunctionType, fs)
		p.b.Set(fn, syntax.FieldTypeParameters, typeParams)
		p.b.Append(fn, syntax.FieldParams, params...)
		p.b.Set(fn, syntax.FieldReturnType, ret)
		typeAnn = p.b.New(syntax.TSTypeAnnotation, fn.Span)
		p.b.Set(typeAnn, syntax.FieldTypeAnnotation, fn)
	case p.check(token.COLON):
		typeAnn = p.parseTypeAnnotation()
	}

	n := p.finish(syntax.TSPropertySignature, start)
	n.Flags |= flags
	n.Variant = variant
	p.b.Set(n, syntax.FieldKey, key)
	p.b.Set(n, syntax.FieldTypeAnnotation, typeAnn)
	return n
}

// parseTypeAlias parses a type alias declaration.
func (p *Parser) parseTypeAlias(start token.Position) *syntax.Node {
	p.expectWord("type")
	id := p.ident(p.expectIdent())
	var typeParams *syntax.Node
	if p.check(token.LT) {
		typeParams = p.parseTypeParameters()
	}
	p.expect(token.ASSIGN)
	typ := p.parseType()
	p.semicolon()
	n := p.finish(syntax.TSTypeAliasDeclaration, start)
	p.b.Set(n, syntax.FieldID, id)
	p.b.Set(n, syntax.FieldTypeParameters, typeParams)
	p.b.Set(n, syntax.FieldTypeAnnotation, typ)
	return n
}

// parseInterface parses an interface declaration.
func (p *Parser) parseInterface(start token.Position) *syntax.Node {
	p.expectWord("interface")
	id := p.ident(p.expectIdent())
	var typeParams *syntax.Node
	if p.check(token.LT) {
		typeParams = p.parseTypeParameters()
	}
	var extends []*syntax.Node
	if p.matchWord("extends") {
		for {
			es := p.token.Pos
			name := p.parseEntityName()
			var args *syntax.Node
			if p.check(token.LT) {
				args = p.parseTypeArguments()
			}
			ref := p.finish(syntax.TSTypeReference, es)
			p.b.Set(ref, syntax.FieldTypeName, name)
			p.b.Set(ref, syntax.FieldTypeArguments, args)
			extends = append(extends, ref)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	bs := p.token.Pos
	members := p.parseTypeMembers()
	body := p.finish(syntax.TSInterfaceBody, bs)
	p.b.Append(body, syntax.FieldBody, members...)

	n := p.finish(syntax.TSInterfaceDeclaration, start)
	p.b.Set(n, syntax.FieldID, id)
	p.b.Set(n, syntax.FieldTypeParameters, typeParams)
	p.b.Append(n, syntax.FieldExtends, extends...)
	p.b.Set(n, syntax.FieldBody, body)
	return n
}
