package parser

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// Statement grammar:
//
//	import      → 'import' ['type'] [default [',']] ['*' 'as' id | '{' specs '}'] 'from' string ';'
//	export      → 'export' ('default' expr | declaration | ['type'] '{' specs '}' ['from' string] | '*' ['as' id] 'from' string)
//	variable    → ('const'|'let'|'var') declarator (',' declarator)* ';'
//	declarator  → binding ['!'] [':' type] ['=' assignment]
//	if          → 'if' '(' expr ')' statement ['else' statement]
//	switch      → 'switch' '(' expr ')' '{' (('case' expr | 'default') ':' statement*)* '}'
//	try         → 'try' block ['catch' ['(' binding ')'] block] ['finally' block]
//	for         → 'for' '(' (variable_head | expr)? (('of'|'in') expr | ';' expr? ';' expr?) ')' statement

// parseStatement parses one statement or declaration.
func (p *Parser) parseStatement() *syntax.Node {
	start := p.token.Pos
	switch p.token.Type {
	case token.AT:
		decorators := p.parseDecorators()
		if p.checkWord("export") {
			return p.parseExport(start, decorators)
		}
		return p.parseClass(start, decorators)
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMI:
		p.nextToken()
		return p.finish(syntax.EmptyStatement, start)
	case token.IDENT:
		if n := p.parseKeywordStatement(start); n != nil {
			return n
		}
	}
	return p.parseExpressionStatement()
}

// parseKeywordStatement dispatches statements introduced by a word. It
// returns nil when the word starts an expression instead.
func (p *Parser) parseKeywordStatement(start token.Position) *syntax.Node {
	next := p.peek(1)
	sameLine := !next.NewlineBefore
	switch p.token.Literal {
	case "import":
		if next.Type == token.LPAREN || next.Type == token.DOT {
			return nil
		}
		return p.parseImport()
	case "export":
		return p.parseExport(start, nil)
	case "class":
		return p.parseClass(start, nil)
	case "abstract":
		if next.Is("class") && sameLine {
			return p.parseClass(start, nil)
		}
	case "function":
		return p.parseFunction(start, 0, true)
	case "async":
		if next.Is("function") && sameLine {
			p.nextToken()
			return p.parseFunction(start, syntax.Async, true)
		}
	case "const":
		if next.Is("enum") {
			p.nextToken()
			return p.parseEnum(start)
		}
		return p.parseVariableStatement()
	case "let", "var":
		return p.parseVariableStatement()
	case "type":
		if next.Type == token.IDENT && sameLine {
			return p.parseTypeAlias(start)
		}
	case "interface":
		if next.Type == token.IDENT && sameLine {
			return p.parseInterface(start)
		}
	case "enum":
		return p.parseEnum(start)
	case "declare":
		if next.Type == token.IDENT && sameLine {
			p.nextToken()
			n := p.parseStatement()
			n.Flags |= syntax.Declare
			n.Span.Start = start
			return n
		}
	case "if":
		return p.parseIf()
	case "return":
		p.nextToken()
		var arg *syntax.Node
		if !p.check(token.SEMI) && !p.check(token.RBRACE) && !p.check(token.EOF) && !p.token.NewlineBefore {
			arg = p.parseExpression()
		}
		p.semicolon()
		n := p.finish(syntax.ReturnStatement, start)
		p.b.Set(n, syntax.FieldArgument, arg)
		return n
	case "throw":
		p.nextToken()
		arg := p.parseExpression()
		p.semicolon()
		n := p.finish(syntax.ThrowStatement, start)
		p.b.Set(n, syntax.FieldArgument, arg)
		return n
	case "switch":
		return p.parseSwitch()
	case "try":
		return p.parseTry()
	case "for":
		return p.parseFor()
	case "while":
		p.nextToken()
		p.expect(token.LPAREN)
		test := p.parseExpression()
		p.expect(token.RPAREN)
		body := p.parseStatement()
		n := p.finish(syntax.WhileStatement, start)
		p.b.Set(n, syntax.FieldTest, test)
		p.b.Set(n, syntax.FieldBody, body)
		return n
	case "break", "continue":
		kind := syntax.BreakStatement
		if p.token.Literal == "continue" {
			kind = syntax.ContinueStatement
		}
		p.nextToken()
		p.semicolon()
		return p.finish(kind, start)
	case "do", "with", "debugger":
		p.errorf(ErrUnsupported, p.token.Literal+" statement")
	}
	return nil
}

// parseExpressionStatement parses expr ';'.
func (p *Parser) parseExpressionStatement() *syntax.Node {
	start := p.token.Pos
	expr := p.parseExpression()
	p.semicolon()
	n := p.finish(syntax.ExpressionStatement, start)
	p.b.Set(n, syntax.FieldExpression, expr)
	return n
}

// parseBlock parses '{' statement* '}'.
func (p *Parser) parseBlock() *syntax.Node {
	start := p.expect(token.LBRACE).Pos
	var body []*syntax.Node
	for !p.check(token.RBRACE) {
		if p.check(token.EOF) {
			p.errorf(ErrUnexpectedToken, describe(p.token), "'}'")
		}
		body = append(body, p.parseStatement())
	}
	p.nextToken()
	n := p.finish(syntax.BlockStatement, start)
	p.b.Append(n, syntax.FieldBody, body...)
	return n
}

// ---------- Modules ----------

// parseImport parses an import declaration.
func (p *Parser) parseImport() *syntax.Node {
	start := p.token.Pos
	p.expectWord("import")

	var flags syntax.Flag
	variant := "value"
	if p.checkWord("type") && (p.peek(1).Type == token.LBRACE || p.peek(1).Type == token.STAR ||
		(p.peek(1).Type == token.IDENT && !p.peek(1).Is("from"))) {
		p.nextToken()
		flags |= syntax.TypeOnly
		variant = "type"
	}

	var specs []*syntax.Node
	if !p.check(token.STRING) {
		more := true
		if p.check(token.IDENT) {
			local := p.ident(p.expectIdent())
			spec := p.b.New(syntax.ImportDefaultSpecifier, local.Span)
			p.b.Set(spec, syntax.FieldLocal, local)
			specs = append(specs, spec)
			more = p.match(token.COMMA)
		}
		if more {
			switch {
			case p.check(token.STAR):
				s := p.token.Pos
				p.nextToken()
				p.expectWord("as")
				local := p.ident(p.expectIdent())
				spec := p.finish(syntax.ImportNamespaceSpecifier, s)
				p.b.Set(spec, syntax.FieldLocal, local)
				specs = append(specs, spec)
			case p.check(token.LBRACE):
				specs = append(specs, p.parseModuleSpecifiers(syntax.ImportSpecifier)...)
			default:
				p.errorf(ErrUnexpectedToken, describe(p.token), "import specifier")
			}
		}
		p.expectWord("from")
	}
	source := p.parseStringLiteral()
	p.semicolon()

	n := p.finish(syntax.ImportDeclaration, start)
	n.Flags |= flags
	n.Variant = variant
	p.b.Append(n, syntax.FieldSpecifiers, specs...)
	p.b.Set(n, syntax.FieldSource, source)
	return n
}

// parseModuleSpecifiers parses '{' (['type'] name ['as' name]) ,* '}' into
// ImportSpecifier or ExportSpecifier nodes. An unaliased specifier carries
// two Identifier nodes over the same span.
func (p *Parser) parseModuleSpecifiers(kind syntax.Kind) []*syntax.Node {
	p.expect(token.LBRACE)
	var specs []*syntax.Node
	for !p.check(token.RBRACE) {
		start := p.token.Pos
		var flags syntax.Flag
		if p.checkWord("type") && (p.peek(1).Type == token.IDENT || p.peek(1).Type == token.STRING) &&
			!p.peek(1).Is("as") {
			p.nextToken()
			flags |= syntax.TypeOnly
		}
		nameTok := p.token
		if nameTok.Type != token.IDENT && nameTok.Type != token.STRING {
			p.errorf(ErrUnexpectedToken, describe(nameTok), "specifier name")
		}
		p.nextToken()
		aliasTok := nameTok
		if p.matchWord("as") {
			aliasTok = p.token
			if aliasTok.Type != token.IDENT && aliasTok.Type != token.STRING {
				p.errorf(ErrUnexpectedToken, describe(aliasTok), "alias")
			}
			p.nextToken()
		}
		spec := p.finish(kind, start)
		spec.Flags |= flags
		if kind == syntax.ExportSpecifier {
			p.b.Set(spec, syntax.FieldLocal, p.moduleName(nameTok))
			p.b.Set(spec, syntax.FieldExported, p.moduleName(aliasTok))
		} else {
			p.b.Set(spec, syntax.FieldImported, p.moduleName(nameTok))
			p.b.Set(spec, syntax.FieldLocal, p.moduleName(aliasTok))
		}
		specs = append(specs, spec)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return specs
}

// moduleName builds an Identifier, or a string Literal for quoted names.
func (p *Parser) moduleName(tok token.Token) *syntax.Node {
	if tok.Type == token.STRING {
		return p.stringLiteral(tok)
	}
	return p.ident(tok)
}

// parseExport parses an export declaration. decorators were already read
// when the export is written after them.
func (p *Parser) parseExport(start token.Position, decorators []*syntax.Node) *syntax.Node {
	p.expectWord("export")
	if len(decorators) == 0 && p.check(token.AT) {
		decorators = p.parseDecorators()
	}

	if p.matchWord("default") {
		var decl *syntax.Node
		switch {
		case p.checkWord("class") || p.checkWord("abstract") || len(decorators) > 0:
			decl = p.parseClass(p.token.Pos, decorators)
		case p.checkWord("function"):
			decl = p.parseFunction(p.token.Pos, 0, false)
		case p.checkWord("async") && p.peek(1).Is("function"):
			fs := p.token.Pos
			p.nextToken()
			decl = p.parseFunction(fs, syntax.Async, false)
		case p.checkWord("interface"):
			decl = p.parseInterface(p.token.Pos)
		default:
			decl = p.parseAssignment()
			p.semicolon()
		}
		n := p.finish(syntax.ExportDefaultDeclaration, start)
		p.b.Set(n, syntax.FieldDeclaration, decl)
		return n
	}

	if p.check(token.STAR) {
		p.nextToken()
		var exported *syntax.Node
		if p.matchWord("as") {
			exported = p.ident(p.expectIdent())
		}
		p.expectWord("from")
		source := p.parseStringLiteral()
		p.semicolon()
		n := p.finish(syntax.ExportAllDeclaration, start)
		p.b.Set(n, syntax.FieldExported, exported)
		p.b.Set(n, syntax.FieldSource, source)
		return n
	}

	var flags syntax.Flag
	if p.checkWord("type") && p.peek(1).Type == token.LBRACE {
		p.nextToken()
		flags |= syntax.TypeOnly
	}
	if p.check(token.LBRACE) {
		specs := p.parseModuleSpecifiers(syntax.ExportSpecifier)
		var source *syntax.Node
		if p.matchWord("from") {
			source = p.parseStringLiteral()
		}
		p.semicolon()
		n := p.finish(syntax.ExportNamedDeclaration, start)
		n.Flags |= flags
		p.b.Append(n, syntax.FieldSpecifiers, specs...)
		p.b.Set(n, syntax.FieldSource, source)
		return n
	}

	var decl *syntax.Node
	if len(decorators) > 0 {
		decl = p.parseClass(decorators[0].Span.Start, decorators)
	} else {
		decl = p.parseStatement()
	}
	n := p.finish(syntax.ExportNamedDeclaration, start)
	p.b.Set(n, syntax.FieldDeclaration, decl)
	return n
}

// parseStringLiteral parses a STRING token into a Literal.
func (p *Parser) parseStringLiteral() *syntax.Node {
	tok := p.token
	if tok.Type != token.STRING {
		p.errorf(ErrUnexpectedToken, describe(tok), "string literal")
	}
	p.nextToken()
	return p.stringLiteral(tok)
}

// ---------- Variables ----------

// parseVariableStatement parses a variable declaration followed by ';'.
func (p *Parser) parseVariableStatement() *syntax.Node {
	n := p.parseVariableDeclaration(true)
	p.semicolon()
	p.extend(n)
	return n
}

// parseVariableDeclaration parses ('const'|'let'|'var') declarators without
// the terminator.
func (p *Parser) parseVariableDeclaration(allowIn bool) *syntax.Node {
	start := p.token.Pos
	variant := p.token.Literal
	p.nextToken()

	saved := p.noIn
	p.noIn = !allowIn
	defer func() { p.noIn = saved }()

	var decls []*syntax.Node
	for {
		ds := p.token.Pos
		id := p.parseBindingTarget()
		var flags syntax.Flag
		if p.check(token.BANG) {
			p.nextToken()
			flags |= syntax.Definite
		}
		if p.check(token.COLON) {
			p.b.Set(id, syntax.FieldTypeAnnotation, p.parseTypeAnnotation())
			p.extend(id)
		}
		var init *syntax.Node
		if p.match(token.ASSIGN) {
			init = p.parseAssignment()
		}
		d := p.finish(syntax.VariableDeclarator, ds)
		d.Flags |= flags
		p.b.Set(d, syntax.FieldID, id)
		p.b.Set(d, syntax.FieldInit, init)
		decls = append(decls, d)
		if !p.match(token.COMMA) {
			break
		}
	}
	n := p.finish(syntax.VariableDeclaration, start)
	n.Variant = variant
	p.b.Append(n, syntax.FieldDeclarations, decls...)
	return n
}

// ---------- Control Flow ----------

// parseIf parses an if statement.
func (p *Parser) parseIf() *syntax.Node {
	start := p.token.Pos
	p.expectWord("if")
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	cons := p.parseStatement()
	var alt *syntax.Node
	if p.matchWord("else") {
		alt = p.parseStatement()
	}
	n := p.finish(syntax.IfStatement, start)
	p.b.Set(n, syntax.FieldTest, test)
	p.b.Set(n, syntax.FieldConsequent, cons)
	p.b.Set(n, syntax.FieldAlternate, alt)
	return n
}

// parseSwitch parses a switch statement.
func (p *Parser) parseSwitch() *syntax.Node {
	start := p.token.Pos
	p.expectWord("switch")
	p.expect(token.LPAREN)
	disc := p.parseExpression()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	var cases []*syntax.Node
	for !p.match(token.RBRACE) {
		cs := p.token.Pos
		var test *syntax.Node
		switch {
		case p.matchWord("case"):
			test = p.parseExpression()
		case p.matchWord("default"):
		default:
			p.errorf(ErrUnexpectedToken, describe(p.token), "'case' or 'default'")
		}
		p.expect(token.COLON)
		var body []*syntax.Node
		for !p.checkWord("case") && !p.checkWord("default") && !p.check(token.RBRACE) {
			if p.check(token.EOF) {
				p.errorf(ErrUnexpectedToken, describe(p.token), "'}'")
			}
			body = append(body, p.parseStatement())
		}
		c := p.finish(syntax.SwitchCase, cs)
		p.b.Set(c, syntax.FieldTest, test)
		p.b.Append(c, syntax.FieldConsequent, body...)
		cases = append(cases, c)
	}
	n := p.finish(syntax.SwitchStatement, start)
	p.b.Set(n, syntax.FieldDiscriminant, disc)
	p.b.Append(n, syntax.FieldCases, cases...)
	return n
}

// parseTry parses a try statement.
func (p *Parser) parseTry() *syntax.Node {
	start := p.token.Pos
	p.expectWord("try")
	block := p.parseBlock()
	var handler, finalizer *syntax.Node
	if p.checkWord("catch") {
		cs := p.token.Pos
		p.nextToken()
		var param *syntax.Node
		if p.match(token.LPAREN) {
			param = p.parseBindingTarget()
			if p.check(token.COLON) {
				p.b.Set(param, syntax.FieldTypeAnnotation, p.parseTypeAnnotation())
				p.extend(param)
			}
			p.expect(token.RPAREN)
		}
		body := p.parseBlock()
		handler = p.finish(syntax.CatchClause, cs)
		p.b.Set(handler, syntax.FieldParam, param)
		p.b.Set(handler, syntax.FieldBody, body)
	}
	if p.matchWord("finally") {
		finalizer = p.parseBlock()
	}
	if handler == nil && finalizer == nil {
		p.errorf(ErrUnexpectedToken, describe(p.token), "'catch' or 'finally'")
	}
	n := p.finish(syntax.TryStatement, start)
	p.b.Set(n, syntax.FieldBlock, block)
	p.b.Set(n, syntax.FieldHandler, handler)
	p.b.Set(n, syntax.FieldFinalizer, finalizer)
	return n
}

// parseFor parses for, for-in and for-of statements.
func (p *Parser) parseFor() *syntax.Node {
	start := p.token.Pos
	p.expectWord("for")
	p.expect(token.LPAREN)

	var init *syntax.Node
	if !p.check(token.SEMI) {
		if p.checkWord("const") || p.checkWord("let") || p.checkWord("var") {
			init = p.parseVariableDeclaration(false)
		} else {
			saved := p.noIn
			p.noIn = true
			init = p.parseExpression()
			p.noIn = saved
		}
	}

	if init != nil && (p.checkWord("of") || p.checkWord("in")) {
		kind := syntax.ForOfStatement
		if p.token.Literal == "in" {
			kind = syntax.ForInStatement
		}
		p.nextToken()
		right := p.parseAssignment()
		p.expect(token.RPAREN)
		body := p.parseStatement()
		n := p.finish(kind, start)
		p.b.Set(n, syntax.FieldLeft, init)
		p.b.Set(n, syntax.FieldRight, right)
		p.b.Set(n, syntax.FieldBody, body)
		return n
	}

	p.expect(token.SEMI)
	var test, update *syntax.Node
	if !p.check(token.SEMI) {
		test = p.parseExpression()
	}
	p.expect(token.SEMI)
	if !p.check(token.RPAREN) {
		update = p.parseExpression()
	}
	p.expect(token.RPAREN)
	body := p.parseStatement()
	n := p.finish(syntax.ForStatement, start)
	p.b.Set(n, syntax.FieldInit, init)
	p.b.Set(n, syntax.FieldTest, test)
	p.b.Set(n, syntax.FieldUpdate, update)
	p.b.Set(n, syntax.FieldBody, body)
	return n
}
