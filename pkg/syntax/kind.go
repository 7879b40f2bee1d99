package syntax

import "fmt"

// Kind is the node-kind tag of a SyntaxNode. Names follow the ESTree /
// typescript-estree vocabulary so that selectors read the same way they do in
// the JavaScript ecosystem.
type Kind uint16

// Node kinds.
const (
	Invalid Kind = iota

	Program

	// Modules
	ImportDeclaration
	ImportSpecifier
	ImportDefaultSpecifier
	ImportNamespaceSpecifier
	ExportNamedDeclaration
	ExportDefaultDeclaration
	ExportAllDeclaration
	ExportSpecifier

	// Classes
	ClassDeclaration
	ClassBody
	PropertyDefinition
	MethodDefinition
	TSParameterProperty
	Decorator
	TSClassImplements

	// Functions
	FunctionDeclaration
	FunctionExpression
	ArrowFunctionExpression

	// Statements
	VariableDeclaration
	VariableDeclarator
	BlockStatement
	ExpressionStatement
	ReturnStatement
	IfStatement
	ThrowStatement
	EmptyStatement
	SwitchStatement
	SwitchCase
	TryStatement
	CatchClause
	ForStatement
	ForInStatement
	ForOfStatement
	WhileStatement
	BreakStatement
	ContinueStatement

	// Expressions
	Identifier
	Literal
	TemplateLiteral
	ThisExpression
	CallExpression
	NewExpression
	MemberExpression
	ObjectExpression
	Property
	ArrayExpression
	SpreadElement
	RestElement
	ObjectPattern
	AssignmentPattern
	BinaryExpression
	LogicalExpression
	UnaryExpression
	UpdateExpression
	ConditionalExpression
	AssignmentExpression
	AwaitExpression
	TSAsExpression
	TSNonNullExpression

	// Types
	TSTypeAnnotation
	TSTypeReference
	TSQualifiedName
	TSTypeParameterInstantiation
	TSTypeParameterDeclaration
	TSTypeParameter
	TSUnionType
	TSIntersectionType
	TSLiteralType
	TSKeyword
	TSTypeLiteral
	TSPropertySignature
	TSArrayType
	TSFunctionType
	TSTypeQuery
	TSTupleType
	TSTypeOperator
	TSTypeAliasDeclaration
	TSInterfaceDeclaration
	TSInterfaceBody
	TSEnumDeclaration
	TSEnumMember

	numKinds
)

var kindNames = [numKinds]string{
	Invalid:                      "Invalid",
	Program:                      "Program",
	ImportDeclaration:            "ImportDeclaration",
	ImportSpecifier:              "ImportSpecifier",
	ImportDefaultSpecifier:       "ImportDefaultSpecifier",
	ImportNamespaceSpecifier:     "ImportNamespaceSpecifier",
	ExportNamedDeclaration:       "ExportNamedDeclaration",
	ExportDefaultDeclaration:     "ExportDefaultDeclaration",
	ExportAllDeclaration:         "ExportAllDeclaration",
	ExportSpecifier:              "ExportSpecifier",
	ClassDeclaration:             "ClassDeclaration",
	ClassBody:                    "ClassBody",
	PropertyDefinition:           "PropertyDefinition",
	MethodDefinition:             "MethodDefinition",
	TSParameterProperty:          "TSParameterProperty",
	Decorator:                    "Decorator",
	TSClassImplements:            "TSClassImplements",
	FunctionDeclaration:          "FunctionDeclaration",
	FunctionExpression:           "FunctionExpression",
	ArrowFunctionExpression:      "ArrowFunctionExpression",
	VariableDeclaration:          "VariableDeclaration",
	VariableDeclarator:           "VariableDeclarator",
	BlockStatement:               "BlockStatement",
	ExpressionStatement:          "ExpressionStatement",
	ReturnStatement:              "ReturnStatement",
	IfStatement:                  "IfStatement",
	ThrowStatement:               "ThrowStatement",
	EmptyStatement:               "EmptyStatement",
	SwitchStatement:              "SwitchStatement",
	SwitchCase:                   "SwitchCase",
	TryStatement:                 "TryStatement",
	CatchClause:                  "CatchClause",
	ForStatement:                 "ForStatement",
	ForInStatement:               "ForInStatement",
	ForOfStatement:               "ForOfStatement",
	WhileStatement:               "WhileStatement",
	BreakStatement:               "BreakStatement",
	ContinueStatement:            "ContinueStatement",
	Identifier:                   "Identifier",
	Literal:                      "Literal",
	TemplateLiteral:              "TemplateLiteral",
	ThisExpression:               "ThisExpression",
	CallExpression:               "CallExpression",
	NewExpression:                "NewExpression",
	MemberExpression:             "MemberExpression",
	ObjectExpression:             "ObjectExpression",
	Property:                     "Property",
	ArrayExpression:              "ArrayExpression",
	SpreadElement:                "SpreadElement",
	RestElement:                  "RestElement",
	ObjectPattern:                "ObjectPattern",
	AssignmentPattern:            "AssignmentPattern",
	BinaryExpression:             "BinaryExpression",
	LogicalExpression:            "LogicalExpression",
	UnaryExpression:              "UnaryExpression",
	UpdateExpression:             "UpdateExpression",
	ConditionalExpression:        "ConditionalExpression",
	AssignmentExpression:         "AssignmentExpression",
	AwaitExpression:              "AwaitExpression",
	TSAsExpression:               "TSAsExpression",
	TSNonNullExpression:          "TSNonNullExpression",
	TSTypeAnnotation:             "TSTypeAnnotation",
	TSTypeReference:              "TSTypeReference",
	TSQualifiedName:              "TSQualifiedName",
	TSTypeParameterInstantiation: "TSTypeParameterInstantiation",
	TSTypeParameterDeclaration:   "TSTypeParameterDeclaration",
	TSTypeParameter:              "TSTypeParameter",
	TSUnionType:                  "TSUnionType",
	TSIntersectionType:           "TSIntersectionType",
	TSLiteralType:                "TSLiteralType",
	TSKeyword:                    "TSKeyword",
	TSTypeLiteral:                "TSTypeLiteral",
	TSPropertySignature:          "TSPropertySignature",
	TSArrayType:                  "TSArrayType",
	TSFunctionType:               "TSFunctionType",
	TSTypeQuery:                  "TSTypeQuery",
	TSTupleType:                  "TSTupleType",
	TSTypeOperator:               "TSTypeOperator",
	TSTypeAliasDeclaration:       "TSTypeAliasDeclaration",
	TSInterfaceDeclaration:       "TSInterfaceDeclaration",
	TSInterfaceBody:              "TSInterfaceBody",
	TSEnumDeclaration:            "TSEnumDeclaration",
	TSEnumMember:                 "TSEnumMember",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k := Kind(1); k < numKinds; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// String returns the ESTree name of the kind.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// LookupKind returns the kind with the given name.
func LookupKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// AllKinds returns every valid kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, numKinds-1)
	for k := Kind(1); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsFunction reports whether the kind introduces a function body.
func (k Kind) IsFunction() bool {
	return k == FunctionDeclaration || k == FunctionExpression || k == ArrowFunctionExpression
}

// IsType reports whether the kind belongs to the type grammar.
func (k Kind) IsType() bool {
	return k >= TSTypeAnnotation && k <= TSTypeOperator
}
