package syntax

import "fmt"

// Field names a child edge of a node.
type Field uint8

// Child fields.
const (
	NoField Field = iota
	FieldAlternate
	FieldArgument
	FieldArguments
	FieldBody
	FieldCallee
	FieldConsequent
	FieldConstraint
	FieldDeclaration
	FieldDeclarations
	FieldDecorators
	FieldDefault
	FieldElementType
	FieldElements
	FieldExpression
	FieldExprName
	FieldExtends
	FieldID
	FieldImplements
	FieldImported
	FieldInit
	FieldKey
	FieldLeft
	FieldLiteral
	FieldLocal
	FieldMembers
	FieldObject
	FieldParameter
	FieldParams
	FieldProperties
	FieldProperty
	FieldReturnType
	FieldRight
	FieldSource
	FieldSpecifiers
	FieldSuperClass
	FieldTest
	FieldTypeAnnotation
	FieldTypeArguments
	FieldTypeName
	FieldTypeParameters
	FieldTypes
	FieldValue
	FieldBlock
	FieldCases
	FieldDiscriminant
	FieldFinalizer
	FieldHandler
	FieldParam
	FieldUpdate
	FieldExported
	FieldSuperTypeArguments
	numFields
)

var fieldNames = [numFields]string{
	NoField:             "",
	FieldAlternate:      "alternate",
	FieldArgument:       "argument",
	FieldArguments:      "arguments",
	FieldBody:           "body",
	FieldCallee:         "callee",
	FieldConsequent:     "consequent",
	FieldConstraint:     "constraint",
	FieldDeclaration:    "declaration",
	FieldDeclarations:   "declarations",
	FieldDecorators:     "decorators",
	FieldDefault:        "default",
	FieldElementType:    "elementType",
	FieldElements:       "elements",
	FieldExpression:     "expression",
	FieldExprName:       "exprName",
	FieldExtends:        "extends",
	FieldID:             "id",
	FieldImplements:     "implements",
	FieldImported:       "imported",
	FieldInit:           "init",
	FieldKey:            "key",
	FieldLeft:           "left",
	FieldLiteral:        "literal",
	FieldLocal:          "local",
	FieldMembers:        "members",
	FieldObject:         "object",
	FieldParameter:      "parameter",
	FieldParams:         "params",
	FieldProperties:     "properties",
	FieldProperty:       "property",
	FieldReturnType:     "returnType",
	FieldRight:          "right",
	FieldSource:         "source",
	FieldSpecifiers:     "specifiers",
	FieldSuperClass:     "superClass",
	FieldTest:           "test",
	FieldTypeAnnotation: "typeAnnotation",
	FieldTypeArguments:  "typeArguments",
	FieldTypeName:       "typeName",
	FieldTypeParameters: "typeParameters",
	FieldTypes:          "types",
	FieldValue:          "value",
	FieldBlock:          "block",
	FieldCases:          "cases",
	FieldDiscriminant:   "discriminant",
	FieldFinalizer:      "finalizer",
	FieldHandler:        "handler",
	FieldParam:          "param",
	FieldUpdate:         "update",
	FieldExported:       "exported",

	FieldSuperTypeArguments: "superTypeArguments",
}

var fieldByName = func() map[string]Field {
	m := make(map[string]Field, numFields)
	for f := Field(1); f < numFields; f++ {
		m[fieldNames[f]] = f
	}
	return m
}()

func (f Field) String() string {
	if f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", f)
}

// LookupField returns the field with the given ESTree property name.
func LookupField(name string) (Field, bool) {
	f, ok := fieldByName[name]
	return f, ok
}

type slot struct {
	field Field
	list  bool
}

func one(f Field) slot  { return slot{field: f} }
func many(f Field) slot { return slot{field: f, list: true} }

// schema lists, per kind, the child fields a node may carry and whether each
// is a single child or an ordered list. Builders reject anything else.
var schema = [numKinds][]slot{
	Program:                  {many(FieldBody)},
	ImportDeclaration:        {many(FieldSpecifiers), one(FieldSource)},
	ImportSpecifier:          {one(FieldImported), one(FieldLocal)},
	ImportDefaultSpecifier:   {one(FieldLocal)},
	ImportNamespaceSpecifier: {one(FieldLocal)},
	ExportNamedDeclaration:   {one(FieldDeclaration), many(FieldSpecifiers), one(FieldSource)},
	ExportDefaultDeclaration: {one(FieldDeclaration)},
	ExportAllDeclaration:     {one(FieldExported), one(FieldSource)},
	ExportSpecifier:          {one(FieldLocal), one(FieldExported)},

	ClassDeclaration: {
		many(FieldDecorators), one(FieldID), one(FieldTypeParameters),
		one(FieldSuperClass), one(FieldSuperTypeArguments), many(FieldImplements), one(FieldBody),
	},
	ClassBody:           {many(FieldBody)},
	PropertyDefinition:  {many(FieldDecorators), one(FieldKey), one(FieldTypeAnnotation), one(FieldValue)},
	MethodDefinition:    {many(FieldDecorators), one(FieldKey), one(FieldValue)},
	TSParameterProperty: {many(FieldDecorators), one(FieldParameter)},
	Decorator:           {one(FieldExpression)},
	TSClassImplements:   {one(FieldExpression), one(FieldTypeArguments)},

	FunctionDeclaration:     {one(FieldID), one(FieldTypeParameters), many(FieldParams), one(FieldReturnType), one(FieldBody)},
	FunctionExpression:      {one(FieldID), one(FieldTypeParameters), many(FieldParams), one(FieldReturnType), one(FieldBody)},
	ArrowFunctionExpression: {one(FieldTypeParameters), many(FieldParams), one(FieldReturnType), one(FieldBody)},

	VariableDeclaration: {many(FieldDeclarations)},
	VariableDeclarator:  {one(FieldID), one(FieldInit)},
	BlockStatement:      {many(FieldBody)},
	ExpressionStatement: {one(FieldExpression)},
	ReturnStatement:     {one(FieldArgument)},
	IfStatement:         {one(FieldTest), one(FieldConsequent), one(FieldAlternate)},
	ThrowStatement:      {one(FieldArgument)},
	EmptyStatement:      nil,
	SwitchStatement:     {one(FieldDiscriminant), many(FieldCases)},
	SwitchCase:          {one(FieldTest), many(FieldConsequent)},
	TryStatement:        {one(FieldBlock), one(FieldHandler), one(FieldFinalizer)},
	CatchClause:         {one(FieldParam), one(FieldBody)},
	ForStatement:        {one(FieldInit), one(FieldTest), one(FieldUpdate), one(FieldBody)},
	ForInStatement:      {one(FieldLeft), one(FieldRight), one(FieldBody)},
	ForOfStatement:      {one(FieldLeft), one(FieldRight), one(FieldBody)},
	WhileStatement:      {one(FieldTest), one(FieldBody)},
	BreakStatement:      nil,
	ContinueStatement:   nil,

	Identifier:            {many(FieldDecorators), one(FieldTypeAnnotation)},
	Literal:               nil,
	TemplateLiteral:       {many(FieldExpression)},
	ThisExpression:        nil,
	CallExpression:        {one(FieldCallee), one(FieldTypeArguments), many(FieldArguments)},
	NewExpression:         {one(FieldCallee), one(FieldTypeArguments), many(FieldArguments)},
	MemberExpression:      {one(FieldObject), one(FieldProperty)},
	ObjectExpression:      {many(FieldProperties)},
	Property:              {one(FieldKey), one(FieldValue)},
	ArrayExpression:       {many(FieldElements)},
	SpreadElement:         {one(FieldArgument)},
	RestElement:           {one(FieldArgument), one(FieldTypeAnnotation)},
	ObjectPattern:         {many(FieldDecorators), many(FieldProperties), one(FieldTypeAnnotation)},
	AssignmentPattern:     {many(FieldDecorators), one(FieldLeft), one(FieldRight)},
	BinaryExpression:      {one(FieldLeft), one(FieldRight)},
	LogicalExpression:     {one(FieldLeft), one(FieldRight)},
	UnaryExpression:       {one(FieldArgument)},
	UpdateExpression:      {one(FieldArgument)},
	ConditionalExpression: {one(FieldTest), one(FieldConsequent), one(FieldAlternate)},
	AssignmentExpression:  {one(FieldLeft), one(FieldRight)},
	AwaitExpression:       {one(FieldArgument)},
	TSAsExpression:        {one(FieldExpression), one(FieldTypeAnnotation)},
	TSNonNullExpression:   {one(FieldExpression)},

	TSTypeAnnotation:             {one(FieldTypeAnnotation)},
	TSTypeReference:              {one(FieldTypeName), one(FieldTypeArguments)},
	TSQualifiedName:              {one(FieldLeft), one(FieldRight)},
	TSTypeParameterInstantiation: {many(FieldParams)},
	TSTypeParameterDeclaration:   {many(FieldParams)},
	TSTypeParameter:              {one(FieldConstraint), one(FieldDefault)},
	TSUnionType:                  {many(FieldTypes)},
	TSIntersectionType:           {many(FieldTypes)},
	TSLiteralType:                {one(FieldLiteral)},
	TSKeyword:                    nil,
	TSTypeLiteral:                {many(FieldMembers)},
	TSPropertySignature:          {one(FieldKey), one(FieldTypeAnnotation)},
	TSArrayType:                  {one(FieldElementType)},
	TSFunctionType:               {one(FieldTypeParameters), many(FieldParams), one(FieldReturnType)},
	TSTypeQuery:                  {one(FieldExprName)},
	TSTupleType:                  {many(FieldTypes)},
	TSTypeOperator:               {one(FieldTypeAnnotation)},
	TSTypeAliasDeclaration:       {one(FieldID), one(FieldTypeParameters), one(FieldTypeAnnotation)},
	TSInterfaceDeclaration:       {one(FieldID), one(FieldTypeParameters), many(FieldExtends), one(FieldBody)},
	TSInterfaceBody:              {many(FieldBody)},
	TSEnumDeclaration:            {one(FieldID), many(FieldMembers)},
	TSEnumMember:                 {one(FieldID), one(FieldInit)},
}

func lookupSlot(k Kind, f Field) (slot, bool) {
	if k >= numKinds {
		return slot{}, false
	}
	for _, s := range schema[k] {
		if s.field == f {
			return s, true
		}
	}
	return slot{}, false
}

// Fields returns the child fields defined for kind k, in schema order.
func Fields(k Kind) []Field {
	if k >= numKinds {
		return nil
	}
	out := make([]Field, len(schema[k]))
	for i, s := range schema[k] {
		out[i] = s.field
	}
	return out
}

// IsListField reports whether field f of kind k holds an ordered list.
func IsListField(k Kind, f Field) bool {
	s, ok := lookupSlot(k, f)
	return ok && s.list
}

// HasField reports whether kind k declares field f.
func HasField(k Kind, f Field) bool {
	_, ok := lookupSlot(k, f)
	return ok
}
