package xcodeml

import (
	"github.com/roach88/declgen/internal/codegen"
)

// DataTypeIdent is the front end's identifier for a type (`int`, `P0`, `S2`).
type DataTypeIdent string

// TypeKind identifies the variant of a Type.
type TypeKind int

const (
	KindReserved TypeKind = iota
	KindPointer
	KindFunction
	KindArray
	KindStruct
	KindEnum
	KindUnion
	KindClass
	KindOther
)

func (k TypeKind) String() string {
	switch k {
	case KindReserved:
		return "Reserved"
	case KindPointer:
		return "Pointer"
	case KindFunction:
		return "Function"
	case KindArray:
		return "Array"
	case KindStruct:
		return "Struct"
	case KindEnum:
		return "Enum"
	case KindUnion:
		return "Union"
	case KindClass:
		return "Class"
	case KindOther:
		return "Other"
	}
	return "Unknown"
}

// Type is a data type bound in an Environment.
//
// The set of implementations is closed: *Reserved, *Pointer, *Function,
// *Array, *Struct, *Enum, *Union, *Class and *Other.
type Type interface {
	Ident() DataTypeIdent
	Kind() TypeKind
	IsConst() bool
	IsVolatile() bool
	SetConst(bool)
	SetVolatile(bool)

	// clone returns a structural copy bound to a new identifier.
	clone(DataTypeIdent) Type
}

type typeBase struct {
	ident    DataTypeIdent
	constant bool
	volatile bool
}

func (t *typeBase) Ident() DataTypeIdent { return t.ident }
func (t *typeBase) IsConst() bool        { return t.constant }
func (t *typeBase) IsVolatile() bool     { return t.volatile }
func (t *typeBase) SetConst(b bool)      { t.constant = b }
func (t *typeBase) SetVolatile(b bool)   { t.volatile = b }

// CloneAs returns a copy of t bound to ident, with the same qualifiers.
// The analyzer uses it for qualified aliases (`const S`), which the front end
// emits as a new identifier naming the unqualified one.
func CloneAs(t Type, ident DataTypeIdent) Type {
	return t.clone(ident)
}

// Reserved is a builtin or otherwise atomic type rendered by name.
type Reserved struct {
	typeBase
	name codegen.Fragment
}

// NewReserved creates a Reserved type.
func NewReserved(ident DataTypeIdent, name codegen.Fragment) *Reserved {
	return &Reserved{typeBase: typeBase{ident: ident}, name: name}
}

func (t *Reserved) Kind() TypeKind { return KindReserved }

// Name returns the type name.
func (t *Reserved) Name() codegen.Fragment { return t.name }

func (t *Reserved) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	return &c
}

// RefKind distinguishes C pointers from C++ references.
type RefKind int

const (
	RefNone RefKind = iota
	RefLValue
	RefRValue
)

func (k RefKind) sigil() string {
	switch k {
	case RefLValue:
		return "&"
	case RefRValue:
		return "&&"
	}
	return "*"
}

// Pointer points at another type by identifier.
type Pointer struct {
	typeBase
	ref     DataTypeIdent
	refKind RefKind
}

// NewPointer creates a pointer to ref.
func NewPointer(ident, ref DataTypeIdent) *Pointer {
	return &Pointer{typeBase: typeBase{ident: ident}, ref: ref}
}

// NewReference creates a C++ lvalue or rvalue reference to ref.
func NewReference(ident, ref DataTypeIdent, kind RefKind) *Pointer {
	return &Pointer{typeBase: typeBase{ident: ident}, ref: ref, refKind: kind}
}

func (t *Pointer) Kind() TypeKind { return KindPointer }

// Ref returns the pointee identifier.
func (t *Pointer) Ref() DataTypeIdent { return t.ref }

// RefKind returns whether t is a pointer or a reference.
func (t *Pointer) RefKind() RefKind { return t.refKind }

func (t *Pointer) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	return &c
}

// Param is one function parameter. An empty Name is an abstract declarator.
type Param struct {
	Type DataTypeIdent
	Name codegen.Fragment
}

// Function is a function type.
type Function struct {
	typeBase
	returnType DataTypeIdent
	params     []Param
	variadic   bool
}

// NewFunction creates a function type. The params slice is copied.
func NewFunction(ident, returnType DataTypeIdent, params []Param, variadic bool) *Function {
	return &Function{
		typeBase:   typeBase{ident: ident},
		returnType: returnType,
		params:     append([]Param(nil), params...),
		variadic:   variadic,
	}
}

func (t *Function) Kind() TypeKind { return KindFunction }

// ReturnType returns the return type identifier.
func (t *Function) ReturnType() DataTypeIdent { return t.returnType }

// Params returns a copy of the parameter list.
func (t *Function) Params() []Param { return append([]Param(nil), t.params...) }

// Variadic reports whether the parameter list ends with an ellipsis.
func (t *Function) Variadic() bool { return t.variadic }

func (t *Function) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	c.params = append([]Param(nil), t.params...)
	return &c
}

// SizeKind tells how an array's extent is expressed.
type SizeKind int

const (
	SizeInteger SizeKind = iota
	SizeVariable
)

// ArraySize is an array extent.
type ArraySize struct {
	Kind SizeKind
	N    uint64
}

// IntegerSize returns a constant extent.
func IntegerSize(n uint64) ArraySize { return ArraySize{Kind: SizeInteger, N: n} }

// VariableSize returns a variable (or unknown) extent, rendered `[*]`.
func VariableSize() ArraySize { return ArraySize{Kind: SizeVariable} }

// Array is a C array.
type Array struct {
	typeBase
	element DataTypeIdent
	size    ArraySize
}

// NewArray creates an array of element.
func NewArray(ident, element DataTypeIdent, size ArraySize) *Array {
	return &Array{typeBase: typeBase{ident: ident}, element: element, size: size}
}

func (t *Array) Kind() TypeKind { return KindArray }

// Element returns the element type identifier.
func (t *Array) Element() DataTypeIdent { return t.element }

// Size returns the extent.
func (t *Array) Size() ArraySize { return t.size }

func (t *Array) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	return &c
}

// Member is a struct or union field, optionally a bit-field.
type Member struct {
	Type     DataTypeIdent
	Name     codegen.Fragment
	bitField bool
	width    uint64
}

// NewMember creates a plain member.
func NewMember(typ DataTypeIdent, name codegen.Fragment) Member {
	return Member{Type: typ, Name: name}
}

// NewBitField creates a bit-field member of the given width.
func NewBitField(typ DataTypeIdent, name codegen.Fragment, width uint64) Member {
	return Member{Type: typ, Name: name, bitField: true, width: width}
}

// IsBitField reports whether m has an explicit width.
func (m Member) IsBitField() bool { return m.bitField }

// Width returns the bit-field width; it is zero for plain members.
func (m Member) Width() uint64 { return m.width }

// tagName is a name that may be assigned exactly once after construction.
type tagName struct {
	name codegen.Fragment
	set  bool
}

func newTagName(name codegen.Fragment) tagName {
	return tagName{name: name, set: !name.IsEmpty()}
}

func (n *tagName) assign(ident DataTypeIdent, what string, name codegen.Fragment) error {
	if n.set {
		return newProtocolViolation(string(ident), "%s is already set to %q", what, n.name.String())
	}
	n.name = name
	n.set = true
	return nil
}

// Struct is a C struct.
type Struct struct {
	typeBase
	tag     tagName
	members []Member
}

// NewStruct creates a struct type. An empty tag may be set later, once.
func NewStruct(ident DataTypeIdent, tag codegen.Fragment, members []Member) *Struct {
	return &Struct{
		typeBase: typeBase{ident: ident},
		tag:      newTagName(tag),
		members:  append([]Member(nil), members...),
	}
}

func (t *Struct) Kind() TypeKind { return KindStruct }

// TagName returns the tag, empty for an anonymous struct.
func (t *Struct) TagName() codegen.Fragment { return t.tag.name }

// SetTagName assigns the tag. A second assignment is a protocol violation.
func (t *Struct) SetTagName(tag codegen.Fragment) error {
	return t.tag.assign(t.ident, "struct tag", tag)
}

// Members returns a copy of the member list.
func (t *Struct) Members() []Member { return append([]Member(nil), t.members...) }

func (t *Struct) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	c.members = append([]Member(nil), t.members...)
	return &c
}

// Enumerator is one enumeration constant with an optional value expression.
type Enumerator struct {
	Name  codegen.Fragment
	Value codegen.Fragment
}

// Enum is an enumeration type.
type Enum struct {
	typeBase
	name        tagName
	enumerators []Enumerator
	body        codegen.Fragment
}

// NewEnum creates an enum type; its body is derived from the enumerators.
func NewEnum(ident DataTypeIdent, name codegen.Fragment, enumerators []Enumerator) *Enum {
	e := &Enum{
		typeBase:    typeBase{ident: ident},
		name:        newTagName(name),
		enumerators: append([]Enumerator(nil), enumerators...),
	}
	e.body = enumBody(e.enumerators)
	return e
}

func (t *Enum) Kind() TypeKind { return KindEnum }

// Name returns the enum name, empty when anonymous.
func (t *Enum) Name() codegen.Fragment { return t.name.name }

// SetName assigns the name. A second assignment is a protocol violation.
func (t *Enum) SetName(name codegen.Fragment) error {
	return t.name.assign(t.ident, "enum name", name)
}

// Enumerators returns a copy of the enumerator list.
func (t *Enum) Enumerators() []Enumerator { return append([]Enumerator(nil), t.enumerators...) }

// Body returns the brace-enclosed enumerator list.
func (t *Enum) Body() codegen.Fragment { return t.body }

func (t *Enum) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	c.enumerators = append([]Enumerator(nil), t.enumerators...)
	return &c
}

func enumBody(enumerators []Enumerator) codegen.Fragment {
	items := make([]codegen.Fragment, len(enumerators))
	for i, e := range enumerators {
		items[i] = e.Name
		if !e.Value.IsEmpty() {
			items[i] = codegen.Cat(e.Name, codegen.Space, codegen.Token("="), codegen.Space, e.Value)
		}
	}
	return codegen.Cat(
		codegen.Token("{"), codegen.Space,
		codegen.Join(items, codegen.Cat(codegen.Token(","), codegen.Space)),
		codegen.Space, codegen.Token("}"),
	)
}

// Union is a C union.
type Union struct {
	typeBase
	name    tagName
	members []Member
}

// NewUnion creates a union type. An empty name may be set later, once.
func NewUnion(ident DataTypeIdent, name codegen.Fragment, members []Member) *Union {
	return &Union{
		typeBase: typeBase{ident: ident},
		name:     newTagName(name),
		members:  append([]Member(nil), members...),
	}
}

func (t *Union) Kind() TypeKind { return KindUnion }

// Name returns the union name, empty when anonymous.
func (t *Union) Name() codegen.Fragment { return t.name.name }

// SetName assigns the name. A second assignment is a protocol violation.
func (t *Union) SetName(name codegen.Fragment) error {
	return t.name.assign(t.ident, "union name", name)
}

// Members returns a copy of the member list.
func (t *Union) Members() []Member { return append([]Member(nil), t.members...) }

func (t *Union) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	c.members = append([]Member(nil), t.members...)
	return &c
}

// BaseClass is one entry of a class's inheritance list.
type BaseClass struct {
	Type    DataTypeIdent
	Access  AccessSpec
	Virtual bool
}

// Class is a C++ class referenced by name. Its definition is emitted elsewhere.
type Class struct {
	typeBase
	name  tagName
	key   string
	bases []BaseClass
}

// NewClass creates a class type. key is the class-key (`class`, `struct`);
// an empty key means `class`.
func NewClass(ident DataTypeIdent, name codegen.Fragment, key string, bases []BaseClass) *Class {
	if key == "" {
		key = "class"
	}
	return &Class{
		typeBase: typeBase{ident: ident},
		name:     newTagName(name),
		key:      key,
		bases:    append([]BaseClass(nil), bases...),
	}
}

func (t *Class) Kind() TypeKind { return KindClass }

// Name returns the class name.
func (t *Class) Name() codegen.Fragment { return t.name.name }

// SetName assigns the name. A second assignment is a protocol violation.
func (t *Class) SetName(name codegen.Fragment) error {
	return t.name.assign(t.ident, "class name", name)
}

// Key returns the class-key.
func (t *Class) Key() string { return t.key }

// Bases returns a copy of the inheritance list.
func (t *Class) Bases() []BaseClass { return append([]BaseClass(nil), t.bases...) }

func (t *Class) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	c.bases = append([]BaseClass(nil), t.bases...)
	return &c
}

// Other stands for IR type kinds this package does not model.
type Other struct {
	typeBase
	irKind string
}

// NewOther creates a placeholder for an unsupported IR type element.
func NewOther(ident DataTypeIdent, irKind string) *Other {
	return &Other{typeBase: typeBase{ident: ident}, irKind: irKind}
}

func (t *Other) Kind() TypeKind { return KindOther }

// IRKind returns the name of the IR element the type came from.
func (t *Other) IRKind() string { return t.irKind }

func (t *Other) clone(ident DataTypeIdent) Type {
	c := *t
	c.ident = ident
	return &c
}

// References returns the identifiers t refers to, in declaration order.
func References(t Type) []DataTypeIdent {
	switch t := t.(type) {
	case *Pointer:
		return []DataTypeIdent{t.ref}
	case *Function:
		refs := []DataTypeIdent{t.returnType}
		for _, p := range t.params {
			refs = append(refs, p.Type)
		}
		return refs
	case *Array:
		return []DataTypeIdent{t.element}
	case *Struct:
		return memberRefs(t.members)
	case *Union:
		return memberRefs(t.members)
	case *Class:
		refs := make([]DataTypeIdent, 0, len(t.bases))
		for _, b := range t.bases {
			refs = append(refs, b.Type)
		}
		return refs
	}
	return nil
}

func memberRefs(members []Member) []DataTypeIdent {
	refs := make([]DataTypeIdent, 0, len(members))
	for _, m := range members {
		refs = append(refs, m.Type)
	}
	return refs
}
