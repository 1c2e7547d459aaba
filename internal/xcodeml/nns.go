package xcodeml

// NnsKind identifies the variant of a nested-name-specifier.
type NnsKind int

const (
	NnsGlobal NnsKind = iota
	NnsClass
	NnsIdentifier
	NnsNamespace
	NnsNamespaceAlias
	NnsTemplate
	NnsSuper
)

func (k NnsKind) String() string {
	switch k {
	case NnsGlobal:
		return "global"
	case NnsClass:
		return "class"
	case NnsIdentifier:
		return "identifier"
	case NnsNamespace:
		return "namespace"
	case NnsNamespaceAlias:
		return "namespace alias"
	case NnsTemplate:
		return "template-qualified type"
	case NnsSuper:
		return "__super"
	}
	return "unknown"
}

// Nns is a nested-name-specifier: a qualified-name prefix such as `A::B::`.
//
// Implementations: *GlobalNns, *ClassNns and *UnsupportedNns.
type Nns interface {
	Ident() NnsIdent
	Kind() NnsKind
	// Parent returns the enclosing specifier, if any.
	Parent() (NnsIdent, bool)

	isNns()
}

type nnsBase struct {
	ident     NnsIdent
	parent    NnsIdent
	hasParent bool
}

func (n *nnsBase) Ident() NnsIdent { return n.ident }

func (n *nnsBase) Parent() (NnsIdent, bool) { return n.parent, n.hasParent }

func (n *nnsBase) isNns() {}

// GlobalNns is the global namespace, rendered `::`.
type GlobalNns struct {
	nnsBase
}

// NewGlobalNns creates the global namespace specifier.
func NewGlobalNns() *GlobalNns {
	return &GlobalNns{nnsBase{ident: GlobalNnsIdent}}
}

func (n *GlobalNns) Kind() NnsKind { return NnsGlobal }

// Parent always reports false: the global namespace is the recursion base.
func (n *GlobalNns) Parent() (NnsIdent, bool) { return "", false }

// ClassNns names a class scope; it renders its class's name followed by `::`.
type ClassNns struct {
	nnsBase
	classType DataTypeIdent
}

// NewClassNns creates a class scope without a parent.
func NewClassNns(ident NnsIdent, classType DataTypeIdent) *ClassNns {
	return &ClassNns{nnsBase: nnsBase{ident: ident}, classType: classType}
}

// NewNestedClassNns creates a class scope nested in parent.
func NewNestedClassNns(ident, parent NnsIdent, classType DataTypeIdent) *ClassNns {
	return &ClassNns{nnsBase: nnsBase{ident: ident, parent: parent, hasParent: true}, classType: classType}
}

func (n *ClassNns) Kind() NnsKind { return NnsClass }

// ClassType returns the identifier of the associated Class type.
func (n *ClassNns) ClassType() DataTypeIdent { return n.classType }

// UnsupportedNns records a specifier kind the synthesiser cannot render
// (identifier, namespace, namespace alias, template-qualified, __super).
// Rendering one is an UNSUPPORTED_CONSTRUCT error.
type UnsupportedNns struct {
	nnsBase
	kind NnsKind
}

// NewUnsupportedNns creates a placeholder for an unimplemented specifier kind.
func NewUnsupportedNns(ident NnsIdent, kind NnsKind, parent NnsIdent) *UnsupportedNns {
	return &UnsupportedNns{
		nnsBase: nnsBase{ident: ident, parent: parent, hasParent: parent != ""},
		kind:    kind,
	}
}

func (n *UnsupportedNns) Kind() NnsKind { return n.kind }
