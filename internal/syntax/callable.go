package syntax

// CallableKind distinguishes methods from constructors.
type CallableKind string

const (
	Method      CallableKind = "method"
	Constructor CallableKind = "constructor"
)

// TypeCategory is the coarse category of a declared parameter type.
type TypeCategory int

const (
	Reference TypeCategory = iota
	Primitive
)

func (c TypeCategory) String() string {
	if c == Primitive {
		return "primitive"
	}
	return "reference"
}

// Param is one declared parameter.
type Param struct {
	Name     string
	Type     string
	Category TypeCategory
}

// Callable is a method or constructor declaration together with its body.
type Callable struct {
	Name      string
	Class     string
	Kind      CallableKind
	Line      int
	Signature string
	Params    []Param

	// Instantiable is false for members of interfaces and abstract classes.
	Instantiable bool

	// Body is nil for abstract and native declarations.
	Body *Block
}

// QualifiedName returns Class.Name, or Name when the class is unknown.
func (c *Callable) QualifiedName() string {
	if c.Class == "" {
		return c.Name
	}
	return c.Class + "." + c.Name
}

// ParamIndex returns the position of the named parameter, or -1.
func (c *Callable) ParamIndex(name string) int {
	for i := range c.Params {
		if c.Params[i].Name == name {
			return i
		}
	}
	return -1
}
