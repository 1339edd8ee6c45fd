package semantic

type ScopeKind int

const (
	FileScope ScopeKind = iota
	BlockScope
)

type Scope[T any] struct {
	Elems     map[string]T
	ScopeKind ScopeKind
}

func NewScope[T any](sk ScopeKind) Scope[T] {
	return Scope[T]{
		Elems:     make(map[string]T),
		ScopeKind: sk,
	}
}

func PushScope[T any](scopes *[]Scope[T], sk ScopeKind) {
	*scopes = append(*scopes, NewScope[T](sk))
}

func PopScope[T any](scopes *[]Scope[T]) {
	if len(*scopes) == 1 {
		panic("cannot pop file scope")
	}
	*scopes = (*scopes)[:len(*scopes)-1]
}

// Put does not need a pointer, as it modifies the map within a scope, not the slice itself.
func Put[T any](scopes []Scope[T], name string, elem T) {
	scopes[len(scopes)-1].Elems[name] = elem
}

// Get searches from the innermost scope outward.
func Get[T any](scopes []Scope[T], name string) (T, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if e, ok := scopes[i].Elems[name]; ok {
			return e, true
		}
	}

	var zero T
	return zero, false
}

// GetCurrent only looks at the innermost scope.
func GetCurrent[T any](scopes []Scope[T], name string) (T, bool) {
	e, ok := scopes[len(scopes)-1].Elems[name]
	return e, ok
}

// AtFileScope reports whether the innermost scope is the file scope.
func AtFileScope[T any](scopes []Scope[T]) bool {
	return scopes[len(scopes)-1].ScopeKind == FileScope
}
