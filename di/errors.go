package di

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrUnresolvedDependency is returned when a declared dependency is not a
	// recognized component.
	ErrUnresolvedDependency = errors.New("di: unresolved dependency")

	// ErrAmbiguousConstructor is returned when more than one constructor of a
	// component is marked as dependency-injecting.
	ErrAmbiguousConstructor = errors.New("di: ambiguous constructor")

	// ErrCycleDetected is returned when the dependency graph contains a cycle.
	ErrCycleDetected = errors.New("di: dependency cycle detected")

	// ErrConstructionFailed is returned when a constructor or field setter fails.
	ErrConstructionFailed = errors.New("di: construction failed")

	// ErrInvalidDescriptor is returned for descriptors that cannot be used at all
	// (empty ID, nil constructor func, nil field setter).
	ErrInvalidDescriptor = errors.New("di: invalid descriptor")

	// ErrDuplicateComponent is returned when two descriptors share an ID.
	ErrDuplicateComponent = errors.New("di: duplicate component")

	// ErrNoConstructor is wrapped by ConstructionError when a component has
	// neither a matching injecting constructor nor a parameterless one.
	ErrNoConstructor = errors.New("di: no usable constructor")

	// ErrNilInstance is wrapped by ConstructionError when a constructor returns nil.
	ErrNilInstance = errors.New("di: constructor returned nil instance")

	// ErrComponentNotFound is matched by MissingComponentError.
	ErrComponentNotFound = errors.New("di: component not found")
)

// UnresolvedDependencyError names the component and the dependency that is
// outside the recognized component universe.
type UnresolvedDependencyError struct {
	Component  TypeID
	Dependency TypeID
}

// Error implements the error interface.
func (e *UnresolvedDependencyError) Error() string {
	// Example: di: unresolved dependency "*shop.Cache" required by "*shop.Users"
	return ErrUnresolvedDependency.Error() + " " + strconv.Quote(string(e.Dependency)) +
		" required by " + strconv.Quote(string(e.Component))
}

// Is reports whether target is ErrUnresolvedDependency.
func (e *UnresolvedDependencyError) Is(target error) bool { return target == ErrUnresolvedDependency }

// AmbiguousConstructorError is returned when Count > 1 constructors of
// Component are marked injecting.
type AmbiguousConstructorError struct {
	Component TypeID
	Count     int
}

// Error implements the error interface.
func (e *AmbiguousConstructorError) Error() string {
	return ErrAmbiguousConstructor.Error() + ": " + strconv.Quote(string(e.Component)) +
		" has " + strconv.Itoa(e.Count) + " injecting constructors"
}

// Is reports whether target is ErrAmbiguousConstructor.
func (e *AmbiguousConstructorError) Is(target error) bool { return target == ErrAmbiguousConstructor }

// CycleError carries the dependency chain that closes on itself. The first
// and last elements of Path are the same component.
type CycleError struct {
	Path []TypeID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	chain := make([]string, len(e.Path))
	for i, id := range e.Path {
		chain[i] = string(id)
	}
	return ErrCycleDetected.Error() + ": " + strings.Join(chain, " -> ")
}

// Is reports whether target is ErrCycleDetected.
func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// ConstructionError wraps the failure raised while building Component. Field
// is set when the failure happened while injecting that field.
type ConstructionError struct {
	Component TypeID
	Field     string
	Err       error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrConstructionFailed.Error())
	sb.WriteString(": ")
	sb.WriteString(strconv.Quote(string(e.Component)))
	if e.Field != "" {
		sb.WriteString(" field ")
		sb.WriteString(strconv.Quote(e.Field))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is reports whether target is ErrConstructionFailed.
func (e *ConstructionError) Is(target error) bool { return target == ErrConstructionFailed }

// Unwrap returns the underlying failure.
func (e *ConstructionError) Unwrap() error { return e.Err }

// DescriptorError reports a descriptor rejected before graph construction.
type DescriptorError struct {
	Component TypeID
	Reason    string
	Err       error
}

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	return e.Err.Error() + ": " + strconv.Quote(string(e.Component)) + ": " + e.Reason
}

// Unwrap returns ErrInvalidDescriptor or ErrDuplicateComponent.
func (e *DescriptorError) Unwrap() error { return e.Err }

// MissingComponentError is returned by TryGet when no instance is registered
// for the requested type.
type MissingComponentError struct{ Component TypeID }

// Error implements the error interface.
func (e MissingComponentError) Error() string {
	// Example: di: component "*shop.DB" missing
	return "di: component " + strconv.Quote(string(e.Component)) + " missing"
}

// Is reports whether target is ErrComponentNotFound.
func (e MissingComponentError) Is(target error) bool { return target == ErrComponentNotFound }

// WrongTypeError is returned by TryGet when the registered instance does not
// have the requested Go type.
type WrongTypeError struct {
	Component TypeID

	// GotType is the dynamic type of the stored instance.
	GotType string
}

// Error implements the error interface.
func (e WrongTypeError) Error() string {
	return "di: component " + strconv.Quote(string(e.Component)) + " has wrong type (" + e.GotType + ")"
}
