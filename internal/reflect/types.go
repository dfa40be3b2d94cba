package reflect

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

var (
	typeKeyCache sync.Map
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TypeKey[T any]() string {
	return Key(TypeOf[T]())
}

func Key(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	key := buildTypeKey(t)
	typeKeyCache.Store(t, key)
	return key
}

func buildTypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildTypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeKey(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildTypeKey(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeKey(t.Key()) + "]" + buildTypeKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeKey(t.Elem())
		default:
			return "chan " + buildTypeKey(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() == "" {
			return t.String()
		}
		return t.Name()
	}
}

// TypeName returns the short, package-qualified name used in diagnostics.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func IsInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// Implements reports whether values of impl can be used where iface is expected.
func Implements(impl, iface reflect.Type) bool {
	if impl == nil || iface == nil {
		return false
	}
	if iface.Kind() != reflect.Interface {
		return impl == iface
	}
	return impl.Implements(iface)
}

// Signature describes a constructor function discovered by reflection.
type Signature struct {
	Params   []reflect.Type
	Out      reflect.Type
	HasError bool
}

var (
	ErrNotFunc        = errors.New("constructor is not a function")
	ErrVariadic       = errors.New("variadic constructors are not supported")
	ErrBadReturnCount = errors.New("constructor must return T or (T, error)")
)

// FuncParams inspects fn and returns its ordered parameter types and result type.
// Accepted shapes are func(D1..Dn) T and func(D1..Dn) (T, error).
func FuncParams(fn any) (Signature, error) {
	if IsNil(fn) {
		return Signature{}, ErrNotFunc
	}

	ft := reflect.TypeOf(fn)
	if ft.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: got %s", ErrNotFunc, ft)
	}
	if ft.IsVariadic() {
		return Signature{}, ErrVariadic
	}

	sig := Signature{Params: make([]reflect.Type, ft.NumIn())}
	for i := range sig.Params {
		sig.Params[i] = ft.In(i)
	}

	switch ft.NumOut() {
	case 1:
		sig.Out = ft.Out(0)
	case 2:
		if ft.Out(1) != errorType {
			return Signature{}, fmt.Errorf("%w: second result is %s", ErrBadReturnCount, ft.Out(1))
		}
		sig.Out = ft.Out(0)
		sig.HasError = true
	default:
		return Signature{}, fmt.Errorf("%w: got %d results", ErrBadReturnCount, ft.NumOut())
	}

	return sig, nil
}
