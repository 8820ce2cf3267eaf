package infra

import (
	"cmp"
	"reflect"
)

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
// If future releases of Go add new predeclared unsigned integer types,
// this constraint will be modified to include them.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
// If future releases of Go add new predeclared integer types,
// this constraint will be modified to include them.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// If future releases of Go add new predeclared floating-point types,
// this constraint will be modified to include them.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

// CompareOrderedKey is the natural order of the ordered keys.
func CompareOrderedKey[K OrderedKey](i, j K) int {
	return cmp.Compare(i, j)
}

// CompareNatural compares two dynamic values by their natural order.
// Only the integer, float and string kinds (named types included) have
// a natural order. The second result is false if the pair is not
// comparable in that way, either because of the kind or because the
// two values are of different types.
func CompareNatural(i, j any) (int, bool) {
	switch x := i.(type) {
	case int:
		return compareAs(x, j)
	case int64:
		return compareAs(x, j)
	case uint64:
		return compareAs(x, j)
	case string:
		return compareAs(x, j)
	case float64:
		return compareAs(x, j)
	case int32:
		return compareAs(x, j)
	case uint32:
		return compareAs(x, j)
	case uint:
		return compareAs(x, j)
	default:
	}

	// Slow path for named types and the less common widths.
	vi, vj := reflect.ValueOf(i), reflect.ValueOf(j)
	if !vi.IsValid() || !vj.IsValid() || vi.Type() != vj.Type() {
		return 0, false
	}
	switch vi.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(vi.Int(), vj.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(vi.Uint(), vj.Uint()), true
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(vi.Float(), vj.Float()), true
	case reflect.String:
		return cmp.Compare(vi.String(), vj.String()), true
	default:
	}
	return 0, false
}

func compareAs[T cmp.Ordered](i T, j any) (int, bool) {
	y, ok := j.(T)
	if !ok {
		return 0, false
	}
	return cmp.Compare(i, y), true
}

// IsNilKey reports whether the key is a nil interface or a nil
// pointer, map, slice, func or channel.
func IsNilKey(key any) bool {
	if key == nil {
		return true
	}
	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
	}
	return false
}
