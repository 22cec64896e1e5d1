package glyphrun

import (
	"fmt"
	"reflect"
)

// Convert checks that v is a []T of exactly n elements and returns it.
// A negative n skips the length check. Convert never copies; it replaces
// an unchecked cast with a checked one and fails with a *ConversionError
// (matching ErrTypeMismatch) otherwise.
func Convert[T any](v any, n int) ([]T, error) {
	s, ok := v.([]T)
	if !ok {
		return nil, &ConversionError{
			Want:    sliceTypeName[T](),
			Got:     fmt.Sprintf("%T", v),
			WantLen: n,
			GotLen:  -1,
		}
	}
	if n >= 0 && len(s) != n {
		return nil, &ConversionError{
			Want:    sliceTypeName[T](),
			Got:     sliceTypeName[T](),
			WantLen: n,
			GotLen:  len(s),
		}
	}
	return s, nil
}

// ConvertList turns an opaque engine list into a []T. It accepts a []T
// as is, or a []any whose every element is a T. A nil v yields a nil
// slice and no error, meaning the engine had nothing to report.
func ConvertList[T any](v any) ([]T, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []T:
		return list, nil
	case []any:
		out := make([]T, len(list))
		for i, elem := range list {
			t, ok := elem.(T)
			if !ok {
				return nil, &ConversionError{
					Want:    sliceTypeName[T](),
					Got:     fmt.Sprintf("[]any with %T at %d", elem, i),
					WantLen: len(list),
					GotLen:  len(list),
				}
			}
			out[i] = t
		}
		return out, nil
	default:
		return nil, &ConversionError{
			Want:    sliceTypeName[T](),
			Got:     fmt.Sprintf("%T", v),
			WantLen: -1,
			GotLen:  -1,
		}
	}
}

func sliceTypeName[T any]() string {
	return reflect.TypeFor[[]T]().String()
}
