package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics if value is nil, including typed nil pointers, maps, slices and funcs
// hidden behind an interface.
func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		if v.IsNil() {
			panic(fmt.Sprintf("expected %s to be not nil", name))
		}
	}
}

func NotEmptyStr(str, name string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be non-empty", name))
	}
}
