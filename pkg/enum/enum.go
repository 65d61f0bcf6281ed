package enum

import (
	"fmt"
	"reflect"
	"sort"
)

// registry maps each enum type to its members, keyed by their string form. Members
// are registered from package level variables, so it is never written concurrently
// with reads.
var registry = map[reflect.Type]map[string]any{}

// New registers value as a member of its named string type, so it can later be
// parsed back by ToEnum.
func New[T ~string](value T) T {
	t := reflect.TypeOf(value)
	members, ok := registry[t]
	if !ok {
		members = map[string]any{}
		registry[t] = members
	}

	members[string(value)] = value
	return value
}

func ToEnum[T ~string](s string) (T, error) {
	var empty T
	members, ok := registry[reflect.TypeOf(empty)]
	if !ok {
		return empty, fmt.Errorf("not found enum type %T", empty)
	}

	value, ok := members[s]
	if !ok {
		return empty, fmt.Errorf("not found value %q in enum %T", s, empty)
	}

	return value.(T), nil
}

// Names returns the sorted string forms of all registered members of T.
func Names[T ~string]() []string {
	var empty T
	members, ok := registry[reflect.TypeOf(empty)]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
