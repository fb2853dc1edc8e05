// Package request holds the helpers request translators use to build sparse
// SDK input structures: values are copied only when supplied, and a nested
// structure is attached only when at least one of its members was set.
package request

// Group tracks whether any member of a nested request structure was set.
//
//	var dest types.AssessmentReportsDestination
//	var g request.Group
//	request.Set(&g, &dest.Destination, p.DestinationLocation)
//	if g.Any() {
//	    in.AssessmentReportsDestination = &dest
//	}
type Group struct {
	set int
}

// Mark records that a member was set.
func (g *Group) Mark() { g.set++ }

// Merge folds a child group into g, so a parent counts as set when any
// nested child was.
func (g *Group) Merge(child *Group) { g.set += child.set }

// Any reports whether at least one member was set.
func (g *Group) Any() bool { return g.set > 0 }

// Set copies src into *dst when src is non-nil and marks g.
func Set[T any](g *Group, dst **T, src *T) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
	g.Mark()
}

// SetEnum converts a supplied string into the SDK enum type E and marks g.
func SetEnum[E ~string](g *Group, dst *E, src *string) {
	if src == nil {
		return
	}
	*dst = E(*src)
	g.Mark()
}

// SetSlice copies a non-nil slice into *dst and marks g.
func SetSlice[T any](g *Group, dst *[]T, src []T) {
	if src == nil {
		return
	}
	*dst = append(make([]T, 0, len(src)), src...)
	g.Mark()
}

// SetMap copies a non-nil map into *dst and marks g.
func SetMap[K comparable, V any](g *Group, dst *map[K]V, src map[K]V) {
	if src == nil {
		return
	}
	m := make(map[K]V, len(src))
	for k, v := range src {
		m[k] = v
	}
	*dst = m
	g.Mark()
}

// Attach returns v when g has any member set, nil otherwise.
func Attach[T any](g *Group, v *T) *T {
	if !g.Any() {
		return nil
	}
	return v
}

// Enum converts an optional string into an SDK enum value, empty when nil.
func Enum[E ~string](src *string) E {
	if src == nil {
		return ""
	}
	return E(*src)
}
