package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns lists the column names a struct's "db" tags declare,
// walking embedded structs such as entity.Document. Repositories call it
// once at construction to build their select lists.
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

func columnsOf(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			cols = append(cols, columnsOf(f.Type)...)
			continue
		}
		if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
			cols = append(cols, tag)
		}
	}
	return cols
}

// structLayout is the cached per-type mapping from db tags to field
// indices, so StructToMap reflects over each type exactly once.
type structLayout struct {
	tagged   []taggedField
	embedded []int
}

type taggedField struct {
	index int
	tag   string
}

var layoutCache sync.Map // reflect.Type -> *structLayout

func layoutFor(t reflect.Type) *structLayout {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := layoutCache.Load(t); ok {
		return cached.(*structLayout)
	}

	layout := &structLayout{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous {
				layout.embedded = append(layout.embedded, i)
				continue
			}
			if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
				layout.tagged = append(layout.tagged, taggedField{index: i, tag: tag})
			}
		}
	}

	layoutCache.Store(t, layout)
	return layout
}

// StructToMap flattens a struct into column-name keyed values using its
// "db" tags. Untagged and "-" fields are dropped; embedded structs are
// merged into the same map. This is how entities become squirrel INSERT
// and UPDATE clauses.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	layout := layoutFor(rv.Type())
	out := make(map[string]any, len(layout.tagged))

	for _, f := range layout.tagged {
		out[f.tag] = rv.Field(f.index).Interface()
	}
	for _, i := range layout.embedded {
		for k, v := range StructToMap(rv.Field(i).Interface()) {
			out[k] = v
		}
	}
	return out
}
