package postgres

import (
	"reflect"
	"sync"

	"github.com/samber/lo"
)

// ExtractDBColumns lists the "db" tags of T in field order, descending into
// embedded structs (entity.Document, entity.BaseDocument).
// Called once per repository at construction.
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

// ColumnsExcept returns cols without the excluded names, keeping order.
func ColumnsExcept(cols []string, excluded ...string) []string {
	return lo.Without(cols, excluded...)
}

func columnsOf(t reflect.Type) []string {
	meta := metadataOf(t)
	if meta == nil {
		return nil
	}

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var cols []string
	for _, f := range meta.fields {
		if f.embedded {
			cols = append(cols, columnsOf(t.Field(f.index).Type)...)
			continue
		}
		cols = append(cols, f.column)
	}
	return cols
}

type fieldInfo struct {
	index    int
	column   string
	embedded bool
}

// typeMetadata keeps fields in declaration order; embedded structs are
// expanded in place.
type typeMetadata struct {
	fields []fieldInfo
}

var typeCache sync.Map // map[reflect.Type]*typeMetadata

// metadataOf returns cached field metadata for struct (or pointer-to-struct) t.
// The cache key is always the pointer type so t.Elem() is valid for callers.
func metadataOf(t reflect.Type) *typeMetadata {
	if t == nil {
		return nil
	}
	if t.Kind() != reflect.Ptr {
		t = reflect.PointerTo(t)
	}
	if t.Elem().Kind() != reflect.Struct {
		return nil
	}

	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	st := t.Elem()
	meta := &typeMetadata{}
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.Anonymous {
			meta.fields = append(meta.fields, fieldInfo{index: i, embedded: true})
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		meta.fields = append(meta.fields, fieldInfo{index: i, column: tag})
	}

	typeCache.Store(t, meta)
	return meta
}

// StructToMap converts a struct (or pointer to one) to column => value using "db" tags.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	res := make(map[string]any)
	fillMap(rv, res)
	return res
}

func fillMap(rv reflect.Value, res map[string]any) {
	meta := metadataOf(rv.Type())
	for _, f := range meta.fields {
		fv := rv.Field(f.index)
		if f.embedded {
			if fv.Kind() == reflect.Struct {
				fillMap(fv, res)
			}
			continue
		}
		res[f.column] = fv.Interface()
	}
}
