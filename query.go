package oadr3

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/google/go-querystring/query"
)

// Param is a single query-string parameter. Value may be nil, a scalar,
// a pointer to a scalar, or a slice of scalars.
type Param struct {
	Name  string
	Value any
}

// EncodeQuery builds a query string from params, keeping their order.
// Nil values (including nil pointers and nil slices) are omitted and slices
// expand to one name=value pair per element. Names and values are
// percent-encoded.
func EncodeQuery(params ...Param) string {
	var b strings.Builder

	appendPair := func(name string, v reflect.Value) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fmt.Sprint(v.Interface())))
	}

	for _, p := range params {
		v, ok := deref(reflect.ValueOf(p.Value))
		if !ok {
			continue
		}

		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			for i := range v.Len() {
				if elem, ok := deref(v.Index(i)); ok {
					appendPair(p.Name, elem)
				}
			}
			continue
		}

		appendPair(p.Name, v)
	}

	return b.String()
}

// deref follows pointers and interfaces, reporting false for nil values.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.Value{}, false
	}

	return v, true
}

// structParams converts a params struct tagged with `url:"name,omitempty"`
// into ordered parameters. Field declaration order is kept, which
// [url.Values] alone would lose.
func structParams(v any) ([]Param, error) {
	values, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}

	rv, ok := deref(reflect.ValueOf(v))
	if !ok || rv.Kind() != reflect.Struct {
		return nil, nil
	}

	var params []Param
	for _, name := range urlTagNames(rv.Type()) {
		vals, ok := values[name]
		if !ok {
			continue
		}
		if len(vals) == 1 {
			params = append(params, Param{Name: name, Value: vals[0]})
			continue
		}
		params = append(params, Param{Name: name, Value: vals})
	}

	return params, nil
}

// urlTagNames lists the url tag names of t in declaration order, descending
// into embedded structs the same way go-querystring flattens them.
func urlTagNames(t reflect.Type) []string {
	var names []string
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("url")
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			names = append(names, urlTagNames(f.Type)...)
			continue
		}

		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}

	return names
}

// withQuery appends the encoded params of v to path.
func withQuery(path string, v any) (string, error) {
	params, err := structParams(v)
	if err != nil {
		return "", err
	}

	if q := EncodeQuery(params...); q != "" {
		return path + "?" + q, nil
	}

	return path, nil
}
