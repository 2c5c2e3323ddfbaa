package apiclient

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

const QueryTag = "query"

// Converts an object to a map of query parameters.
//
// Can work with both concrete and pointer types. Fields without a query
// tag, nil pointers and empty strings are skipped. Slices add one value
// per element under the same key.
func ObjectToParams(obj any) (
	query url.Values,
) {
	query = url.Values{}
	if obj == nil {
		return query
	}

	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return query
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return query
	}
	typ := val.Type()

	for i := range val.NumField() {
		field := typ.Field(i)
		queryKey := field.Tag.Get(QueryTag)
		fieldValue := val.Field(i)

		if queryKey == "" || queryKey == "-" || isValueNil(fieldValue) {
			continue
		}
		if fieldValue.Kind() == reflect.Slice {
			for j := range fieldValue.Len() {
				if strRepr := valueToString(fieldValue.Index(j)); strRepr != "" {
					query.Add(queryKey, strRepr)
				}
			}
			continue
		}
		strRepr := valueToString(fieldValue)
		if strRepr == "" {
			continue
		}
		query.Add(queryKey, strRepr)
	}

	return query
}

func isValueNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Chan,
		reflect.Func,
		reflect.Interface,
		reflect.Map,
		reflect.Pointer,
		reflect.Slice:
		return v.IsNil()
	}
	return false
}

func valueToString(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return valueToString(v.Elem())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
