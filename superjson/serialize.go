package superjson

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// maxDepth bounds the serialization walk. Values nested deeper than this are
// either pathological or cyclic; cycles are not supported.
const maxDepth = 1000

// Serialize converts a value to a plain JSON tree and a type manifest. The
// tree contains only map[string]any, []any, string, bool, JSON-safe numbers,
// and nil, so it always marshals to valid plain JSON. meta is nil when the
// value contained no construct needing restoration.
func Serialize(v any) (tree any, meta *Meta, err error) {
	s := serializer{values: make(map[string]string)}
	tree, err = s.walk(v, nil, 0)
	if err != nil {
		return nil, nil, err
	}
	if len(s.values) == 0 {
		return tree, nil, nil
	}
	return tree, &Meta{Values: s.values}, nil
}

type serializer struct {
	values map[string]string
}

func (s *serializer) tag(path []string, tag string) {
	s.values[joinPath(path)] = tag
}

func (s *serializer) walk(v any, path []string, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("superjson: value exceeds depth %d (cyclic values are not supported)", maxDepth)
	}

	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	case bool:
		return t, nil
	case float64:
		return s.walkFloat(t, path)
	case float32:
		return s.walkFloat(float64(t), path)
	case time.Time:
		s.tag(path, tagDatetime)
		return t.Format(time.RFC3339Nano), nil
	case time.Duration:
		s.tag(path, tagDuration)
		return t.String(), nil
	case *big.Int:
		if t == nil {
			return nil, nil
		}
		s.tag(path, tagBigInt)
		return t.String(), nil
	case []byte:
		if t == nil {
			return nil, nil
		}
		s.tag(path, tagBytes)
		return base64.StdEncoding.EncodeToString(t), nil
	case *regexp.Regexp:
		if t == nil {
			return nil, nil
		}
		s.tag(path, tagRegexp)
		return t.String(), nil
	case *url.URL:
		if t == nil {
			return nil, nil
		}
		s.tag(path, tagURL)
		return t.String(), nil
	case *Set:
		if t == nil {
			return nil, nil
		}
		return s.walkSet(t, path, depth)
	case Set:
		return s.walkSet(&t, path, depth)
	case json.Number:
		return t, nil
	}

	// Error values carry only their message across the wire.
	if e, ok := v.(error); ok {
		s.tag(path, tagError)
		return e.Error(), nil
	}

	// Types with custom JSON round through go-json untagged; their subtrees
	// get no restoration entries.
	if _, ok := v.(json.Marshaler); ok {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
		return tree, nil
	}

	return s.walkReflect(reflect.ValueOf(v), path, depth)
}

func (s *serializer) walkFloat(f float64, path []string) (any, error) {
	switch {
	case math.IsNaN(f):
		s.tag(path, tagNumber)
		return "NaN", nil
	case math.IsInf(f, 1):
		s.tag(path, tagNumber)
		return "Infinity", nil
	case math.IsInf(f, -1):
		s.tag(path, tagNumber)
		return "-Infinity", nil
	}
	return f, nil
}

func (s *serializer) walkSet(set *Set, path []string, depth int) (any, error) {
	s.tag(path, tagSet)
	members := set.Values()
	out := make([]any, len(members))
	for i, m := range members {
		node, err := s.walk(m, append(path, strconv.Itoa(i)), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = node
	}
	return out, nil
}

func (s *serializer) walkReflect(rv reflect.Value, path []string, depth int) (any, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return s.walkFloat(rv.Float(), path)

	case reflect.String:
		return rv.String(), nil

	case reflect.Bool:
		return rv.Bool(), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return s.walk(rv.Elem().Interface(), path, depth+1)

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			node, err := s.walk(rv.Index(i).Interface(), append(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = node
		}
		return out, nil

	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Key().Kind() == reflect.String {
			return s.walkObject(rv, path, depth)
		}
		return s.walkEntries(rv, path, depth)

	case reflect.Struct:
		obj := make(map[string]any)
		if err := s.walkStructFields(rv, obj, path, depth); err != nil {
			return nil, err
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("superjson: unsupported type %s", rv.Type())
	}
}

// walkObject serializes a string-keyed map as a plain JSON object.
func (s *serializer) walkObject(rv reflect.Value, path []string, depth int) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		node, err := s.walk(iter.Value().Interface(), append(path, key), depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = node
	}
	return out, nil
}

// walkEntries serializes a non-string-keyed map as a tagged [key, value] pair
// array. Entries are sorted by rendered key so the same map always produces
// the same tree and manifest.
func (s *serializer) walkEntries(rv reflect.Value, path []string, depth int) (any, error) {
	s.tag(path, tagMap)
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%#v", keys[i].Interface()) < fmt.Sprintf("%#v", keys[j].Interface())
	})
	out := make([]any, 0, len(keys))
	for i, k := range keys {
		entryPath := append(path, strconv.Itoa(i))
		kNode, err := s.walk(k.Interface(), append(entryPath, "0"), depth+1)
		if err != nil {
			return nil, err
		}
		vNode, err := s.walk(rv.MapIndex(k).Interface(), append(entryPath, "1"), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, []any{kNode, vNode})
	}
	return out, nil
}

// walkStructFields serializes exported fields into obj, honoring json tag
// names and skips, and flattening untagged anonymous embedded structs the way
// encoding/json does. Embedded structs flatten even when their type is
// unexported; their promoted exported fields remain reflectable.
func (s *serializer) walkStructFields(rv reflect.Value, obj map[string]any, path []string, depth int) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Name
		tagged := false
		if tag, ok := field.Tag.Lookup("json"); ok {
			parts := strings.SplitN(tag, ",", 2)
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
				tagged = true
			}
		}
		fv := rv.Field(i)
		if field.Anonymous && !tagged {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				if err := s.walkStructFields(ev, obj, path, depth+1); err != nil {
					return err
				}
				continue
			}
		}
		if field.PkgPath != "" {
			continue
		}
		node, err := s.walk(fv.Interface(), append(path, name), depth+1)
		if err != nil {
			return err
		}
		obj[name] = node
	}
	return nil
}
