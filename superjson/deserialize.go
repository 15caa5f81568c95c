package superjson

import (
	"encoding/base64"
	"errors"
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
)

// Deserialize restores a serialized tree to its original value using the type
// manifest. A nil or empty manifest returns the tree unchanged. Deserialize is
// the exact inverse of Serialize over the supported type set.
//
// Restoration applies deepest paths first so container tags (set, map) see
// their members already restored. The tree is modified in place.
func Deserialize(tree any, meta *Meta) (any, error) {
	if meta == nil || len(meta.Values) == 0 {
		return tree, nil
	}

	paths := make([]string, 0, len(meta.Values))
	for p := range meta.Values {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		di, dj := pathDepth(paths[i]), pathDepth(paths[j])
		if di != dj {
			return di > dj
		}
		return paths[i] < paths[j]
	})

	var err error
	for _, p := range paths {
		tree, err = applyAt(tree, splitPath(p), meta.Values[p], p)
		if err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func pathDepth(p string) int {
	if p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}

// applyAt navigates to the node a manifest path addresses and restores it,
// returning the (possibly replaced) subtree root.
func applyAt(node any, segments []string, tag, fullPath string) (any, error) {
	if len(segments) == 0 {
		return restore(node, tag, fullPath)
	}
	seg := segments[0]
	switch n := node.(type) {
	case map[string]any:
		child, ok := n[seg]
		if !ok {
			return nil, fmt.Errorf("superjson: manifest path %q not found in body", fullPath)
		}
		replaced, err := applyAt(child, segments[1:], tag, fullPath)
		if err != nil {
			return nil, err
		}
		n[seg] = replaced
		return n, nil
	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(n) {
			return nil, fmt.Errorf("superjson: manifest path %q not found in body", fullPath)
		}
		replaced, err := applyAt(n[idx], segments[1:], tag, fullPath)
		if err != nil {
			return nil, err
		}
		n[idx] = replaced
		return n, nil
	default:
		return nil, fmt.Errorf("superjson: manifest path %q does not match body shape", fullPath)
	}
}

func restore(node any, tag, fullPath string) (any, error) {
	switch tag {
	case tagDatetime:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		return time.Parse(time.RFC3339Nano, s)

	case tagDuration:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		return time.ParseDuration(s)

	case tagBigInt:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("superjson: invalid bigint %q at %q", s, fullPath)
		}
		return i, nil

	case tagBytes:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		return base64.StdEncoding.DecodeString(s)

	case tagRegexp:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		return regexp.Compile(s)

	case tagURL:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		return url.Parse(s)

	case tagError:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		return errors.New(s), nil

	case tagNumber:
		s, err := stringNode(node, tag, fullPath)
		if err != nil {
			return nil, err
		}
		switch s {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		return nil, fmt.Errorf("superjson: invalid number literal %q at %q", s, fullPath)

	case tagSet:
		arr, ok := node.([]any)
		if !ok {
			return nil, fmt.Errorf("superjson: expected array for set at %q", fullPath)
		}
		return NewSet(arr...), nil

	case tagMap:
		arr, ok := node.([]any)
		if !ok {
			return nil, fmt.Errorf("superjson: expected array for map at %q", fullPath)
		}
		m := make(map[any]any, len(arr))
		for _, e := range arr {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("superjson: malformed map entry at %q", fullPath)
			}
			k := pair[0]
			if k != nil && !reflect.TypeOf(k).Comparable() {
				return nil, fmt.Errorf("superjson: unhashable map key at %q", fullPath)
			}
			m[k] = pair[1]
		}
		return m, nil
	}

	return nil, fmt.Errorf("superjson: unknown type tag %q at %q", tag, fullPath)
}

func stringNode(node any, tag, fullPath string) (string, error) {
	s, ok := node.(string)
	if !ok {
		return "", fmt.Errorf("superjson: expected string for %s at %q", tag, fullPath)
	}
	return s, nil
}
