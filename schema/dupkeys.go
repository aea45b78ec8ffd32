package schema

import (
	"bytes"
	"encoding/json"
	"io"

	lif "github.com/LIF-Initiative/lif-core"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	path         lif.PathRef
	keys         map[string]struct{}
	expectingKey bool
	index        int
}

// DuplicateKeys walks a JSON document token by token and returns the JSON
// Pointer of every object key that appears more than once in its object.
// Decoding into a map keeps only the last value of such keys, so callers
// report them as warnings.
func DuplicateKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var dups []string
	var stack []dupFrame
	// next is the path of the value about to be read.
	next := lif.Root()

	// valueDone advances the enclosing container after a complete value.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		switch top.kind {
		case kindObject:
			top.expectingKey = true
		case kindArray:
			top.index++
			next = top.path.Index(top.index)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return dups, nil
		}
		if err != nil {
			return dups, err
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, dupFrame{kind: kindObject, path: next, keys: map[string]struct{}{}, expectingKey: true})
			case '[':
				stack = append(stack, dupFrame{kind: kindArray, path: next})
				next = next.Index(0)
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					next = top.path.Field(v)
					if _, seen := top.keys[v]; seen {
						dups = append(dups, next.Pointer())
					}
					top.keys[v] = struct{}{}
					top.expectingKey = false
					continue
				}
			}
			valueDone()
		default:
			valueDone()
		}
	}
}
