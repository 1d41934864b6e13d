package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NormalizeList decodes a backend list payload regardless of which of its
// shapes arrived: a bare JSON array, a `{"$values": [...]}` wrapper, a
// `{"data": [...]}` wrapper, or a single object (treated as a one-element
// list). Elements that fail to decode into T are dropped so one malformed
// entry cannot sink a whole listing. The workflow never branches on
// transport shape anywhere else.
func NormalizeList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		return decodeElements[T](trimmed)
	case '{':
		var wrapper struct {
			Values json.RawMessage `json:"$values"`
			Data   json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: decode list payload: %v", ErrTransport, err)
		}
		if len(wrapper.Values) > 0 {
			return decodeElements[T](wrapper.Values)
		}
		if len(wrapper.Data) > 0 {
			return decodeElements[T](wrapper.Data)
		}
		var single T
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("%w: decode single object: %v", ErrTransport, err)
		}
		return []T{single}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected list payload shape", ErrTransport)
	}
}

func decodeElements[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("%w: decode list: %v", ErrTransport, err)
	}
	out := make([]T, 0, len(elements))
	for _, element := range elements {
		var item T
		if err := json.Unmarshal(element, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
