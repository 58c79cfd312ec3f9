package cart

import "encoding/json"

// encodeItems serializes a cart to its stored representation.
func encodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// decodeItems deserializes a stored cart. Malformed payloads are reported so
// the caller can discard them; they are never partial-decoded.
func decodeItems(payload []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}
