package models

import "encoding/json"

// KeyValueMap is an inferred two-column label/value structure within a
// Grid. Keys keep insertion order so lookups that take the first match
// behave deterministically; setting an existing key overwrites its value
// in place (last write wins).
type KeyValueMap struct {
	keys   []string
	values map[string]string
}

// NewKeyValueMap returns an empty map.
func NewKeyValueMap() *KeyValueMap {
	return &KeyValueMap{values: make(map[string]string)}
}

// Set stores value under key, preserving the key's original position when
// it already exists.
func (m *KeyValueMap) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m *KeyValueMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *KeyValueMap) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *KeyValueMap) Len() int {
	return len(m.keys)
}

// MarshalJSON renders the map as a JSON object in insertion order.
func (m *KeyValueMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range m.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	return append(buf, '}'), nil
}
