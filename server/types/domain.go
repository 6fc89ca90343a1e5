// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package types

import "slices"

// Document is a flat search-index field map. Values are either string or []string.
type Document map[string]any

// ID returns the document identifier.
func (d Document) ID() string {
	return d.String("id")
}

// String returns a single-valued field, or the first value of a multi-valued one.
func (d Document) String(name string) string {
	switch v := d[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}

	return ""
}

// Strings returns all values of a field.
func (d Document) Strings(name string) []string {
	switch v := d[name].(type) {
	case string:
		return []string{v}
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}

		return out
	}

	return nil
}

// Has reports whether the field is present.
func (d Document) Has(name string) bool {
	_, ok := d[name]

	return ok
}
