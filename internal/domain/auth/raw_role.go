package auth

import (
	"fmt"
	"maps"
	"slices"
)

// RawKind discriminates the shapes a raw role value can take.
type RawKind int

const (
	// RawAbsent means the upstream payload carried no usable role value.
	RawAbsent RawKind = iota
	RawString
	RawRecord
	RawList
)

// RawRole is an upstream role value of unknown shape: a string, a record of
// named fields, or an ordered collection of further raw roles.
// It is created per authentication response and never mutated.
type RawRole struct {
	kind   RawKind
	str    string
	fields map[string]RawRole
	items  []RawRole
}

// RawRoleString wraps a plain role string.
func RawRoleString(s string) RawRole {
	return RawRole{kind: RawString, str: s}
}

// RawRoleRecord wraps a record. Field names are kept as given.
func RawRoleRecord(fields map[string]RawRole) RawRole {
	return RawRole{kind: RawRecord, fields: maps.Clone(fields)}
}

// RawRoleList wraps an ordered collection of role-like values.
func RawRoleList(items ...RawRole) RawRole {
	return RawRole{kind: RawList, items: slices.Clone(items)}
}

// RawRoleStrings is shorthand for a list of plain strings.
func RawRoleStrings(items ...string) RawRole {
	out := make([]RawRole, len(items))
	for i, s := range items {
		out[i] = RawRoleString(s)
	}
	return RawRole{kind: RawList, items: out}
}

// Kind returns the shape of r.
func (r RawRole) Kind() RawKind { return r.kind }

// Str returns the string payload and whether r is a string.
func (r RawRole) Str() (string, bool) {
	return r.str, r.kind == RawString
}

// Field returns the named field of a record.
func (r RawRole) Field(name string) (RawRole, bool) {
	if r.kind != RawRecord {
		return RawRole{}, false
	}
	v, ok := r.fields[name]
	return v, ok
}

// FieldNames returns the field names of a record in sorted order.
func (r RawRole) FieldNames() []string {
	if r.kind != RawRecord {
		return nil
	}
	return slices.Sorted(maps.Keys(r.fields))
}

// Items returns the elements of a list. The returned slice must not be modified.
func (r RawRole) Items() []RawRole {
	if r.kind != RawList {
		return nil
	}
	return r.items
}

// RawRoleFromValue converts a decoded JSON value (as produced by encoding/json
// into any, or by a claim selector) into a RawRole. Numbers, booleans and nil
// become RawAbsent; nested maps and slices are converted recursively.
func RawRoleFromValue(v any) RawRole {
	switch t := v.(type) {
	case RawRole:
		return t
	case string:
		return RawRoleString(t)
	case []string:
		return RawRoleStrings(t...)
	case []any:
		items := make([]RawRole, 0, len(t))
		for _, it := range t {
			items = append(items, RawRoleFromValue(it))
		}
		return RawRole{kind: RawList, items: items}
	case map[string]any:
		fields := make(map[string]RawRole, len(t))
		for k, fv := range t {
			fields[k] = RawRoleFromValue(fv)
		}
		return RawRole{kind: RawRecord, fields: fields}
	case map[string]string:
		fields := make(map[string]RawRole, len(t))
		for k, fv := range t {
			fields[k] = RawRoleString(fv)
		}
		return RawRole{kind: RawRecord, fields: fields}
	default:
		return RawRole{}
	}
}

// GoString renders r for debugging and log output.
func (r RawRole) GoString() string {
	switch r.kind {
	case RawString:
		return fmt.Sprintf("%q", r.str)
	case RawRecord:
		keys := slices.Sorted(maps.Keys(r.fields))
		s := "{"
		for i, k := range keys {
			if i > 0 {
				s += ", "
			}
			s += k + ": " + r.fields[k].GoString()
		}
		return s + "}"
	case RawList:
		s := "["
		for i, it := range r.items {
			if i > 0 {
				s += ", "
			}
			s += it.GoString()
		}
		return s + "]"
	default:
		return "<absent>"
	}
}
