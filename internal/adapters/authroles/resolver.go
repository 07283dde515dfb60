// Package authroles normalizes upstream role claims into the closed set of
// application roles.
package authroles

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// recordFields lists the record fields consulted for a role value, in priority order.
// "type" is the fallback.
var recordFields = []string{"name", "role", "role_name", "roles", "type"}

// maxDepth bounds recursion through nested records and lists.
const maxDepth = 8

// spellings maps normalized upstream spellings to roles. Keys are case-folded
// with separators collapsed to "_". Prefixed and suffixed forms ("role_admin",
// "admin_role") are handled in lookup, plurals and synonyms are listed here.
var spellings = map[string]domainauth.Role{
	"admin":          domainauth.RoleAdmin,
	"admins":         domainauth.RoleAdmin,
	"administrator":  domainauth.RoleAdmin,
	"administrators": domainauth.RoleAdmin,
	"site_admin":     domainauth.RoleAdmin,
	"sysadmin":       domainauth.RoleAdmin,
	"superadmin":     domainauth.RoleAdmin,
	"super_admin":    domainauth.RoleAdmin,

	"employer":         domainauth.RoleEmployer,
	"employers":        domainauth.RoleEmployer,
	"recruiter":        domainauth.RoleEmployer,
	"recruiters":       domainauth.RoleEmployer,
	"hiring_manager":   domainauth.RoleEmployer,
	"hiring_managers":  domainauth.RoleEmployer,
	"company":          domainauth.RoleEmployer,
	"company_admin":    domainauth.RoleEmployer,
	"employer_account": domainauth.RoleEmployer,

	"job_seeker":  domainauth.RoleJobSeeker,
	"job_seekers": domainauth.RoleJobSeeker,
	"jobseeker":   domainauth.RoleJobSeeker,
	"jobseekers":  domainauth.RoleJobSeeker,
	"seeker":      domainauth.RoleJobSeeker,
	"seekers":     domainauth.RoleJobSeeker,
	"candidate":   domainauth.RoleJobSeeker,
	"candidates":  domainauth.RoleJobSeeker,
	"applicant":   domainauth.RoleJobSeeker,
	"applicants":  domainauth.RoleJobSeeker,
}

// Resolve maps a raw role of any shape to an application role.
//
// Strings are matched against the known spellings after case folding and
// separator normalization. Records are searched field by field (name, role,
// role_name, roles, then type) and the first field that resolves wins. Field
// names are normalized the same way as values.
// Lists resolve to the highest-privilege recognized entry. Anything else
// yields RoleUnrecognized; there is no default role.
func Resolve(raw domainauth.RawRole) domainauth.Role {
	return resolve(raw, nil, 0)
}

func resolve(raw domainauth.RawRole, extra map[string]domainauth.Role, depth int) domainauth.Role {
	if depth > maxDepth {
		return domainauth.RoleUnrecognized
	}
	switch raw.Kind() {
	case domainauth.RawString:
		s, _ := raw.Str()
		return lookup(Normalize(s), extra)
	case domainauth.RawRecord:
		fields := foldFields(raw)
		for _, name := range recordFields {
			v, ok := fields[name]
			if !ok {
				continue
			}
			if r := resolve(v, extra, depth+1); r.Recognized() {
				return r
			}
		}
	case domainauth.RawList:
		best := domainauth.RoleUnrecognized
		for _, it := range raw.Items() {
			if r := resolve(it, extra, depth+1); r.Privilege() > best.Privilege() {
				best = r
			}
		}
		return best
	}
	return domainauth.RoleUnrecognized
}

// foldFields indexes a record by normalized field name, so "Name", "ROLE" and
// "Role-Name" match like their lower-case forms. When two names fold to the
// same key, the one already in normalized form wins, otherwise the first in
// sorted order.
func foldFields(raw domainauth.RawRole) map[string]domainauth.RawRole {
	names := raw.FieldNames()
	out := make(map[string]domainauth.RawRole, len(names))
	for _, name := range names {
		key := Normalize(name)
		if _, taken := out[key]; taken && key != name {
			continue
		}
		out[key], _ = raw.Field(name)
	}
	return out
}

func lookup(key string, extra map[string]domainauth.Role) domainauth.Role {
	if key == "" {
		return domainauth.RoleUnrecognized
	}
	candidates := []string{key}
	if s, ok := strings.CutPrefix(key, "role_"); ok {
		candidates = append(candidates, s)
	}
	if s, ok := strings.CutSuffix(key, "_role"); ok {
		candidates = append(candidates, s)
	}
	for _, c := range candidates {
		if r, ok := extra[c]; ok {
			return r
		}
		if r, ok := spellings[c]; ok {
			return r
		}
	}
	return domainauth.RoleUnrecognized
}

// Normalize case-folds s and collapses runs of whitespace, '-', '.' and '_'
// into a single '_', trimming them at both ends.
func Normalize(s string) string {
	folded := cases.Fold().String(s)
	parts := strings.FieldsFunc(folded, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '.' || r == '_'
	})
	return strings.Join(parts, "_")
}

// Mapper implements ports.RoleMapper on top of Resolve, with optional
// deployment-specific aliases consulted before the built-in spellings.
type Mapper struct {
	aliases map[string]domainauth.Role
}

// NewMapper builds a Mapper from alias -> role name pairs (for example
// "hr_team" -> "employer"). Role names must be recognized roles.
func NewMapper(aliases map[string]string) (*Mapper, error) {
	m := &Mapper{aliases: make(map[string]domainauth.Role, len(aliases))}
	for k, v := range aliases {
		key := Normalize(k)
		if key == "" {
			return nil, fmt.Errorf("role alias %q: empty name", k)
		}
		r := lookup(Normalize(v), nil)
		if !r.Recognized() {
			return nil, fmt.Errorf("role alias %q: unknown role %q", k, v)
		}
		m.aliases[key] = r
	}
	return m, nil
}

// Map resolves raw using the configured aliases and the built-in spellings.
func (m *Mapper) Map(raw domainauth.RawRole) domainauth.Role {
	if m == nil {
		return Resolve(raw)
	}
	return resolve(raw, m.aliases, 0)
}
