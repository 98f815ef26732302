// Package filter implements the per-business tag filter and department
// mapper. Rules are compiled once per business and platform; every
// comparison is case-insensitive, HTML-entity-decoded and trimmed on both
// sides. The package is pure: no I/O, deterministic output.
package filter

import (
	"github.com/localmart/catalog-sync/models"
	"github.com/localmart/catalog-sync/textutil"
)

type mapping struct {
	key         string
	departments []string
}

// Rules is a compiled include/exclude/department configuration.
type Rules struct {
	include  map[string]struct{}
	exclude  map[string]struct{}
	mappings []mapping
}

// New compiles a business's platform settings into comparison-ready rules.
func New(s models.PlatformSettings) *Rules {
	r := &Rules{
		include: normalizeSet(s.IncludeTags),
		exclude: normalizeSet(s.ExcludeTags),
	}
	for _, m := range s.DepartmentMapping {
		r.mappings = append(r.mappings, mapping{
			key:         textutil.NormalizeTag(m.Key),
			departments: append([]string(nil), m.Departments...),
		})
	}
	return r
}

// Keep reports whether a listing with the given raw tags should enter the
// catalog: included when the include list is empty or intersects the tags,
// and not excluded when the exclude list intersects them.
func (r *Rules) Keep(rawTags []string) bool {
	shouldInclude := len(r.include) == 0
	shouldExclude := false
	for _, raw := range rawTags {
		tag := textutil.NormalizeTag(raw)
		if _, ok := r.include[tag]; ok {
			shouldInclude = true
		}
		if _, ok := r.exclude[tag]; ok {
			shouldExclude = true
		}
	}
	return shouldInclude && !shouldExclude
}

// Departments unions the departments declared by every mapping whose key
// matches one of the listing's categories or product types. Types matching
// no mapping contribute nothing; the result may be empty.
func (r *Rules) Departments(rawTypes []string) []string {
	var out []string
	for _, m := range r.mappings {
		for _, raw := range rawTypes {
			if textutil.NormalizeTag(raw) == m.key {
				out = append(out, m.departments...)
				break
			}
		}
	}
	return out
}

func normalizeSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		n := textutil.NormalizeTag(t)
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}
