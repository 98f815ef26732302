package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/localmart/catalog-sync/models"
)

func rules(include, exclude []string, mappings ...models.DepartmentMapping) *Rules {
	return New(models.PlatformSettings{
		IncludeTags:       include,
		ExcludeTags:       exclude,
		DepartmentMapping: mappings,
	})
}

func TestKeep(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		tags    []string
		want    bool
	}{
		{"no rules keeps everything", nil, nil, []string{"anything"}, true},
		{"no rules keeps untagged", nil, nil, nil, true},
		{"include hit", []string{"handmade"}, nil, []string{"handmade", "wood"}, true},
		{"include miss", []string{"handmade"}, nil, []string{"plastic"}, false},
		{"include miss when untagged", []string{"handmade"}, nil, nil, false},
		{"exclude hit", nil, []string{"wholesale"}, []string{"wholesale", "bulk"}, false},
		{"exclude miss", nil, []string{"wholesale"}, []string{"retail"}, true},
		{"exclude wins over include", []string{"handmade"}, []string{"seconds"}, []string{"handmade", "seconds"}, false},
		{"case insensitive", []string{"Handmade"}, nil, []string{"HANDMADE"}, true},
		{"whitespace trimmed", []string{" handmade "}, nil, []string{"handmade"}, true},
		{"entities decoded", []string{"arts &amp; crafts"}, nil, []string{"Arts & Crafts"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules(tt.include, tt.exclude).Keep(tt.tags))
		})
	}
}

// Mirrors the include/exclude contract across a grid of tag sets: keep is
// true iff (include empty or intersecting) and not (exclude intersecting).
func TestKeepMatchesDecisionRule(t *testing.T) {
	include := []string{"a", "b"}
	exclude := []string{"x"}
	tagSets := [][]string{
		nil, {"a"}, {"b", "c"}, {"x"}, {"a", "x"}, {"c"}, {"A", "X"},
	}
	r := rules(include, exclude)
	for _, tags := range tagSets {
		wantInclude := false
		wantExclude := false
		for _, tag := range tags {
			switch {
			case tag == "a" || tag == "b" || tag == "A":
				wantInclude = true
			}
			if tag == "x" || tag == "X" {
				wantExclude = true
			}
		}
		assert.Equal(t, wantInclude && !wantExclude, r.Keep(tags), "tags=%v", tags)
	}
}

func TestDepartments(t *testing.T) {
	r := rules(nil, nil,
		models.DepartmentMapping{Key: "Mugs", Departments: []string{"kitchen", "gifts"}},
		models.DepartmentMapping{Key: "Prints", Departments: []string{"art"}},
	)

	assert.Equal(t, []string{"kitchen", "gifts"}, r.Departments([]string{"mugs"}))
	assert.Equal(t, []string{"kitchen", "gifts", "art"}, r.Departments([]string{"prints", "MUGS"}))
	assert.Empty(t, r.Departments([]string{"furniture"}))
	assert.Empty(t, r.Departments(nil))
}

func TestDepartmentsOrderIndependent(t *testing.T) {
	r := rules(nil, nil,
		models.DepartmentMapping{Key: "a", Departments: []string{"d1"}},
		models.DepartmentMapping{Key: "b", Departments: []string{"d2"}},
	)
	assert.ElementsMatch(t, r.Departments([]string{"a", "b"}), r.Departments([]string{"b", "a"}))
}

func TestDepartmentsMatchesKeyOnce(t *testing.T) {
	// A type listed twice still contributes each mapping's departments once.
	r := rules(nil, nil, models.DepartmentMapping{Key: "mugs", Departments: []string{"kitchen"}})
	assert.Equal(t, []string{"kitchen"}, r.Departments([]string{"mugs", "mugs"}))
}
