package changelog_test

import (
	"testing"

	"github.com/alumnihub/backend/internal/changelog"
	"github.com/stretchr/testify/assert"
)

var trackedFields = []string{"bio", "skills", "organizations", "graduation_year"}

func TestDiffSelfIsEmpty(t *testing.T) {
	record := map[string]any{
		"bio":             "hello",
		"skills":          []any{"go", "sql"},
		"organizations":   []any{map[string]any{"name": "ACM", "role": "member"}},
		"graduation_year": 2015,
	}

	assert.Empty(t, changelog.Diff(record, record, trackedFields))
}

func TestDiffIgnoresArrayReordering(t *testing.T) {
	oldRec := map[string]any{"skills": []any{"a", "b", "c"}}
	newRec := map[string]any{"skills": []any{"c", "a", "b"}}

	assert.Empty(t, changelog.Diff(oldRec, newRec, trackedFields))
}

func TestDiffIgnoresObjectArrayOrderAndKeyOrder(t *testing.T) {
	oldRec := map[string]any{
		"organizations": []any{
			map[string]any{"name": "ACM", "role": "member"},
			map[string]any{"name": "IEEE", "role": "chair"},
		},
	}
	newRec := map[string]any{
		"organizations": []any{
			map[string]any{"role": "chair", "name": "IEEE"},
			map[string]any{"role": "member", "name": "ACM"},
		},
	}

	assert.Empty(t, changelog.Diff(oldRec, newRec, trackedFields))
}

func TestDiffDetectsObjectArrayContentChange(t *testing.T) {
	oldRec := map[string]any{
		"organizations": []any{map[string]any{"name": "ACM", "role": "member"}},
	}
	newRec := map[string]any{
		"organizations": []any{map[string]any{"name": "ACM", "role": "chair"}},
	}

	changes := changelog.Diff(oldRec, newRec, trackedFields)
	assert.Len(t, changes, 1)
	assert.Contains(t, changes, "organizations")
}

func TestDiffNullToValue(t *testing.T) {
	changes := changelog.Diff(
		map[string]any{"bio": nil},
		map[string]any{"bio": "hi"},
		trackedFields,
	)

	assert.Len(t, changes, 1)
	assert.Nil(t, changes["bio"].Old)
	assert.Equal(t, "hi", changes["bio"].New)
}

func TestDiffMissingFieldTreatedAsNull(t *testing.T) {
	// Field absent on one side compares as null, so absent -> set is a change
	// and absent -> explicit null is not.
	changes := changelog.Diff(
		map[string]any{},
		map[string]any{"bio": "hi"},
		trackedFields,
	)
	assert.Contains(t, changes, "bio")

	changes = changelog.Diff(
		map[string]any{},
		map[string]any{"bio": nil},
		trackedFields,
	)
	assert.Empty(t, changes)
}

func TestDiffNullAndEmptyArrayAreDistinct(t *testing.T) {
	changes := changelog.Diff(
		map[string]any{"skills": nil},
		map[string]any{"skills": []any{}},
		trackedFields,
	)

	assert.Contains(t, changes, "skills")
}

func TestDiffNumericRepresentationsCompareEqual(t *testing.T) {
	// A struct snapshot yields float64 via JSON while a caller may pass int.
	changes := changelog.Diff(
		map[string]any{"graduation_year": 2015},
		map[string]any{"graduation_year": float64(2015)},
		trackedFields,
	)

	assert.Empty(t, changes)
}

func TestDiffPreservesOriginalValues(t *testing.T) {
	oldSkills := []any{"b", "a"}
	newSkills := []any{"a", "c"}
	changes := changelog.Diff(
		map[string]any{"skills": oldSkills},
		map[string]any{"skills": newSkills},
		trackedFields,
	)

	assert.Equal(t, oldSkills, changes["skills"].Old)
	assert.Equal(t, newSkills, changes["skills"].New)
}

func TestDiffFieldSetSymmetric(t *testing.T) {
	a := map[string]any{"bio": "x", "skills": []any{"go"}, "graduation_year": 2001}
	b := map[string]any{"bio": "y", "skills": []any{"go", "sql"}, "graduation_year": 2001}

	forward := changelog.Diff(a, b, trackedFields)
	backward := changelog.Diff(b, a, trackedFields)

	assert.Equal(t, len(forward), len(backward))
	for field := range forward {
		assert.Contains(t, backward, field)
	}
}

func TestDiffUntrackedFieldsIgnored(t *testing.T) {
	changes := changelog.Diff(
		map[string]any{"updated_at": "2024-01-01"},
		map[string]any{"updated_at": "2024-06-01"},
		trackedFields,
	)

	assert.Empty(t, changes)
}

func TestSnapshotRoundTrip(t *testing.T) {
	type rec struct {
		Bio    string   `json:"bio"`
		Skills []string `json:"skills"`
	}

	fields := changelog.Snapshot(rec{Bio: "hi", Skills: []string{"go"}})
	assert.Equal(t, "hi", fields["bio"])
	assert.Equal(t, []any{"go"}, fields["skills"])
}
