package yamlschool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seito-school/timetable-engine/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "school.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSchoolParsesClassesAndAssignments(t *testing.T) {
	path := writeFile(t, `
classes:
  - grade: 1
    class_number: 1
  - grade: 1
    class_number: 2
assignments:
  - class: {grade: 1, class_number: 1}
    subject: "国"
    teacher: "kokugo-sensei"
    hours: 4
  - class: {grade: 1, class_number: 1}
    subject: "数"
    teacher: "suugaku-sensei"
    hours: 4
`)

	school, err := New(path).LoadSchool(context.Background())
	require.NoError(t, err)

	assert.Len(t, school.Classes, 2)
	a := domain.NewClassRef(1, 1)
	teacher, ok := school.TeacherFor(a, "国")
	require.True(t, ok)
	assert.Equal(t, domain.Teacher("kokugo-sensei"), teacher)
	assert.Equal(t, 4, school.RequiredHours(a, "国"))
}

func TestLoadSchoolRejectsAssignmentForUnknownClass(t *testing.T) {
	path := writeFile(t, `
classes:
  - grade: 1
    class_number: 1
assignments:
  - class: {grade: 9, class_number: 9}
    subject: "国"
    teacher: "kokugo-sensei"
    hours: 4
`)

	_, err := New(path).LoadSchool(context.Background())
	assert.Error(t, err)
}
