package followup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seito-school/timetable-engine/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "followup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNotesParsesTestPeriodsInstructionsAndAbsences(t *testing.T) {
	path := writeFile(t, `
test_periods:
  - day: Mon
    periods: [1, 2, 3]
    description: "中間テスト"
special_instructions:
  - "体育祭のため金曜は短縮授業"
teacher_absences:
  - teacher: "kokugo-sensei"
    day: Wed
    period: 4
`)

	notes := New(path)

	periods, err := notes.ParseTestPeriods()
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, domain.Monday, periods[0].Day)
	assert.Equal(t, []int{1, 2, 3}, periods[0].Periods)

	instructions, err := notes.SpecialInstructions()
	require.NoError(t, err)
	assert.Len(t, instructions, 1)

	slot := domain.NewTimeSlot(domain.Wednesday, 4)
	assert.True(t, notes.IsAbsent("kokugo-sensei", slot))
	assert.False(t, notes.IsAvailable("kokugo-sensei", slot))
	assert.True(t, notes.IsAvailable("kokugo-sensei", domain.NewTimeSlot(domain.Monday, 1)))

	absences, err := notes.ParseTeacherAbsences()
	require.NoError(t, err)
	assert.Contains(t, absences, domain.Teacher("kokugo-sensei"))
}
