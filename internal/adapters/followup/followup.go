// Package followup is the reference ports.FollowUpParser and
// ports.TeacherAbsenceRepository: both are backed by the same weekly
// follow-up notes file, read once and cached, in the style of the
// config.Reader adapter.
package followup

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/seito-school/timetable-engine/internal/domain"
	"github.com/seito-school/timetable-engine/internal/ports"
	domerrors "github.com/seito-school/timetable-engine/pkg/errors"
)

type rawTestPeriod struct {
	Day         string `yaml:"day"`
	Periods     []int  `yaml:"periods"`
	Description string `yaml:"description"`
}

type rawAbsence struct {
	Teacher string `yaml:"teacher"`
	Day     string `yaml:"day"`
	Period  int    `yaml:"period"`
}

type rawFile struct {
	TestPeriods         []rawTestPeriod `yaml:"test_periods"`
	SpecialInstructions []string        `yaml:"special_instructions"`
	TeacherAbsences     []rawAbsence    `yaml:"teacher_absences"`
}

var dayNames = map[string]domain.Weekday{"Mon": domain.Monday, "Tue": domain.Tuesday, "Wed": domain.Wednesday, "Thu": domain.Thursday, "Fri": domain.Friday}

func parseDay(name string) (domain.Weekday, error) {
	d, ok := dayNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return d, nil
}

// Notes is the reference ports.FollowUpParser and
// ports.TeacherAbsenceRepository, lazily parsing a single YAML file and
// reusing the result for every subsequent call.
type Notes struct {
	path string

	once      sync.Once
	raw       *rawFile
	parseErr  error
	absences  *domain.StaticAvailability
}

func New(path string) *Notes {
	return &Notes{path: path}
}

func (n *Notes) ensureParsed() error {
	n.once.Do(func() {
		data, err := os.ReadFile(n.path)
		if err != nil {
			n.parseErr = domerrors.Wrap(err, domerrors.CodeDataLoading, "failed to read follow-up notes")
			return
		}
		var raw rawFile
		if err := yaml.Unmarshal(data, &raw); err != nil {
			n.parseErr = domerrors.Wrap(err, domerrors.CodeDataLoading, "failed to parse follow-up notes")
			return
		}
		n.raw = &raw

		availability := domain.NewStaticAvailability()
		for _, a := range raw.TeacherAbsences {
			day, err := parseDay(a.Day)
			if err != nil {
				n.parseErr = domerrors.Wrap(err, domerrors.CodeDataLoading, "invalid absence day")
				return
			}
			availability.MarkUnavailable(domain.Teacher(a.Teacher), domain.NewTimeSlot(day, a.Period))
		}
		n.absences = availability
	})
	return n.parseErr
}

func (n *Notes) ParseTestPeriods() ([]ports.TestPeriod, error) {
	if err := n.ensureParsed(); err != nil {
		return nil, err
	}
	out := make([]ports.TestPeriod, 0, len(n.raw.TestPeriods))
	for _, tp := range n.raw.TestPeriods {
		day, err := parseDay(tp.Day)
		if err != nil {
			return nil, domerrors.Wrap(err, domerrors.CodeDataLoading, "invalid test period day")
		}
		out = append(out, ports.TestPeriod{Day: day, Periods: tp.Periods, Description: tp.Description})
	}
	return out, nil
}

func (n *Notes) SpecialInstructions() ([]string, error) {
	if err := n.ensureParsed(); err != nil {
		return nil, err
	}
	return n.raw.SpecialInstructions, nil
}

func (n *Notes) ParseTeacherAbsences() (map[domain.Teacher][]domain.TimeSlot, error) {
	if err := n.ensureParsed(); err != nil {
		return nil, err
	}
	out := make(map[domain.Teacher][]domain.TimeSlot)
	for teacher, slots := range n.absences.Unavailable {
		for slot := range slots {
			out[teacher] = append(out[teacher], slot)
		}
	}
	return out, nil
}

// IsAbsent implements ports.TeacherAbsenceRepository by delegating to the
// same parsed absence set ParseTeacherAbsences exposes as a map.
func (n *Notes) IsAbsent(name domain.Teacher, slot domain.TimeSlot) bool {
	if err := n.ensureParsed(); err != nil {
		return false
	}
	return !n.absences.IsAvailable(name, slot)
}

// IsAvailable implements domain.AvailabilityOracle directly over the same
// parsed absences, so a caller can hand Notes straight to the pipeline
// without a separate StaticAvailability wiring step.
func (n *Notes) IsAvailable(name domain.Teacher, slot domain.TimeSlot) bool {
	return !n.IsAbsent(name, slot)
}
