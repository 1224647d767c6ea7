// Package yamlschedule is the reference ports.ScheduleRepository: it loads
// an initial partial schedule and its forbidden-cell markers from YAML,
// and serializes the final schedule back out the same way.
package yamlschedule

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seito-school/timetable-engine/internal/domain"
	domerrors "github.com/seito-school/timetable-engine/pkg/errors"
)

type rawClassRef struct {
	Grade       int `yaml:"grade"`
	ClassNumber int `yaml:"class_number"`
}

func (r rawClassRef) toDomain() domain.ClassRef {
	return domain.NewClassRef(r.Grade, r.ClassNumber)
}

func fromClassRef(c domain.ClassRef) rawClassRef {
	return rawClassRef{Grade: c.Grade, ClassNumber: c.ClassNumber}
}

var dayNames = map[string]domain.Weekday{"Mon": domain.Monday, "Tue": domain.Tuesday, "Wed": domain.Wednesday, "Thu": domain.Thursday, "Fri": domain.Friday}

func parseDay(name string) (domain.Weekday, error) {
	d, ok := dayNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return d, nil
}

type rawCell struct {
	Class   rawClassRef `yaml:"class"`
	Day     string      `yaml:"day"`
	Period  int         `yaml:"period"`
	Subject string      `yaml:"subject,omitempty"`
	Teacher string      `yaml:"teacher,omitempty"`
}

type rawForbidden struct {
	Class    rawClassRef `yaml:"class"`
	Day      string      `yaml:"day"`
	Period   int         `yaml:"period"`
	Subjects []string    `yaml:"subjects"`
}

type rawFile struct {
	Cells          []rawCell      `yaml:"cells"`
	ForbiddenCells []rawForbidden `yaml:"forbidden_cells,omitempty"`
}

// Repository is the reference ports.ScheduleRepository, reading the
// initial schedule from inPath and writing the final one to outPath.
type Repository struct {
	inPath  string
	outPath string
}

func New(inPath, outPath string) *Repository {
	return &Repository{inPath: inPath, outPath: outPath}
}

func (r *Repository) load() (*rawFile, error) {
	data, err := os.ReadFile(r.inPath)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeDataLoading, "failed to read schedule file")
	}
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeDataLoading, "failed to parse schedule YAML")
	}
	return &raw, nil
}

func (r *Repository) LoadInitial(ctx context.Context, school *domain.School) (*domain.Schedule, error) {
	raw, err := r.load()
	if err != nil {
		return nil, err
	}

	schedule := domain.NewSchedule()
	for _, c := range raw.Cells {
		if c.Subject == "" {
			continue
		}
		day, err := parseDay(c.Day)
		if err != nil {
			return nil, domerrors.Wrap(err, domerrors.CodeDataLoading, "invalid cell day")
		}
		cell := domain.NewCell(domain.NewTimeSlot(day, c.Period), c.Class.toDomain())
		schedule.SeedAssign(cell, domain.Assignment{Subject: domain.Subject(c.Subject), Teacher: domain.Teacher(c.Teacher)})
	}
	return schedule, nil
}

func (r *Repository) ForbiddenCells(ctx context.Context) (map[domain.Cell]map[domain.Subject]struct{}, error) {
	raw, err := r.load()
	if err != nil {
		return nil, err
	}

	out := make(map[domain.Cell]map[domain.Subject]struct{})
	for _, f := range raw.ForbiddenCells {
		day, err := parseDay(f.Day)
		if err != nil {
			return nil, domerrors.Wrap(err, domerrors.CodeDataLoading, "invalid forbidden-cell day")
		}
		cell := domain.NewCell(domain.NewTimeSlot(day, f.Period), f.Class.toDomain())
		set := out[cell]
		if set == nil {
			set = make(map[domain.Subject]struct{})
			out[cell] = set
		}
		for _, s := range f.Subjects {
			set[domain.Subject(s)] = struct{}{}
		}
	}
	return out, nil
}

// Save writes every non-empty cell of schedule to outPath as YAML.
func (r *Repository) Save(ctx context.Context, schedule *domain.Schedule) error {
	var out rawFile
	for _, cell := range schedule.Cells() {
		a, ok := schedule.Get(cell)
		if !ok || a.Empty() {
			continue
		}
		out.Cells = append(out.Cells, rawCell{
			Class:   fromClassRef(cell.Class),
			Day:     cell.Slot.Day.String(),
			Period:  cell.Slot.Period,
			Subject: string(a.Subject),
			Teacher: string(a.Teacher),
		})
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return domerrors.Wrap(err, domerrors.CodeInternal, "failed to marshal schedule")
	}
	if err := os.WriteFile(r.outPath, data, 0o644); err != nil {
		return domerrors.Wrap(err, domerrors.CodeDataLoading, "failed to write schedule file")
	}
	return nil
}
