// Package yamlschool is the reference ports.SchoolRepository, loading the
// class/teacher/standard-hours aggregate from a YAML file, in the
// config.Reader style: gopkg.in/yaml.v3 decoding into a raw shape, then
// translated into the domain model, collecting every row-level problem
// through hashicorp/go-multierror rather than failing on the first one.
package yamlschool

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
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

type rawAssignment struct {
	Class   rawClassRef `yaml:"class"`
	Subject string      `yaml:"subject"`
	Teacher string      `yaml:"teacher"`
	Hours   int         `yaml:"hours"`
}

type rawFile struct {
	Classes     []rawClassRef   `yaml:"classes"`
	Assignments []rawAssignment `yaml:"assignments"`
}

// Repository is the reference ports.SchoolRepository, backed by a single
// YAML file on disk.
type Repository struct {
	path string
}

func New(path string) *Repository {
	return &Repository{path: path}
}

func (r *Repository) LoadSchool(ctx context.Context) (*domain.School, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeDataLoading, "failed to read school file")
	}

	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, domerrors.Wrap(err, domerrors.CodeDataLoading, "failed to parse school YAML")
	}

	school := domain.NewSchool()
	var errs *multierror.Error

	seen := make(map[domain.ClassRef]struct{})
	for _, c := range raw.Classes {
		class := c.toDomain()
		if _, dup := seen[class]; dup {
			errs = multierror.Append(errs, fmt.Errorf("class %s listed more than once", class))
			continue
		}
		seen[class] = struct{}{}
		school.Classes = append(school.Classes, class)
	}

	teachers := make(map[domain.Teacher]struct{})
	for _, a := range raw.Assignments {
		class := a.Class.toDomain()
		if _, ok := seen[class]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("assignment for unknown class %s", class))
			continue
		}
		if a.Subject == "" {
			errs = multierror.Append(errs, fmt.Errorf("assignment for class %s has an empty subject", class))
			continue
		}
		subject := domain.Subject(a.Subject)
		teacher := domain.Teacher(a.Teacher)
		school.TeacherOf[domain.TeacherAssignmentKey{Class: class, Subject: subject}] = teacher
		school.StandardHours[domain.StandardHoursKey{Class: class, Subject: subject}] = a.Hours
		if teacher != "" {
			teachers[teacher] = struct{}{}
		}
	}

	for t := range teachers {
		school.Teachers = append(school.Teachers, t)
	}

	if errs.ErrorOrNil() != nil {
		return nil, domerrors.Wrap(errs, domerrors.CodeDataLoading, "school file failed validation")
	}
	return school, nil
}
