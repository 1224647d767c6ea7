package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// ClassRef identifies a class by grade (1..3) and class number. Numbers 1-3
// are regular classes, 5 is the special-needs "Grade-5" class, 6 and 7 are
// exchange classes mirroring a parent regular class.
type ClassRef struct {
	Grade       int
	ClassNumber int
}

func NewClassRef(grade, classNumber int) ClassRef {
	return ClassRef{Grade: grade, ClassNumber: classNumber}
}

func (c ClassRef) String() string {
	return fmt.Sprintf("%d-%d", c.Grade, c.ClassNumber)
}

// Less orders class refs by (grade, class_number).
func (c ClassRef) Less(o ClassRef) bool {
	if c.Grade != o.Grade {
		return c.Grade < o.Grade
	}
	return c.ClassNumber < o.ClassNumber
}

// IsGrade5 reports whether this class number is the special-needs class.
func (c ClassRef) IsGrade5() bool {
	return c.ClassNumber == 5
}

// IsExchange reports whether this class number is an exchange class.
func (c ClassRef) IsExchange() bool {
	return c.ClassNumber == 6 || c.ClassNumber == 7
}

// IsRegular reports whether this is a plain regular class (1, 2 or 3).
func (c ClassRef) IsRegular() bool {
	return c.ClassNumber >= 1 && c.ClassNumber <= 3
}

var classNamePattern = regexp.MustCompile(`^(\d)年(\d)ロ?組$`)

// ParseClassName parses a class name of the form "G年Nロ組" (e.g. "1年5組")
// into a ClassRef.
func ParseClassName(name string) (ClassRef, error) {
	m := classNamePattern.FindStringSubmatch(name)
	if m == nil {
		return ClassRef{}, fmt.Errorf("invalid class name %q: expected form G年N組", name)
	}
	grade, err := strconv.Atoi(m[1])
	if err != nil {
		return ClassRef{}, fmt.Errorf("invalid grade in class name %q: %w", name, err)
	}
	num, err := strconv.Atoi(m[2])
	if err != nil {
		return ClassRef{}, fmt.Errorf("invalid class number in class name %q: %w", name, err)
	}
	return ClassRef{Grade: grade, ClassNumber: num}, nil
}
