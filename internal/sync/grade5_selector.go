// Package sync implements the synchronization policies (C4) consulted as
// active placers during the placement pipeline: the Grade-5 triple's
// ratio-balancing teacher selector, its atomic placer, the exchange-class
// mirror placer, and the test-period protector.
package sync

import (
	"math/rand"
	"sort"

	"github.com/seito-school/timetable-engine/internal/domain"
)

type historyKey struct {
	Subject domain.Subject
	Teacher domain.Teacher
}

// Grade5TeacherSelector picks which teacher covers a Grade-5 triple
// placement when a subject has multiple candidate teachers, balancing
// selections toward configured ratios using cumulative-count feedback.
// Grounded on the original grade5_teacher_selector service's ratio and
// balanced selection modes.
type Grade5TeacherSelector struct {
	ratios  map[domain.Subject]map[domain.Teacher]float64
	history map[historyKey]int
	rng     *rand.Rand
}

// NewGrade5TeacherSelector builds a selector. rng must be non-nil and
// should be seeded explicitly by the caller for deterministic runs.
func NewGrade5TeacherSelector(ratios map[domain.Subject]map[domain.Teacher]float64, rng *rand.Rand) *Grade5TeacherSelector {
	if ratios == nil {
		ratios = map[domain.Subject]map[domain.Teacher]float64{}
	}
	return &Grade5TeacherSelector{
		ratios:  ratios,
		history: make(map[historyKey]int),
		rng:     rng,
	}
}

// Select chooses one teacher from candidates for subject, recording the
// choice in the selector's history for future ratio balancing. Returns
// false if candidates is empty.
func (s *Grade5TeacherSelector) Select(subject domain.Subject, candidates []domain.Teacher) (domain.Teacher, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	if ratioConfig, ok := s.ratios[subject]; ok && len(ratioConfig) > 0 {
		return s.selectByRatio(subject, candidates, ratioConfig), true
	}
	return s.selectBalanced(subject, candidates), true
}

func (s *Grade5TeacherSelector) selectByRatio(subject domain.Subject, candidates []domain.Teacher, ratioConfig map[domain.Teacher]float64) domain.Teacher {
	var ratioCandidates []domain.Teacher
	for _, t := range candidates {
		if _, ok := ratioConfig[t]; ok {
			ratioCandidates = append(ratioCandidates, t)
		}
	}
	if len(ratioCandidates) == 0 {
		return candidates[0]
	}

	total := 0
	counts := make(map[domain.Teacher]int, len(ratioCandidates))
	for _, t := range ratioCandidates {
		c := s.history[historyKey{Subject: subject, Teacher: t}]
		counts[t] = c
		total += c
	}

	var selected domain.Teacher
	if total == 0 {
		selected = ratioCandidates[s.rng.Intn(len(ratioCandidates))]
	} else {
		type scored struct {
			score   float64
			teacher domain.Teacher
		}
		scores := make([]scored, 0, len(ratioCandidates))
		for _, t := range ratioCandidates {
			currentRatio := float64(counts[t]) / float64(total)
			scores = append(scores, scored{score: currentRatio - ratioConfig[t], teacher: t})
		}
		sort.SliceStable(scores, func(i, j int) bool { return scores[i].score < scores[j].score })
		selected = scores[0].teacher
	}

	s.history[historyKey{Subject: subject, Teacher: selected}]++
	return selected
}

func (s *Grade5TeacherSelector) selectBalanced(subject domain.Subject, candidates []domain.Teacher) domain.Teacher {
	type counted struct {
		count   int
		teacher domain.Teacher
	}
	counts := make([]counted, 0, len(candidates))
	for _, t := range candidates {
		counts = append(counts, counted{count: s.history[historyKey{Subject: subject, Teacher: t}], teacher: t})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count < counts[j].count })

	minCount := counts[0].count
	var tied []domain.Teacher
	for _, c := range counts {
		if c.count == minCount {
			tied = append(tied, c.teacher)
		}
	}

	selected := tied[s.rng.Intn(len(tied))]
	s.history[historyKey{Subject: subject, Teacher: selected}]++
	return selected
}

// Ratios reported as counts per (subject, teacher), for the orchestrator's
// statistics output.
func (s *Grade5TeacherSelector) History() map[domain.Subject]map[domain.Teacher]int {
	out := make(map[domain.Subject]map[domain.Teacher]int)
	for k, count := range s.history {
		if out[k.Subject] == nil {
			out[k.Subject] = make(map[domain.Teacher]int)
		}
		out[k.Subject][k.Teacher] = count
	}
	return out
}

// Reset clears the selection history, for reuse across independent runs.
func (s *Grade5TeacherSelector) Reset() {
	s.history = make(map[historyKey]int)
}
