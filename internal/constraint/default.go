package constraint

// DefaultConstraints builds the full consolidated constraint set, grouped
// by family, that NewRegistry sorts into priority order. maxTeacherDailyLoad
// configures the soft daily-workload cap; pass 0 to accept its default.
func DefaultConstraints(maxTeacherDailyLoad int) []Constraint {
	return []Constraint{
		NewFixedSlotConstraint(),
		NewTestPeriodLockConstraint(),
		NewForbiddenCellConstraint(),
		NewMeetingUnavailabilityConstraint(),

		NewTeacherExclusivityConstraint(),
		NewTeacherAvailabilityConstraint(),
		NewTeacherDailyWorkloadConstraint(maxTeacherDailyLoad),

		NewGrade5SyncConstraint(),
		NewExchangeMirrorConstraint(),

		NewGymExclusivityConstraint(),

		NewDailySubjectUniquenessConstraint(),
		NewHoursBudgetConstraint(),
		NewMorningPreferenceConstraint(),

		NewSubjectClassEligibilityConstraint(),
		NewTeacherSubjectAssignmentConstraint(),
	}
}
