package domain

// Risk thresholds shared by the cleaner and every downstream consumer.
// DropoutAttendanceThreshold is intentionally the single named constant for
// the dropout cutoff: the cleaner's imputation branch and the dashboard's
// dropout annotation both read it, so tuning it later cannot silently
// diverge between the two.
const (
	DropoutAttendanceThreshold = 35.0

	GradeDropThreshold        = 10.0
	AtRiskAttendanceThreshold = 75.0
	AtRiskFinalGradeThreshold = 65.0
)

// RiskAssessment is the per-course risk signal for one cleaned record.
type RiskAssessment struct {
	GradeDrop float64 `json:"grade_drop"`
	AtRisk    bool    `json:"at_risk"`
}

// Classify computes the drop-in-performance signal and the at-risk flag for
// a single cleaned record. It is a pure function, safe to recompute at any
// consumption point; persisting its output would risk staleness against the
// source fields, so consumers call this instead.
//
// A record is at risk if ANY of the three conditions triggers: the final
// grade dropped more than GradeDropThreshold points below the midterm, the
// attendance rate is below AtRiskAttendanceThreshold, or the final grade is
// below AtRiskFinalGradeThreshold. GradeDrop may be negative when the
// student improved on the final. A null midterm or final grade (the
// cleaner's unclassifiable residual) yields a zero GradeDrop and never
// triggers the drop condition on its own; a comparison against an unknown
// value is not evidence of a drop.
func Classify(rec CleanedRecord) RiskAssessment {
	var drop float64
	if rec.MidtermGrade.Valid && rec.FinalGrade.Valid {
		drop = rec.MidtermGrade.Float64 - rec.FinalGrade.Float64
	}

	atRisk := drop > GradeDropThreshold ||
		(rec.AttendanceRate.Valid && rec.AttendanceRate.Float64 < AtRiskAttendanceThreshold) ||
		(rec.FinalGrade.Valid && rec.FinalGrade.Float64 < AtRiskFinalGradeThreshold)

	return RiskAssessment{GradeDrop: drop, AtRisk: atRisk}
}

// IsInferredDropout reports whether a cleaned record looks like a dropout
// that the cleaner zeroed out: no final score and attendance below the
// shared dropout threshold. The dashboard uses this to annotate the display
// value rather than re-deriving the cutoff from a second literal.
func IsInferredDropout(rec CleanedRecord) bool {
	return rec.FinalGrade.Valid && rec.FinalGrade.Float64 == 0 &&
		rec.AttendanceRate.Valid && rec.AttendanceRate.Float64 < DropoutAttendanceThreshold
}

// AtRiskStudents reduces per-course risk flags to the student level: a
// student is at risk overall if at least one of their enrolled-course
// records is flagged. Returns the set of flagged student IDs.
func AtRiskStudents(records []CleanedRecord) map[string]bool {
	flagged := make(map[string]bool)
	for _, rec := range records {
		if Classify(rec).AtRisk {
			flagged[rec.StudentID] = true
		}
	}
	return flagged
}
