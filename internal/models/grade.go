package models

// Grades holds every assignable grade in promotion order, from the youngest
// kindergarten group up to the last year of high school. GradeGraduated is a
// terminal state on top of these and never appears in the slice.
var Grades = []string{
	"유치부 5세",
	"유치부 6세",
	"유치부 7세",
	"초등 1학년",
	"초등 2학년",
	"초등 3학년",
	"초등 4학년",
	"초등 5학년",
	"초등 6학년",
	"중등 1학년",
	"중등 2학년",
	"중등 3학년",
	"고등 1학년",
	"고등 2학년",
	"고등 3학년",
}

const GradeGraduated = "졸업"

// ValidGrade reports whether s is one of the known grades or the terminal
// graduated state.
func ValidGrade(s string) bool {
	if s == GradeGraduated {
		return true
	}
	for _, g := range Grades {
		if g == s {
			return true
		}
	}
	return false
}
