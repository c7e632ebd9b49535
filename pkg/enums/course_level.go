package enums

import "fmt"

// CourseLevel is the advertised difficulty of a course.
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

var validCourseLevels = []CourseLevel{
	CourseLevelBeginner,
	CourseLevelIntermediate,
	CourseLevelAdvanced,
}

// String implements fmt.Stringer.
func (l CourseLevel) String() string {
	return string(l)
}

// IsValid reports whether the value is a known CourseLevel.
func (l CourseLevel) IsValid() bool {
	for _, candidate := range validCourseLevels {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseCourseLevel converts raw input into a CourseLevel.
func ParseCourseLevel(value string) (CourseLevel, error) {
	for _, candidate := range validCourseLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid course level %q", value)
}
