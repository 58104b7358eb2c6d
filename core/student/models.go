package student

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mentor/core"
)

// DefaultThreshold is the minimum attendance percentage used when none is given.
const DefaultThreshold = 75

type Student struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Branch    string `json:"branch"`
	Semester  int    `json:"semester"`
	Section   string `json:"section"`
}

// Attendance is one course's attendance tally. Attended is not checked against TotalClasses here;
// write paths go through NewAttendance.Validate which rejects attended > total_classes.
type Attendance struct {
	ID           string `json:"id"`
	StudentID    string `json:"student_id"`
	CourseCode   string `json:"course_code"`
	CourseName   string `json:"course_name"`
	TotalClasses int    `json:"total_classes"`
	Attended     int    `json:"attended"`
	Threshold    int    `json:"threshold"` // percentage
}

type Mark struct {
	ID         string   `json:"id"`
	StudentID  string   `json:"student_id"`
	CourseCode string   `json:"course_code"`
	CourseName string   `json:"course_name"`
	ExamType   string   `json:"exam_type"` // Mid-1, Mid-2, Assignment, etc.
	Score      float64  `json:"score"`
	MaxScore   float64  `json:"max_score"`
	TopicTags  []string `json:"topic_tags"`

	// StoredTopics is the topic_tags column as read from the database, spacing included.
	StoredTopics string `json:"-"`
}

// Percentage is score/max_score*100, or 0 when max_score is not positive.
func (m Mark) Percentage() float64 {
	if m.MaxScore > 0 {
		return (m.Score / m.MaxScore) * 100
	}
	return 0.0
}

// Topics returns the topic tags the way they are stored.
func (m Mark) Topics() string {
	if m.StoredTopics != "" {
		return m.StoredTopics
	}
	return core.JoinTags(m.TopicTags)
}

// Result holds the GPA of one semester.
type Result struct {
	ID        string  `json:"id"`
	StudentID string  `json:"student_id"`
	Semester  int     `json:"semester"`
	SGPA      float64 `json:"sgpa"`
	CGPA      float64 `json:"cgpa"`
}

// AttendanceStatus is an Attendance record along with its computed Insight.
type AttendanceStatus struct {
	Attendance
	Percentage    float64 `json:"percentage"`
	ClassesNeeded int     `json:"classes_needed"`
	AtRisk        bool    `json:"at_risk"`
}

func NewAttendanceStatus(att Attendance) AttendanceStatus {
	ins := ComputeAttendanceInsight(att)
	return AttendanceStatus{
		Attendance:    att,
		Percentage:    ins.Percentage,
		ClassesNeeded: ins.ClassesNeeded,
		AtRisk:        att.TotalClasses > 0 && ins.Percentage < float64(att.Threshold),
	}
}

// NewStudent contains information needed to register a Student.
type NewStudent struct {
	StudentID string `json:"student_id" validate:"notblank"`
	Name      string `json:"name" validate:"notblank"`
	Branch    string `json:"branch" validate:"notblank"`
	Semester  int    `json:"semester" validate:"gte=1,lte=12"`
	Section   string `json:"section" validate:"notblank"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.Name = core.CleanString(ns.Name)
	ns.Branch = strings.ToUpper(core.CleanString(ns.Branch))
	ns.Section = strings.ToUpper(core.CleanString(ns.Section))
	return validate.Struct(ns)
}

// NewAttendance contains information needed to record a course's attendance.
type NewAttendance struct {
	CourseCode   string `json:"course_code" validate:"notblank"`
	CourseName   string `json:"course_name" validate:"notblank"`
	TotalClasses int    `json:"total_classes" validate:"gte=0"`
	Attended     int    `json:"attended" validate:"gte=0,ltefield=TotalClasses"`
	Threshold    *int   `json:"threshold" validate:"omitempty,gte=0,lte=100"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.CourseCode = strings.ToUpper(core.CleanString(na.CourseCode))
	na.CourseName = core.CleanString(na.CourseName)
	return validate.Struct(na)
}

func (na NewAttendance) threshold() int {
	if na.Threshold == nil {
		return DefaultThreshold
	}
	return *na.Threshold
}

// NewMark contains information needed to record an exam score.
type NewMark struct {
	CourseCode string   `json:"course_code" validate:"notblank"`
	CourseName string   `json:"course_name" validate:"notblank"`
	ExamType   string   `json:"exam_type" validate:"notblank"`
	Score      float64  `json:"score" validate:"gte=0,ltefield=MaxScore"`
	MaxScore   float64  `json:"max_score" validate:"gte=0"`
	TopicTags  []string `json:"topic_tags" validate:"omitempty,dive,notblank,excludes=0x2C"`
}

func (nm *NewMark) Validate(validate *validator.Validate) error {
	nm.CourseCode = strings.ToUpper(core.CleanString(nm.CourseCode))
	nm.CourseName = core.CleanString(nm.CourseName)
	nm.ExamType = core.CleanString(nm.ExamType)
	for i, tag := range nm.TopicTags {
		nm.TopicTags[i] = core.CleanString(tag)
	}
	return validate.Struct(nm)
}
