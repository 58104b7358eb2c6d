package mentor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/student"
)

// AttendancePhraseVersion versions the wording of attendance lines.
// The mentor prompt tells the model to copy the number following "needs approx" verbatim,
// so any change to attendanceLineFormat must bump this and update systemPromptTmpl with it.
const AttendancePhraseVersion = 1

const (
	attendanceLineFormat = "- %s (%s): %d/%d classes (%.1f%%), needs approx %d more continuous classes to reach %d%% attendance."
	marksLineFormat      = "- %s %s: %s/%s (%.1f%%), topics: %s"

	noAttendanceLine = "No attendance data."
	noMarksLine      = "No marks data."
)

// Kind selects which records a context block is made of.
type Kind string

const (
	KindAttendance Kind = "attendance"
	KindMarks      Kind = "marks"
	KindFull       Kind = "full"
)

var errUnknownKind = errors.New("unknown context kind")

// ParseKind parses a Kind; the empty string means KindFull.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(core.CleanString(s, true /* lower */)); k {
	case KindAttendance, KindMarks, KindFull:
		return k, nil
	case "":
		return KindFull, nil
	default:
		return "", core.NewValidationError(errUnknownKind, core.FieldError{Field: "kind", Error: errUnknownKind.Error()})
	}
}

// FormatAttendanceLines renders one line per record, in the given order.
func FormatAttendanceLines(records []student.Attendance) []string {
	lines := make([]string, 0, len(records))
	for _, att := range records {
		ins := student.ComputeAttendanceInsight(att)
		lines = append(lines, fmt.Sprintf(
			attendanceLineFormat,
			att.CourseCode, att.CourseName,
			att.Attended, att.TotalClasses,
			ins.Percentage, ins.ClassesNeeded, att.Threshold,
		))
	}
	return lines
}

// FormatMarksLines renders one line per record, in the given order.
func FormatMarksLines(records []student.Mark) []string {
	lines := make([]string, 0, len(records))
	for _, m := range records {
		lines = append(lines, fmt.Sprintf(
			marksLineFormat,
			m.CourseCode, m.ExamType,
			formatScore(m.Score), formatScore(m.MaxScore),
			m.Percentage(), m.Topics(),
		))
	}
	return lines
}

// formatScore prints whole scores without decimals ("12") and keeps fractional ones ("12.5").
func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func header(st student.Student) []string {
	return []string{
		fmt.Sprintf("Student: %s (ID: %s)", st.Name, st.StudentID),
		fmt.Sprintf("Branch: %s, Semester: %d, Section: %s", st.Branch, st.Semester, st.Section),
	}
}

func attendanceSection(records []student.Attendance) []string {
	lines := []string{"", "Attendance:"}
	if len(records) == 0 {
		return append(lines, noAttendanceLine)
	}
	return append(lines, FormatAttendanceLines(records)...)
}

func marksSection(records []student.Mark) []string {
	lines := []string{"", "Marks:"}
	if len(records) == 0 {
		return append(lines, noMarksLine)
	}
	return append(lines, FormatMarksLines(records)...)
}

// BuildAttendanceContext is the student header followed by the attendance section.
func BuildAttendanceContext(st student.Student, attendance []student.Attendance) string {
	lines := append(header(st), attendanceSection(attendance)...)
	return strings.Join(lines, "\n")
}

// BuildMarksContext is the student header followed by the marks section.
func BuildMarksContext(st student.Student, marks []student.Mark) string {
	lines := append(header(st), marksSection(marks)...)
	return strings.Join(lines, "\n")
}

// BuildFullContext is the student header followed by the attendance and marks sections.
func BuildFullContext(st student.Student, attendance []student.Attendance, marks []student.Mark) string {
	lines := append(header(st), attendanceSection(attendance)...)
	lines = append(lines, marksSection(marks)...)
	return strings.Join(lines, "\n")
}

// Records is what the Assembler reads. student.Repository implements it.
type Records interface {
	GetStudent(ctx context.Context, studentID string, exec ...core.DBExecutor) (student.Student, error)
	QueryAttendance(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]student.Attendance, error)
	QueryMarks(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]student.Mark, error)
}

// Assembler builds context blocks for students looked up by ID.
// Every method fails with student.ErrNotFound for unknown students.
type Assembler struct {
	records Records
}

func NewAssembler(records Records) *Assembler {
	return &Assembler{records: records}
}

func (a *Assembler) AttendanceContext(ctx context.Context, studentID string) (string, error) {
	return a.Context(ctx, studentID, KindAttendance)
}

func (a *Assembler) MarksContext(ctx context.Context, studentID string) (string, error) {
	return a.Context(ctx, studentID, KindMarks)
}

func (a *Assembler) FullContext(ctx context.Context, studentID string) (string, error) {
	return a.Context(ctx, studentID, KindFull)
}

func (a *Assembler) Context(ctx context.Context, studentID string, kind Kind) (string, error) {
	st, err := a.records.GetStudent(ctx, core.CleanString(studentID))
	if err != nil {
		return "", err
	}

	var (
		attendance []student.Attendance
		marks      []student.Mark
	)
	if kind == KindAttendance || kind == KindFull {
		if attendance, err = a.records.QueryAttendance(ctx, st.StudentID); err != nil {
			return "", errors.Wrap(err, "querying attendance")
		}
	}
	if kind == KindMarks || kind == KindFull {
		if marks, err = a.records.QueryMarks(ctx, st.StudentID); err != nil {
			return "", errors.Wrap(err, "querying marks")
		}
	}

	switch kind {
	case KindAttendance:
		return BuildAttendanceContext(st, attendance), nil
	case KindMarks:
		return BuildMarksContext(st, marks), nil
	case KindFull:
		return BuildFullContext(st, attendance, marks), nil
	default:
		return "", errors.Wrapf(errUnknownKind, "%q", kind)
	}
}
