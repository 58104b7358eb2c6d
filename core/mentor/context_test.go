package mentor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/student"
	"github.com/trezcool/mentor/storage/database/inmem"
)

var aarav = student.Student{StudentID: "S001", Name: "Aarav Sharma", Branch: "CSE", Semester: 5, Section: "A"}

func TestFormatAttendanceLines(t *testing.T) {
	lines := FormatAttendanceLines([]student.Attendance{
		{CourseCode: "DBMS", CourseName: "Database Management Systems", TotalClasses: 40, Attended: 26, Threshold: 75},
		{CourseCode: "OS", CourseName: "Operating Systems", TotalClasses: 40, Attended: 36, Threshold: 75},
		{CourseCode: "CN", CourseName: "Computer Networks", TotalClasses: 0, Attended: 0, Threshold: 75},
	})
	assert.Equal(t, []string{
		"- DBMS (Database Management Systems): 26/40 classes (65.0%), needs approx 16 more continuous classes to reach 75% attendance.",
		"- OS (Operating Systems): 36/40 classes (90.0%), needs approx 0 more continuous classes to reach 75% attendance.",
		"- CN (Computer Networks): 0/0 classes (0.0%), needs approx 0 more continuous classes to reach 75% attendance.",
	}, lines)
}

func TestFormatMarksLines(t *testing.T) {
	lines := FormatMarksLines([]student.Mark{
		{CourseCode: "DBMS", ExamType: "Mid-1", Score: 12, MaxScore: 20, TopicTags: []string{"normalization", "joins"}},
		{CourseCode: "OS", ExamType: "Assignment", Score: 12.5, MaxScore: 20, TopicTags: []string{"scheduling"}},
		{CourseCode: "CN", ExamType: "Quiz", Score: 0, MaxScore: 0},
	})
	assert.Equal(t, []string{
		"- DBMS Mid-1: 12/20 (60.0%), topics: normalization,joins",
		"- OS Assignment: 12.5/20 (62.5%), topics: scheduling",
		"- CN Quiz: 0/0 (0.0%), topics: ",
	}, lines)
}

func TestBuildContexts(t *testing.T) {
	att := []student.Attendance{
		{CourseCode: "DBMS", CourseName: "Database Management Systems", TotalClasses: 40, Attended: 26, Threshold: 75},
	}
	marks := []student.Mark{
		{CourseCode: "DBMS", ExamType: "Mid-1", Score: 12, MaxScore: 20, TopicTags: []string{"normalization", "joins"}},
	}
	attLine := "- DBMS (Database Management Systems): 26/40 classes (65.0%), needs approx 16 more continuous classes to reach 75% attendance."
	marksLine := "- DBMS Mid-1: 12/20 (60.0%), topics: normalization,joins"
	header := "Student: Aarav Sharma (ID: S001)\nBranch: CSE, Semester: 5, Section: A\n"

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "attendance",
			got:  BuildAttendanceContext(aarav, att),
			want: header + "\nAttendance:\n" + attLine,
		},
		{
			name: "attendance empty",
			got:  BuildAttendanceContext(aarav, nil),
			want: header + "\nAttendance:\nNo attendance data.",
		},
		{
			name: "marks",
			got:  BuildMarksContext(aarav, marks),
			want: header + "\nMarks:\n" + marksLine,
		},
		{
			name: "marks empty",
			got:  BuildMarksContext(aarav, []student.Mark{}),
			want: header + "\nMarks:\nNo marks data.",
		},
		{
			name: "full",
			got:  BuildFullContext(aarav, att, marks),
			want: header + "\nAttendance:\n" + attLine + "\n\nMarks:\n" + marksLine,
		},
		{
			name: "full without marks",
			got:  BuildFullContext(aarav, att, nil),
			want: header + "\nAttendance:\n" + attLine + "\n\nMarks:\nNo marks data.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

// The mentor prompt depends on this wording.
func TestAttendancePhrase(t *testing.T) {
	require.Equal(t, 1, AttendancePhraseVersion)
	line := FormatAttendanceLines([]student.Attendance{{CourseCode: "X", CourseName: "Y", TotalClasses: 10, Attended: 2, Threshold: 70}})[0]
	assert.Contains(t, line, "needs approx 17 more continuous classes")

	prompt, err := BuildSystemPrompt(line, nil, "q", QueryAttendance)
	require.NoError(t, err)
	assert.Contains(t, prompt, `copy the phrase after "needs approx"`)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "", want: KindFull},
		{in: "full", want: KindFull},
		{in: " Attendance ", want: KindAttendance},
		{in: "MARKS", want: KindMarks},
		{in: "gpa", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				var verr *core.ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func seedRecords(t *testing.T) *inmemdb.DB {
	t.Helper()
	ctx := context.Background()
	db := inmemdb.Open()
	repo := inmemdb.NewStudentRepository(db)

	_, err := repo.CreateStudent(ctx, aarav)
	require.NoError(t, err)
	_, err = repo.CreateStudent(ctx, student.Student{StudentID: "S002", Name: "Diya Patel", Branch: "ECE", Semester: 3, Section: "B"})
	require.NoError(t, err)

	for _, att := range []student.Attendance{
		{StudentID: "S001", CourseCode: "DBMS", CourseName: "Database Management Systems", TotalClasses: 40, Attended: 26, Threshold: 75},
		{StudentID: "S001", CourseCode: "OS", CourseName: "Operating Systems", TotalClasses: 40, Attended: 36, Threshold: 75},
	} {
		_, err = repo.CreateAttendance(ctx, att)
		require.NoError(t, err)
	}
	_, err = repo.CreateMark(ctx, student.Mark{StudentID: "S001", CourseCode: "DBMS", ExamType: "Mid-1", Score: 12, MaxScore: 20, TopicTags: []string{"normalization", "joins"}})
	require.NoError(t, err)
	return db
}

func TestAssembler(t *testing.T) {
	ctx := context.Background()
	asm := NewAssembler(inmemdb.NewStudentRepository(seedRecords(t)))

	t.Run("attendance in insertion order", func(t *testing.T) {
		got, err := asm.AttendanceContext(ctx, "S001")
		require.NoError(t, err)
		lines := strings.Split(got, "\n")
		require.Len(t, lines, 6)
		assert.True(t, strings.HasPrefix(lines[4], "- DBMS "))
		assert.True(t, strings.HasPrefix(lines[5], "- OS "))
	})

	t.Run("marks", func(t *testing.T) {
		got, err := asm.MarksContext(ctx, " S001 ")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(got, "Marks:\n- DBMS Mid-1: 12/20 (60.0%), topics: normalization,joins"))
		assert.NotContains(t, got, "Attendance:")
	})

	t.Run("full for a student without records", func(t *testing.T) {
		got, err := asm.FullContext(ctx, "S002")
		require.NoError(t, err)
		assert.Equal(t,
			"Student: Diya Patel (ID: S002)\nBranch: ECE, Semester: 3, Section: B\n\nAttendance:\nNo attendance data.\n\nMarks:\nNo marks data.",
			got)
	})

	t.Run("unknown student", func(t *testing.T) {
		for _, kind := range []Kind{KindAttendance, KindMarks, KindFull} {
			_, err := asm.Context(ctx, "S999", kind)
			assert.Equal(t, student.ErrNotFound, err, kind)
		}
	})
}
