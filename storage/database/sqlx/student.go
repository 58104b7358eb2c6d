package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/student"
)

var studentOrderFields = []string{"student_id", "name", "branch", "semester", "section"}

type (
	studentRow struct {
		StudentID string `db:"student_id"`
		Name      string `db:"name"`
		Branch    string `db:"branch"`
		Semester  int    `db:"semester"`
		Section   string `db:"section"`
	}

	attendanceRow struct {
		ID           string `db:"id"`
		StudentID    string `db:"student_id"`
		CourseCode   string `db:"course_code"`
		CourseName   string `db:"course_name"`
		TotalClasses int    `db:"total_classes"`
		Attended     int    `db:"attended"`
		Threshold    int    `db:"threshold"`
	}

	markRow struct {
		ID         string      `db:"id"`
		StudentID  string      `db:"student_id"`
		CourseCode string      `db:"course_code"`
		CourseName string      `db:"course_name"`
		ExamType   string      `db:"exam_type"`
		Score      float64     `db:"score"`
		MaxScore   float64     `db:"max_score"`
		TopicTags  null.String `db:"topic_tags"`
	}

	resultRow struct {
		ID        string  `db:"id"`
		StudentID string  `db:"student_id"`
		Semester  int     `db:"semester"`
		SGPA      float64 `db:"sgpa"`
		CGPA      float64 `db:"cgpa"`
	}
)

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func (repo studentRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps the "no rows" err to student.ErrNotFound
func (repo studentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (row studentRow) unbind() student.Student {
	return student.Student{
		StudentID: row.StudentID,
		Name:      row.Name,
		Branch:    row.Branch,
		Semester:  row.Semester,
		Section:   row.Section,
	}
}

func (row attendanceRow) unbind() student.Attendance {
	return student.Attendance(row)
}

func bindMark(m student.Mark) markRow {
	tags := core.JoinTags(m.TopicTags)
	return markRow{
		ID:         m.ID,
		StudentID:  m.StudentID,
		CourseCode: m.CourseCode,
		CourseName: m.CourseName,
		ExamType:   m.ExamType,
		Score:      m.Score,
		MaxScore:   m.MaxScore,
		TopicTags:  null.NewString(tags, tags != ""),
	}
}

func (row markRow) unbind() student.Mark {
	return student.Mark{
		ID:         row.ID,
		StudentID:  row.StudentID,
		CourseCode: row.CourseCode,
		CourseName: row.CourseName,
		ExamType:   row.ExamType,
		Score:      row.Score,
		MaxScore:   row.MaxScore,
		TopicTags:  core.SplitTags(row.TopicTags.String),

		StoredTopics: row.TopicTags.String,
	}
}

func (row resultRow) unbind() student.Result {
	return student.Result(row)
}

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student, exec ...core.DBExecutor) (student.Student, error) {
	exe := repo.getExec(exec)
	q := exe.Rebind(`INSERT INTO student (student_id, name, branch, semester, section) VALUES (?, ?, ?, ?, ?)`)
	if _, err := exe.ExecContext(ctx, q, st.StudentID, st.Name, st.Branch, st.Semester, st.Section); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, studentID string, exec ...core.DBExecutor) (student.Student, error) {
	exe := repo.getExec(exec)
	var row studentRow
	q := exe.Rebind(`SELECT student_id, name, branch, semester, section FROM student WHERE student_id = ?`)
	if err := exe.GetContext(ctx, &row, q, studentID); err != nil {
		return student.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return row.unbind(), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]student.Student, error) {
	var rows []studentRow
	q := `SELECT student_id, name, branch, semester, section FROM student ORDER BY ` +
		core.OrderByClause(ordering, studentOrderFields, "name ASC")
	if err := repo.getExec(exec).SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.unbind())
	}
	return students, nil
}

func (repo studentRepository) CreateAttendance(ctx context.Context, att student.Attendance, exec ...core.DBExecutor) (student.Attendance, error) {
	att.ID = uuid.New().String()
	q := `INSERT INTO attendance (id, student_id, course_code, course_name, total_classes, attended, threshold)
		VALUES (:id, :student_id, :course_code, :course_name, :total_classes, :attended, :threshold)`
	if _, err := repo.getExec(exec).NamedExecContext(ctx, q, attendanceRow(att)); err != nil {
		return student.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo studentRepository) QueryAttendance(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]student.Attendance, error) {
	exe := repo.getExec(exec)
	var rows []attendanceRow
	q := exe.Rebind(`SELECT id, student_id, course_code, course_name, total_classes, attended, threshold
		FROM attendance WHERE student_id = ? ORDER BY seq`)
	if err := exe.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	records := make([]student.Attendance, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.unbind())
	}
	return records, nil
}

func (repo studentRepository) CreateMark(ctx context.Context, mark student.Mark, exec ...core.DBExecutor) (student.Mark, error) {
	mark.ID = uuid.New().String()
	q := `INSERT INTO mark (id, student_id, course_code, course_name, exam_type, score, max_score, topic_tags)
		VALUES (:id, :student_id, :course_code, :course_name, :exam_type, :score, :max_score, :topic_tags)`
	row := bindMark(mark)
	if _, err := repo.getExec(exec).NamedExecContext(ctx, q, row); err != nil {
		return student.Mark{}, errors.Wrap(err, "inserting mark")
	}
	return row.unbind(), nil
}

func (repo studentRepository) QueryMarks(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]student.Mark, error) {
	exe := repo.getExec(exec)
	var rows []markRow
	q := exe.Rebind(`SELECT id, student_id, course_code, course_name, exam_type, score, max_score, topic_tags
		FROM mark WHERE student_id = ? ORDER BY seq`)
	if err := exe.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying marks")
	}
	marks := make([]student.Mark, 0, len(rows))
	for _, row := range rows {
		marks = append(marks, row.unbind())
	}
	return marks, nil
}

func (repo studentRepository) CreateResult(ctx context.Context, res student.Result, exec ...core.DBExecutor) (student.Result, error) {
	res.ID = uuid.New().String()
	q := `INSERT INTO result (id, student_id, semester, sgpa, cgpa) VALUES (:id, :student_id, :semester, :sgpa, :cgpa)`
	if _, err := repo.getExec(exec).NamedExecContext(ctx, q, resultRow(res)); err != nil {
		return student.Result{}, errors.Wrap(err, "inserting result")
	}
	return res, nil
}

func (repo studentRepository) QueryResults(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]student.Result, error) {
	exe := repo.getExec(exec)
	var rows []resultRow
	q := exe.Rebind(`SELECT id, student_id, semester, sgpa, cgpa FROM result WHERE student_id = ? ORDER BY semester, seq`)
	if err := exe.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	results := make([]student.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.unbind())
	}
	return results, nil
}
