package student

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mentor/core"
)

var (
	// errors
	ErrNotFound      = errors.New("student not found")
	ErrStudentExists = errors.New("a student with this ID already exists")
)

type (
	// Repository is the persistence collaborator for student records.
	// Query* methods return records in insertion order unless stated otherwise.
	Repository interface {
		CreateStudent(ctx context.Context, st Student, exec ...core.DBExecutor) (Student, error)
		// GetStudent fails with ErrNotFound when studentID has no matching record.
		GetStudent(ctx context.Context, studentID string, exec ...core.DBExecutor) (Student, error)
		QueryStudents(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Student, error)
		CreateAttendance(ctx context.Context, att Attendance, exec ...core.DBExecutor) (Attendance, error)
		QueryAttendance(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]Attendance, error)
		CreateMark(ctx context.Context, mark Mark, exec ...core.DBExecutor) (Mark, error)
		QueryMarks(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]Mark, error)
		CreateResult(ctx context.Context, res Result, exec ...core.DBExecutor) (Result, error)
		// QueryResults orders by semester.
		QueryResults(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]Result, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Get(ctx context.Context, studentID string) (Student, error)
		Query(ctx context.Context, ordering []core.DBOrdering) ([]Student, error)
		AttendanceReport(ctx context.Context, studentID string) ([]AttendanceStatus, error)
		AddAttendance(ctx context.Context, studentID string, na NewAttendance) (Attendance, error)
		Marks(ctx context.Context, studentID string) ([]Mark, error)
		AddMark(ctx context.Context, studentID string, nm NewMark) (Mark, error)
		Results(ctx context.Context, studentID string) ([]Result, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if _, err := svc.repo.GetStudent(ctx, ns.StudentID); err == nil {
		return Student{}, core.NewValidationError(ErrStudentExists, core.FieldError{Field: "student_id", Error: ErrStudentExists.Error()})
	} else if err != ErrNotFound {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, Student{
		StudentID: ns.StudentID,
		Name:      ns.Name,
		Branch:    ns.Branch,
		Semester:  ns.Semester,
		Section:   ns.Section,
	})
}

func (svc *Service) Get(ctx context.Context, studentID string) (Student, error) {
	return svc.repo.GetStudent(ctx, core.CleanString(studentID))
}

func (svc *Service) Query(ctx context.Context, ordering []core.DBOrdering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, ordering)
}

// AttendanceReport returns every attendance record of the student along with its insight.
func (svc *Service) AttendanceReport(ctx context.Context, studentID string) ([]AttendanceStatus, error) {
	st, err := svc.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	records, err := svc.repo.QueryAttendance(ctx, st.StudentID)
	if err != nil {
		return nil, err
	}
	report := make([]AttendanceStatus, 0, len(records))
	for _, att := range records {
		report = append(report, NewAttendanceStatus(att))
	}
	return report, nil
}

func (svc *Service) AddAttendance(ctx context.Context, studentID string, na NewAttendance) (Attendance, error) {
	st, err := svc.Get(ctx, studentID)
	if err != nil {
		return Attendance{}, err
	}
	if err = na.Validate(svc.validate); err != nil {
		return Attendance{}, err
	}
	return svc.repo.CreateAttendance(ctx, Attendance{
		StudentID:    st.StudentID,
		CourseCode:   na.CourseCode,
		CourseName:   na.CourseName,
		TotalClasses: na.TotalClasses,
		Attended:     na.Attended,
		Threshold:    na.threshold(),
	})
}

func (svc *Service) Marks(ctx context.Context, studentID string) ([]Mark, error) {
	st, err := svc.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryMarks(ctx, st.StudentID)
}

func (svc *Service) AddMark(ctx context.Context, studentID string, nm NewMark) (Mark, error) {
	st, err := svc.Get(ctx, studentID)
	if err != nil {
		return Mark{}, err
	}
	if err = nm.Validate(svc.validate); err != nil {
		return Mark{}, err
	}
	return svc.repo.CreateMark(ctx, Mark{
		StudentID:  st.StudentID,
		CourseCode: nm.CourseCode,
		CourseName: nm.CourseName,
		ExamType:   nm.ExamType,
		Score:      nm.Score,
		MaxScore:   nm.MaxScore,
		TopicTags:  nm.TopicTags,
	})
}

func (svc *Service) Results(ctx context.Context, studentID string) ([]Result, error) {
	st, err := svc.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryResults(ctx, st.StudentID)
}
