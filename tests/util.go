package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/student"
	"github.com/trezcool/mentor/storage/database"
)

// PrepareDB opens a migrated in-memory sqlite database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, core.NewNopLogger()); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// SeedDB prepares a database holding the demo data.
func SeedDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := PrepareDB(t)
	if _, err := database.Seed(context.Background(), db); err != nil {
		t.Fatalf("SeedDB() failed: %v", err)
	}
	return db
}

func CreateStudent(t *testing.T, repo student.Repository, id, name, branch string, semester int, section string) student.Student {
	t.Helper()
	st, err := repo.CreateStudent(context.Background(), student.Student{
		StudentID: id,
		Name:      name,
		Branch:    branch,
		Semester:  semester,
		Section:   section,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateAttendance(t *testing.T, repo student.Repository, studentID, code, name string, total, attended, threshold int) student.Attendance {
	t.Helper()
	att, err := repo.CreateAttendance(context.Background(), student.Attendance{
		StudentID:    studentID,
		CourseCode:   code,
		CourseName:   name,
		TotalClasses: total,
		Attended:     attended,
		Threshold:    threshold,
	})
	if err != nil {
		t.Fatalf("CreateAttendance() failed: %v", err)
	}
	return att
}

func CreateMark(t *testing.T, repo student.Repository, studentID, code, name, examType string, score, maxScore float64, topics ...string) student.Mark {
	t.Helper()
	m, err := repo.CreateMark(context.Background(), student.Mark{
		StudentID:  studentID,
		CourseCode: code,
		CourseName: name,
		ExamType:   examType,
		Score:      score,
		MaxScore:   maxScore,
		TopicTags:  topics,
	})
	if err != nil {
		t.Fatalf("CreateMark() failed: %v", err)
	}
	return m
}

func CreateResult(t *testing.T, repo student.Repository, studentID string, semester int, sgpa, cgpa float64) student.Result {
	t.Helper()
	res, err := repo.CreateResult(context.Background(), student.Result{
		StudentID: studentID,
		Semester:  semester,
		SGPA:      sgpa,
		CGPA:      cgpa,
	})
	if err != nil {
		t.Fatalf("CreateResult() failed: %v", err)
	}
	return res
}
