package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

// NewStudentRepository ignores the exec argument of every method; there are no transactions in memory.
func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[st.StudentID]; ok {
		return student.Student{}, student.ErrStudentExists
	}
	repo.db.students[st.StudentID] = &st
	repo.db.order = append(repo.db.order, st.StudentID)
	return st, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, studentID string, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if st, ok := repo.db.students[studentID]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		students = append(students, *repo.db.students[id])
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "name", Ascending: true}}
	}
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compareStudents(students[i], students[j], ord.Field); c != 0 {
				return (c < 0) == ord.Ascending
			}
		}
		return false
	})
	return students, nil
}

func compareStudents(a, b student.Student, field string) int {
	switch field {
	case "student_id":
		return strings.Compare(a.StudentID, b.StudentID)
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "branch":
		return strings.Compare(a.Branch, b.Branch)
	case "semester":
		return a.Semester - b.Semester
	case "section":
		return strings.Compare(a.Section, b.Section)
	}
	return 0
}

func (repo *studentRepository) CreateAttendance(_ context.Context, att student.Attendance, _ ...core.DBExecutor) (student.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	att.ID = newID()
	repo.db.attendance = append(repo.db.attendance, att)
	return att, nil
}

func (repo *studentRepository) QueryAttendance(_ context.Context, studentID string, _ ...core.DBExecutor) ([]student.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var records []student.Attendance
	for _, att := range repo.db.attendance {
		if att.StudentID == studentID {
			records = append(records, att)
		}
	}
	return records, nil
}

func (repo *studentRepository) CreateMark(_ context.Context, mark student.Mark, _ ...core.DBExecutor) (student.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	mark.ID = newID()
	mark.TopicTags = append([]string(nil), mark.TopicTags...)
	repo.db.marks = append(repo.db.marks, mark)
	return mark, nil
}

func (repo *studentRepository) QueryMarks(_ context.Context, studentID string, _ ...core.DBExecutor) ([]student.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var marks []student.Mark
	for _, m := range repo.db.marks {
		if m.StudentID == studentID {
			marks = append(marks, m)
		}
	}
	return marks, nil
}

func (repo *studentRepository) CreateResult(_ context.Context, res student.Result, _ ...core.DBExecutor) (student.Result, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	res.ID = newID()
	repo.db.results = append(repo.db.results, res)
	return res, nil
}

func (repo *studentRepository) QueryResults(_ context.Context, studentID string, _ ...core.DBExecutor) ([]student.Result, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var results []student.Result
	for _, res := range repo.db.results {
		if res.StudentID == studentID {
			results = append(results, res)
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Semester < results[j].Semester })
	return results, nil
}
