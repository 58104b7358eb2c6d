package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentor/core/student"
)

var (
	suhas  = student.Student{StudentID: "1", Name: "Suhas", Branch: "ECE", Semester: 7, Section: "A"}
	ananya = student.Student{StudentID: "2", Name: "Ananya", Branch: "CSE", Semester: 7, Section: "A"}
	rahul  = student.Student{StudentID: "3", Name: "Rahul", Branch: "EEE", Semester: 7, Section: "B"}
	priya  = student.Student{StudentID: "4", Name: "Priya", Branch: "ME", Semester: 7, Section: "C"}
	aditya = student.Student{StudentID: "5", Name: "Aditya", Branch: "ECE", Semester: 7, Section: "B"}

	errStudentNotFound = httpErr{Error: "student not found"}
)

func TestServer_home(t *testing.T) {
	srv := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Mentor API!", rec.Body.String())
}

func TestServer_health(t *testing.T) {
	tests := []struct {
		name         string
		closeDB      bool
		wantCode     int
		wantShutdown bool
	}{
		{name: "database up", wantCode: http.StatusOK},
		{name: "database gone", closeDB: true, wantCode: http.StatusInternalServerError, wantShutdown: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setup(t)
			if tt.closeDB {
				require.NoError(t, srv.db.Close())
			}

			req, rec := newRequest(http.MethodGet, "/health")
			srv.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)

			select {
			case sig := <-srv.ShutdownSignal():
				assert.True(t, tt.wantShutdown, "unexpected shutdown signal %v", sig)
			case <-time.After(50 * time.Millisecond):
				assert.False(t, tt.wantShutdown, "no shutdown signal")
			}
		})
	}
}

func Test_studentApi_query(t *testing.T) {
	srv := setup(t)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "default ordering",
			method:   http.MethodGet,
			path:     "/v1/students",
			wantCode: http.StatusOK,
			wantData: marchallList(t, aditya, ananya, priya, rahul, suhas),
		},
		{
			name:     "descending name",
			method:   http.MethodGet,
			path:     "/v1/students?ordering=-name",
			wantCode: http.StatusOK,
			wantData: marchallList(t, suhas, rahul, priya, ananya, aditya),
		},
		{
			name:     "branch then name",
			method:   http.MethodGet,
			path:     "/v1/students?ordering=branch,-name",
			wantCode: http.StatusOK,
			wantData: marchallList(t, ananya, suhas, aditya, rahul, priya),
		},
		{
			name:     "unknown field is ignored",
			method:   http.MethodGet,
			path:     "/v1/students/?ordering=password",
			wantCode: http.StatusOK,
			wantData: marchallList(t, aditya, ananya, priya, rahul, suhas),
		},
	})
}

func Test_studentApi_retrieve(t *testing.T) {
	srv := setup(t)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "found",
			method:   http.MethodGet,
			path:     "/v1/students/1",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, suhas),
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/v1/students/42",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errStudentNotFound),
		},
	})
}

func Test_studentApi_create(t *testing.T) {
	srv := setup(t)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "blank fields",
			method:   http.MethodPost,
			path:     "/v1/students",
			body:     []byte(`{"student_id": "6", "name": "  ", "branch": "CSE", "semester": 5, "section": ""}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":    "this field cannot be blank",
				"section": "this field cannot be blank",
			}),
		},
		{
			name:     "duplicate ID",
			method:   http.MethodPost,
			path:     "/v1/students",
			body:     []byte(`{"student_id": "1", "name": "Suhas K", "branch": "ECE", "semester": 7, "section": "A"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student_id": student.ErrStudentExists.Error()}),
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     "/v1/students",
			body:     []byte(`{"student_id": 6`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "unexpected EOF"}),
		},
		{
			name:     "success",
			method:   http.MethodPost,
			path:     "/v1/students",
			body:     []byte(`{"student_id": " 6 ", "name": " Kiran ", "branch": "cse", "semester": 5, "section": "b"}`),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, student.Student{StudentID: "6", Name: "Kiran", Branch: "CSE", Semester: 5, Section: "B"}),
		},
	})
}

func Test_studentApi_attendance(t *testing.T) {
	srv := setup(t)

	t.Run("report", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/1/attendance")
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var report []student.AttendanceStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.Len(t, report, 3)

		dbms := report[0]
		assert.Equal(t, "DBMS", dbms.CourseCode)
		assert.Equal(t, 40, dbms.TotalClasses)
		assert.Equal(t, 26, dbms.Attended)
		assert.InDelta(t, 65.0, dbms.Percentage, 1e-9)
		assert.Equal(t, 16, dbms.ClassesNeeded)
		assert.True(t, dbms.AtRisk)

		assert.Equal(t, "OS", report[1].CourseCode)
		assert.Equal(t, 0, report[1].ClassesNeeded)
		assert.False(t, report[1].AtRisk)
	})

	t.Run("unknown student", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/42/attendance")
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errStudentNotFound)}, rec)
	})

	t.Run("add", func(t *testing.T) {
		body := []byte(`{"course_code": "cn", "course_name": "Computer Networks", "total_classes": 20, "attended": 12}`)
		req, rec := newRequest(http.MethodPost, "/v1/students/2/attendance", body)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var status student.AttendanceStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.NotEmpty(t, status.ID)
		assert.Equal(t, "2", status.StudentID)
		assert.Equal(t, "CN", status.CourseCode)
		assert.Equal(t, student.DefaultThreshold, status.Threshold)
		assert.InDelta(t, 60.0, status.Percentage, 1e-9)
		assert.Equal(t, 12, status.ClassesNeeded)
		assert.True(t, status.AtRisk)

		report, err := srv.stRepo.QueryAttendance(req.Context(), "2")
		require.NoError(t, err)
		require.Len(t, report, 4)
		assert.Equal(t, "CN", report[3].CourseCode)
	})

	t.Run("attended above total", func(t *testing.T) {
		body := []byte(`{"course_code": "CN", "course_name": "Computer Networks", "total_classes": 20, "attended": 21}`)
		req, rec := newRequest(http.MethodPost, "/v1/students/2/attendance", body)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fldErrs map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fldErrs))
		assert.Contains(t, fldErrs, "attended")
	})
}

func Test_studentApi_marks(t *testing.T) {
	srv := setup(t)

	t.Run("list", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/1/marks")
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var marks []student.Mark
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &marks))
		require.Len(t, marks, 4)
		assert.Equal(t, "Mid-1", marks[0].ExamType)
		assert.Equal(t, 12.0, marks[0].Score)
		assert.Equal(t, []string{"ER model", "Relational algebra"}, marks[0].TopicTags)
		assert.Equal(t, "Mid-2", marks[1].ExamType)
	})

	t.Run("add", func(t *testing.T) {
		body := []byte(`{"course_code": "dbms", "course_name": "Database Management Systems", "exam_type": "Assignment", "score": 8.5, "max_score": 10, "topic_tags": [" SQL ", "Joins"]}`)
		req, rec := newRequest(http.MethodPost, "/v1/students/1/marks", body)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var mark student.Mark
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mark))
		assert.NotEmpty(t, mark.ID)
		assert.Equal(t, "DBMS", mark.CourseCode)
		assert.Equal(t, 8.5, mark.Score)
		assert.Equal(t, []string{"SQL", "Joins"}, mark.TopicTags)
	})

	t.Run("comma in topic", func(t *testing.T) {
		body := []byte(`{"course_code": "DBMS", "course_name": "Database Management Systems", "exam_type": "Quiz", "score": 5, "max_score": 10, "topic_tags": ["SQL, Joins"]}`)
		req, rec := newRequest(http.MethodPost, "/v1/students/1/marks", body)
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_studentApi_results(t *testing.T) {
	srv := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/students/2/results")
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var results []student.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, 4+i, res.Semester)
	}
	assert.Equal(t, 9.0, results[3].CGPA)
}
