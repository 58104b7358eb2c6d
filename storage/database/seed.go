package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mentor/core/library"
	"github.com/trezcool/mentor/core/student"
	"github.com/trezcool/mentor/storage/database/sqlx"
)

var seedStudents = []student.Student{
	{StudentID: "1", Name: "Suhas", Branch: "ECE", Semester: 7, Section: "A"},
	{StudentID: "2", Name: "Ananya", Branch: "CSE", Semester: 7, Section: "A"},
	{StudentID: "3", Name: "Rahul", Branch: "EEE", Semester: 7, Section: "B"},
	{StudentID: "4", Name: "Priya", Branch: "ME", Semester: 7, Section: "C"},
	{StudentID: "5", Name: "Aditya", Branch: "ECE", Semester: 7, Section: "B"},
}

const (
	dbmsName = "Database Management Systems"
	osName   = "Operating Systems"
	dsaName  = "Data Structures & Algorithms"
)

func att(studentID, code, name string, total, attended int) student.Attendance {
	return student.Attendance{
		StudentID:    studentID,
		CourseCode:   code,
		CourseName:   name,
		TotalClasses: total,
		Attended:     attended,
		Threshold:    student.DefaultThreshold,
	}
}

func mark(studentID, code, name, examType string, score, maxScore float64, topics ...string) student.Mark {
	return student.Mark{
		StudentID:  studentID,
		CourseCode: code,
		CourseName: name,
		ExamType:   examType,
		Score:      score,
		MaxScore:   maxScore,
		TopicTags:  topics,
	}
}

var seedAttendance = []student.Attendance{
	// low DBMS, good OS, average DSA
	att("1", "DBMS", dbmsName, 40, 26),
	att("1", "OS", osName, 35, 30),
	att("1", "DSA", dsaName, 38, 32),

	att("2", "DBMS", dbmsName, 40, 36),
	att("2", "OS", osName, 35, 34),
	att("2", "DSA", dsaName, 38, 37),

	// low OS
	att("3", "DBMS", dbmsName, 40, 33),
	att("3", "OS", osName, 35, 20),
	att("3", "DSA", dsaName, 38, 30),

	// low DSA
	att("4", "DBMS", dbmsName, 40, 35),
	att("4", "OS", osName, 35, 32),
	att("4", "DSA", dsaName, 38, 22),

	// low everywhere
	att("5", "DBMS", dbmsName, 40, 24),
	att("5", "OS", osName, 35, 23),
	att("5", "DSA", dsaName, 38, 21),
}

var seedMarks = []student.Mark{
	mark("1", "DBMS", dbmsName, "Mid-1", 12, 25, "ER model", "Relational algebra"),
	mark("1", "DBMS", dbmsName, "Mid-2", 9, 25, "Normalization", "Indexing"),
	mark("1", "OS", osName, "Mid-1", 18, 25, "CPU scheduling", "Threads"),
	mark("1", "DSA", dsaName, "Mid-1", 20, 25, "Arrays", "Linked Lists"),

	mark("2", "DBMS", dbmsName, "Mid-1", 22, 25, "ER model", "SQL basics"),
	mark("2", "OS", osName, "Mid-1", 23, 25, "CPU scheduling", "Processes"),
	mark("2", "DSA", dsaName, "Mid-1", 24, 25, "Arrays", "Recursion"),

	mark("3", "DBMS", dbmsName, "Mid-1", 19, 25, "ER model", "SQL basics"),
	mark("3", "OS", osName, "Mid-1", 10, 25, "CPU scheduling", "Deadlocks"),
	mark("3", "DSA", dsaName, "Mid-1", 17, 25, "Stacks", "Queues"),

	mark("4", "DBMS", dbmsName, "Mid-1", 20, 25, "Normalization", "SQL queries"),
	mark("4", "OS", osName, "Mid-1", 19, 25, "Processes", "Threads"),
	mark("4", "DSA", dsaName, "Mid-1", 11, 25, "Trees", "Recursion"),

	mark("5", "DBMS", dbmsName, "Mid-1", 11, 25, "SQL basics", "Joins"),
	mark("5", "OS", osName, "Mid-1", 9, 25, "CPU scheduling", "Processes"),
	mark("5", "DSA", dsaName, "Mid-1", 10, 25, "Arrays", "Linked Lists"),
}

// sgpa is 0 for the ongoing semester
var seedResults = []student.Result{
	{StudentID: "1", Semester: 4, SGPA: 7.5, CGPA: 7.5},
	{StudentID: "1", Semester: 5, SGPA: 7.8, CGPA: 7.6},
	{StudentID: "1", Semester: 6, SGPA: 8.0, CGPA: 7.8},
	{StudentID: "1", Semester: 7, SGPA: 0.0, CGPA: 7.8},

	{StudentID: "2", Semester: 4, SGPA: 8.8, CGPA: 8.8},
	{StudentID: "2", Semester: 5, SGPA: 9.0, CGPA: 8.9},
	{StudentID: "2", Semester: 6, SGPA: 9.2, CGPA: 9.0},
	{StudentID: "2", Semester: 7, SGPA: 0.0, CGPA: 9.0},

	{StudentID: "3", Semester: 4, SGPA: 7.0, CGPA: 7.0},
	{StudentID: "3", Semester: 5, SGPA: 7.2, CGPA: 7.1},
	{StudentID: "3", Semester: 6, SGPA: 7.4, CGPA: 7.2},
	{StudentID: "3", Semester: 7, SGPA: 0.0, CGPA: 7.2},

	{StudentID: "4", Semester: 4, SGPA: 7.6, CGPA: 7.6},
	{StudentID: "4", Semester: 5, SGPA: 7.3, CGPA: 7.5},
	{StudentID: "4", Semester: 6, SGPA: 7.1, CGPA: 7.3},
	{StudentID: "4", Semester: 7, SGPA: 0.0, CGPA: 7.3},

	{StudentID: "5", Semester: 4, SGPA: 6.5, CGPA: 6.5},
	{StudentID: "5", Semester: 5, SGPA: 6.8, CGPA: 6.6},
	{StudentID: "5", Semester: 6, SGPA: 6.9, CGPA: 6.7},
	{StudentID: "5", Semester: 7, SGPA: 0.0, CGPA: 6.7},
}

var seedResources = []library.Resource{
	{
		Title:       "DBMS Lecture Notes PDF",
		Type:        "PDF",
		URL:         "https://example.com/dbms-notes.pdf",
		CourseCode:  "DBMS",
		Tags:        []string{"dbms", "notes", "pdf", "normalization", "sql"},
		Description: "Concise DBMS notes covering ER diagrams, normalization, SQL queries and joins.",
	},
	{
		Title:       "DBMS YouTube Playlist",
		Type:        "YouTube",
		URL:         "https://youtube.com/playlist?list=DBMS_PLAYLIST",
		CourseCode:  "DBMS",
		Tags:        []string{"dbms", "youtube", "sql", "joins", "indexing"},
		Description: "Video playlist focusing on SQL basics, joins, indexing, and query optimization.",
	},
	{
		Title:       "OS Unit-2 Notes",
		Type:        "PDF",
		URL:         "https://example.com/os-unit2.pdf",
		CourseCode:  "OS",
		Tags:        []string{"os", "notes", "cpu scheduling", "threads"},
		Description: "Operating Systems notes for CPU scheduling, processes and threads.",
	},
	{
		Title:       "OS Concepts Video Series",
		Type:        "YouTube",
		URL:         "https://youtube.com/playlist?list=OS_PLAYLIST",
		CourseCode:  "OS",
		Tags:        []string{"os", "youtube", "deadlocks", "synchronization"},
		Description: "Video series explaining deadlocks, synchronization, and process management.",
	},
	{
		Title:       "DSA Cheat Sheet PDF",
		Type:        "PDF",
		URL:         "https://example.com/dsa-cheatsheet.pdf",
		CourseCode:  "DSA",
		Tags:        []string{"dsa", "cheatsheet", "arrays", "linked lists", "trees"},
		Description: "Quick revision cheat sheet for core data structures topics.",
	},
	{
		Title:       "DSA Coding Playlist",
		Type:        "YouTube",
		URL:         "https://youtube.com/playlist?list=DSA_PLAYLIST",
		CourseCode:  "DSA",
		Tags:        []string{"dsa", "youtube", "coding", "practice"},
		Description: "Coding-focused playlist implementing data structures and solving problems.",
	},
}

var seedEvents = []library.Event{
	{
		Title:          "DBMS Crash Course Workshop",
		Date:           "2025-01-15",
		Category:       "Workshop",
		Location:       "Lab-1",
		Description:    "Hands-on sessions on SQL, joins, indexing, and query optimization.",
		RecommendedFor: "low DBMS, improve SQL",
		Tags:           []string{"dbms", "sql", "workshop"},
	},
	{
		Title:          "Operating Systems Lab Bootcamp",
		Date:           "2025-01-20",
		Category:       "Bootcamp",
		Location:       "Lab-2",
		Description:    "Practical CPU scheduling and synchronization problems.",
		RecommendedFor: "low OS, weak in CPU scheduling or deadlocks",
		Tags:           []string{"os", "bootcamp", "scheduling"},
	},
	{
		Title:          "Coding Club DSA Series",
		Date:           "Every Saturday",
		Category:       "Club",
		Location:       "CSE Block",
		Description:    "Weekly sessions on arrays, linked lists, stacks, queues, and trees.",
		RecommendedFor: "improve DSA fundamentals",
		Tags:           []string{"dsa", "coding", "club"},
	},
}

// SeedStats counts the rows inserted per table by Seed.
type SeedStats map[string]int

// Seed inserts the demo data in a single transaction. A table is only seeded when it is empty.
func Seed(ctx context.Context, db *sqlx.DB) (SeedStats, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stRepo := sqlxrepos.NewStudentRepository(db)
	libRepo := sqlxrepos.NewLibraryRepository(db)
	stats := make(SeedStats)

	seeders := []struct {
		table string
		count int
		seed  func(i int) error
	}{
		{"student", len(seedStudents), func(i int) error {
			_, err := stRepo.CreateStudent(ctx, seedStudents[i], tx)
			return err
		}},
		{"attendance", len(seedAttendance), func(i int) error {
			_, err := stRepo.CreateAttendance(ctx, seedAttendance[i], tx)
			return err
		}},
		{"mark", len(seedMarks), func(i int) error {
			_, err := stRepo.CreateMark(ctx, seedMarks[i], tx)
			return err
		}},
		{"result", len(seedResults), func(i int) error {
			_, err := stRepo.CreateResult(ctx, seedResults[i], tx)
			return err
		}},
		{"library_resource", len(seedResources), func(i int) error {
			_, err := libRepo.CreateResource(ctx, seedResources[i], tx)
			return err
		}},
		{"event", len(seedEvents), func(i int) error {
			_, err := libRepo.CreateEvent(ctx, seedEvents[i], tx)
			return err
		}},
	}

	for _, s := range seeders {
		var rows int
		if err = tx.GetContext(ctx, &rows, "SELECT COUNT(*) FROM "+s.table); err != nil {
			return nil, errors.Wrapf(err, "counting %s rows", s.table)
		}
		if rows > 0 {
			continue
		}
		for i := 0; i < s.count; i++ {
			if err = s.seed(i); err != nil {
				return nil, errors.Wrapf(err, "seeding %s", s.table)
			}
		}
		stats[s.table] = s.count
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing seed data")
	}
	return stats, nil
}
