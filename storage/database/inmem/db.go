package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/mentor/core/library"
	"github.com/trezcool/mentor/core/student"
)

// DB keeps every table in memory. Rows are kept in insertion order.
type DB struct {
	mutex      sync.RWMutex
	students   map[string]*student.Student
	order      []string
	attendance []student.Attendance
	marks      []student.Mark
	results    []student.Result
	resources  []library.Resource
	events     []library.Event
}

func Open() *DB {
	return &DB{students: make(map[string]*student.Student)}
}

func newID() string {
	return uuid.New().String()
}
