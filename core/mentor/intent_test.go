package mentor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectQueryType(t *testing.T) {
	tests := []struct {
		query    string
		want     QueryType
		wantKind Kind
	}{
		{query: "How many classes do I need to attend?", want: QueryAttendance, wantKind: KindAttendance},
		{query: "Will I reach 75% in DBMS?", want: QueryAttendance, wantKind: KindAttendance},
		{query: "What is my ATTENDANCE like", want: QueryAttendance, wantKind: KindAttendance},
		{query: "Which is my weak subject?", want: QueryMarks, wantKind: KindMarks},
		{query: "How do I improve my DBMS marks", want: QueryMarks, wantKind: KindMarks},
		{query: "What is my CGPA?", want: QueryGPA, wantKind: KindMarks},
		{query: "Any hackathon this month?", want: QueryEvents, wantKind: KindFull},
		{query: "Suggest youtube playlists", want: QueryResources, wantKind: KindFull},
		{query: "Where are the library notes?", want: QueryResources, wantKind: KindFull},
		{query: "Help me plan my week", want: QueryGeneral, wantKind: KindFull},
		// attendance rules are checked first
		{query: "Do exam classes count?", want: QueryAttendance, wantKind: KindAttendance},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := DetectQueryType(tt.query)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKind, got.ContextKind())
		})
	}
}

func TestFocusInstructions(t *testing.T) {
	assert.Contains(t, FocusInstructions(QueryAttendance), "Focus ONLY on attendance")
	assert.Equal(t, FocusInstructions(QueryMarks), FocusInstructions(QueryGPA))
	assert.Equal(t, FocusInstructions(QueryEvents), FocusInstructions(QueryResources))
	assert.Contains(t, FocusInstructions(QueryGeneral), "balanced answer")
}
