package mentor

import "strings"

// QueryType is the detected intent of a student's question.
type QueryType string

const (
	QueryAttendance QueryType = "attendance"
	QueryMarks      QueryType = "marks"
	QueryGPA        QueryType = "gpa"
	QueryEvents     QueryType = "events"
	QueryResources  QueryType = "resources"
	QueryGeneral    QueryType = "general"
)

// keyword rules, checked in order
var intentRules = []struct {
	queryType QueryType
	keywords  []string
}{
	{QueryAttendance, []string{"attendance", "classes", "75%"}},
	{QueryMarks, []string{"mark", "score", "exam", "weak subject", "improve my dbms"}},
	{QueryGPA, []string{"gpa", "cgpa", "sgpa"}},
	{QueryEvents, []string{"event", "workshop", "hackathon", "seminar"}},
	{QueryResources, []string{"resource", "library", "notes", "youtube"}},
}

// DetectQueryType does a simple keyword match on the lowered query.
func DetectQueryType(query string) QueryType {
	q := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.queryType
			}
		}
	}
	return QueryGeneral
}

// ContextKind returns the records a query of this type is answered from.
func (qt QueryType) ContextKind() Kind {
	switch qt {
	case QueryAttendance:
		return KindAttendance
	case QueryMarks, QueryGPA:
		return KindMarks
	default:
		return KindFull
	}
}

// FocusInstructions returns the extra rules specializing the answer for the query type.
func FocusInstructions(qt QueryType) string {
	switch qt {
	case QueryAttendance:
		return "The student is asking specifically about attendance. " +
			"Focus ONLY on attendance: percentages, which subjects are at risk, " +
			"and how many more classes they should attend to reach the threshold. " +
			"Do NOT discuss marks, GPA, or subjects' scores unless the user explicitly mentions them."
	case QueryMarks, QueryGPA:
		return "The student is asking about marks, scores, or GPA. " +
			"Focus on identifying strong and weak subjects, explaining marks, " +
			"and suggesting a targeted study plan with topics and resources. " +
			"Only mention attendance briefly if it is critical to the answer."
	case QueryEvents, QueryResources:
		return "The student is asking about resources or events. " +
			"Focus on recommending the most relevant digital library resources and events/workshops " +
			"that match the student's weak areas or interests."
	default:
		return "The student is asking a general question. " +
			"Give a balanced answer that considers attendance, marks, and available resources/events, " +
			"but keep the answer concise and structured."
	}
}
