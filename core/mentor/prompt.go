package mentor

import (
	"strings"
	"text/template"
)

// systemPromptTmpl relies on the "needs approx" wording of attendance lines (see AttendancePhraseVersion).
var systemPromptTmpl = template.Must(template.New("system").Parse(`
You are a friendly but strict college mentor AI.

Student data:
{{.StudentContext}}

College rules / resources (retrieved via RAG):
{{.RetrievedContext}}

User's question:
"""{{.Query}}"""

{{.FocusInstructions}}

VERY IMPORTANT RULES (do NOT break these):
- You MUST NOT invent or change any numeric values (percentages, number of classes, scores).
- Only use the exact numbers and phrases that appear in "Student data" above for attendance and marks.
- Especially for attendance, when you talk about "how many more classes" a student needs,
  you must copy the phrase after "needs approx" from the student data WITHOUT changing the number.
- If a number is not provided in Student data or College resources, say "not specified" instead of guessing.
- Do not include any closing statements, sign-offs, signatures, or placeholders such as [Your Name] or [Your Position]. End the response naturally.
- Structure the answer with clear sections and bullet points so the student can follow the action steps easily.
`))

type promptData struct {
	StudentContext    string
	RetrievedContext  string
	Query             string
	FocusInstructions string
}

// BuildSystemPrompt renders the mentor system prompt.
func BuildSystemPrompt(studentCtx string, docs []Document, query string, qt QueryType) (string, error) {
	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		contents = append(contents, doc.Content)
	}

	var buf strings.Builder
	err := systemPromptTmpl.Execute(&buf, promptData{
		StudentContext:    studentCtx,
		RetrievedContext:  strings.Join(contents, "\n\n"),
		Query:             query,
		FocusInstructions: FocusInstructions(qt),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
