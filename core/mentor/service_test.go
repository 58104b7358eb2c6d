package mentor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/student"
	"github.com/trezcool/mentor/storage/database/inmem"
)

type fakeRetriever struct {
	docs  []Document
	err   error
	gotK  int
	calls int
}

func (r *fakeRetriever) Retrieve(_ context.Context, _ string, k int) ([]Document, error) {
	r.calls++
	r.gotK = k
	return r.docs, r.err
}

type fakeGenerator struct {
	answer    string
	err       error
	gotSystem string
	gotUser   string
}

func (g *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.gotSystem = systemPrompt
	g.gotUser = userPrompt
	return g.answer, g.err
}

func TestService_Answer(t *testing.T) {
	ctx := context.Background()
	records := inmemdb.NewStudentRepository(seedRecords(t))
	docs := []Document{
		{Content: "Minimum attendance is 75%.", Source: "attendance_rules.md"},
		{Content: "Condonation needs 65%.", Source: "attendance_rules.md"},
		{Content: "Hackathon on Friday.", Source: "events.md"},
	}

	t.Run("attendance question", func(t *testing.T) {
		ret := &fakeRetriever{docs: docs}
		gen := &fakeGenerator{answer: "\n  Attend 16 more DBMS classes.  \n"}
		svc := NewService(records, ret, gen, core.NewNopLogger(), Options{})

		ans, err := svc.Answer(ctx, "S001", " How many classes do I need? ")
		require.NoError(t, err)
		assert.Equal(t, "Attend 16 more DBMS classes.", ans.Text)
		assert.Equal(t, QueryAttendance, ans.QueryType)
		assert.Equal(t, []string{"attendance_rules.md", "events.md"}, ans.Sources)
		assert.Equal(t, DefaultTopK, ret.gotK)

		assert.Equal(t, "How many classes do I need?", gen.gotUser)
		assert.Contains(t, gen.gotSystem, "needs approx 16 more continuous classes")
		assert.NotContains(t, gen.gotSystem, "Marks:")
		assert.Contains(t, gen.gotSystem, "Minimum attendance is 75%.\n\nCondonation needs 65%.\n\nHackathon on Friday.")
		assert.Contains(t, gen.gotSystem, FocusInstructions(QueryAttendance))
	})

	t.Run("marks question uses marks context", func(t *testing.T) {
		gen := &fakeGenerator{answer: "ok"}
		svc := NewService(records, &fakeRetriever{}, gen, core.NewNopLogger(), Options{TopK: 2})

		ans, err := svc.Answer(ctx, "S001", "what is my sgpa")
		require.NoError(t, err)
		assert.Equal(t, QueryGPA, ans.QueryType)
		assert.Empty(t, ans.Sources)
		assert.Contains(t, gen.gotSystem, "- DBMS Mid-1: 12/20 (60.0%)")
		assert.NotContains(t, gen.gotSystem, "Attendance:")
	})

	t.Run("blank query", func(t *testing.T) {
		ret := &fakeRetriever{}
		svc := NewService(records, ret, &fakeGenerator{}, core.NewNopLogger(), Options{})
		_, err := svc.Answer(ctx, "S001", "   ")
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "query", verr.Fields[0].Field)
		assert.Zero(t, ret.calls)
	})

	t.Run("unknown student", func(t *testing.T) {
		ret := &fakeRetriever{}
		svc := NewService(records, ret, &fakeGenerator{}, core.NewNopLogger(), Options{})
		_, err := svc.Answer(ctx, "S404", "attendance?")
		assert.Equal(t, student.ErrNotFound, err)
		assert.Zero(t, ret.calls)
	})

	t.Run("generator failure", func(t *testing.T) {
		boom := errors.New("backend down")
		svc := NewService(records, &fakeRetriever{}, &fakeGenerator{err: boom}, core.NewNopLogger(), Options{})
		_, err := svc.Answer(ctx, "S001", "hello")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("retriever failure", func(t *testing.T) {
		boom := errors.New("index missing")
		gen := &fakeGenerator{}
		svc := NewService(records, &fakeRetriever{err: boom}, gen, core.NewNopLogger(), Options{})
		_, err := svc.Answer(ctx, "S001", "hello")
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, gen.gotSystem)
	})
}
