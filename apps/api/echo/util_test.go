package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	. "github.com/trezcool/mentor/apps/api/echo"
	"github.com/trezcool/mentor/core"
	"github.com/trezcool/mentor/core/library"
	"github.com/trezcool/mentor/core/mentor"
	"github.com/trezcool/mentor/core/student"
	"github.com/trezcool/mentor/storage/database/sqlx"
	"github.com/trezcool/mentor/tests"
)

var docs = []mentor.Document{
	{Content: "Minimum attendance is 75% per course.", Source: "attendance_rules.md", Score: 0.9},
	{Content: "Condonation may be granted between 65% and 75%.", Source: "attendance_rules.md", Score: 0.8},
	{Content: "Coding Club meets every Saturday.", Source: "events.md", Score: 0.4},
}

type fakeRetriever struct{}

func (fakeRetriever) Retrieve(_ context.Context, _ string, k int) ([]mentor.Document, error) {
	if k < len(docs) {
		return docs[:k], nil
	}
	return docs, nil
}

type fakeGenerator struct {
	answer string
	err    error
}

func (g *fakeGenerator) Generate(context.Context, string, string) (string, error) {
	return g.answer, g.err
}

type app struct {
	*Server
	db     *sqlx.DB
	stRepo student.Repository
	gen    *fakeGenerator
}

func setup(t *testing.T) app {
	// set up DB & repos
	db := testutil.SeedDB(t)
	stRepo := sqlxrepos.NewStudentRepository(db)
	libRepo := sqlxrepos.NewLibraryRepository(db)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	// set up services
	gen := &fakeGenerator{answer: "ok"}
	reg := prometheus.NewRegistry()

	server := NewServer(ServerDeps{
		Conf:           &core.Config{AppName: "Mentor", TestMode: true},
		Logger:         core.NewNopLogger(),
		StudentSvc:     student.NewService(stRepo, validate),
		LibrarySvc:     library.NewService(libRepo),
		MentorSvc:      mentor.NewService(stRepo, fakeRetriever{}, gen, core.NewNopLogger(), mentor.Options{}),
		DB:             db,
		Validate:       validate,
		Translator:     translator,
		Metrics:        NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		DisableReqLogs: true,
	})
	return app{Server: server, db: db, stRepo: stRepo, gen: gen}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, srv http.Handler, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
