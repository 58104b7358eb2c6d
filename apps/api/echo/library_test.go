package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(t *testing.T, body []byte) []string {
	var items []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(body, &items))
	res := make([]string, 0, len(items))
	for _, it := range items {
		res = append(res, it.Title)
	}
	return res
}

func Test_libraryApi(t *testing.T) {
	srv := setup(t)

	tests := []struct {
		name       string
		path       string
		wantTitles []string
	}{
		{"all resources", "/v1/library", []string{
			"DBMS Lecture Notes PDF", "DBMS YouTube Playlist", "OS Unit-2 Notes",
			"OS Concepts Video Series", "DSA Cheat Sheet PDF", "DSA Coding Playlist",
		}},
		{"by course", "/v1/library?course=dbms", []string{"DBMS Lecture Notes PDF", "DBMS YouTube Playlist"}},
		{"by tag", "/v1/library?tag=YouTube", []string{"DBMS YouTube Playlist", "OS Concepts Video Series", "DSA Coding Playlist"}},
		{"by course and tag", "/v1/library?course=OS&tag=notes", []string{"OS Unit-2 Notes"}},
		{"no match", "/v1/library?course=CN", []string{}},
		{"all events", "/v1/events", []string{"DBMS Crash Course Workshop", "Operating Systems Lab Bootcamp", "Coding Club DSA Series"}},
		{"events by tag", "/v1/events?tag=os", []string{"Operating Systems Lab Bootcamp"}},
		{"events no match", "/v1/events?tag=music", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			srv.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantTitles, titles(t, rec.Body.Bytes()))
		})
	}
}

func TestServer_metrics(t *testing.T) {
	srv := setup(t)

	for _, path := range []string{"/v1/students", "/v1/students", "/v1/students/42"} {
		req, rec := newRequest(http.MethodGet, path)
		srv.ServeHTTP(rec, req)
	}

	req, rec := newRequest(http.MethodGet, "/metrics")
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `mentor_http_requests_total{code="200",method="GET",route="/v1/students"} 2`)
	assert.Contains(t, body, `mentor_http_requests_total{code="404",method="GET",route="/v1/students/:id"} 1`)
	assert.Contains(t, body, `mentor_http_request_duration_seconds_count{method="GET",route="/v1/students"} 2`)
}
