package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := Wait(ctx, ch)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	return res
}

func TestCheckReportsNewerRelease(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name": "v1.1.0", "html_url": "https://example.test/r/1.1.0"}`)

	ch := Check(context.Background(), srv.Client(), srv.URL, "1.0.2-beta")
	res := waitResult(t, ch)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if !res.Newer || res.Latest != "v1.1.0" || res.URL != "https://example.test/r/1.1.0" {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after one result")
	}
}

func TestCheckSameVersionIsNotNewer(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name": "1.0.2"}`)
	res := waitResult(t, Check(context.Background(), srv.Client(), srv.URL, "v1.0.2"))
	if res.Err != nil || res.Newer {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCheckErrors(t *testing.T) {
	cases := map[string]*httptest.Server{
		"status":  releaseServer(t, http.StatusNotFound, `{}`),
		"body":    releaseServer(t, http.StatusOK, `not json`),
		"version": releaseServer(t, http.StatusOK, `{"tag_name": "latest"}`),
	}
	for name, srv := range cases {
		res := waitResult(t, Check(context.Background(), srv.Client(), srv.URL, "v1.0.0"))
		if res.Err == nil {
			t.Fatalf("%s: expected error, got %+v", name, res)
		}
	}
}

func TestPollDoesNotBlock(t *testing.T) {
	ch := make(chan Result, 1)
	if _, ok := Poll(ch); ok {
		t.Fatalf("expected nothing yet")
	}
	ch <- Result{Latest: "v2.0.0"}
	close(ch)
	if res, ok := Poll(ch); !ok || res.Latest != "v2.0.0" {
		t.Fatalf("expected result, got %+v %v", res, ok)
	}
	if _, ok := Poll(ch); ok {
		t.Fatalf("closed channel must not yield a second result")
	}
}
