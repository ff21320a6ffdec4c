package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	var (
		seenID     string
		seenLogger *slog.Logger
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = RequestIDFromContext(r.Context())
		seenLogger = LoggerFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	handler := requestLogger(base, func() string { return "req-1" })(next)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	if seenID != "req-1" || seenLogger == nil {
		t.Fatalf("expected request id and logger in context, got %q %v", seenID, seenLogger)
	}
	if rec.Header().Get(RequestIDHeader) != "req-1" {
		t.Fatalf("expected request id header, got %q", rec.Header().Get(RequestIDHeader))
	}

	out := buf.String()
	for _, want := range []string{"request started", "request completed", "request_id=req-1", "status=418", "path=/rooms"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output %q", want, out)
		}
	}
}

func TestRequestLoggerAssignsUUIDs(t *testing.T) {
	t.Parallel()

	var ids []string
	handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := RequestIDFromContext(r.Context())
		ids = append(ids, id)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	if len(ids) != 2 || len(ids[0]) != 36 || ids[0] == ids[1] {
		t.Fatalf("expected two distinct UUIDs, got %v", ids)
	}
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	handler := Recoverer(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
