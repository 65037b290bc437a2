package log

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentHTTP).
		WithOperation(OpBuild).
		WithLedger(7, "demo").
		WithReport("Income Statement", 12, 3).
		WithError(errors.New("boom"))

	want := map[string]any{
		FieldComponent:  ComponentHTTP,
		FieldOperation:  OpBuild,
		FieldLedgerID:   int64(7),
		FieldLedgerName: "demo",
		FieldReport:     "Income Statement",
		FieldRows:       12,
		FieldMonths:     3,
		FieldError:      "boom",
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("field %q = %v, want %v", k, f[k], v)
		}
	}

	slice := f.ToSlice()
	if len(slice) != 2*len(f) {
		t.Fatalf("ToSlice length = %d, want %d", len(slice), 2*len(f))
	}
}

func TestFieldsNilErrorSkipped(t *testing.T) {
	f := NewFields().WithError(nil)
	if _, ok := f[FieldError]; ok {
		t.Fatal("nil error should not produce a field")
	}
}

func TestMiddlewareLogsBuilderFields(t *testing.T) {
	var buf strings.Builder
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ledgers", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{
		FieldComponent + "=" + ComponentHTTP,
		FieldMethod + "=GET",
		FieldPath + "=/ledgers",
		FieldStatusCode + "=418",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}
