package notify

import (
	"bytes"
	"testing"

	"bikeroute-client/pkg/api"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Notify(Success("Route created successfully."))
	w.Notify(ServerError("ubicacion duplicada"))

	want := "[Success] Route created successfully.\n[Server Error] ubicacion duplicada\n"
	if buf.String() != want {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatalf("expected empty recorder")
	}
	r.Notify(Success("ok"))
	if r.Failed() {
		t.Fatalf("success is not a failure")
	}
	r.Notify(Error("nope"))
	last, ok := r.Last()
	if !ok || last.Kind != KindError || last.Message != "nope" {
		t.Fatalf("unexpected last: %+v", last)
	}
	if !r.Failed() || len(r.All()) != 2 {
		t.Fatalf("expected two notifications with a failure")
	}
	r.Reset()
	if len(r.All()) != 0 {
		t.Fatalf("expected reset")
	}
}

func TestFromError(t *testing.T) {
	n := FromError(&api.Failure{Status: 400, Message: "ubicacion duplicada"}, "generic")
	if n.Kind != KindServerError || n.Title != TitleServerError || n.Message != "ubicacion duplicada" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	n = FromError(&api.Failure{Status: 500}, "generic")
	if n.Kind != KindError || n.Message != "generic" {
		t.Fatalf("unexpected notification: %+v", n)
	}
}
