package wire

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello world")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadFrame = %q, want %q", got, payload)
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, nil); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadFrame = %q, want empty", got)
	}
}

func TestServiceResultSuccessRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteServiceResult(&buf, true, []byte("42")); err != nil {
		t.Fatalf("WriteServiceResult: %v", err)
	}
	ok, body, err := ReadServiceResult(&buf, "/add_two_ints")
	if err != nil {
		t.Fatalf("ReadServiceResult: %v", err)
	}
	if !ok || string(body) != "42" {
		t.Errorf("got ok=%v body=%q", ok, body)
	}
}

func TestServiceResultFailureRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteServiceResult(&buf, false, []byte("boom")); err != nil {
		t.Fatalf("WriteServiceResult: %v", err)
	}
	ok, body, err := ReadServiceResult(&buf, "/add_two_ints")
	if err != nil {
		t.Fatalf("ReadServiceResult: %v", err)
	}
	if ok || string(body) != "boom" {
		t.Errorf("got ok=%v body=%q", ok, body)
	}
}

func TestServiceResultInterrupted(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := ReadServiceResult(&buf, "/add_two_ints")
	if err == nil {
		t.Fatal("expected ServiceResponseInterruptedError on empty stream")
	}
	if _, ok := err.(*ServiceResponseInterruptedError); !ok {
		t.Fatalf("got %T, want *ServiceResponseInterruptedError", err)
	}
}

func TestServiceResultUnknownFlag(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(2)
	_, _, err := ReadServiceResult(&buf, "/add_two_ints")
	if _, ok := err.(*ServiceResponseUnknownError); !ok {
		t.Fatalf("got %T, want *ServiceResponseUnknownError", err)
	}
}
