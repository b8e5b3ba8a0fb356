package xmlrpc

import (
	"encoding/xml"
	"reflect"
	"strings"
	"testing"
)

func roundTripValue(t *testing.T, v any) any {
	t.Helper()
	var b strings.Builder
	if err := writeValue(&b, v); err != nil {
		t.Fatalf("writeValue: %v", err)
	}
	var wv wireValue
	if err := xml.Unmarshal([]byte(b.String()), &wv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := wv.toAny()
	if err != nil {
		t.Fatalf("toAny: %v", err)
	}
	return got
}

func TestValueRoundTripScalars(t *testing.T) {
	cases := []any{
		true, false, 42, -7, 3.5, "hello world",
	}
	for _, v := range cases {
		got := roundTripValue(t, v)
		if got != v {
			t.Errorf("round trip %v (%T) = %v (%T)", v, v, got, got)
		}
	}
}

func TestValueRoundTripArray(t *testing.T) {
	in := []any{1, "two", true}
	got := roundTripValue(t, in)
	gotArr, ok := got.([]any)
	if !ok || len(gotArr) != 3 {
		t.Fatalf("got %#v", got)
	}
	if gotArr[0] != 1 || gotArr[1] != "two" || gotArr[2] != true {
		t.Errorf("got %#v", gotArr)
	}
}

func TestValueRoundTripStruct(t *testing.T) {
	in := map[string]any{"a": 1, "b": "two"}
	got := roundTripValue(t, in)
	gotMap, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("got %#v", got)
	}
	if gotMap["a"] != 1 || gotMap["b"] != "two" {
		t.Errorf("got %#v", gotMap)
	}
}

func TestValueRoundTripNestedArray(t *testing.T) {
	in := []any{[]any{"/chatter", "std_msgs/String"}}
	got := roundTripValue(t, in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("got %#v, want %#v", got, in)
	}
}

func TestValueEscapesText(t *testing.T) {
	got := roundTripValue(t, "<tag> & \"quote\"")
	if got != "<tag> & \"quote\"" {
		t.Errorf("got %q", got)
	}
}
