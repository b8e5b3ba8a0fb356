package msg

import "testing"

func TestNewPathValidation(t *testing.T) {
	cases := []struct {
		pkg     string
		wantErr bool
	}{
		{"foo", false},
		{"fo", false},
		{"std_msgs", false},
		{"f", true},         // too short
		{"Foo", true},       // uppercase
		{"1foo", true},      // leading digit
		{"_foo", true},      // leading underscore
		{"fo__o", true},     // double underscore
		{"foo-bar", true},   // invalid character
	}
	for _, tc := range cases {
		_, err := NewPath(tc.pkg, "Name")
		if (err != nil) != tc.wantErr {
			t.Errorf("NewPath(%q): err=%v, wantErr=%v", tc.pkg, err, tc.wantErr)
		}
	}
}

func TestParsePathRoundTrip(t *testing.T) {
	p, err := ParsePath("std_msgs/String")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if p.Package() != "std_msgs" || p.Name() != "String" {
		t.Fatalf("got %+v", p)
	}
	if p.String() != "std_msgs/String" {
		t.Fatalf("String() = %q", p.String())
	}
}

func TestParsePathMissingSlash(t *testing.T) {
	if _, err := ParsePath("String"); err == nil {
		t.Fatal("expected error for missing package component")
	}
}

func TestWithName(t *testing.T) {
	p, err := NewPath("foo", "Bar")
	if err != nil {
		t.Fatal(err)
	}
	derived := p.WithName("BarReq")
	if derived.Package() != "foo" || derived.Name() != "BarReq" {
		t.Fatalf("got %+v", derived)
	}
}
