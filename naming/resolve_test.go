package naming

import "testing"

func TestQualifyNodeNameBare(t *testing.T) {
	ns, name, err := QualifyNodeName("talker")
	if err != nil {
		t.Fatal(err)
	}
	if ns != "/" || name != "talker" {
		t.Errorf("got ns=%q name=%q", ns, name)
	}
}

func TestQualifyNodeNameNamespaced(t *testing.T) {
	ns, name, err := QualifyNodeName("/robot1/talker")
	if err != nil {
		t.Fatal(err)
	}
	if ns != "/robot1" || name != "talker" {
		t.Errorf("got ns=%q name=%q", ns, name)
	}
}

func TestResolveGlobal(t *testing.T) {
	r := NewResolver("/robot1", "talker", Map{})
	got, err := r.Resolve("/chatter")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/chatter" {
		t.Errorf("got %q", got)
	}
}

func TestResolveRelative(t *testing.T) {
	r := NewResolver("/robot1", "talker", Map{})
	got, err := r.Resolve("chatter")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/robot1/chatter" {
		t.Errorf("got %q", got)
	}
}

func TestResolvePrivate(t *testing.T) {
	r := NewResolver("/robot1", "talker", Map{})
	got, err := r.Resolve("~rate")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/robot1/talker/rate" {
		t.Errorf("got %q", got)
	}
}

func TestResolveRootNamespace(t *testing.T) {
	r := NewResolver("/", "talker", Map{})
	got, err := r.Resolve("chatter")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/chatter" {
		t.Errorf("got %q", got)
	}
}

func TestResolveRemapping(t *testing.T) {
	r := NewResolver("/robot1", "talker", Map{"/robot1/chatter": "/robot1/loud_chatter"})
	got, err := r.Resolve("chatter")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/robot1/loud_chatter" {
		t.Errorf("got %q", got)
	}
}

func TestResolveEmptyNameError(t *testing.T) {
	r := NewResolver("/", "talker", Map{})
	if _, err := r.Resolve(""); err == nil {
		t.Fatal("expected InvalidNameError")
	}
}
