package msg

import "testing"

func TestSrvBuildMessagesTwoParts(t *testing.T) {
	path := mustPath(t, "test_srvs", "AddTwoInts")
	s := NewSrv(path, "int64 a\nint64 b\n---\nint64 sum\n")
	req, res, err := s.BuildMessages()
	if err != nil {
		t.Fatal(err)
	}
	if req.Path.Name() != "AddTwoIntsReq" || len(req.Fields) != 2 {
		t.Errorf("req = %+v", req)
	}
	if res.Path.Name() != "AddTwoIntsRes" || len(res.Fields) != 1 {
		t.Errorf("res = %+v", res)
	}
}

func TestSrvBuildMessagesOnePart(t *testing.T) {
	path := mustPath(t, "test_srvs", "Empty")
	s := NewSrv(path, "int64 a\n")
	req, res, err := s.BuildMessages()
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Fields) != 1 {
		t.Errorf("req = %+v", req)
	}
	if len(res.Fields) != 0 {
		t.Errorf("res = %+v, want empty response", res)
	}
}

func TestSrvBuildMessagesTooManyParts(t *testing.T) {
	path := mustPath(t, "test_srvs", "Bad")
	s := NewSrv(path, "int64 a\n---\nint64 b\n---\nint64 c\n")
	if _, _, err := s.BuildMessages(); err == nil {
		t.Fatal("expected BadMessageContentError for more than one separator")
	} else if _, ok := err.(*BadMessageContentError); !ok {
		t.Fatalf("got %T, want *BadMessageContentError", err)
	}
}
