package msg

import "strings"

// Srv is a parsed service description: a path and the verbatim source,
// split on its own "---" line into synthesized request/response messages.
type Srv struct {
	Path   Path
	Source string
}

// NewSrv wraps the raw service source; call BuildMessages to parse it.
func NewSrv(path Path, source string) Srv {
	return Srv{Path: path, Source: source}
}

// BuildMessages splits Source on a line containing exactly "---" and
// parses the two halves into <Name>Req and <Name>Res messages.
func (s Srv) BuildMessages() (req, res Msg, err error) {
	parts := splitOnDashes(s.Source)
	switch len(parts) {
	case 0:
		return Msg{}, Msg{}, &BadMessageContentError{
			Detail: "service " + s.Path.String() + " does not have any content",
		}
	case 1:
		req, err = NewMsg(s.Path.WithName(s.Path.Name()+"Req"), parts[0])
		if err != nil {
			return Msg{}, Msg{}, err
		}
		res, err = NewMsg(s.Path.WithName(s.Path.Name()+"Res"), "")
		return req, res, err
	case 2:
		req, err = NewMsg(s.Path.WithName(s.Path.Name()+"Req"), parts[0])
		if err != nil {
			return Msg{}, Msg{}, err
		}
		res, err = NewMsg(s.Path.WithName(s.Path.Name()+"Res"), parts[1])
		if err != nil {
			return Msg{}, Msg{}, err
		}
		return req, res, nil
	default:
		return Msg{}, Msg{}, &BadMessageContentError{
			Detail: "service " + s.Path.String() + " is split into too many parts by \"---\"",
		}
	}
}

// splitOnDashes splits source on any line whose trimmed content is exactly
// "---", mirroring the multi-line "^---$" regex the original parser uses.
func splitOnDashes(source string) []string {
	lines := strings.Split(source, "\n")
	var parts []string
	var cur []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			parts = append(parts, strings.Join(cur, "\n"))
			cur = nil
			continue
		}
		cur = append(cur, line)
	}
	parts = append(parts, strings.Join(cur, "\n"))
	return parts
}
