package msg

import (
	"crypto/md5"
	"encoding/hex"
)

// Hash computes m's 128-bit content-hash identity: the MD5 digest, as
// lowercase hex, of its MD5Representation. Two messages are considered
// wire-compatible iff their hashes match (§3 "Message identity").
func (m Msg) Hash(hashes map[Path]string) (string, error) {
	repr, err := m.MD5Representation(hashes)
	if err != nil {
		return "", err
	}
	sum := md5.Sum([]byte(repr))
	return hex.EncodeToString(sum[:]), nil
}

// HashAll computes hashes for every message in msgs, resolving
// dependencies in topological order where possible. It retries
// unresolved messages until a full pass makes no progress, at which
// point any remainder is reported via DependencyMissingError for the
// first such message's first missing dependency.
func HashAll(msgs []Msg) (map[Path]string, error) {
	hashes := make(map[Path]string, len(msgs))
	remaining := make([]Msg, len(msgs))
	copy(remaining, msgs)

	for len(remaining) > 0 {
		progressed := false
		var next []Msg
		var firstErr error
		for _, m := range remaining {
			h, err := m.Hash(hashes)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				next = append(next, m)
				continue
			}
			hashes[m.Path] = h
			progressed = true
		}
		if !progressed {
			return hashes, firstErr
		}
		remaining = next
	}
	return hashes, nil
}

// HashSrv hashes a service's request and response messages separately,
// per §4.2 "Services hash request and response separately."
func HashSrv(s Srv, hashes map[Path]string) (reqHash, resHash string, err error) {
	req, res, err := s.BuildMessages()
	if err != nil {
		return "", "", err
	}
	reqHash, err = req.Hash(hashes)
	if err != nil {
		return "", "", err
	}
	resHash, err = res.Hash(hashes)
	if err != nil {
		return "", "", err
	}
	return reqHash, resHash, nil
}
