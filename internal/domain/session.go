package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// SessionSnapshot is an immutable view of the per-company record collections
// held by a session. Known lists every configured company in display order;
// Records only has entries for companies that were processed.
type SessionSnapshot struct {
	SessionID string
	Known     []Company
	Records   map[Company][]SkuFact
	Revisions map[Company]uint64
}

// Held returns the processed companies in known-company order.
func (s SessionSnapshot) Held() []Company {
	held := make([]Company, 0, len(s.Records))
	for _, c := range s.Known {
		if _, ok := s.Records[c]; ok {
			held = append(held, c)
		}
	}
	return held
}

// Empty reports whether no company has been processed.
func (s SessionSnapshot) Empty() bool {
	return len(s.Records) == 0
}

// Fingerprint identifies the snapshot contents by company revisions. Two
// snapshots with the same fingerprint hold the same records.
func (s SessionSnapshot) Fingerprint() string {
	held := s.Held()
	if len(held) == 0 {
		return "empty"
	}
	parts := make([]string, 0, len(held)+1)
	parts = append(parts, s.SessionID)
	for _, c := range held {
		parts = append(parts, fmt.Sprintf("%s=%d", c, s.Revisions[c]))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
