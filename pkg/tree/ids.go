package tree

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// IDGenerator produces fresh node ids. exists reports ids already taken in
// the snapshot being edited.
type IDGenerator interface {
	NewID(exists func(model.NodeID) bool) model.NodeID
}

// RandomIDs generates node-<suffix> ids where suffix is 8 chars of base32
// (lowercase, no padding), about 40 bits of space.
type RandomIDs struct{}

func (RandomIDs) NewID(exists func(model.NodeID) bool) model.NodeID {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	for {
		var b [5]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic(fmt.Sprintf("tree: crypto/rand failed: %v", err))
		}
		id := model.NodeID("node-" + strings.ToLower(enc.EncodeToString(b[:])))
		if exists == nil || !exists(id) {
			return id
		}
	}
}

// SequentialIDs hands out prefix-1, prefix-2, ... skipping ids already in use.
// Deterministic, so scripts and tests can predict ids.
type SequentialIDs struct {
	Prefix string
	next   int
}

func (s *SequentialIDs) NewID(exists func(model.NodeID) bool) model.NodeID {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "n"
	}
	for {
		s.next++
		id := model.NodeID(fmt.Sprintf("%s-%d", prefix, s.next))
		if exists == nil || !exists(id) {
			return id
		}
	}
}
