package script

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// ParseOutline builds a tree from an indented outline, two spaces per level.
// The first line is the root. A line may end with "#id" to pin its id;
// otherwise the id is a slug of the text, made unique with a numeric suffix.
// A leading "- " marks a node collapsed.
func ParseOutline(text string) (model.Tree, error) {
	b := model.NewBuilder()
	var stack []model.NodeID
	used := map[model.NodeID]bool{}
	n := 0

	for lineNo, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		trimmed := strings.TrimLeft(raw, " ")
		indent := len(raw) - len(trimmed)
		if indent%2 != 0 {
			return model.Tree{}, fmt.Errorf("outline line %d: odd indentation", lineNo+1)
		}
		depth := indent / 2

		expanded := true
		if rest, ok := strings.CutPrefix(trimmed, "- "); ok {
			expanded = false
			trimmed = rest
		}
		label, id := splitPinnedID(strings.TrimSpace(trimmed))
		if id == "" {
			id = uniqueSlug(label, used)
		} else if used[id] {
			return model.Tree{}, fmt.Errorf("outline line %d: duplicate id %q", lineNo+1, id)
		}
		used[id] = true

		node := model.Node{ID: id, Text: label, Expanded: expanded, Depth: depth}
		switch {
		case n == 0:
			if depth != 0 {
				return model.Tree{}, fmt.Errorf("outline line %d: root must not be indented", lineNo+1)
			}
			b.SetRoot(id)
		case depth == 0:
			return model.Tree{}, fmt.Errorf("outline line %d: second root %q", lineNo+1, label)
		case depth > len(stack):
			return model.Tree{}, fmt.Errorf("outline line %d: indentation jumps a level", lineNo+1)
		default:
			parentID := stack[depth-1]
			parent, _ := b.Get(parentID)
			parent.Children = append(parent.Children, id)
			b.Put(parent)
			node.ParentID = model.ParentRef(parentID)
		}
		b.Put(node)
		stack = append(stack[:depth], id)
		n++
	}
	if n == 0 {
		return model.Tree{}, fmt.Errorf("outline is empty")
	}
	t := b.Build()
	if err := model.Validate(t); err != nil {
		return model.Tree{}, fmt.Errorf("outline: %w", err)
	}
	return t, nil
}

func splitPinnedID(s string) (string, model.NodeID) {
	i := strings.LastIndex(s, " #")
	if i < 0 {
		if strings.HasPrefix(s, "#") && !strings.Contains(s, " ") {
			return "", model.NodeID(s[1:])
		}
		return s, ""
	}
	id := s[i+2:]
	if id == "" || strings.ContainsAny(id, " \t") {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), model.NodeID(id)
}

func uniqueSlug(text string, used map[model.NodeID]bool) model.NodeID {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
		} else if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	base := strings.TrimSuffix(sb.String(), "-")
	if base == "" {
		base = "node"
	}
	id := model.NodeID(base)
	for i := 2; used[id]; i++ {
		id = model.NodeID(base + "-" + strconv.Itoa(i))
	}
	return id
}
