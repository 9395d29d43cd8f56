// Package script replays editing sessions described in YAML.
//
// A script seeds a document and lists operations in the order a user would
// perform them:
//
//	name: planning
//	outline: |
//	  Launch #root
//	    Budget
//	    Hiring
//	steps:
//	  - op: addChild
//	    id: budget
//	    as: q3
//	  - op: draft
//	    id: q3
//	    text: Q3 numbers
//	  - op: endEdit
//	  - op: moveNode
//	    id: hiring
//	    target: budget
//	    position: before
//
// Rejected operations are reported as no-ops, never as errors. Only a
// malformed script (unknown op, bad position, unmet expectation) fails.
package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/editor"
	"github.com/vanderheijden86/mindmap/pkg/metrics"
	"github.com/vanderheijden86/mindmap/pkg/model"
)

var (
	// ErrUnknownOp is returned for an op name the runner does not know.
	ErrUnknownOp = errors.New("unknown op")
	// ErrExpectation is returned when a step's expect field does not match.
	ErrExpectation = errors.New("expectation not met")
	// ErrBadStep is returned for a step missing required fields.
	ErrBadStep = errors.New("malformed step")
)

// Script is a seed document plus a list of steps.
type Script struct {
	Name    string `yaml:"name,omitempty"`
	Seed    string `yaml:"seed,omitempty"`    // initial (default) or blank
	Outline string `yaml:"outline,omitempty"` // overrides Seed
	Steps   []Step `yaml:"steps"`
}

// Step is one operation.
type Step struct {
	Op       string    `yaml:"op"`
	ID       string    `yaml:"id,omitempty"`
	Target   string    `yaml:"target,omitempty"`
	Position string    `yaml:"position,omitempty"`
	Text     *string   `yaml:"text,omitempty"`
	As       string    `yaml:"as,omitempty"`
	At       []float64 `yaml:"at,omitempty"`     // drag pointer, world coordinates
	Expect   string    `yaml:"expect,omitempty"` // applied or noop
}

// Result reports what one step did.
type Result struct {
	Index   int          `json:"index"`
	Op      string       `json:"op"`
	Applied bool         `json:"applied"`
	ID      model.NodeID `json:"id,omitempty"`
}

// Parse decodes a YAML script.
func Parse(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return &sc, nil
}

// Load reads and decodes a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Tree returns the document the script starts from.
func (sc *Script) Tree() (model.Tree, error) {
	if strings.TrimSpace(sc.Outline) != "" {
		return ParseOutline(sc.Outline)
	}
	switch strings.ToLower(sc.Seed) {
	case "", "initial":
		return model.Initial(), nil
	case "blank":
		return ParseOutline("Central Topic #root")
	default:
		return model.Tree{}, fmt.Errorf("unknown seed %q", sc.Seed)
	}
}

// Session opens an editor session on the script's seed document.
func (sc *Script) Session(opts editor.Options) (*editor.Session, error) {
	t, err := sc.Tree()
	if err != nil {
		return nil, err
	}
	return editor.New(t, opts), nil
}

type runner struct {
	sess    *editor.Session
	aliases map[string]model.NodeID
}

func (r *runner) ref(s string) model.NodeID {
	if id, ok := r.aliases[s]; ok {
		return id
	}
	return model.NodeID(s)
}

// Run applies every step to sess. It stops at the first malformed step.
func Run(sess *editor.Session, sc *Script) ([]Result, error) {
	defer metrics.Timer(metrics.ScriptReplay)()
	defer debug.Trace("script.Run " + sc.Name)()

	r := &runner{sess: sess, aliases: map[string]model.NodeID{}}
	results := make([]Result, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		res, err := r.apply(st)
		res.Index, res.Op = i, st.Op
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		if err := checkExpect(st.Expect, res.Applied); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		if st.As != "" && res.ID != "" {
			r.aliases[st.As] = res.ID
		}
		results = append(results, res)
	}
	return results, nil
}

func checkExpect(expect string, applied bool) error {
	switch strings.ToLower(expect) {
	case "":
		return nil
	case "applied":
		if !applied {
			return fmt.Errorf("%w: wanted applied, got no-op", ErrExpectation)
		}
	case "noop", "no-op":
		if applied {
			return fmt.Errorf("%w: wanted no-op, got applied", ErrExpectation)
		}
	default:
		return fmt.Errorf("%w: expect must be applied or noop, got %q", ErrBadStep, expect)
	}
	return nil
}

func (r *runner) apply(st Step) (Result, error) {
	s := r.sess
	id := r.ref(st.ID)
	var res Result

	switch st.Op {
	case "addChild":
		res.ID, res.Applied = s.AddChild(id)
	case "addSibling":
		res.ID, res.Applied = s.AddSibling(id)
	case "updateText":
		if st.Text == nil {
			return res, fmt.Errorf("%w: updateText needs text", ErrBadStep)
		}
		res.Applied = s.UpdateText(id, *st.Text)
	case "draft":
		if id == "" {
			id = s.EditingID()
		}
		res.Applied = s.UpdateDraft(id, st.Text)
	case "beginEdit":
		res.Applied = s.BeginEdit(id)
	case "endEdit":
		res.Applied = s.EndEdit()
	case "select":
		res.Applied = s.Select(id)
	case "toggleCollapse":
		res.Applied = s.ToggleCollapse(id)
	case "deleteNode":
		res.Applied = s.DeleteNode(id)
	case "moveNode":
		pos, err := model.ParseDropPosition(st.Position)
		if err != nil {
			return res, fmt.Errorf("%w: %v", ErrBadStep, err)
		}
		res.Applied = s.MoveNode(id, r.ref(st.Target), pos)
	case "drag":
		return r.drag(st, id)
	case "undo":
		res.Applied = s.Undo()
	case "redo":
		res.Applied = s.Redo()
	default:
		return res, fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	res.ID = orID(res.ID, id)
	return res, nil
}

func orID(a, b model.NodeID) model.NodeID {
	if a != "" {
		return a
	}
	return b
}

// drag replays a pointer drag. The pointer goes to At when given, otherwise
// to the band of Target's box that selects Position.
func (r *runner) drag(st Step, id model.NodeID) (Result, error) {
	s := r.sess
	res := Result{ID: id}

	var px, py float64
	switch {
	case len(st.At) == 2:
		px, py = st.At[0], st.At[1]
	case st.Target != "":
		box, ok := s.Layout().Box(r.ref(st.Target))
		if !ok {
			return res, nil
		}
		rel := 0.5
		if st.Position != "" {
			pos, err := model.ParseDropPosition(st.Position)
			if err != nil {
				return res, fmt.Errorf("%w: %v", ErrBadStep, err)
			}
			switch pos {
			case model.DropBefore:
				rel = 0.1
			case model.DropAfter:
				rel = 0.9
			}
		}
		px, py = box.X, box.Top()+rel*box.Height
	default:
		return res, fmt.Errorf("%w: drag needs at or target", ErrBadStep)
	}

	if !s.BeginDrag(id) {
		return res, nil
	}
	s.DragTo(px, py)
	res.Applied = s.Drop()
	return res, nil
}
