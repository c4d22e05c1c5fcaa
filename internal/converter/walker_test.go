package converter

import (
	"testing"

	"github.com/riverfjs/richhtml-go/internal/buffer"
	"github.com/riverfjs/richhtml-go/internal/types"
)

func TestEventWalker_StateMachine(t *testing.T) {
	var got []int
	registry := Registry{
		"x-tag": TagHandlerFunc(func(_ types.Attributes, openIndex, closeIndex int, _ *buffer.SpannableBuilder) {
			got = append(got, openIndex, closeIndex)
		}),
	}
	w := NewEventWalker(nil, registry, nil, nil)

	if w.State() != StateScanning {
		t.Fatalf("initial state = %v", w.State())
	}
	w.Text("ab")
	w.StartTag("b", nil)
	if w.State() != StateScanning {
		t.Errorf("standard tag changed state to %v", w.State())
	}
	w.StartTag("x-tag", types.Attributes{{Key: "k", Val: "v"}})
	if w.State() != StateInsideCustomTag {
		t.Errorf("state after custom start = %v", w.State())
	}
	w.Text("cd")
	w.EndTag("x-tag")
	if w.State() != StateScanning {
		t.Errorf("state after custom end = %v", w.State())
	}
	w.Finish()
	if w.State() != StateDone {
		t.Errorf("state after finish = %v", w.State())
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("handler got %v, want [2 4]", got)
	}

	// nothing is accepted after finish
	w.Text("ignored")
	if s := w.Result().String(); s != "abcd" {
		t.Errorf("text = %q", s)
	}
}

func TestEventWalker_UnmatchedCloseIsNoop(t *testing.T) {
	w := NewEventWalker(nil, Registry{"x-tag": TagHandlerFunc(func(types.Attributes, int, int, *buffer.SpannableBuilder) {
		t.Error("handler must not run for an unmatched close")
	})}, nil, nil)
	w.EndTag("x-tag")
	w.EndTag("p")
	w.Text("ok")
	w.Finish()
	if s := w.Result().String(); s != "ok" {
		t.Errorf("text = %q", s)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	var nilRegistry Registry
	if _, ok := nilRegistry.Lookup("x"); ok {
		t.Error("nil registry matched")
	}
	r := Registry{"x": nil, "y": TagHandlerFunc(func(types.Attributes, int, int, *buffer.SpannableBuilder) {})}
	if _, ok := r.Lookup("x"); ok {
		t.Error("nil handler matched")
	}
	if _, ok := r.Lookup("Y"); ok {
		t.Error("lookup must be exact")
	}
	if _, ok := r.Lookup("y"); !ok {
		t.Error("registered handler not found")
	}
}

// TestEventWalker_NestedCustomTags 外层标签替换后，内层留下的 span 不能覆盖外层内容
func TestEventWalker_NestedCustomTags(t *testing.T) {
	card := TagHandlerFunc(func(attrs types.Attributes, openIndex, closeIndex int, output *buffer.SpannableBuilder) {
		run := buffer.FromString(attrs.Value("text"))
		run.SetSpan(&types.Span{Kind: types.SpanClickable, Ref: attrs.Value("skill")}, 0, run.Len(), types.InclusiveExclusive)
		output.Replace(openIndex, closeIndex, run)
	})
	w := NewEventWalker(nil, Registry{"x-card": card}, nil, nil)

	w.StartTag("x-card", types.Attributes{{Key: "skill", Val: "a"}, {Key: "text", Val: "A"}})
	w.SelfClosingTag("x-card", types.Attributes{{Key: "skill", Val: "b"}, {Key: "text", Val: "B"}})
	w.StartTag("i", nil)
	w.Text("x")
	w.EndTag("i")
	w.EndTag("x-card")
	w.Finish()

	out := w.Result()
	if got := out.String(); got != "A" {
		t.Fatalf("text = %q", got)
	}
	spans := out.Spans()
	if len(spans) != 1 {
		t.Fatalf("spans = %+v, want only the outer clickable", spans)
	}
	if sp := spans[0]; sp.Ref != "a" || sp.Start != 0 || sp.End != 1 {
		t.Errorf("clickable = %+v", sp)
	}
}
