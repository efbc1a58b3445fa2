package command

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/easeaico/project-integrate/internal/dialogue"
	"github.com/easeaico/project-integrate/internal/practice"
	"github.com/easeaico/project-integrate/internal/types"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Command
		ok   bool
	}{
		{"/state", Command{Name: State}, true},
		{"  /phase befriend ", Command{Name: Phase, Arg: "befriend"}, true},
		{"/another", Command{Name: AnotherPart}, true},
		{"/EXIT", Command{Name: Quit}, true},
		{"I feel a part", Command{}, false},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if ok != tc.ok {
			t.Fatalf("Parse(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func newDispatcher(t *testing.T) (*Dispatcher, *dialogue.Engine, string) {
	t.Helper()
	engine := dialogue.NewEngine(dialogue.NewGenerator(dialogue.Options{}), nil)
	doc, err := engine.Start(context.Background(), types.ProtocolSixFs)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return NewDispatcher(engine, practice.DefaultLibrary()), engine, doc.ID
}

func TestRunState(t *testing.T) {
	d, engine, id := newDispatcher(t)
	ctx := context.Background()
	if _, err := engine.Turn(ctx, id, "I feel a tight anxious part in my chest"); err != nil {
		t.Fatalf("Turn() error = %v", err)
	}

	out, err := d.Run(ctx, id, Command{Name: State})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"Protocol: six_fs", "Phase: focus (Focus)", "Turns: 1", "anxious part"} {
		if !strings.Contains(out, want) {
			t.Fatalf("state output missing %q:\n%s", want, out)
		}
	}
}

func TestRunLifecycle(t *testing.T) {
	d, engine, id := newDispatcher(t)
	ctx := context.Background()

	out, err := d.Run(ctx, id, Command{Name: Phase, Arg: "befriend"})
	if err != nil || out == "" {
		t.Fatalf("Run(phase) = %q, %v", out, err)
	}
	doc, _ := engine.Get(ctx, id)
	if doc.Machine.Phase != "befriend" {
		t.Fatalf("phase = %q, want befriend", doc.Machine.Phase)
	}

	out, _ = d.Run(ctx, id, Command{Name: Phase, Arg: "glimmers"})
	if !strings.Contains(out, "glimmers") {
		t.Fatalf("invalid phase output = %q", out)
	}

	out, _ = d.Run(ctx, id, Command{Name: Phase})
	if !strings.Contains(out, "feelToward") {
		t.Fatalf("phase usage should list phases: %q", out)
	}

	out, _ = d.Run(ctx, id, Command{Name: Finish})
	if !strings.Contains(out, "finished") {
		t.Fatalf("finish output = %q", out)
	}
}

func TestRunMisc(t *testing.T) {
	d, _, id := newDispatcher(t)
	ctx := context.Background()

	if out, _ := d.Run(ctx, id, Command{Name: Help}); !strings.Contains(out, "/another-part") {
		t.Fatalf("help output = %q", out)
	}
	if out, _ := d.Run(ctx, id, Command{Name: Practices}); !strings.Contains(out, "min)") {
		t.Fatalf("practices output = %q", out)
	}
	if out, _ := d.Run(ctx, id, Command{Name: "dance"}); !strings.Contains(out, "Unknown command /dance") {
		t.Fatalf("unknown output = %q", out)
	}
	if out, _ := d.Run(ctx, "missing", Command{Name: Restart}); !strings.Contains(out, "could not be found") {
		t.Fatalf("missing session output = %q", out)
	}
}
