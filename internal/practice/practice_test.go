package practice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/easeaico/project-integrate/internal/phase"
	"github.com/easeaico/project-integrate/internal/types"
)

func TestDefaultLibraryLoads(t *testing.T) {
	lib, err := LoadLibrary("")
	if err != nil {
		t.Fatalf("failed to load embedded library: %v", err)
	}
	if len(lib.All()) < len(requiredTypes) {
		t.Fatalf("expected at least %d practices, got %d", len(requiredTypes), len(lib.All()))
	}
	p, ok := lib.ByID("extended-exhale")
	if !ok || p.Type != TypeBreathing || len(p.Steps) == 0 {
		t.Fatalf("unexpected practice: %#v", p)
	}
}

func TestLibraryReturnsCopies(t *testing.T) {
	lib := DefaultLibrary()
	p, _ := lib.ByID("orienting")
	p.Steps[0] = "changed"
	again, _ := lib.ByID("orienting")
	if again.Steps[0] == "changed" {
		t.Fatalf("library data was mutated through a returned practice")
	}
}

func TestParseLibraryRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `practices:
  - {id: a, type: breathing, title: A, urgency: low}
  - {id: a, type: orienting, title: B, urgency: low}`,
		"bad urgency": `practices:
  - {id: a, type: breathing, title: A, urgency: urgent}`,
		"missing types": `practices:
  - {id: a, type: breathing, title: A, urgency: low}`,
		"not yaml": `practices: [`,
	}
	for name, data := range cases {
		if _, err := ParseLibrary([]byte(data)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadLibraryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.yaml")
	if err := os.WriteFile(path, embeddedLibrary, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLibrary(path); err != nil {
		t.Fatalf("expected library from file, got %v", err)
	}
	if _, err := LoadLibrary(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRecommendRuleOrder(t *testing.T) {
	r := NewRecommender(DefaultLibrary())
	calm := types.StateAssessment{State: types.StateVentral, Intensity: 4}

	cases := []struct {
		name   string
		reply  string
		themes []string
		phase  types.Phase
		want   string
		urg    types.Urgency
	}{
		{"safety first", "You are safe here. Notice your body.", nil, phase.CheckIn, TypePolyvagal, types.UrgencyMedium},
		{"trauma theme", "Thank you.", []string{"trauma"}, phase.Associations, TypePolyvagal, types.UrgencyMedium},
		{"parts outside six f's", "It sounds like a part of me wants rest.", nil, phase.Dynamics, TypeParts, types.UrgencyLow},
		{"body", "What do you notice in your chest?", nil, phase.CheckIn, TypeSomatic, types.UrgencyLow},
		{"overwhelm not activated", "That sounds like too much.", nil, phase.CheckIn, TypeBreathing, types.UrgencyMedium},
		{"critic", "The critic is loud today.", nil, phase.Ritual, TypeSelfCompassion, types.UrgencyMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Recommend(calm, tc.reply, tc.themes, tc.phase)
			if got == nil {
				t.Fatalf("expected a practice")
			}
			if got.Type != tc.want || got.Urgency != tc.urg {
				t.Fatalf("expected %s/%s, got %s/%s", tc.want, tc.urg, got.Type, got.Urgency)
			}
		})
	}
}

func TestRecommendHighUrgencyOnlyForSympatheticOverwhelm(t *testing.T) {
	r := NewRecommender(DefaultLibrary())
	activated := types.StateAssessment{State: types.StateSympathetic, Intensity: 7}

	got := r.Recommend(activated, "It is a lot, maybe too much right now.", nil, phase.CheckIn)
	if got == nil || got.Type != TypeBreathing || got.Urgency != types.UrgencyHigh {
		t.Fatalf("unexpected practice: %#v", got)
	}
	got = r.Recommend(activated, "Notice your body.", nil, phase.CheckIn)
	if got == nil || got.Urgency == types.UrgencyHigh {
		t.Fatalf("non-overwhelm rule must not be high urgency: %#v", got)
	}
}

func TestRecommendSkipsPartsDuringSixFs(t *testing.T) {
	r := NewRecommender(DefaultLibrary())
	got := r.Recommend(types.StateAssessment{State: types.StateUnknown}, "What does this part want you to know?", nil, phase.Befriend)
	if got != nil {
		t.Fatalf("expected no practice, got %#v", got)
	}
}

func TestRecommendNoMatch(t *testing.T) {
	r := NewRecommender(DefaultLibrary())
	if got := r.Recommend(types.StateAssessment{}, "Thank you for sharing.", nil, phase.Find); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestUrgent(t *testing.T) {
	r := NewRecommender(DefaultLibrary())
	if p := r.Urgent(types.StateAssessment{State: types.StateSympathetic}); p.Type != TypeBreathing || p.Urgency != types.UrgencyHigh {
		t.Fatalf("unexpected sympathetic practice: %#v", p)
	}
	if p := r.Urgent(types.StateAssessment{State: types.StateDorsal}); p.Type != TypeOrienting || p.Urgency != types.UrgencyHigh {
		t.Fatalf("unexpected dorsal practice: %#v", p)
	}
}
