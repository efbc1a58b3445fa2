package memory

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/easeaico/project-integrate/internal/types"
)

func TestUpdateHarvestsQuestionsFromReply(t *testing.T) {
	var s State
	next := s.Update("hello", TurnContext{ReplyText: "Welcome. Where do you notice it? What is it like?"})

	want := []string{"Where do you notice it?", "What is it like?"}
	if diff := cmp.Diff(want, next.AskedQuestions); diff != "" {
		t.Fatalf("unexpected questions (-want +got):\n%s", diff)
	}
	if next.Version != 1 {
		t.Fatalf("expected version 1, got %d", next.Version)
	}
}

func TestUpdateReturnsCopy(t *testing.T) {
	s := State{AskedQuestions: []string{"Where is it?"}}
	next := s.Update("I always do this", TurnContext{ReplyText: "What happens next?"})

	if len(s.AskedQuestions) != 1 || len(s.DiscussedPatterns) != 0 || s.Version != 0 {
		t.Fatalf("original state was modified: %#v", s)
	}
	if len(next.AskedQuestions) != 2 || len(next.DiscussedPatterns) != 1 {
		t.Fatalf("unexpected next state: %#v", next)
	}
}

func TestUpdateBoundsLists(t *testing.T) {
	var s State
	for i := 0; i < 80; i++ {
		reply := fmt.Sprintf("What does moment %d feel like?", i)
		user := fmt.Sprintf("I keep doing thing %d. I'm stuck on step %d. At work day %d.", i, i, i)
		s = s.Update(user, TurnContext{ReplyText: reply})
	}

	if len(s.AskedQuestions) != MaxAskedQuestions {
		t.Fatalf("expected %d questions, got %d", MaxAskedQuestions, len(s.AskedQuestions))
	}
	if s.AskedQuestions[0] != "What does moment 30 feel like?" {
		t.Fatalf("expected oldest questions trimmed first, got %q", s.AskedQuestions[0])
	}
	if len(s.DiscussedPatterns) != MaxDiscussedPatterns {
		t.Fatalf("expected %d patterns, got %d", MaxDiscussedPatterns, len(s.DiscussedPatterns))
	}
	if len(s.UserChallenges) != MaxUserChallenges {
		t.Fatalf("expected %d challenges, got %d", MaxUserChallenges, len(s.UserChallenges))
	}
	if len(s.ContextNotes) != MaxContextNotes {
		t.Fatalf("expected %d notes, got %d", MaxContextNotes, len(s.ContextNotes))
	}
	if s.Version != 80 {
		t.Fatalf("expected version 80, got %d", s.Version)
	}
}

func TestUpdateDeduplicatesByPrefix(t *testing.T) {
	var s State
	s = s.Update("", TurnContext{ReplyText: "Where do you notice it in your body?"})
	s = s.Update("", TurnContext{ReplyText: "Where do you  notice it in your BODY?"})
	if len(s.AskedQuestions) != 1 {
		t.Fatalf("expected one question, got %#v", s.AskedQuestions)
	}
}

func TestUpdateKeepsLongerDistinctItems(t *testing.T) {
	var s State
	for _, name := range []string{"hope", "hopeless", "sad", "sadness", "hope"} {
		s = s.Update("", TurnContext{Entities: []types.Entity{{Name: name, Category: types.CategoryEmotional}}})
	}
	if diff := cmp.Diff([]string{"hope", "hopeless", "sad", "sadness"}, s.ExploredThemes); diff != "" {
		t.Fatalf("unexpected themes (-want +got):\n%s", diff)
	}

	s = s.Update("", TurnContext{ReplyText: "What do you notice?"})
	s = s.Update("", TurnContext{ReplyText: "So, what do you notice?"})
	if len(s.AskedQuestions) != 2 {
		t.Fatalf("expected two questions, got %#v", s.AskedQuestions)
	}
}

func TestUpdateTruncatesItems(t *testing.T) {
	var s State
	long := "I always " + strings.Repeat("x", 200) + "."
	s = s.Update(long, TurnContext{})
	if len(s.DiscussedPatterns) != 1 || len([]rune(s.DiscussedPatterns[0])) != 100 {
		t.Fatalf("expected one truncated pattern, got %#v", s.DiscussedPatterns)
	}
}

func TestUpdateRecordsPartsAndThemesOnce(t *testing.T) {
	turn := TurnContext{Entities: []types.Entity{
		{Name: "anxious part", Category: types.CategoryParts},
		{Name: "chest", Category: types.CategorySomatic},
	}}
	var s State
	s = s.Update("", turn)
	s = s.Update("", turn)

	if diff := cmp.Diff([]string{"anxious part"}, s.IdentifiedParts); diff != "" {
		t.Fatalf("unexpected parts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"chest"}, s.ExploredThemes); diff != "" {
		t.Fatalf("unexpected themes (-want +got):\n%s", diff)
	}
}

func TestUpdateGoalsAndChallenges(t *testing.T) {
	var s State
	s = s.Update("I want to feel safe with my family. It's hard to sleep.", TurnContext{})

	if diff := cmp.Diff([]string{"I want to feel safe with my family."}, s.UserGoals); diff != "" {
		t.Fatalf("unexpected goals (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"It's hard to sleep."}, s.UserChallenges); diff != "" {
		t.Fatalf("unexpected challenges (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"I want to feel safe with my family."}, s.ContextNotes); diff != "" {
		t.Fatalf("unexpected notes (-want +got):\n%s", diff)
	}
}

func TestUpdateCompletedIntervention(t *testing.T) {
	practice := &types.Practice{ID: "box-breathing", Title: "Box breathing"}
	var s State

	s = s.Update("Not yet", TurnContext{PreviousPractice: practice})
	if len(s.CompletedInterventions) != 0 {
		t.Fatalf("expected no completed interventions, got %#v", s.CompletedInterventions)
	}
	s = s.Update("I tried it and it helped", TurnContext{PreviousPractice: practice})
	if diff := cmp.Diff([]string{"Box breathing"}, s.CompletedInterventions); diff != "" {
		t.Fatalf("unexpected interventions (-want +got):\n%s", diff)
	}
}

func TestDropAskedQuestions(t *testing.T) {
	s := State{AskedQuestions: []string{"Where do you notice it?"}}

	got := s.DropAskedQuestions("Thank you. Where do you notice it? How old does it feel?")
	if got != "Thank you. How old does it feel?" {
		t.Fatalf("unexpected text: %q", got)
	}

	fresh := "Thank you.\nHow old does it feel?"
	if got := s.DropAskedQuestions(fresh); got != fresh {
		t.Fatalf("expected unchanged text, got %q", got)
	}

	widened := State{AskedQuestions: []string{"What do you notice?"}}
	if got := widened.DropAskedQuestions("That is new. So, what do you notice?"); got != "That is new. So, what do you notice?" {
		t.Fatalf("expected longer question kept, got %q", got)
	}
}

func TestDropAskedQuestionsKeepsLineBreaks(t *testing.T) {
	s := State{AskedQuestions: []string{"Where do you notice it?"}}

	got := s.DropAskedQuestions("Thank you for sharing.\n\nWhere do you notice it?\nHow old does it feel? Take your time.")
	want := "Thank you for sharing.\n\nHow old does it feel? Take your time."
	if got != want {
		t.Fatalf("DropAskedQuestions() = %q, want %q", got, want)
	}

	got = s.DropAskedQuestions("Where do you notice it?\nStay with it.")
	if got != "Stay with it." {
		t.Fatalf("DropAskedQuestions() = %q, want %q", got, "Stay with it.")
	}
}

func TestSnapshotKeepsRecentEntries(t *testing.T) {
	var s State
	for i := 0; i < 20; i++ {
		s = s.Update("", TurnContext{ReplyText: fmt.Sprintf("What does moment %d feel like?", i)})
	}
	snap := s.Snapshot()
	if len(snap.AskedQuestions) != snapshotQuestions {
		t.Fatalf("expected %d questions, got %d", snapshotQuestions, len(snap.AskedQuestions))
	}
	if snap.AskedQuestions[len(snap.AskedQuestions)-1] != "What does moment 19 feel like?" {
		t.Fatalf("expected newest question last, got %#v", snap.AskedQuestions)
	}
	if (State{}).Snapshot().Empty() != true {
		t.Fatalf("expected empty snapshot for empty state")
	}
}
