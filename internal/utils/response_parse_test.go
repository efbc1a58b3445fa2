package utils

import "testing"

func TestParseRemoteReply(t *testing.T) {
	got, err := ParseRemoteReply(`{"reply":"Where do you notice it in your body?"}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Reply != "Where do you notice it in your body?" {
		t.Fatalf("unexpected reply: %s", got.Reply)
	}
}

func TestParseRemoteReplyWithWrapper(t *testing.T) {
	got, err := ParseRemoteReply("```json\n{\"reply\":\"  Take your time.  \"}\n```")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Reply != "Take your time." {
		t.Fatalf("expected trimmed reply, got %q", got.Reply)
	}
}

func TestParseRemoteReplyMissingField(t *testing.T) {
	if _, err := ParseRemoteReply(`{"message":"hello"}`); err == nil {
		t.Fatalf("expected error for missing reply field")
	}
}

func TestParseRemoteReplyEmpty(t *testing.T) {
	if _, err := ParseRemoteReply(`{"reply":"   "}`); err == nil {
		t.Fatalf("expected error for blank reply")
	}
}

func TestParseRemoteReplyPlainText(t *testing.T) {
	if _, err := ParseRemoteReply("I hear you."); err == nil {
		t.Fatalf("expected error for non-JSON reply")
	}
}

func TestReplySchemaRequiresReply(t *testing.T) {
	schema, err := ReplySchema()
	if err != nil {
		t.Fatalf("expected schema, got %v", err)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "reply" {
		t.Fatalf("expected reply to be required, got %v", schema.Required)
	}
}
