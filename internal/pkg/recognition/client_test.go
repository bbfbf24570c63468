package recognition

import (
	"context"
	"errors"
	"testing"
)

func TestParseFieldsPlainJSON(t *testing.T) {
	fields, err := ParseFields(`{"net":"jazz","name":"Monthly X Plus","price":"2600","code":"*872#"}`)
	if err != nil {
		t.Fatalf("ParseFields returned error: %v", err)
	}
	if fields.Net != "jazz" || fields.Name != "Monthly X Plus" || fields.Price != "2600" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestParseFieldsFencedJSON(t *testing.T) {
	text := "```json\n{\"net\":\"ufone\",\"name\":\"Super 5\",\"price\":\"3499\",\"onNet\":\"20000\"}\n```"
	fields, err := ParseFields(text)
	if err != nil {
		t.Fatalf("ParseFields returned error: %v", err)
	}
	if fields.Net != "ufone" || fields.OnNet != "20000" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestParseFieldsBareFence(t *testing.T) {
	text := "```\n{\"net\":\"zong\",\"price\":\"580\"}\n```"
	fields, err := ParseFields(text)
	if err != nil {
		t.Fatalf("ParseFields returned error: %v", err)
	}
	if fields.Net != "zong" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestParseFieldsGarbage(t *testing.T) {
	if _, err := ParseFields("I could not read the image, sorry."); err == nil {
		t.Fatal("expected error for non-JSON reply")
	}
}

func TestParseFieldsEmptyObject(t *testing.T) {
	_, err := ParseFields("{}")
	if !errors.Is(err, ErrUnrecognized) {
		t.Fatalf("expected ErrUnrecognized, got %v", err)
	}
}

func TestStripFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, c := range cases {
		if got := StripFence(c.in); got != c.want {
			t.Errorf("StripFence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAnalyzeUnconfigured(t *testing.T) {
	client := NewClient("", "", 0)
	if client.Configured() {
		t.Fatal("client without key must report unconfigured")
	}

	_, err := client.Analyze(context.Background(), []byte("img"), "image/png")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
