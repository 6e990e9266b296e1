package logging

import (
	"context"
	"reflect"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "7c1f")
	ctx = WithLanguage(ctx, "zz-aa")
	ctx = WithFile(ctx, "SharedRules/default.yaml")

	if got := GetRunID(ctx); got != "7c1f" {
		t.Errorf("GetRunID() = %q, want %q", got, "7c1f")
	}
	if got := GetLanguage(ctx); got != "zz-aa" {
		t.Errorf("GetLanguage() = %q, want %q", got, "zz-aa")
	}
	if got := GetFile(ctx); got != "SharedRules/default.yaml" {
		t.Errorf("GetFile() = %q", got)
	}
}

func TestContextKeys_Empty(t *testing.T) {
	ctx := context.Background()
	if GetRunID(ctx) != "" || GetLanguage(ctx) != "" || GetFile(ctx) != "" {
		t.Error("empty context should yield empty fields")
	}
}

func TestExtractContextFields(t *testing.T) {
	ctx := WithFile(WithRunID(context.Background(), "r1"), "a.yaml")

	got := Attrs(ctx)
	want := []any{"run_id", "r1", "file", "a.yaml"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Attrs() = %v, want %v", got, want)
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := WithFile(context.Background(), "a.yaml")
	ctx = WithFile(ctx, "b.yaml")
	if got := GetFile(ctx); got != "b.yaml" {
		t.Errorf("GetFile() = %q, want %q", got, "b.yaml")
	}
}
