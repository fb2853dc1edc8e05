package request

import "testing"

type destination struct {
	Location *string
	Kind     string
}

type role string

func TestGroupEmptyDetaches(t *testing.T) {
	var g Group
	var d destination
	Set(&g, &d.Location, nil)
	SetEnum(&g, &d.Kind, nil)

	if g.Any() {
		t.Error("expected empty group")
	}
	if Attach(&g, &d) != nil {
		t.Error("expected empty group to attach nil")
	}
}

func TestGroupAnyMemberAttaches(t *testing.T) {
	var g Group
	var d destination
	kind := "S3"
	SetEnum(&g, &d.Kind, &kind)

	got := Attach(&g, &d)
	if got == nil {
		t.Fatal("expected group with a member to attach")
	}
	if got.Kind != "S3" || got.Location != nil {
		t.Errorf("unexpected destination: %+v", got)
	}
}

func TestSetCopiesValue(t *testing.T) {
	var g Group
	var d destination
	loc := "s3://bucket"
	Set(&g, &d.Location, &loc)
	loc = "changed"

	if *d.Location != "s3://bucket" {
		t.Errorf("expected copied value, got %s", *d.Location)
	}
}

func TestSetSliceAndMapCopy(t *testing.T) {
	var g Group
	var list []string
	var tags map[string]string
	src := []string{"a"}
	srcTags := map[string]string{"k": "v"}

	SetSlice(&g, &list, src)
	SetMap(&g, &tags, srcTags)
	src[0] = "b"
	srcTags["k"] = "w"

	if list[0] != "a" || tags["k"] != "v" {
		t.Errorf("expected copies, got %v %v", list, tags)
	}

	var empty Group
	SetSlice(&empty, &list, nil)
	SetMap[string, string](&empty, &tags, nil)
	if empty.Any() {
		t.Error("nil collections must not mark the group")
	}
}

func TestMerge(t *testing.T) {
	var parent, child Group
	parent.Merge(&child)
	if parent.Any() {
		t.Error("expected empty merge to leave parent unset")
	}
	child.Mark()
	parent.Merge(&child)
	if !parent.Any() {
		t.Error("expected parent set after merging a set child")
	}
}

func TestEnum(t *testing.T) {
	if got := Enum[role](nil); got != "" {
		t.Errorf("expected empty enum, got %q", got)
	}
	v := "PROCESS_OWNER"
	if got := Enum[role](&v); got != role("PROCESS_OWNER") {
		t.Errorf("unexpected enum: %q", got)
	}
}
