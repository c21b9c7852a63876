package dailynotes

import "testing"

func TestClassify_DateNames(t *testing.T) {
	c := New("", "")
	cases := []struct {
		path string
		want bool
	}{
		{"2025-01-20.md", true},
		{"journal/2025-01-20.md", true},
		{"notes/meeting.md", false},
		{"2025-13-40.md", false},
		{"2025-01-20-extra.md", false},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestClassify_FolderRestriction(t *testing.T) {
	c := New("journal", "")
	if !c.Classify("journal/2025-01-20.md") {
		t.Error("expected match inside folder")
	}
	if c.Classify("2025-01-20.md") {
		t.Error("expected no match outside folder")
	}
	if c.Classify("other/2025-01-20.md") {
		t.Error("expected no match in other folder")
	}
}

func TestClassify_CustomLayout(t *testing.T) {
	c := New("", "20060102")
	if !c.Classify("20250120.md") {
		t.Error("expected match for custom layout")
	}
	if c.Classify("2025-01-20.md") {
		t.Error("expected no match for default layout name")
	}
}
