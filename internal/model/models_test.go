package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStyleRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		st   Style
	}{
		{"empty", Style{}},
		{"text", Style{Text: &TextStyle{FontSize: 24, Color: "#fff", Bold: true, Italic: true, Glow: true}}},
		{"image", Style{Image: &ImageStyle{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseStyle(tc.st.Serialize())
			if (got.Text == nil) != (tc.st.Text == nil) || (got.Image == nil) != (tc.st.Image == nil) {
				t.Fatalf("variant lost: %+v", got)
			}
			if tc.st.Text != nil && *got.Text != *tc.st.Text {
				t.Fatalf("text style: %+v, want %+v", got.Text, tc.st.Text)
			}
		})
	}
}

func TestParseStyleGarbage(t *testing.T) {
	for _, s := range []string{"", "{}", "not json", `{"text": 5}`} {
		st := ParseStyle(s)
		if st.Text != nil || st.Image != nil {
			t.Fatalf("ParseStyle(%q) produced a variant", s)
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		if !strings.Contains(id, "-") {
			t.Fatalf("id %q missing separator", id)
		}
	}
}

func TestItemJSONFieldNames(t *testing.T) {
	b, err := json.Marshal(Item{ID: "a", BoardID: "default", Type: ItemText, ZIndex: 1, CreatedAt: 2, UpdatedAt: 3})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, key := range []string{`"boardId"`, `"zIndex"`, `"createdAt"`, `"updatedAt"`} {
		if !strings.Contains(s, key) {
			t.Fatalf("marshaled item missing %s: %s", key, s)
		}
	}
}
