package game

import "testing"

func TestCheckClose(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      bool
		wantPitch string
	}{
		{"plain close", "Great, let's do it! [CLOSE: Pixel 9 upgrade for family plan]", true, "Pixel 9 upgrade for family plan"},
		{"lowercase tag", "[close: quick sale]", true, "quick sale"},
		{"multiline pitch", "Done. [CLOSE: ten pack\nfor the crew]", true, "ten pack\nfor the crew"},
		{"no tag", "Tell me more about your business.", false, ""},
		{"flag is not close", "[FLAG: story doesn't add up]", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pitch := CheckClose(tt.text)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if pitch != tt.wantPitch {
				t.Errorf("expected pitch %q, got %q", tt.wantPitch, pitch)
			}
		})
	}
}

func TestCheckFlag(t *testing.T) {
	got, reason := CheckFlag("I can't proceed with this. [FLAG: urgency plus mismatched shipping address]")
	if !got {
		t.Fatal("expected flag detection")
	}
	if reason != "urgency plus mismatched shipping address" {
		t.Errorf("unexpected reason %q", reason)
	}

	if got, _ := CheckFlag("no tags at all"); got {
		t.Error("false positive flag detection")
	}
}

func TestStripActionTags(t *testing.T) {
	in := "Sounds good, let me set that up. [CLOSE: single phone] Thanks!"
	want := "Sounds good, let me set that up.  Thanks!"
	if got := StripActionTags(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	both := "[FLAG: bad story] something [CLOSE: pitch]"
	if got := StripActionTags(both); got != "something" {
		t.Errorf("expected tags removed, got %q", got)
	}
}
