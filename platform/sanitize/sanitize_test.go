package sanitize

import "testing"

func TestTextStripsEncodedTags(t *testing.T) {
	got := Text("  面談OK <b>明日</b> &lt;script&gt;alert(1)&lt;/script&gt; ")
	if got != "面談OK 明日 alert(1)" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := Truncate("山田太郎", 2); got != "山田" {
		t.Fatalf("expected 山田, got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
