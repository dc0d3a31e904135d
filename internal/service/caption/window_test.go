package caption

import (
	"testing"

	captionmodel "github.com/okrause/elaborate/internal/model/caption"
)

func TestWindowEmptySnapshot(t *testing.T) {
	got := Window(nil, at(5000), 500)
	if got.Text != "" || got.Range != "" {
		t.Fatalf("expected empty transcript, got %+v", got)
	}
}

func TestWindowJoinsWithSpaces(t *testing.T) {
	samples := []captionmodel.Sample{
		{Text: "one", ObservedAt: at(0)},
		{Text: "two", ObservedAt: at(1000)},
		{Text: "three", ObservedAt: at(2000)},
	}

	got := Window(samples, at(3000), 500)
	if got.Text != "one two three" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
}

func TestWindowTrimsFromFront(t *testing.T) {
	samples := []captionmodel.Sample{
		{Text: "alpha", ObservedAt: at(0)},
		{Text: "beta", ObservedAt: at(1000)},
		{Text: "gamma", ObservedAt: at(2000)},
	}

	// "alpha beta gamma" is 16 chars; budget 10 keeps the last 10 with a
	// 3-char ellipsis prefix.
	got := Window(samples, at(3000), 10)
	if got.Text != "...a gamma" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
	if len([]rune(got.Text)) > 10+3 {
		t.Fatalf("text exceeds budget plus ellipsis: %q", got.Text)
	}
}

func TestWindowOutputNeverExceedsBudget(t *testing.T) {
	long := "abcdefghij"
	samples := []captionmodel.Sample{
		{Text: long, ObservedAt: at(0)},
		{Text: long + "k", ObservedAt: at(500)},
		{Text: long + "kl", ObservedAt: at(900)},
	}

	for budget := 1; budget <= 40; budget++ {
		got := Window(samples, at(1000), budget)
		if n := len([]rune(got.Text)); n > budget+3 {
			t.Fatalf("budget %d produced %d chars: %q", budget, n, got.Text)
		}
	}
}

func TestWindowIdempotent(t *testing.T) {
	samples := []captionmodel.Sample{
		{Text: "hello", ObservedAt: at(65000)},
		{Text: "world", ObservedAt: at(70000)},
	}
	now := at(125000)

	first := Window(samples, now, 500)
	second := Window(samples, now, 500)
	if first != second {
		t.Fatalf("expected identical output, got %+v vs %+v", first, second)
	}
}

func TestWindowRange(t *testing.T) {
	samples := []captionmodel.Sample{
		{Text: "hello", ObservedAt: at(65000)},
		{Text: "world", ObservedAt: at(70000)},
	}

	got := Window(samples, at(125000), 500)
	if got.Range != "01:05 → 02:05" {
		t.Fatalf("unexpected range: %q", got.Range)
	}
}
