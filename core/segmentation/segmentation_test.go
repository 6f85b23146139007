package segmentation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"
)

func TestSplit(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: []string{""}},
		{name: "cjk comma after minimum", input: "你好，世界", expected: []string{"你好，", "世界"}},
		{name: "punctuation at the very end", input: "你好。", expected: []string{"你好。"}},
		{name: "punctuation before minimum is ignored", input: "你，好世界。再见", expected: []string{"你，好世界。", "再见"}},
		{name: "punctuation beats force break", input: "你好，" + strings.Repeat("好", 30), expected: []string{"你好，", strings.Repeat("好", 30)}},
		{name: "force break after twenty han", input: strings.Repeat("好", 20) + "再见", expected: []string{strings.Repeat("好", 20), "再见"}},
		{name: "force break after twenty digits", input: "12345678901234567890123", expected: []string{"12345678901234567890", "123"}},
		{name: "force break after twenty words", input: strings.Repeat("go ", 21), expected: []string{strings.TrimSuffix(strings.Repeat("go ", 20), " "), " go "}},
		{name: "english punctuation followed by space", input: "ok ok. next", expected: []string{"ok ok.", " next"}},
		{name: "english punctuation without space", input: "ok ok.next", expected: []string{"ok ok.next"}},
		{name: "single word below minimum", input: "ok. next", expected: []string{"ok. next"}},
		{name: "english comma", input: "Hello world, this is", expected: []string{"Hello world,", " this is"}},
		{name: "decimal number", input: "12.5 kg and more", expected: []string{"12.5 kg and more"}},
		{name: "question mark then space", input: "好吗? 是的", expected: []string{"好吗?", " 是的"}},
		{name: "newline", input: "你好\n世界", expected: []string{"你好\n", "世界"}},
		{name: "ellipsis", input: "嗯嗯…然后", expected: []string{"嗯嗯…", "然后"}},
		{name: "enumeration comma", input: "苹果、香蕉", expected: []string{"苹果、", "香蕉"}},
		{name: "uncounted script", input: "こんにちは。元気", expected: []string{"こんにちは。元気"}},
		{name: "mixed units", input: "AI助手。好", expected: []string{"AI助手。", "好"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			head, tail, ok := Split(testCase.input)

			got := []string{head}
			if ok {
				got = append(got, tail)
			}
			if len(got) != len(testCase.expected) {
				t.Fatalf("expected %q, got %q", testCase.expected, got)
			}
			for i := range got {
				if got[i] != testCase.expected[i] {
					t.Fatalf("expected part %d to be %q, got %q", i, testCase.expected[i], got[i])
				}
			}
		})
	}
}

func TestSegmenterCustomBounds(t *testing.T) {
	testCases := []struct {
		name      string
		segmenter Segmenter
		input     string
		head      string
		tail      string
	}{
		{name: "lower minimum", segmenter: Segmenter{MinUnits: 1}, input: "你，好", head: "你，", tail: "好"},
		{name: "lower maximum", segmenter: Segmenter{MaxUnits: 3}, input: "一二三四", head: "一二三", tail: "四"},
		{name: "zero value uses defaults", segmenter: Segmenter{}, input: "你好，世界", head: "你好，", tail: "世界"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			head, tail, ok := testCase.segmenter.Split(testCase.input)
			if !ok {
				t.Fatalf("expected %q to split", testCase.input)
			}
			if head != testCase.head || tail != testCase.tail {
				t.Fatalf("expected (%q, %q), got (%q, %q)", testCase.head, testCase.tail, head, tail)
			}
		})
	}
}

func TestSplitUnsplitReturnsInput(t *testing.T) {
	head, tail, ok := Split("你")
	if ok {
		t.Fatalf("expected no split for a single unit")
	}
	if head != "你" || tail != "" {
		t.Fatalf("expected (%q, %q), got (%q, %q)", "你", "", head, tail)
	}
}

var textGenerator = rapid.StringOf(rapid.SampledFrom([]rune{
	'你', '好', '世', '界', 'a', 'b', 'Z', '1', '9', ' ', '\t', 'é', 'ん',
	'、', '，', '：', '；', '。', '？', '！', '…', '\n',
	',', ':', ';', '.', '?', '!', '-',
}))

func TestSplitProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := textGenerator.Draw(t, "text")

		head, tail, ok := Split(text)
		if !ok {
			if head != text || tail != "" {
				t.Fatalf("expected unsplit result to be the input, got (%q, %q)", head, tail)
			}
			return
		}

		if head+tail != text {
			t.Fatalf("expected %q + %q to equal %q", head, tail, text)
		}
		if head == "" || len(head) >= len(text) {
			t.Fatalf("expected non-empty head shorter than the input, got %q of %q", head, text)
		}
		if !utf8.ValidString(head) || !utf8.ValidString(tail) {
			t.Fatalf("expected split on a rune boundary, got (%q, %q)", head, tail)
		}
	})
}

func TestSplitHeadIsNotSplitAgain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := textGenerator.Draw(t, "text")

		head, _, ok := Split(text)
		if !ok {
			return
		}

		if again, rest, ok := Split(head); ok {
			t.Fatalf("expected fragment %q to be final, got (%q, %q)", head, again, rest)
		}
	})
}
