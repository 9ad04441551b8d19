package telegram

import (
	"fmt"
	"strings"
	"testing"
)

// flareTable собирает многодневную таблицу вспышек, похожую на вывод
// команды /iri: заголовок даты и строки со шкалой яркости.
func flareTable(days, perDay int) string {
	var b strings.Builder
	for d := 0; d < days; d++ {
		fmt.Fprintf(&b, "2026-04-%02d\n", d+1)
		for i := 0; i < perDay; i++ {
			fmt.Fprintf(&b, "~~~~##   %02d:%02d:00  -6.0m  [ 41 / 173 ]\n", 18+i%4, i%60)
		}
	}
	return b.String()
}

func TestSplitMessageKeepsFlareLinesIntact(t *testing.T) {
	text := flareTable(10, 20)
	if len([]rune(text)) <= messageLimit {
		t.Fatalf("таблица должна превышать лимит, длина %d", len([]rune(text)))
	}

	parts := SplitMessage(text)
	if len(parts) < 2 {
		t.Fatalf("ожидали разрез на части, получили %d", len(parts))
	}
	for i, part := range parts {
		if length := len([]rune(part)); length > messageLimit {
			t.Fatalf("часть %d превышает лимит: %d", i, length)
		}
		for _, line := range strings.Split(part, "\n") {
			if !strings.HasSuffix(line, "]") && !strings.HasPrefix(line, "2026-") {
				t.Fatalf("строка таблицы разорвана: %q", line)
			}
		}
	}
}

func TestSplitMessageUnbreakableLine(t *testing.T) {
	// Строка без переводов длиннее лимита режется жёстко.
	text := strings.Repeat("x", messageLimit+100)
	parts := SplitMessage(text)
	if len(parts) != 2 {
		t.Fatalf("ожидали 2 части, получили %d", len(parts))
	}
	if len([]rune(parts[0])) != messageLimit {
		t.Fatalf("первая часть должна занимать весь лимит, длина %d", len([]rune(parts[0])))
	}
	if len([]rune(parts[1])) != 100 {
		t.Fatalf("во второй части должен быть остаток, длина %d", len([]rune(parts[1])))
	}
}

func TestSplitMessageShortReply(t *testing.T) {
	text := "v18:45:10  -  ^05:30:00"
	parts := SplitMessage(text)
	if len(parts) != 1 {
		t.Fatalf("ожидали одну часть, получили %d", len(parts))
	}
	if parts[0] != text {
		t.Fatalf("текст не должен меняться: %q", parts[0])
	}
}

func TestSplitMessageEmpty(t *testing.T) {
	parts := SplitMessage("   \n  ")
	if len(parts) != 0 {
		t.Fatalf("для пустого текста частей быть не должно, получили %d", len(parts))
	}
}
