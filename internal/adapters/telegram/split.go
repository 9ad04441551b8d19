package telegram

import "strings"

// Telegram отклоняет сообщения длиннее 4096 знаков.
const messageLimit = 4096

// SplitMessage режет текст на части в пределах лимита Telegram.
// Разрез предпочитает границу строки, чтобы таблицы пролётов и
// вспышек не рвались посреди строки.
func SplitMessage(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= messageLimit {
		return []string{trimmed}
	}

	var parts []string
	for start := 0; start < len(runes); {
		end := start + messageLimit
		if end >= len(runes) {
			if part := trimPart(runes[start:]); part != "" {
				parts = append(parts, part)
			}
			break
		}

		cut := end
		for i := end; i > start; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}

		if part := trimPart(runes[start:cut]); part != "" {
			parts = append(parts, part)
		}

		start = cut
		for start < len(runes) && runes[start] == '\n' {
			start++
		}
	}

	if len(parts) == 0 {
		return []string{trimmed}
	}
	return parts
}

func trimPart(runes []rune) string {
	return strings.Trim(string(runes), "\n")
}
