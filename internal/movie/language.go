package movie

import "strings"

type Language int

const (
	English Language = iota
	Dutch
	French
)

// Languages lists the supported languages in menu order.
var Languages = []Language{English, Dutch, French}

// ParseLanguage maps a menu choice to a language. It is total: anything other
// than "1", "2" or "3" resolves to English.
func ParseLanguage(choice string) Language {
	switch strings.TrimSpace(choice) {
	case "2":
		return Dutch
	case "3":
		return French
	default:
		return English
	}
}

func (l Language) String() string {
	switch l {
	case Dutch:
		return "Dutch"
	case French:
		return "French"
	default:
		return "English"
	}
}

// Choice is the menu number that selects l.
func (l Language) Choice() string {
	switch l {
	case Dutch:
		return "2"
	case French:
		return "3"
	default:
		return "1"
	}
}

// PromptName is the form used inside prompts, e.g. "dutch".
func (l Language) PromptName() string {
	return strings.ToLower(l.String())
}
