// Package wordlist loads the words generated prompts are drawn from.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed data/en.txt
var builtinEN string

// Filter reports whether a word should be kept.
type Filter func(string) bool

// LangFilter returns the word filter for a language. English keeps plain
// lowercase ASCII words only; other languages keep everything.
func LangFilter(lang string) Filter {
	if strings.EqualFold(lang, "en") {
		return plainLowerASCII
	}
	return nil
}

func plainLowerASCII(word string) bool {
	return word != "" && strings.IndexFunc(word, func(r rune) bool { return r < 'a' || r > 'z' }) == -1
}

// LoadWords reads one word per line from the provided file path, keeping
// only words accepted by keep. A nil keep accepts everything.
func LoadWords(path string, keep Filter) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	words, err := ReadWords(file, keep)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// ReadWords reads one word per line from r.
func ReadWords(r io.Reader, keep Filter) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if keep != nil && !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Builtin returns the bundled word list for lang. Only English ships.
func Builtin(lang string) ([]string, error) {
	switch strings.ToLower(lang) {
	case "", "en":
		return ReadWords(strings.NewReader(builtinEN), LangFilter("en"))
	default:
		return nil, fmt.Errorf("no built-in word list for language %q", lang)
	}
}
