package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// maxAttempts bounds the numeric suffix search in Unique.
const maxAttempts = 1000

// unsafeReplacer maps every character that is unsafe in a filename to "-".
var unsafeReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	"?", "-",
	"%", "-",
	"*", "-",
	":", "-",
	"|", "-",
	"\"", "-",
	"<", "-",
	">", "-",
)

// Sanitize replaces filesystem-unsafe characters in user supplied text with "-".
// Control characters such as newlines are replaced as well.
func Sanitize(text string) string {
	text = unsafeReplacer.Replace(text)

	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '-'
		}
		return r
	}, text)
}

// Date formats t as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// DocumentBase returns "{topic}-by-{author}-{date}" with both free text parts sanitized.
func DocumentBase(topic, author string, date time.Time) string {
	return fmt.Sprintf("%s-by-%s-%s", Sanitize(topic), Sanitize(author), Date(date))
}

// ImageBase returns "{prompt}-{date}" with the prompt sanitized and shortened.
func ImageBase(prompt string, date time.Time) string {
	prompt = strings.TrimSpace(prompt)
	if runes := []rune(prompt); len(runes) > 60 {
		prompt = strings.TrimSpace(string(runes[:60]))
	}
	return fmt.Sprintf("%s-%s", Sanitize(prompt), Date(date))
}

// UniqueBase picks the first of base, base-2, base-3, ... for which no file
// with any of exts exists in dir, so sibling artifacts share one suffix.
func UniqueBase(dir, base string, exts ...string) (string, error) {
	for i := 1; i <= maxAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		taken, err := anyExists(dir, candidate, exts)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free name for %s in %s", base, dir)
}

func anyExists(dir, base string, exts []string) (bool, error) {
	for _, ext := range exts {
		path := filepath.Join(dir, base+ext)
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		return true, nil
	}
	return false, nil
}
