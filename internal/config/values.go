package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Values is the raw key/value mapping read from a config file.
type Values map[string]string

// Load reads the config file at path.  Lines which do not contain a key and value are reported to diagnostics and
// skipped.
func Load(path string, diagnostics io.Writer) (Values, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer file.Close()

	values, err := Parse(file, diagnostics)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	return values, nil
}

// Parse reads key:value lines from r.  All whitespace is removed from each line before splitting on the first colon.
// Later keys replace earlier ones.
func Parse(r io.Reader, diagnostics io.Writer) (Values, error) {
	out := make(Values)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		stripped := stripWhitespace(line)
		if stripped == "" {
			continue
		}

		key, value, found := strings.Cut(stripped, ":")
		if !found {
			if diagnostics != nil {
				fmt.Fprintf(diagnostics, "Ignoring line: %s\n", line)
			}
			continue
		}
		out[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func stripWhitespace(line string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
}
