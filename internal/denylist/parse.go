package denylist

import (
	"bufio"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

const maxLineBytes = 1 << 20

type ParseOptions struct {
	// ExpandIDN also installs the punycode form of entries containing
	// non-ASCII characters, so both spellings of an IDN host match.
	ExpandIDN bool
}

// ParseList reads a newline-delimited denylist. Each line is trimmed; blank
// lines are skipped. The result is de-duplicated and sorted.
func ParseList(r io.Reader, opts ParseOptions) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	seen := make(map[string]struct{})
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}
		seen[entry] = struct{}{}

		if opts.ExpandIDN {
			if ascii, ok := punycodeHost(entry); ok {
				seen[ascii] = struct{}{}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for entry := range seen {
		out = append(out, entry)
	}
	sort.Strings(out)
	return out, nil
}

// punycodeHost returns entry with its host part converted to punycode. The
// host is the text after an optional "scheme://" up to the first '/', '?',
// '#' or ':'; the rest of the entry is kept byte for byte.
func punycodeHost(entry string) (string, bool) {
	prefix, rest := "", entry
	if i := strings.Index(entry, "://"); i >= 0 {
		prefix, rest = entry[:i+3], entry[i+3:]
	}
	end := strings.IndexAny(rest, "/?#:")
	if end < 0 {
		end = len(rest)
	}
	host, tail := rest[:end], rest[end:]
	if host == "" || isASCII(host) {
		return "", false
	}
	ascii, err := idna.ToASCII(strings.ToLower(host))
	if err != nil || ascii == "" {
		return "", false
	}
	return prefix + ascii + tail, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
