package catalog

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/zeal/internal/domain"
)

const (
	frontPrefix   = "Q:"
	backPrefix    = "A:"
	contextPrefix = "C:"
	separator     = "---"
)

type field int

const (
	none field = iota
	front
	back
	context
)

// ParseFile reads the markdown file at path and extracts its items.
func ParseFile(path string) ([]domain.Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse extracts items written as "Q:" / "A:" / "C:" blocks. A field runs
// until the next prefix, a "---" line, or the end of input. Items without a
// front are dropped. IDs are not assigned.
func Parse(r io.Reader) ([]domain.Item, error) {
	scanner := bufio.NewScanner(r)
	var (
		items   []domain.Item
		current domain.Item
		block   []string
		reading = none
	)

	flushField := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch reading {
		case front:
			current.Front = content
		case back:
			current.Back = content
		case context:
			current.Context = content
		}
		block = nil
	}

	finishItem := func() {
		flushField()
		if current.Front != "" {
			items = append(items, current)
		}
		current = domain.Item{}
		reading = none
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == separator {
			finishItem()
			continue
		}

		next, rest, ok := splitPrefix(line)
		if !ok {
			if reading != none {
				block = append(block, line)
			}
			continue
		}

		if next == front && reading != none {
			finishItem()
		} else {
			flushField()
		}
		reading = next
		block = append(block, rest)
	}

	finishItem()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// splitPrefix reports which field line opens and returns the text after the
// prefix, minus one optional space.
func splitPrefix(line string) (field, string, bool) {
	for _, p := range []struct {
		prefix string
		f      field
	}{
		{frontPrefix, front},
		{backPrefix, back},
		{contextPrefix, context},
	} {
		if rest, ok := strings.CutPrefix(line, p.prefix); ok {
			return p.f, strings.TrimPrefix(rest, " "), true
		}
	}
	return none, "", false
}
