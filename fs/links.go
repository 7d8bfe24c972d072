package fs

import (
	"bufio"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"strings"

	"github.com/fwojciec/stockwatch"
)

// ReadLinks reads tracked links from a plain text file with one URL per line.
// Surrounding whitespace is trimmed; blank lines and lines starting with '#'
// are skipped. A missing file returns an ENOTFOUND error.
func ReadLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, stockwatch.Errorf(stockwatch.ENOTFOUND, "links file %s not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("opening links file: %w", err)
	}
	defer f.Close()

	var links []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading links file: %w", err)
	}

	return links, nil
}
