package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Tail returns at most n lines from the end of the file at path. A missing
// file has no lines.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 || path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	ring := make([]string, n)
	next, count := 0, 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		ring[next] = sc.Text()
		next = (next + 1) % n
		count = min(count+1, n)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < n {
		return append([]string(nil), ring[:count]...), nil
	}
	return append(ring[next:], ring[:next]...), nil
}
