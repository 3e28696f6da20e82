package version

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Compare orders two "major.minor.patch" strings, with or without a leading v.
// The result is -1, 0 or 1.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	return slices.Compare(av, bv), nil
}

func parse(s string) ([]int, error) {
	v := make([]int, 3)
	if _, err := fmt.Sscanf(strings.TrimPrefix(strings.TrimSpace(s), "v"), "%d.%d.%d", &v[0], &v[1], &v[2]); err != nil {
		return nil, fmt.Errorf("parse version %q: %w", s, err)
	}
	return v, nil
}
