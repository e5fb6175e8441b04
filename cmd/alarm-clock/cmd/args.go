package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errTimeFormat = errors.New("expected HH:MM or HOUR MINUTE")

// parseTimeArgs accepts either a single "H:M" argument or separate hour and minute.
// Range checks are left to the server so both forms share one validation path.
func parseTimeArgs(args []string) (hour, minute int, err error) {
	var hourPart, minutePart string

	switch len(args) {
	case 1:
		var ok bool

		hourPart, minutePart, ok = strings.Cut(args[0], ":")
		if !ok {
			return 0, 0, fmt.Errorf("parse %q: %w", args[0], errTimeFormat)
		}
	case 2:
		hourPart, minutePart = args[0], args[1]
	default:
		return 0, 0, errTimeFormat
	}

	hour, err = strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, 0, fmt.Errorf("parse hour %q: %w", hourPart, err)
	}

	minute, err = strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		return 0, 0, fmt.Errorf("parse minute %q: %w", minutePart, err)
	}

	return hour, minute, nil
}
