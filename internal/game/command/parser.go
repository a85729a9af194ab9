package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits a text line into a lowercased command word and its arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty and Args nil.
func Parse(line string) ParseResult {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Command: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}

// ParseSlot converts a one-based slot argument ("1".."max") to a zero-based index.
//
// Postcondition: 0 <= result < max, or a non-nil error.
func ParseSlot(arg string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("slot must be a number from 1 to %d", max)
	}
	return n - 1, nil
}
