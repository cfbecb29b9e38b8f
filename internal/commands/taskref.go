package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TaskRef represents a parsed task reference: either a 1-based display
// number from `list`, or a server id written as #<id>.
type TaskRef struct {
	Num int
	ID  int64
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference from args.
//
// Accepted forms:
//  1. all digits: display number (e.g. 3)
//  2. '#' followed by digits: server id (e.g. #42)
//
// Anything else, including extra arguments, is an invalid reference.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", strings.Join(args, " "))
	}

	arg := args[0]
	if rest, ok := strings.CutPrefix(arg, "#"); ok {
		if !isAllDigits(rest) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id}, nil
	}

	if !isAllDigits(arg) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	num, err := strconv.Atoi(arg)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	if num < 1 {
		return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
	}
	return TaskRef{Num: num}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
