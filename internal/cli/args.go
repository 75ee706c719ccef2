package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agbru/numkit/internal/binding"
	apperrors "github.com/agbru/numkit/internal/errors"
)

// ParseCallArgs turns command-line words into binding arguments.
//
// A word starting with "[" is decoded as a JSON array, and a word containing
// commas is split into a list. Every other word stays a string; the binding
// layer converts digit strings to the integer type it needs. When the
// function takes a single list, plain words form that list, so
// "sort_numbers 5 2 8" works like "sort_numbers [5,2,8]" and
// "sort_numbers 42" like "sort_numbers [42]".
func ParseCallArgs(sig binding.Signature, words []string) ([]any, error) {
	args := make([]any, 0, len(words))
	hasList := false
	for i, w := range words {
		w = strings.TrimSpace(w)
		switch {
		case strings.HasPrefix(w, "["):
			list, err := decodeList(w)
			if err != nil {
				return nil, apperrors.ValidationError{Field: fmt.Sprintf("argument %d", i+1), Message: err.Error()}
			}
			args = append(args, list)
			hasList = true
		case strings.Contains(w, ","):
			var list []any
			for _, part := range strings.Split(w, ",") {
				if part = strings.TrimSpace(part); part != "" {
					list = append(list, part)
				}
			}
			args = append(args, list)
			hasList = true
		default:
			args = append(args, w)
		}
	}
	if sig.ListArg && !hasList {
		return []any{args}, nil
	}
	return args, nil
}

func decodeList(s string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var list []any
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("invalid list %q: %v", s, err)
	}
	if list == nil {
		list = []any{}
	}
	return list, nil
}
