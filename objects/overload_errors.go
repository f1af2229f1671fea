package objects

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type OverloadFailureKind uint8

const (
	NoKeywordSupport OverloadFailureKind = iota + 1
	ArityOutOfRange
	ArgumentTypeMismatch
)

// OverloadFailure details why no signature of a group applied.
type OverloadFailure struct {
	Kind OverloadFailureKind
	Name string
	// Arities lists the accepted argument counts for ArityOutOfRange.
	Arities []int
	Got     int
	// Position is the failing argument index for ArgumentTypeMismatch, -1 for the receiver.
	Position int
	Accepted []string
}

func (g *OverloadGroup) failure(self Value, args []Value, keywords []string, errArg int) *Error {
	if len(keywords) > 0 {
		return &Error{
			Kind: NoApplicableOverload,
			Msg:  fmt.Sprintf("%s(): takes no keyword arguments", g.name),
			Overload: &OverloadFailure{
				Kind: NoKeywordSupport,
				Name: g.name,
				Got:  len(args),
			},
		}
	}

	if errArg == badArgCount {
		var arities []int
		for _, sig := range g.Signatures() {
			if sig.convention != Standard {
				continue
			}
			n := len(sig.params)
			if !sig.static && self == nil {
				n++
			}
			arities = append(arities, n)
		}
		slices.Sort(arities)
		arities = slices.Compact(arities)
		return &Error{
			Kind: NoApplicableOverload,
			Msg:  fmt.Sprintf("%s(): expected %s args; got %d", g.name, formatArities(arities), len(args)),
			Overload: &OverloadFailure{
				Kind:    ArityOutOfRange,
				Name:    g.name,
				Arities: arities,
				Got:     len(args),
			},
		}
	}

	var accepted []string
	for _, sig := range g.Signatures() {
		if sig.convention != Standard {
			continue
		}
		n := len(sig.params)
		if !sig.static && self == nil {
			n++
		}
		if n != len(args) && !sig.variadic {
			continue
		}
		if errArg == unconvertibleSelf {
			accepted = append(accepted, typeName(sig.declaring))
		} else if errArg < len(sig.params) {
			accepted = append(accepted, typeName(sig.params[errArg]))
		}
	}
	accepted = lo.Uniq(accepted)
	return &Error{
		Kind: NoApplicableOverload,
		Msg: fmt.Sprintf("%s(): %s arg can't be coerced to %s",
			g.name, ordinal(errArg), strings.Join(accepted, ", ")),
		Overload: &OverloadFailure{
			Kind:     ArgumentTypeMismatch,
			Name:     g.name,
			Got:      len(args),
			Position: errArg,
			Accepted: accepted,
		},
	}
}

// formatArities renders sorted counts with consecutive runs collapsed, as in "1, 3-4 or 6".
func formatArities(arities []int) string {
	var parts []string
	for i := 0; i < len(arities); {
		j := i
		for j+1 < len(arities) && arities[j+1] == arities[j]+1 {
			j++
		}
		if j == i {
			parts = append(parts, strconv.Itoa(arities[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", arities[i], arities[j]))
		}
		i = j + 1
	}
	switch len(parts) {
	case 0:
		return "0"
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

func ordinal(i int) string {
	switch i {
	case unconvertibleSelf:
		return "self"
	case 0:
		return "1st"
	case 1:
		return "2nd"
	case 2:
		return "3rd"
	}
	return strconv.Itoa(i+1) + "th"
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t == anyType {
		return "any"
	}
	return t.String()
}
