// Package diff computes word-level changes between two renders of a prompt.
package diff

import (
	"fmt"
	"unicode"

	"github.com/aryann/difflib"

	"veoprompt/pkg/prompt"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "equal"
	}
}

func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Op) UnmarshalText(b []byte) error {
	switch string(b) {
	case "equal":
		*o = Equal
	case "insert":
		*o = Insert
	case "delete":
		*o = Delete
	default:
		return fmt.Errorf("unknown diff op %q", b)
	}
	return nil
}

type WordDelta struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

type StringDiff struct {
	Old     string      `json:"-"`
	New     string      `json:"-"`
	Changed bool        `json:"changed"`
	Deltas  []WordDelta `json:"deltas"`
}

// Tokenize splits s into runs of whitespace, word characters and punctuation
// so that joining the tokens reproduces s exactly.
func Tokenize(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if k != kind {
			flush()
			kind = k
		}
		// punctuation is emitted one rune at a time
		if k == 2 {
			cur = append(cur, r)
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Words diffs a and b token by token; adjacent deltas with the same op are merged.
func Words(a, b string) []WordDelta {
	recs := difflib.Diff(Tokenize(a), Tokenize(b))
	out := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		var op Op
		switch r.Delta {
		case difflib.Common:
			op = Equal
		case difflib.LeftOnly:
			op = Delete
		case difflib.RightOnly:
			op = Insert
		}
		if n := len(out); n > 0 && out[n-1].Op == op {
			out[n-1].Text += r.Payload
			continue
		}
		out = append(out, WordDelta{Op: op, Text: r.Payload})
	}
	return out
}

func Strings(a, b string) StringDiff {
	return StringDiff{
		Old:     a,
		New:     b,
		Changed: a != b,
		Deltas:  Words(a, b),
	}
}

// Prompts diffs one language between two renders.
func Prompts(old, cur prompt.Output, lang prompt.Language) StringDiff {
	return Strings(old.For(lang), cur.For(lang))
}

// Apply rebuilds the old and new strings from deltas.
func Apply(deltas []WordDelta) (old, cur string) {
	for _, d := range deltas {
		switch d.Op {
		case Equal:
			old += d.Text
			cur += d.Text
		case Delete:
			old += d.Text
		case Insert:
			cur += d.Text
		}
	}
	return old, cur
}
