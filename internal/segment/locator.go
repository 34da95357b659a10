package segment

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the family of a Locator. Kinds order before indexes.
type Kind int

const (
	Page Kind = iota
	Paragraph
	Text
)

// Locator identifies where a segment came from. Page and paragraph indexes are 1-based.
type Locator struct {
	Kind  Kind
	Index int
}

func PageLocator(n int) Locator { return Locator{Kind: Page, Index: n} }
func ParaLocator(n int) Locator { return Locator{Kind: Paragraph, Index: n} }
func TextLocator() Locator      { return Locator{Kind: Text} }

// Less orders locators by kind, then index.
func (l Locator) Less(o Locator) bool {
	if l.Kind != o.Kind {
		return l.Kind < o.Kind
	}
	return l.Index < o.Index
}

func (l Locator) String() string {
	switch l.Kind {
	case Page:
		return "p" + strconv.Itoa(l.Index)
	case Paragraph:
		return "para" + strconv.Itoa(l.Index)
	default:
		return "text"
	}
}

// ParseLocator is the inverse of Locator.String.
func ParseLocator(s string) (Locator, error) {
	switch {
	case s == "text":
		return TextLocator(), nil
	case strings.HasPrefix(s, "para"):
		n, err := strconv.Atoi(s[len("para"):])
		if err != nil || n < 1 {
			return Locator{}, fmt.Errorf("invalid paragraph locator %q", s)
		}
		return ParaLocator(n), nil
	case strings.HasPrefix(s, "p"):
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 1 {
			return Locator{}, fmt.Errorf("invalid page locator %q", s)
		}
		return PageLocator(n), nil
	}
	return Locator{}, fmt.Errorf("invalid locator %q", s)
}

func (l Locator) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Locator) UnmarshalText(b []byte) error {
	parsed, err := ParseLocator(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
