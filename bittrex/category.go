package bittrex

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Category selects the endpoint family of a call.
type Category int

const (
	CategoryPublic Category = iota + 1
	CategoryMarket
	CategoryAccount
)

// basePaths is the closed set of valid categories.
var basePaths = map[Category]string{
	CategoryPublic:  "/api/v1.1/public/",
	CategoryMarket:  "/api/v1.1/market/",
	CategoryAccount: "/api/v1.1/account/",
}

var categoryNames = map[Category]string{
	CategoryPublic:  "public",
	CategoryMarket:  "market",
	CategoryAccount: "account",
}

// BasePath returns the URL path prefix for the category.
func (c Category) BasePath() (string, error) {
	p, ok := basePaths[c]
	if !ok {
		return "", errors.Wrapf(ErrUnknownCategory, "category %d", int(c))
	}
	return p, nil
}

// Authenticated reports whether calls in the category must be signed.
func (c Category) Authenticated() bool {
	return c == CategoryMarket || c == CategoryAccount
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory maps "public", "market" or "account" to its Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownCategory, "%q", s)
}
