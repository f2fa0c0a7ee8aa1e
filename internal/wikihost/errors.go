package wikihost

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTitle = errors.New("invalid title")
	ErrMissingPage  = errors.New("page does not exist")
)

func errInvalidTitle(title string) error {
	return fmt.Errorf("%w: %q", ErrInvalidTitle, title)
}

func errMissingPage(title string) error {
	return fmt.Errorf("%w: %s", ErrMissingPage, title)
}
