package helpers

import (
	"errors"
	"strings"

	apperrors "sjsage522/listingworker/pkg/errors"
)

// GetSplitPart returns the index-th part of target split by separate
func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index < 0 || index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// ListingID returns the numeric id that terminates a listing detail URL,
// e.g. "https://www.immobiliare.it/annunci/98765432/" -> "98765432".
func ListingID(link string) (string, error) {
	base := strings.TrimSuffix(strings.Split(link, "?")[0], "/")
	parts := strings.Split(base, "/")
	id, err := GetSplitPart(base, "/", len(parts)-1)
	if err != nil {
		return "", err
	}
	if id == "" || strings.TrimLeft(id, "0123456789") != "" {
		return "", apperrors.NewValidation("listing", "no numeric listing id in "+link)
	}
	return id, nil
}
