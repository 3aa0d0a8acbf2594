package tenant

import (
	"net/http"
	"regexp"
	"strings"
)

// DefaultHeader carries the store id resolved by the upstream auth layer.
const DefaultHeader = "X-Store-ID"

const maxIdentifierLength = 128

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Resolver extracts the store identifier from HTTP requests.
// An empty identifier without error means the request names no store.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) (string, error)

func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// HeaderResolver reads the store id from a request header.
type HeaderResolver struct {
	Header string
}

// NewHeaderResolver returns a resolver for header, or DefaultHeader when empty.
func NewHeaderResolver(header string) *HeaderResolver {
	if header == "" {
		header = DefaultHeader
	}
	return &HeaderResolver{Header: header}
}

func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(h.Header))
	if id == "" {
		return "", nil
	}
	if err := ValidateIdentifier(id); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateIdentifier accepts ids made of letters, digits, '-' and '_'.
func ValidateIdentifier(id string) error {
	if len(id) == 0 || len(id) > maxIdentifierLength || !identifierPattern.MatchString(id) {
		return ErrInvalidIdentifier
	}
	return nil
}
