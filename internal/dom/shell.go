package dom

import _ "embed"

// Shell is the document every rendered page starts from.
//
//go:embed shell.html
var Shell string

// New returns a Page over a fresh copy of Shell.
func New() *Page {
	return MustParse(Shell)
}
