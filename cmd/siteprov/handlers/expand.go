package handlers

import (
	"fmt"
	"io"

	"github.com/siteprov/siteprov/internal/ifrange"
)

// Expand writes the interface names denoted by each expression, one per line.
// Names are normalized to their canonical form unless normalize is false.
func Expand(w io.Writer, exprs []string, normalize bool) error {
	expand := ifrange.Expand
	if normalize {
		expand = ifrange.ExpandNormalized
	}

	for _, expr := range exprs {
		names, err := expand(expr)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
	}
	return nil
}
