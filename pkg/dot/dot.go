// Package dot writes the minimal DOT subset the state graph needs: a
// digraph of numeric node ids connected by directed edges.
package dot

import (
	"fmt"
	"io"
)

// WriteDigraph writes `digraph name { "from"->"to"; ... }` for each edge
// to w. Node identities are passed pre-unpacked as (from, to) pairs.
func WriteDigraph(w io.Writer, name string, edges [][2]uint32) error {
	if _, err := fmt.Fprintf(w, "digraph %s {", name); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "\"%d\"->\"%d\";", e[0], e[1]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "}")
	return err
}
