//go:build !graphviz

package butterfly

const graphvizEnabled = false
