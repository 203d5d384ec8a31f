//go:build graphviz

package butterfly

// graphvizEnabled mirrors the Rust crate's `#[cfg(feature = "graphviz")]`
// gate on the butterfly_state_graph stat: only builds tagged with
// `-tags graphviz` pay the cost of serializing the full DOT text on every
// interesting run.
const graphvizEnabled = true
