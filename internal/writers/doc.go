// Package writers turns run results into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (coloured text, JSON/JSONL).
//   • Drivers stay presentation-free; apps pick a format by name.
//   • JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
