// Package annotations scans generated source blocks for typeRef and link
// comments, strips them and replaces them with numbered footnote markers.
//
// Extraction assigns provisional indices from a counter shared by the whole
// traversal. Sequence then renumbers type references so same-file references
// come first, and rewrites the markers with their final indices.
package annotations
