// Package opcode reads, writes and applies opcode lists: ordered image
// corrections stored alongside a raw image and run at fixed points of the
// processing pipeline.
//
// A list is serialized big-endian as a count followed by one record per
// opcode: id, minimum reader version, flags, payload byte count and the
// payload. Opcodes this package does not know are kept as Unknown and
// written back unchanged, so Parse followed by Bytes reproduces the input
// byte for byte.
//
// Before each opcode runs, List.Apply skips it when it is marked
// SkipIfPreview and a preview is being rendered, or when it needs a newer
// reader and is Optional. A required opcode from a newer version, or one
// whose parameters do not fit the negative, fails with
// rawtile.ErrBadFormat. Opcodes that would not change the image are
// skipped.
package opcode
