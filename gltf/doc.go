// Package gltf resolves and repacks the binary payloads of a glTF 2.0 document.
//
// The document itself is kept as a map of top-level members to raw JSON so
// that everything this package does not interpret round-trips unchanged.
// Only the lists it works on (buffers, bufferViews, images, textures) are
// decoded into typed records, and only when asked for.
//
// Binary content is never read from disk or network here. Callers supply a
// [Blobs] map holding the embedded payload (the GLB BIN chunk) and any
// side-loaded external files, keyed by the verbatim uri that references them.
//
// The typical flow:
//
//  1. [NewResolver]: decode buffers and bufferViews, resolve every buffer to bytes
//  2. [Resolver.ViewBytes]: slice every buffer view from its buffer
//  3. [PackBufferViews]: concatenate the slices into one 4-byte aligned buffer
//  4. [PackInto]: replace the document's buffers and bufferViews with the result
//
// [Pack] runs all four steps.
package gltf
