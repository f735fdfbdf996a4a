// Package gltfio loads and saves assets.
//
// An input is a .gltf JSON document or a binary .glb container, either of
// which may be zstd-compressed. [Load] returns the parsed document together
// with every binary source it names: the GLB BIN chunk under the embedded
// key, and each external buffer or image uri read from the asset's
// directory. Output is always GLB, zstd-compressed when the path ends in
// ".zst".
package gltfio
