// Package reencode plans and runs the re-encoding of texture images.
//
// [NewPlan] walks the textures of a document and turns every distinct
// image a texture refers to into one [Job]. A texture may carry a plain
// image in its source member and a KTX2 alternative under the
// KHR_texture_basisu extension; both are planned, and textures that share
// an image share its job. The rewritten textures point at job indices,
// which become the image indices of the output document.
//
// A [Runner] executes jobs in parallel with an [Encoder] per target kind,
// optionally backed by a content-addressed cache.
package reencode
