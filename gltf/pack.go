package gltf

import "iter"

// Alignment is the byte boundary every packed buffer view starts on. It is
// the largest accessor component size, so any accessor offset that was valid
// within its view stays aligned after packing.
const Alignment = 4

// ViewBytes pairs a buffer view with the bytes it should hold once packed.
type ViewBytes struct {
	View BufferView
	Data []byte
}

// Padding returns the number of zero bytes needed after n bytes to reach
// the next multiple of [Alignment].
func Padding(n int) int {
	return (Alignment - n%Alignment) % Alignment
}

// PackBufferViews concatenates the views of seq, in order, into a new buffer.
//
// Each view is copied with buffer set to 0 and byteOffset set to its start
// in the new buffer; byteLength is set to len(Data), which for a view sliced
// from its own buffer is unchanged. Stride, target, name, extensions and
// extras pass through. Zero bytes pad each view's end to [Alignment], so the
// result length is always a multiple of it.
//
// The first error from seq is returned with no partial output.
func PackBufferViews(seq iter.Seq2[ViewBytes, error]) (List[BufferView], []byte, error) {
	var (
		views List[BufferView]
		out   []byte
	)
	for vb, err := range seq {
		if err != nil {
			return nil, nil, err
		}
		v := vb.View
		v.Buffer = IndexOf[Buffer](0)
		v.ByteOffset = len(out)
		v.ByteLength = len(vb.Data)
		views = append(views, v)

		out = append(out, vb.Data...)
		out = append(out, make([]byte, Padding(len(out)))...)
	}
	return views, out, nil
}

// PackInto packs seq with [PackBufferViews] and replaces the buffers of doc
// with a single buffer describing the result (no uri, byteLength set to the
// packed length) and its bufferViews with the rewritten views. When seq
// yields no views both members are removed.
//
// doc is only modified when packing succeeds.
func PackInto(doc Document, seq iter.Seq2[ViewBytes, error]) ([]byte, error) {
	views, bin, err := PackBufferViews(seq)
	if err != nil {
		return nil, err
	}

	var buffers List[Buffer]
	if len(views) > 0 {
		buffers = List[Buffer]{{ByteLength: len(bin)}}
	}
	if err := SetList(doc, ListBuffers, buffers); err != nil {
		return nil, err
	}
	if err := SetList(doc, ListBufferViews, views); err != nil {
		return nil, err
	}
	return bin, nil
}

// Pack resolves every buffer of doc against blobs, slices every buffer view,
// and packs the views into one buffer with [PackInto].
//
// The returned bytes are the new embedded payload. Images that live behind
// an external or data uri are not touched.
func Pack(doc Document, blobs Blobs) ([]byte, error) {
	r, err := NewResolver(doc, blobs)
	if err != nil {
		return nil, err
	}
	return PackInto(doc, r.ViewBytes())
}
