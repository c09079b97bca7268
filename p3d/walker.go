package p3d

import (
	"golang.org/x/text/encoding"

	"github.com/shar-tools/p3d_browser/utils"
)

const DEFAULT_MAX_DEPTH = 512

type Options struct {
	// MaxDepth bounds container nesting. Zero or less selects
	// DEFAULT_MAX_DEPTH, except with ExplicitStack where it means no limit.
	MaxDepth int
	// ExplicitStack walks the tree with a heap allocated stack instead of
	// recursion. Use it for files of unknown origin.
	ExplicitStack bool
	// Trace, if set, is called for every chunk before its payload is decoded.
	Trace func(TraceEvent)
	// Encoding of string fields. Nil means UTF-8.
	Encoding encoding.Encoding
}

type TraceEvent struct {
	Depth     int
	Offset    int
	Header    Header
	Container bool
}

// Node is one decoded chunk. Children are kept in file order.
type Node struct {
	Offset   int
	Header   Header
	Variant  Variant
	Children []*Node
}

type Tree struct {
	Root *Node `json:"root" yaml:"root"`
	// Trailing counts bytes after the root chunk. They are not decoded.
	Trailing int `json:"trailing" yaml:"trailing"`
}

// Decode decodes the single root chunk at the start of buf with default options.
func Decode(buf []byte) (*Node, error) {
	tree, err := DecodeTree(buf, nil)
	if err != nil {
		return nil, err
	}
	return tree.Root, nil
}

// DecodeTree decodes buf and reports trailing data. On error no tree is
// returned and the error is a *DecodeError.
func DecodeTree(buf []byte, opts *Options) (*Tree, error) {
	tree, _, err := decodeTree(buf, opts)
	return tree, err
}

// Layout decodes buf and renders the byte ranges claimed by every chunk,
// with unclaimed gaps marked. When decoding fails, the ranges carved up to
// the failure are rendered and the error is returned with them.
func Layout(buf []byte, opts *Options) (string, error) {
	_, bs, err := decodeTree(buf, opts)
	return bs.StringTree(), err
}

func decodeTree(buf []byte, opts *Options) (*Tree, *utils.BufStack, error) {
	if opts == nil {
		opts = &Options{}
	}
	w := &walker{
		dec:      decoder{enc: opts.Encoding},
		maxDepth: opts.MaxDepth,
		trace:    opts.Trace,
	}
	if w.dec.enc == nil {
		w.dec.enc = utils.DefaultEncoding
	}
	if !opts.ExplicitStack && w.maxDepth <= 0 {
		w.maxDepth = DEFAULT_MAX_DEPTH
	}

	bs := utils.NewBufStack("file", buf)
	var root *Node
	var err error
	if opts.ExplicitStack {
		root, err = w.walkStack(bs)
	} else {
		root, err = w.walk(bs, 0, false)
	}
	if err != nil {
		return nil, bs, err
	}
	return &Tree{Root: root, Trailing: bs.Remaining()}, bs, nil
}

type walker struct {
	dec      decoder
	maxDepth int
	trace    func(TraceEvent)
}

// openChunk reads the chunk at the cursor of region, decodes its payload and
// moves the cursor past the whole chunk. For containers it also returns the
// child region, which the caller walks.
func (w *walker) openChunk(region *utils.BufStack, depth int, nested bool) (*Node, *utils.BufStack, error) {
	offset := region.AbsolutePos()
	if nested && region.Remaining() < HEADER_SIZE {
		return nil, nil, newUntaggedError(ErrSizeInconsistency, offset,
			"0x%x stray bytes at the end of a child region", region.Remaining())
	}

	h, err := ReadHeader(region)
	if err != nil {
		return nil, nil, err
	}
	if err := h.validate(offset); err != nil {
		return nil, nil, err
	}

	regionLen := int64(h.ChunkSize) - HEADER_SIZE
	if regionLen > int64(region.Remaining()) {
		kind := ErrTruncatedInput
		if nested {
			kind = ErrSizeInconsistency
		}
		return nil, nil, newDecodeError(kind, offset, h.Tag,
			"chunk needs 0x%x bytes after its header, have 0x%x", regionLen, region.Remaining())
	}
	if w.maxDepth > 0 && depth > w.maxDepth {
		return nil, nil, newDecodeError(ErrNestingTooDeep, offset, h.Tag,
			"depth %d exceeds %d", depth, w.maxDepth)
	}

	container := IsContainer(h.Tag)
	if w.trace != nil {
		w.trace(TraceEvent{Depth: depth, Offset: offset, Header: h, Container: container})
	}

	body, err := region.Take(TagName(h.Tag), int(regionLen))
	if err != nil {
		return nil, nil, asDecodeError(err, h.Tag)
	}

	var payload, children *utils.BufStack
	if container {
		// containers split own payload from children by data size
		if payload, err = body.Take("payload", int(h.DataSize)-HEADER_SIZE); err != nil {
			return nil, nil, asDecodeError(err, h.Tag)
		}
		children = body.TakeRest("children")
	} else {
		// leaves get the whole chunk region, data size is not consulted
		payload = body.TakeRest("payload")
	}

	v, err := w.dec.decodePayload(h.Tag, payload)
	if err != nil {
		return nil, nil, err
	}
	if l, ok := v.(*Locator); ok {
		body.SetName(l.Name)
	}
	return &Node{Offset: offset, Header: h, Variant: v}, children, nil
}

func (w *walker) walk(region *utils.BufStack, depth int, nested bool) (*Node, error) {
	node, children, err := w.openChunk(region, depth, nested)
	if err != nil {
		return nil, err
	}
	if children == nil {
		return node, nil
	}
	for children.Remaining() > 0 {
		child, err := w.walk(children, depth+1, true)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

type walkFrame struct {
	node     *Node
	children *utils.BufStack
	depth    int
}

// walkStack visits chunks in the same order as walk, so both produce the
// same tree and fail on the same chunk.
func (w *walker) walkStack(region *utils.BufStack) (*Node, error) {
	root, children, err := w.openChunk(region, 0, false)
	if err != nil {
		return nil, err
	}
	if children == nil {
		return root, nil
	}

	stack := []walkFrame{{node: root, children: children, depth: 0}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.children.Remaining() == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		child, childChildren, err := w.openChunk(top.children, top.depth+1, true)
		if err != nil {
			return nil, err
		}
		top.node.Children = append(top.node.Children, child)
		if childChildren != nil {
			stack = append(stack, walkFrame{node: child, children: childChildren, depth: top.depth + 1})
		}
	}
	return root, nil
}
