package p3d

import (
	"github.com/shar-tools/p3d_browser/utils"
)

// DecodePayload decodes payload as the variant selected by tag. Every tag
// resolves: unrecognized tags yield an Unknown container.
func DecodePayload(tag uint32, payload []byte) (Variant, error) {
	d := &decoder{enc: utils.DefaultEncoding}
	return d.decodePayload(tag, utils.NewBufStack("payload", payload))
}

func (d *decoder) decodePayload(tag uint32, bs *utils.BufStack) (Variant, error) {
	var v Variant
	var err error

	switch tag {
	case TAG_ROOT:
		v = &Root{}
	case TAG_FENCE:
		v, err = decodeFence(bs)
	case TAG_OBBOX:
		v, err = decodeOBBox(bs)
	case TAG_SPHERE:
		v, err = decodeSphere(bs)
	case TAG_CYLINDER:
		v, err = decodeCylinder(bs)
	case TAG_COLLISIONVEC:
		v, err = decodeCollisionVec(bs)
	case TAG_INTERSECT:
		v, err = decodeIntersect(bs)
	case TAG_LOCATOR:
		v, err = d.decodeLocator(bs)
	default:
		v = &Unknown{ChunkTag: tag}
	}

	if err != nil {
		return nil, asDecodeError(err, tag)
	}
	return v, nil
}
