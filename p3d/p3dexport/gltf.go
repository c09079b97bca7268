package p3dexport

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/shar-tools/p3d_browser/p3d"
	"github.com/shar-tools/p3d_browser/utils/gltfutils"
)

// ExportGLTF builds a document with one mesh node per variant that has geometry.
func ExportGLTF(variants []p3d.Variant, opts ShapeOptions) *gltf.Document {
	doc := gltfutils.NewDocument()
	for _, s := range Shapes(variants, opts) {
		gltfutils.AddMesh(doc, s.Name, s.Positions, s.Indices)
	}
	return doc
}

// WriteGLB encodes ExportGLTF output as binary glTF.
func WriteGLB(w io.Writer, variants []p3d.Variant, opts ShapeOptions) error {
	if err := gltfutils.ExportBinary(w, ExportGLTF(variants, opts)); err != nil {
		return errors.Wrapf(err, "writing glb")
	}
	return nil
}
