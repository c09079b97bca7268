package gltfutils

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// NewDocument returns an empty document with one double sided material at
// index 0, which every mesh added by AddMesh uses.
func NewDocument() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})
	return doc
}

// AddMesh writes one triangle mesh and a scene node that references it.
func AddMesh(doc *gltf.Document, name string, positions []mgl32.Vec3, indices []uint32) uint32 {
	raw := make([][3]float32, len(positions))
	for i, p := range positions {
		raw[i] = p
	}

	indicesAccessor := modeler.WriteIndices(doc, indices)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{
			{
				Indices: gltf.Index(indicesAccessor),
				Attributes: map[string]uint32{
					"POSITION": modeler.WritePosition(doc, raw),
				},
				Material: gltf.Index(0),
			},
		},
	})

	nodeIndex := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIndex)
	return nodeIndex
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
