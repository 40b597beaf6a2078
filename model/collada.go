package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	glm "github.com/go-gl/mathgl/mgl32"
)

// ImportCollada converts the contents of a collada (.dae) file into a
// Mesh.
func ImportCollada(fileContents []byte) (*Mesh, error) {
	var doc colladaDoc
	if err := xml.Unmarshal(fileContents, &doc); err != nil {
		return nil, err
	}
	if len(doc.Geometries) == 0 {
		return nil, errors.New("model: collada file holds no geometry")
	}

	geometry := doc.Geometries[0]
	source, err := findSource(geometry.Mesh.Sources, "positions")
	if err != nil {
		return nil, err
	}

	// Triangle indices interleave position and normal references.
	stride := 6
	var vertices []Vertex
	index := geometry.Mesh.Triangles.Index
	for idx := 0; idx < len(index)/stride; idx++ {
		refs := index[stride*idx : (stride*idx)+stride]
		for _, ref := range refs[:3] {
			if ref < 0 || ref >= len(source.Floats.Data) {
				return nil, fmt.Errorf("model: triangle references float %d of a %d float source", ref, len(source.Floats.Data))
			}
		}
		var vert Vertex
		vert.Pos = glm.Vec3{
			source.Floats.Data[refs[0]],
			source.Floats.Data[refs[1]],
			source.Floats.Data[refs[2]],
		}
		vert.Color = glm.Vec4{1.0, 1.0, 0.0, 1.0}
		vertices = append(vertices, vert)
	}

	return &Mesh{
		Name:     geometry.Name,
		vertices: vertices,
	}, nil
}

func findSource(sources []colladaSource, dataType string) (colladaSource, error) {
	for _, s := range sources {
		if strings.HasSuffix(s.ID, fmt.Sprintf("-%s", dataType)) {
			return s, nil
		}
	}
	return colladaSource{}, errors.New("model: collada source type not found")
}

// Collada schema, trimmed to the parts the importer consumes.

type colladaDoc struct {
	Geometries []colladaGeometry `xml:"library_geometries>geometry"`
}

type colladaGeometry struct {
	Mesh colladaMesh `xml:"mesh"`
	ID   string      `xml:"id,attr"`
	Name string      `xml:"name,attr"`
}

type colladaMesh struct {
	Sources   []colladaSource  `xml:"source"`
	Triangles colladaTriangles `xml:"triangles"`
}

type colladaSource struct {
	ID     string        `xml:"id,attr"`
	Floats colladaFloats `xml:"float_array"`
}

type colladaFloats struct {
	ID   string
	Data []float32
}

// UnmarshalXML unmarshals the space separated float array.
func (f *colladaFloats) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			f.ID = attr.Value
		}
	}
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	for _, r := range strings.Fields(raw) {
		num, err := strconv.ParseFloat(r, 32)
		if err != nil {
			return err
		}
		f.Data = append(f.Data, float32(num))
	}
	return nil
}

type colladaTriangles struct {
	Count    int
	Material string
	Inputs   []colladaInput
	Index    []int
}

// UnmarshalXML parses the triangle inputs and the index list.
func (t *colladaTriangles) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "count":
			num, err := strconv.Atoi(attr.Value)
			if err != nil {
				return err
			}
			t.Count = num
		case "material":
			t.Material = attr.Value
		}
	}

	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "input":
				var input colladaInput
				if err := d.DecodeElement(&input, &el); err != nil {
					return err
				}
				t.Inputs = append(t.Inputs, input)
			case "p":
				var raw string
				if err := d.DecodeElement(&raw, &el); err != nil {
					return err
				}
				var ints []int
				for _, r := range strings.Fields(raw) {
					num, err := strconv.Atoi(r)
					if err != nil {
						return err
					}
					ints = append(ints, num)
				}
				t.Index = ints
			}
		case xml.EndElement:
			if el == start.End() {
				return nil
			}
		}
	}
}

type colladaInput struct {
	Semantic string `xml:"semantic,attr"`
	Source   string `xml:"source,attr"`
	Offset   uint   `xml:"offset,attr"`
}
