// Package export writes synthesized meshes to interchange formats for
// external renderers.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/biomorph/internal/mesh"
)

// WriteOBJ writes the mesh as Wavefront OBJ: v/vt lines followed by f
// lines with 1-based vertex/texture indices.
func WriteOBJ(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		if _, err := fmt.Fprintf(bw, "o %s\n", name); err != nil {
			return err
		}
	}
	for _, v := range m.Vertices {
		if _, err := fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	for _, uv := range m.UVs {
		if _, err := fmt.Fprintf(bw, "vt %.6f %.6f\n", uv[0], uv[1]); err != nil {
			return err
		}
	}
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		a, b, c := m.Triangles[i]+1, m.Triangles[i+1]+1, m.Triangles[i+2]+1
		if _, err := fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteOBJFile writes the mesh to a file at path.
func WriteOBJFile(path string, m *mesh.Mesh, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteOBJ(f, m, name)
}
