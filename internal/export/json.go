package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/biomorph/internal/mesh"
)

// WriteMeshJSON writes the raw mesh buffers as JSON, for renderers that
// consume buffers directly instead of parsing OBJ.
func WriteMeshJSON(w io.Writer, m *mesh.Mesh) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func WriteMeshJSONFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteMeshJSON(f, m)
}
