package records

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/alicedeps/pkg/errors"
)

// artifactPermissions matches what a user-created JSON file would get.
const artifactPermissions = 0o644

// Artifact is the on-disk JSON document `{"data": [...]}`.
type Artifact struct {
	Data Set `json:"data"`
}

// Encode renders the artifact with four-space indentation and without
// escaping non-ASCII or HTML characters.
func (a Artifact) Encode() ([]byte, error) {
	data := a.Data
	if data == nil {
		data = Set{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(Artifact{Data: data}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteArtifact atomically writes set as an artifact at path.
func WriteArtifact(path string, set Set) error {
	data, err := Artifact{Data: set}.Encode()
	if err != nil {
		return errors.WrapParse("json", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(tmpName, artifactPermissions); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// ReadArtifact loads the record set stored at path.
func ReadArtifact(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return a.Data, nil
}
