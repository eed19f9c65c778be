package pom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/agentstation/alicedeps/pkg/errors"
)

const (
	// Namespace is the Maven POM namespace the properties block must be in.
	Namespace = "http://maven.apache.org/POM/4.0.0"

	// FileName is the only descriptor file name visited.
	FileName = "pom.xml"

	// VersionSuffix classifies a property as a version property.
	VersionSuffix = ".version"

	// Declaration is written as the first line of every rewritten file.
	Declaration = `<?xml version="1.0" encoding="UTF-8"?>`
)

// Descriptor is one parsed pom.xml. The element tree is owned by the
// descriptor and mutated in place; untouched nodes are written back as
// they were read.
type Descriptor struct {
	path string
	doc  *etree.Document
}

// Load parses the descriptor at path, keeping all whitespace.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(path, data)
}

// Parse parses descriptor content read from path.
func Parse(path string, data []byte) (*Descriptor, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	setWriteSettings(doc)
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.WrapParse("xml", path, err)
	}
	if doc.Root() == nil {
		return nil, errors.NewParseError("xml", path, "no root element", nil)
	}
	return &Descriptor{path: path, doc: doc}, nil
}

// Path returns the file the descriptor was read from.
func (d *Descriptor) Path() string {
	return d.path
}

// Properties returns the <properties> child of the root element in the
// POM namespace, or nil when there is none.
func (d *Descriptor) Properties() *etree.Element {
	for _, child := range d.doc.Root().ChildElements() {
		if child.Tag == "properties" && child.NamespaceURI() == Namespace {
			return child
		}
	}
	return nil
}

// VersionProperties returns the direct children of <properties> whose
// local name ends with ".version", in document order.
func (d *Descriptor) VersionProperties() []*etree.Element {
	props := d.Properties()
	if props == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range props.ChildElements() {
		if strings.HasSuffix(child.Tag, VersionSuffix) {
			out = append(out, child)
		}
	}
	return out
}

// Bytes serializes the descriptor: the XML declaration line, then the
// document with its own declaration removed.
func (d *Descriptor) Bytes() ([]byte, error) {
	body := d.doc.Copy()
	setWriteSettings(body)
	for len(body.Child) > 0 {
		if pi, ok := body.Child[0].(*etree.ProcInst); ok && pi.Target == "xml" {
			body.RemoveChildAt(0)
			continue
		}
		if cd, ok := body.Child[0].(*etree.CharData); ok && cd.IsWhitespace() {
			body.RemoveChildAt(0)
			continue
		}
		break
	}

	var buf bytes.Buffer
	buf.WriteString(Declaration)
	buf.WriteByte('\n')
	if _, err := body.WriteTo(&buf); err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// setWriteSettings escapes character data and attribute values with the
// minimal canonical rules, so quotes and apostrophes in text stay literal.
func setWriteSettings(doc *etree.Document) {
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
}

// Save atomically writes the descriptor back to its path, keeping the
// file mode.
func (d *Descriptor) Save() error {
	data, err := d.Bytes()
	if err != nil {
		return errors.WrapParse("xml", d.path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+FileName+".*")
	if err != nil {
		return errors.WrapIO("create", d.path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("write", d.path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapIO("write", d.path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return errors.WrapIO("chmod", d.path, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		cleanup()
		return errors.WrapIO("rename", d.path, err)
	}
	return nil
}
