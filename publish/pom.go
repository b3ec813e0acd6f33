package publish

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/mkfs"
	"git.fractalqb.de/fractalqb/relmk/release"
)

// Properties that fill a generated POM. All of them are optional.
const (
	PropName         = "name"
	PropDescription  = "description"
	PropOrganization = "organization"
	PropOrgURL       = "organizationUrl"
	PropProjectURL   = "projectUrl"
	PropLicenseName  = "licenseName"
	PropLicenseURL   = "licenseUrl"
	PropScmURL       = "scmUrl"
)

// POM is the project object model published with the artifacts when the
// release has none of its own.
type POM struct {
	XMLName      xml.Name      `xml:"project"`
	Xmlns        string        `xml:"xmlns,attr"`
	ModelVersion string        `xml:"modelVersion"`
	GroupID      string        `xml:"groupId"`
	ArtifactID   string        `xml:"artifactId"`
	Version      string        `xml:"version"`
	Name         string        `xml:"name,omitempty"`
	Description  string        `xml:"description,omitempty"`
	URL          string        `xml:"url,omitempty"`
	Organization *Organization `xml:"organization,omitempty"`
	Licenses     []License     `xml:"licenses>license"`
	Scm          *Scm          `xml:"scm,omitempty"`
}

type Organization struct {
	Name string `xml:"name"`
	URL  string `xml:"url,omitempty"`
}

type License struct {
	Name string `xml:"name"`
	URL  string `xml:"url,omitempty"`
}

type Scm struct {
	URL string `xml:"url"`
}

// POMName is the file name of the POM of c.
func (c Coordinates) POMName() string {
	return c.Artifact + "-" + c.Version + ".pom"
}

// NewPOM describes c with the POM properties from p. The organization URL
// defaults to the project URL.
func NewPOM(c Coordinates, p release.Properties) *POM {
	get := func(key string) string {
		v, _ := p.Get(key)
		return v
	}
	pom := &POM{
		Xmlns:        "http://maven.apache.org/POM/4.0.0",
		ModelVersion: "4.0.0",
		GroupID:      c.Group,
		ArtifactID:   c.Artifact,
		Version:      c.Version,
		Name:         get(PropName),
		Description:  get(PropDescription),
		URL:          get(PropProjectURL),
	}
	if org := get(PropOrganization); org != "" {
		pom.Organization = &Organization{Name: org, URL: get(PropOrgURL)}
		if pom.Organization.URL == "" {
			pom.Organization.URL = pom.URL
		}
	}
	if lic := get(PropLicenseName); lic != "" {
		pom.Licenses = []License{{Name: lic, URL: get(PropLicenseURL)}}
	}
	if scm := get(PropScmURL); scm != "" {
		pom.Scm = &Scm{URL: scm}
	}
	return pom
}

func (pom *POM) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(pom); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// POMOp writes the POM to every file result of its action. Files that
// already have the content are not touched, so they stay up to date.
type POMOp struct {
	POM *POM
}

var _ mkcore.Operation = POMOp{}

func (op POMOp) Describe(*mkcore.Action, *mkcore.Env) string {
	return fmt.Sprintf("write POM %s:%s:%s", op.POM.GroupID, op.POM.ArtifactID, op.POM.Version)
}

func (op POMOp) Do(_ *mkcore.Trace, a *mkcore.Action, env *mkcore.Env) error {
	data, err := op.POM.Marshal()
	if err != nil {
		return err
	}
	prj := a.Project()
	for _, res := range a.Results() {
		f, ok := res.Artefact.(mkfs.File)
		if !ok {
			continue
		}
		path, err := prj.AbsPath(f.Path())
		if err != nil {
			return err
		}
		if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
			continue
		}
		env.Logger().Info("write POM `file`", `file`, f.Name(prj))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write POM: %w", err)
		}
	}
	return nil
}
