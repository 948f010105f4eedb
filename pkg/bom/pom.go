package bom

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

type pomProject struct {
	GroupID              string            `xml:"groupId"`
	ArtifactID           string            `xml:"artifactId"`
	Version              string            `xml:"version"`
	Packaging            string            `xml:"packaging"`
	Parent               *pomParent        `xml:"parent"`
	Properties           pomProperties     `xml:"properties"`
	DependencyManagement pomDependencyMgmt `xml:"dependencyManagement"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// pomProperties captures arbitrary <properties> children.
type pomProperties struct {
	Entries []pomProperty `xml:",any"`
}

type pomProperty struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type pomDependencyMgmt struct {
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomDependency struct {
	GroupID    string         `xml:"groupId"`
	ArtifactID string         `xml:"artifactId"`
	Version    string         `xml:"version"`
	Type       string         `xml:"type"`
	Scope      string         `xml:"scope"`
	Exclusions []pomExclusion `xml:"exclusions>exclusion"`
}

type pomExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

func (d pomDependency) coordinate() coords.Coordinate {
	return coords.New(d.GroupID, d.ArtifactID, d.Version)
}

// isImport reports whether d imports another BOM rather than managing a version.
func (d pomDependency) isImport() bool {
	return strings.TrimSpace(d.Scope) == "import" && strings.TrimSpace(d.Type) == "pom"
}

func (d pomDependency) exclusions() []coords.Exclusion {
	if len(d.Exclusions) == 0 {
		return nil
	}
	out := make([]coords.Exclusion, 0, len(d.Exclusions))
	for _, e := range d.Exclusions {
		if dmerrors.HasText(e.GroupID) {
			out = append(out, coords.NewExclusion(e.GroupID, e.ArtifactID))
		}
	}
	return out
}

func parsePOM(data []byte, source string) (*pomProject, error) {
	var pom pomProject
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	if err := dec.Decode(&pom); err != nil {
		return nil, dmerrors.Wrap(dmerrors.ErrCodeInvalidPOM, err, "cannot parse POM %s", source)
	}
	return &pom, nil
}

// coordinate returns the POM's own coordinate, inheriting group and version
// from the parent when omitted.
func (p *pomProject) coordinate() coords.Coordinate {
	c := coords.New(p.GroupID, p.ArtifactID, p.Version)
	if p.Parent != nil {
		if c.Group == "" {
			c.Group = strings.TrimSpace(p.Parent.GroupID)
		}
		if c.Version == "" {
			c.Version = strings.TrimSpace(p.Parent.Version)
		}
	}
	return c
}

func (p *pomProject) properties() map[string]string {
	props := make(map[string]string, len(p.Properties.Entries))
	for _, e := range p.Properties.Entries {
		props[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}
	return props
}
