package bom

import (
	"context"
	"maps"

	"github.com/charmbracelet/log"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
)

// maxParentDepth bounds <parent> chains.
const maxParentDepth = 32

// MavenResolver builds BOMs from POM XML.
//
// Parent POMs are merged root first: a child's properties and managed
// dependencies replace the parent's for the same name or group:artifact.
// Imports accumulate in declaration order, parents first. The resolver adds
// project.groupId, project.artifactId and project.version (and the older
// pom.* aliases) to the property table.
type MavenResolver struct {
	source Source
	logger *log.Logger
}

// NewMavenResolver returns a resolver reading POMs from source.
// A nil logger falls back to log.Default().
func NewMavenResolver(source Source, logger *log.Logger) *MavenResolver {
	if logger == nil {
		logger = log.Default()
	}
	return &MavenResolver{source: source, logger: logger}
}

func (r *MavenResolver) ResolveBom(ctx context.Context, coordinate coords.Coordinate) (*Bom, error) {
	chain, err := r.loadChain(ctx, coordinate)
	if err != nil {
		return nil, err
	}

	out := &Bom{Coordinate: coordinate, Properties: map[string]string{}}
	managed := map[string]int{}

	// chain[0] is the requested POM; merge from the root parent down.
	for i := len(chain) - 1; i >= 0; i-- {
		pom := chain[i]
		maps.Copy(out.Properties, pom.properties())
		for _, dep := range pom.DependencyManagement.Dependencies {
			if dep.isImport() {
				out.Imports = append(out.Imports, dep.coordinate())
				continue
			}
			md := ManagedDependency{Coordinate: dep.coordinate(), Exclusions: dep.exclusions()}
			key := md.Coordinate.Key().String()
			if idx, ok := managed[key]; ok {
				out.ManagedDependencies[idx] = md
				continue
			}
			managed[key] = len(out.ManagedDependencies)
			out.ManagedDependencies = append(out.ManagedDependencies, md)
		}
	}

	self := chain[0].coordinate()
	for _, prefix := range []string{"project.", "pom."} {
		out.Properties[prefix+"groupId"] = self.Group
		out.Properties[prefix+"artifactId"] = self.Name
		out.Properties[prefix+"version"] = self.Version
	}
	if p := chain[0].Parent; p != nil {
		out.Properties["project.parent.groupId"] = p.GroupID
		out.Properties["project.parent.artifactId"] = p.ArtifactID
		out.Properties["project.parent.version"] = p.Version
	}

	r.logger.Debug("resolved BOM", "bom", coordinate, "managed", len(out.ManagedDependencies),
		"imports", len(out.Imports), "parents", len(chain)-1)
	return out, nil
}

// loadChain returns the POM for coordinate followed by its ancestors.
func (r *MavenResolver) loadChain(ctx context.Context, coordinate coords.Coordinate) ([]*pomProject, error) {
	var chain []*pomProject
	seen := map[coords.Coordinate]bool{}
	current := coordinate

	for {
		if seen[current] {
			return nil, dmerrors.New(dmerrors.ErrCodeInvalidPOM, "parent cycle at %s", current)
		}
		if len(chain) >= maxParentDepth {
			return nil, dmerrors.New(dmerrors.ErrCodeInvalidPOM, "parent chain of %s exceeds %d levels", coordinate, maxParentDepth)
		}
		seen[current] = true

		data, err := r.source.FetchPOM(ctx, current)
		if err != nil {
			return nil, err
		}
		pom, err := parsePOM(data, current.String())
		if err != nil {
			return nil, err
		}
		chain = append(chain, pom)

		if pom.Parent == nil {
			return chain, nil
		}
		parent := coords.New(pom.Parent.GroupID, pom.Parent.ArtifactID, pom.Parent.Version)
		if !parent.IsComplete() || HasPlaceholder(parent.String()) {
			return nil, dmerrors.New(dmerrors.ErrCodeInvalidPOM, "POM %s declares an incomplete parent %s", current, parent)
		}
		r.logger.Debug("following parent", "pom", current, "parent", parent)
		current = parent
	}
}
