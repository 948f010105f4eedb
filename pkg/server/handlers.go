package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Alen-lv/dependency-management-plugin/pkg/coords"
	dmerrors "github.com/Alen-lv/dependency-management-plugin/pkg/errors"
	"github.com/Alen-lv/dependency-management-plugin/pkg/management"
	"github.com/Alen-lv/dependency-management-plugin/pkg/report"
	"github.com/Alen-lv/dependency-management-plugin/pkg/resolution"
)

type managedJSON struct {
	Group            string   `json:"group"`
	Name             string   `json:"name"`
	Version          string   `json:"version"`
	Scope            string   `json:"scope"`
	Origin           string   `json:"origin"`
	Bom              string   `json:"bom,omitempty"`
	Exclusions       []string `json:"exclusions"`
	DirectExclusions []string `json:"directExclusions"`
	BomExclusions    []string `json:"bomExclusions"`
	Overridable      bool     `json:"overridable"`
}

type entryJSON struct {
	Version    string   `json:"version"`
	Origin     string   `json:"origin"`
	Bom        string   `json:"bom,omitempty"`
	Exclusions []string `json:"exclusions"`
	Sequence   uint64   `json:"sequence"`
	Active     bool     `json:"active"`
}

type bomJSON struct {
	Coordinate string            `json:"coordinate"`
	Parent     string            `json:"parent,omitempty"`
	Properties map[string]string `json:"properties"`
	Overrides  map[string]string `json:"overrides,omitempty"`
}

type resolveJSON struct {
	Version    string       `json:"version"`
	Source     string       `json:"source"`
	Replaced   string       `json:"replaced,omitempty"`
	Direction  string       `json:"direction"`
	Exclusions []string     `json:"exclusions"`
	Managed    *managedJSON `json:"managed,omitempty"`
}

func toManagedJSON(m management.Managed) managedJSON {
	out := managedJSON{
		Group:            m.Coordinate.Group,
		Name:             m.Coordinate.Name,
		Version:          m.Coordinate.Version,
		Scope:            m.Scope.String(),
		Origin:           m.Origin.String(),
		Exclusions:       m.Exclusions.Strings(),
		DirectExclusions: m.DirectExclusions.Strings(),
		BomExclusions:    m.BomExclusions.Strings(),
		Overridable:      m.Overridable,
	}
	if m.Origin == management.OriginBom {
		out.Bom = m.Bom.String()
	}
	return out
}

type ctxKey int

const scopeKey ctxKey = 0

// scopeContext resolves the {scope} path segment once per request and
// rejects unknown scopes.
func (s *Server) scopeContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, err := s.lookupScope(chi.URLParam(r, "scope"))
		if err != nil {
			writeCodedError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), scopeKey, sc)))
	})
}

// lookupScope maps a path segment to a scope; "global" is Global.
func (s *Server) lookupScope(name string) (management.Scope, error) {
	if name == "global" {
		return management.Global, nil
	}
	if s.project != nil {
		c, err := s.project.Configuration(name)
		if err != nil {
			return "", err
		}
		return management.Scope(c), nil
	}
	if slices.Contains(s.container.Scopes(), management.Scope(name)) {
		return management.Scope(name), nil
	}
	return "", dmerrors.New(dmerrors.ErrCodeUnknownScope, "Scope '%s' not found", name)
}

func scopeParam(r *http.Request) management.Scope {
	sc, _ := r.Context().Value(scopeKey).(management.Scope)
	return sc
}

func ownParam(r *http.Request) bool {
	own, _ := strconv.ParseBool(r.URL.Query().Get("own"))
	return own
}

func (s *Server) listScopes(w http.ResponseWriter, _ *http.Request) {
	scopes := s.container.Scopes()
	names := make([]string, len(scopes))
	for i, sc := range scopes {
		names[i] = sc.String()
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) versions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.container.ManagedVersionsForScope(scopeParam(r), !ownParam(r)))
}

func (s *Server) managed(w http.ResponseWriter, r *http.Request) {
	list := s.container.ManagedForScope(scopeParam(r), !ownParam(r))
	out := make([]managedJSON, len(list))
	for i, m := range list {
		out[i] = toManagedJSON(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) properties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.container.ImportedPropertiesForScope(scopeParam(r)))
}

func (s *Server) boms(w http.ResponseWriter, r *http.Request) {
	list := s.container.ImportedBoms(scopeParam(r))
	out := make([]bomJSON, len(list))
	for i, b := range list {
		out[i] = bomJSON{Coordinate: b.Coordinate.String(), Properties: b.Properties, Overrides: b.Overrides}
		if b.Parent != nil {
			out[i].Parent = b.Parent.String()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	group, name := chi.URLParam(r, "group"), chi.URLParam(r, "name")
	m, ok := s.container.Lookup(scopeParam(r), group, name)
	if !ok {
		writeError(w, http.StatusNotFound, coords.Key{Group: group, Name: name}.String()+" is not managed")
		return
	}
	writeJSON(w, http.StatusOK, toManagedJSON(m))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	entries := s.container.History(scopeParam(r), chi.URLParam(r, "group"), chi.URLParam(r, "name"))
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{
			Version:    e.Version,
			Origin:     e.Origin.String(),
			Exclusions: e.Exclusions.Strings(),
			Sequence:   e.Sequence,
		}
		if e.Origin == management.OriginBom {
			out[i].Bom = e.Bom.String()
		}
	}
	if m, ok := s.container.Lookup(scopeParam(r), chi.URLParam(r, "group"), chi.URLParam(r, "name")); ok {
		for i := range out {
			out[i].Active = out[i].Sequence == m.Sequence
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	direct, _ := strconv.ParseBool(q.Get("direct"))
	res, err := s.resolver.Resolve(scopeParam(r), resolution.Request{
		Group:   chi.URLParam(r, "group"),
		Name:    chi.URLParam(r, "name"),
		Version: q.Get("version"),
		Direct:  direct,
	})
	if err != nil {
		writeCodedError(w, err)
		return
	}
	out := resolveJSON{
		Version:    res.Version(),
		Source:     res.Source.String(),
		Replaced:   res.Replaced,
		Direction:  res.Direction.String(),
		Exclusions: res.Exclusions.Strings(),
	}
	if res.Managed != nil {
		m := toManagedJSON(*res.Managed)
		out.Managed = &m
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(report.ToDOT(report.ImportGraph(s.container), report.Options{Detailed: detailed})))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeCodedError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch dmerrors.GetCode(err) {
	case dmerrors.ErrCodeValidation, dmerrors.ErrCodeMalformedCoordinate:
		status = http.StatusBadRequest
	case dmerrors.ErrCodeNotFound, dmerrors.ErrCodeUnknownScope:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{
		"error": dmerrors.UserMessage(err),
		"code":  string(dmerrors.GetCode(err)),
	})
}
