package ooxml

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Relationship represents a relationship in the package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// External reports whether the relationship points outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// Relationships represents the collection of relationships of one part
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

func parseRelationships(content []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return &rels, nil
}

func (r *Relationships) marshal() ([]byte, error) {
	r.XMLName = xml.Name{Local: "Relationships"}
	if r.Namespace == "" {
		r.Namespace = NamespacePackageRelationships
	}
	content, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships: %w", err)
	}
	return append([]byte(xmlHeader), content...), nil
}

// Find returns the first relationship with the given type.
func (r *Relationships) Find(relType string) (Relationship, bool) {
	for _, rel := range r.Relationship {
		if rel.Type == relType {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ByID returns the relationship with the given identifier.
func (r *Relationships) ByID(id string) (Relationship, bool) {
	for _, rel := range r.Relationship {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Add appends an internal relationship and returns its fresh identifier.
func (r *Relationships) Add(relType, target string) string {
	id := r.nextID()
	r.Relationship = append(r.Relationship, Relationship{
		ID:     id,
		Type:   relType,
		Target: target,
	})
	return id
}

// nextID returns rId<max+1> over the identifiers that follow the rIdN pattern.
func (r *Relationships) nextID() string {
	maxID := 0
	for _, rel := range r.Relationship {
		if !strings.HasPrefix(rel.ID, "rId") {
			continue
		}
		if n, err := strconv.Atoi(rel.ID[3:]); err == nil && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("rId%d", maxID+1)
}

// relationshipsPartName maps "word/document.xml" to "word/_rels/document.xml.rels".
func relationshipsPartName(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget turns a relationship target into a part name relative to the package root.
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(sourcePart), target)
}

// relativeTarget is the inverse of resolveTarget.
func relativeTarget(sourcePart, partName string) string {
	dir := path.Dir(sourcePart)
	if dir == "." {
		return partName
	}
	if strings.HasPrefix(partName, dir+"/") {
		return strings.TrimPrefix(partName, dir+"/")
	}
	return "/" + partName
}
