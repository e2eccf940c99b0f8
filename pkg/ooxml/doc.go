// Package ooxml opens, edits and saves word-processing (.docx) packages.
//
// A Package keeps every part of the container in memory. XML parts are
// exposed as etree documents so callers can clone and splice arbitrary
// markup without losing elements the typed model would not know about:
//
//	pkg, err := ooxml.Open("report.docx")
//	if err != nil {
//	    return err
//	}
//	defer pkg.Close()
//
//	body, err := pkg.Body()
//	...
//	return pkg.Save("report.docx")
//
// Relationship listings and the content-type listing are decoded into the
// typed Relationships and ContentTypes values and re-encoded on Save.
package ooxml
