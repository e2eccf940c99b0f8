// Package merge splices the body of one word-processing package into
// another at an anchor paragraph.
//
// Numbering definitions, styles and images travel with the spliced
// content. Each resource class is merged by its own function, which returns
// an identifier map; Rewrite then applies the maps to the cloned markup so
// every reference resolves inside the target.
package merge
