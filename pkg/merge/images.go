package merge

import (
	"fmt"

	"github.com/n7space/taste-document-generator/pkg/ooxml"
)

// MergeImages copies every internal image part of source into target as a
// new part of the same kind. It returns the source-to-target relationship
// identifier map. Identical images are not deduplicated.
func MergeImages(target, source *ooxml.Package) (map[string]string, error) {
	images, err := source.ImageParts()
	if err != nil {
		return nil, fmt.Errorf("read source images: %w", err)
	}
	relIDs := make(map[string]string, len(images))
	for _, img := range images {
		id, err := target.AddImagePart(img.Kind(), img.Data)
		if err != nil {
			return nil, fmt.Errorf("copy image %s: %w", img.PartName, err)
		}
		relIDs[img.RelationshipID] = id
	}
	return relIDs, nil
}
