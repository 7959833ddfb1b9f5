package hwpx

import (
	"encoding/xml"
	"path"
	"sort"
	"strings"
)

// manifest is the OPF package manifest parsed from content.hpf.
type manifest struct {
	XMLName xml.Name       `xml:"package"`
	Items   []manifestItem `xml:"manifest>item"`
	Spine   []spineItem    `xml:"spine>itemref"`
}

// manifestItem is a single manifest entry.
type manifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// spineItem is a spine reference giving reading order.
type spineItem struct {
	IDRef string `xml:"idref,attr"`
}

// parseManifest parses OPF-format manifest XML.
func parseManifest(data []byte) (*manifest, error) {
	var m manifest
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// headerPath returns the header part path, or "" when absent.
func (m *manifest) headerPath() string {
	for _, item := range m.Items {
		if item.ID == "header" || strings.HasSuffix(item.Href, "header.xml") {
			return item.Href
		}
	}
	return ""
}

// sectionPaths returns the body section paths in spine order, falling
// back to manifest order when the spine is empty.
func (m *manifest) sectionPaths() []string {
	byID := make(map[string]string)
	for _, item := range m.Items {
		byID[item.ID] = item.Href
	}

	var paths []string
	for _, ref := range m.Spine {
		if href, ok := byID[ref.IDRef]; ok {
			paths = append(paths, href)
		}
	}
	if len(paths) > 0 {
		return paths
	}

	for _, item := range m.Items {
		if strings.Contains(strings.ToLower(item.ID), "section") {
			paths = append(paths, item.Href)
		}
	}
	sort.Strings(paths)
	return paths
}

// binDataPaths maps binary item IDs to their container paths.
func (m *manifest) binDataPaths() map[string]string {
	out := make(map[string]string)
	for _, item := range m.Items {
		if strings.HasPrefix(item.Href, "BinData/") {
			out[item.ID] = item.Href
			// Also index by the file stem so pictures that reference
			// the bare name still resolve.
			base := path.Base(item.Href)
			stem := strings.TrimSuffix(base, path.Ext(base))
			if _, ok := out[stem]; !ok {
				out[stem] = item.Href
			}
		}
	}
	return out
}
