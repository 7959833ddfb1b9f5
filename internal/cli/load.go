package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openhwp/hwpview/document"
	"github.com/openhwp/hwpview/hwp5"
	"github.com/openhwp/hwpview/hwpx"
	"github.com/openhwp/hwpview/view"
)

// loadDocument opens a document by file extension.
func loadDocument(path string) (*document.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hwpx":
		return hwpx.Open(path)
	case ".hwp":
		return hwp5.Open(path)
	}
	return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
}

// loadView opens a document and builds its view-model.
func loadView(path string) (*view.DocumentView, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	return view.NewBuilder(doc, nil).Build(), nil
}
