package domain

// BlockType identifies the kind of content a block renders.
// The engine treats all of them the same; rendering is owned by the
// content layer.
type BlockType string

const (
	BlockTypeHero         BlockType = "hero"
	BlockTypeFeatures     BlockType = "features"
	BlockTypeTestimonials BlockType = "testimonials"
	BlockTypeCTA          BlockType = "cta"
	BlockTypeForm         BlockType = "form"
	BlockTypeFAQ          BlockType = "faq"
	BlockTypePricing      BlockType = "pricing"
	BlockTypeText         BlockType = "text"
	BlockTypeImage        BlockType = "image"
	BlockTypeVideo        BlockType = "video"
	BlockTypeStats        BlockType = "stats"
	BlockTypeDivider      BlockType = "divider"
	BlockTypeChat         BlockType = "chat"
	BlockTypeGallery      BlockType = "gallery"
	BlockTypeSlider       BlockType = "slider"
	BlockTypeLogoCloud    BlockType = "logo-cloud"

	// BlockTypePlaceholder marks a slot that has no content kind assigned
	// yet. New slots start as placeholders until the user picks a type.
	BlockTypePlaceholder BlockType = "placeholder"
)

// ValidBlockTypes is the set of content kinds a block may take.
// The placeholder sentinel is deliberately not included: it is a grid
// concept, not a content kind.
var ValidBlockTypes = map[BlockType]bool{
	BlockTypeHero:         true,
	BlockTypeFeatures:     true,
	BlockTypeTestimonials: true,
	BlockTypeCTA:          true,
	BlockTypeForm:         true,
	BlockTypeFAQ:          true,
	BlockTypePricing:      true,
	BlockTypeText:         true,
	BlockTypeImage:        true,
	BlockTypeVideo:        true,
	BlockTypeStats:        true,
	BlockTypeDivider:      true,
	BlockTypeChat:         true,
	BlockTypeGallery:      true,
	BlockTypeSlider:       true,
	BlockTypeLogoCloud:    true,
}

// ColSpan is a block's width in 12-column grid units.
// Only four spans are legal: a third (4), a half (6), two thirds (8),
// and full width (12).
type ColSpan int

const (
	SpanThird     ColSpan = 4
	SpanHalf      ColSpan = 6
	SpanTwoThirds ColSpan = 8
	SpanFull      ColSpan = 12
)

// GridColumns is the fixed width of a row in grid units.
const GridColumns = 12

// Valid reports whether s is one of the four legal spans.
func (s ColSpan) Valid() bool {
	switch s {
	case SpanThird, SpanHalf, SpanTwoThirds, SpanFull:
		return true
	}
	return false
}

// Block is the atomic, positioned, typed unit of page content.
// Config is opaque to the grid engine; its shape depends on Type and is
// owned by the content layer.
type Block struct {
	ID       string         `json:"id"`
	Type     BlockType      `json:"type"`
	Config   map[string]any `json:"config"`
	Order    int            `json:"order"`
	Row      int            `json:"row"`
	ColSpan  ColSpan        `json:"colSpan"`
	ColStart int            `json:"colStart"`
}

// IsPlaceholder reports whether the block has no content kind yet.
func (b Block) IsPlaceholder() bool {
	return b.Type == BlockTypePlaceholder || b.Type == ""
}

// CloneConfig returns a shallow copy of the block's config map, so a
// duplicate can diverge from its source without sharing top-level keys.
func (b Block) CloneConfig() map[string]any {
	if b.Config == nil {
		return map[string]any{}
	}
	cfg := make(map[string]any, len(b.Config))
	for k, v := range b.Config {
		cfg[k] = v
	}
	return cfg
}

// Row is a horizontal band of the grid, derived from the flat block
// list. It is never persisted; Commit flattens rows back to blocks.
type Row struct {
	RowIndex  int     `json:"rowIndex"`
	Slots     []Block `json:"slots"`
	TotalSpan int     `json:"totalSpan"`
}

// BlockStore persists the flat, ordered block list of a page.
type BlockStore interface {
	ListBlocks(pageID string) ([]Block, error)
	ReplacePageBlocks(pageID string, blocks []Block) error
}
