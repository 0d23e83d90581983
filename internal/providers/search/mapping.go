package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/ngram"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/whitespace"
	"github.com/blevesearch/bleve/v2/mapping"
)

const (
	// WordAnalyzerName is the n-gram analyzer applied to board titles so
	// partial words match (2 to 5 grams, lowercased).
	WordAnalyzerName = "word_analyzer"

	// WhitespaceAnalyzerName splits on whitespace only, used for body text.
	WhitespaceAnalyzerName = "whitespace_analyzer"

	ngramFilterName = "ngram_2_5"
)

// buildIndexMapping defines the board document schema: a keyword-analyzed
// boardId for exact term lookups, ngram-analyzed title, whitespace-analyzed
// content, nested comments and numeric counters. The raw entity JSON is
// kept in a stored-only source field and returned by searches.
func buildIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()

	err := im.AddCustomTokenFilter(ngramFilterName, map[string]interface{}{
		"type": ngram.Name,
		"min":  2.0,
		"max":  5.0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add ngram filter: %w", err)
	}

	err = im.AddCustomAnalyzer(WordAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     whitespace.Name,
		"token_filters": []string{lowercase.Name, ngramFilterName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add word analyzer: %w", err)
	}

	err = im.AddCustomAnalyzer(WhitespaceAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": whitespace.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add whitespace analyzer: %w", err)
	}

	board := bleve.NewDocumentMapping()
	board.AddFieldMappingsAt("boardId", keywordField())
	board.AddFieldMappingsAt("title", analyzedField(WordAnalyzerName))
	board.AddFieldMappingsAt("content", analyzedField(WhitespaceAnalyzerName))
	board.AddFieldMappingsAt("writer", keywordField())
	board.AddFieldMappingsAt("password", bleve.NewTextFieldMapping())
	board.AddFieldMappingsAt("like", bleve.NewNumericFieldMapping())
	board.AddFieldMappingsAt("dislike", bleve.NewNumericFieldMapping())
	board.AddFieldMappingsAt("created", bleve.NewNumericFieldMapping())

	comments := bleve.NewDocumentMapping()
	comments.AddFieldMappingsAt("boardId", keywordField())
	comments.AddFieldMappingsAt("writer", bleve.NewTextFieldMapping())
	comments.AddFieldMappingsAt("content", analyzedField(WhitespaceAnalyzerName))
	comments.AddFieldMappingsAt("password", bleve.NewTextFieldMapping())
	comments.AddFieldMappingsAt("created", bleve.NewNumericFieldMapping())
	board.AddSubDocumentMapping("comments", comments)

	source := bleve.NewTextFieldMapping()
	source.Index = false
	source.Store = true
	source.IncludeInAll = false
	source.IncludeTermVectors = false
	board.AddFieldMappingsAt(sourceField, source)

	im.DefaultMapping = board
	return im, nil
}

func keywordField() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = keyword.Name
	return fm
}

func analyzedField(analyzer string) *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = analyzer
	return fm
}
