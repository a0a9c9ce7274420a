// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/argument-engine/pkg/types"
)

// Atom feed structures. Only the fields the pipeline reads are declared;
// the namespace is pinned so entries from a foreign schema do not match.
type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Entries []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomEntry struct {
	ID      string `xml:"http://www.w3.org/2005/Atom id"`
	Title   string `xml:"http://www.w3.org/2005/Atom title"`
	Summary string `xml:"http://www.w3.org/2005/Atom summary"`
}

// ParseFeed extracts one Article per Atom entry in raw. Title, summary, and
// link are copied verbatim. A document that is not well-formed, whose
// root is not an Atom feed, or that carries content after the root element
// wraps types.ErrParseFailure. A feed without entries yields an empty slice
// and no error.
func ParseFeed(raw string) ([]types.Article, error) {
	var feed atomFeed
	dec := xml.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w: %w", types.ErrParseFailure, err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w: %w", types.ErrParseFailure, err)
	}

	articles := make([]types.Article, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		articles = append(articles, types.Article{
			Title:   e.Title,
			Summary: e.Summary,
			Link:    e.ID,
		})
	}
	return articles, nil
}

// expectEOF consumes what follows the root element. Only whitespace,
// comments, and processing instructions may appear there.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) > 0 {
				return fmt.Errorf("junk after document element at offset %d", dec.InputOffset())
			}
		default:
			return fmt.Errorf("junk after document element at offset %d", dec.InputOffset())
		}
	}
}
