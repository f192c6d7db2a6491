package ingest

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/nhollis/docchat/internal/model"
	"github.com/nhollis/docchat/internal/tokenizer"
)

const (
	maxSectionTokens = 500
	minSectionTokens = 5
)

// Document is one source article handed to the splitter.
type Document struct {
	Title    string
	Link     string
	Content  string
	Markdown bool
}

// Splitter cuts articles into paragraph-sized sections, counts their
// tokens, truncates overlong ones and drops fragments too short to be
// useful retrieval context.
type Splitter struct {
	tok *tokenizer.Tokenizer
}

func NewSplitter(tok *tokenizer.Tokenizer) *Splitter {
	return &Splitter{tok: tok}
}

// Split processes the documents in order and assigns stable sequential
// section ids.
func (s *Splitter) Split(docs []Document) []model.DocumentSection {
	var sections []model.DocumentSection
	nextID := 0
	for _, doc := range docs {
		var paragraphs []string
		if doc.Markdown {
			paragraphs = splitMarkdown(doc.Content)
		} else {
			paragraphs = strings.Split(doc.Content, "\n")
		}
		for _, para := range paragraphs {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			numTokens := s.tok.Count(para)
			if numTokens > maxSectionTokens {
				para = s.tok.Truncate(para, maxSectionTokens)
				numTokens = maxSectionTokens
			}
			if numTokens < minSectionTokens {
				continue
			}
			sections = append(sections, model.DocumentSection{
				ID:        strconv.Itoa(nextID),
				Title:     doc.Title,
				Link:      doc.Link,
				Text:      para,
				NumTokens: numTokens,
			})
			nextID++
		}
	}
	return sections
}

// splitMarkdown extracts the plain text of each top-level block, so
// headings and list items become their own paragraphs like a newline
// split would give for plain text.
func splitMarkdown(markdown string) []string {
	md := goldmark.New()
	reader := text.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var paragraphs []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if block, ok := node.(*ast.FencedCodeBlock); ok {
			var sb strings.Builder
			for i := 0; i < block.Lines().Len(); i++ {
				line := block.Lines().At(i)
				sb.Write(line.Value(reader.Source()))
			}
			paragraphs = append(paragraphs, sb.String())
			continue
		}
		txt := extractText(node, reader.Source())
		if txt != "" {
			paragraphs = append(paragraphs, txt)
		}
	}
	return paragraphs
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind() == ast.KindText {
			sb.Write(node.(*ast.Text).Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
