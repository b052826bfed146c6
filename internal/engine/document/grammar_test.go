package document

import (
	"errors"
	"strings"

	"github.com/dshills/markupcore/internal/engine/syntax"
	"github.com/dshills/markupcore/internal/format"
)

const typeNewline syntax.NodeType = "newline"

// lineGrammar understands "# " headers and *emphasis* inside paragraphs.
var lineGrammar = GrammarFunc(parseLines)

func parseLines(text string) (*syntax.Node, error) {
	root := syntax.NewNode(format.TypeDocument, 0)
	for line := range strings.SplitAfterSeq(text, "\n") {
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "# "):
			h := syntax.NewNode(format.TypeHeader, 0)
			h.AppendChild(syntax.NewNode(format.TypeDelimiter, 2))
			appendText(h, len(body)-2)
			root.AppendChild(h)
		case body != "":
			root.AppendChild(parseParagraph(body))
		}
		if len(body) < len(line) {
			root.AppendChild(syntax.NewNode(typeNewline, 1))
		}
	}
	return root, nil
}

func parseParagraph(body string) *syntax.Node {
	p := syntax.NewNode(format.TypeParagraph, 0)
	for body != "" {
		i := strings.IndexByte(body, '*')
		j := -1
		if i >= 0 {
			j = strings.IndexByte(body[i+1:], '*')
		}
		if j < 0 {
			appendText(p, len(body))
			break
		}
		appendText(p, i)
		e := syntax.NewNode(format.TypeEmphasis, 0)
		e.AppendChild(syntax.NewNode(format.TypeDelimiter, 1))
		appendText(e, j)
		e.AppendChild(syntax.NewNode(format.TypeDelimiter, 1))
		p.AppendChild(e)
		body = body[i+j+2:]
	}
	return p
}

func appendText(n *syntax.Node, length int) {
	if length > 0 {
		n.AppendChild(syntax.NewNode(format.TypeText, length))
	}
}

var errBroken = errors.New("broken grammar")
