package docx

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown adiciona ao documento o conteúdo markdown convertido em parágrafos.
// Títulos, negrito, itálico, listas e blocos de código são preservados.
func (d *Document) Markdown(src string) {
	source := []byte(normalizeNewlines(src))
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	d.addBlocks(root, source, 0)
}

func (d *Document) addBlocks(parent ast.Node, src []byte, depth int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			d.paragraphs = append(d.paragraphs, paragraph{
				style:  fmt.Sprintf("Heading%d", min(node.Level, 3)),
				before: 240,
				after:  120,
				runs:   inlineRuns(node, src),
			})

		case *ast.Paragraph, *ast.TextBlock:
			d.paragraphs = append(d.paragraphs, paragraph{
				indent: depth * 360,
				before: 100,
				after:  120,
				runs:   inlineRuns(node, src),
			})

		case *ast.List:
			d.addList(node, src, depth+1)

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			d.paragraphs = append(d.paragraphs, paragraph{
				indent: depth*360 + 360,
				before: 100,
				after:  120,
				runs:   codeRuns(node, src),
			})

		case *ast.ThematicBreak, *ast.HTMLBlock:
			// separadores e html não têm representação no documento

		default:
			d.addBlocks(n, src, depth)
		}
	}
}

func (d *Document) addList(list *ast.List, src []byte, depth int) {
	index := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		prefix := "• "
		if list.IsOrdered() {
			prefix = fmt.Sprintf("%d. ", index)
			index++
		}

		first := true
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				p := paragraph{indent: depth * 360, before: 60, after: 60, runs: inlineRuns(c, src)}
				if first {
					p.prefix = prefix
					first = false
				}
				d.paragraphs = append(d.paragraphs, p)
			case *ast.List:
				d.addList(c, src, depth+1)
			default:
				d.addBlocks(child, src, depth)
			}
		}
	}
}

// inlineRuns percorre os elementos inline de um bloco acumulando a formatação
func inlineRuns(block ast.Node, src []byte) []Run {
	var (
		runs   []Run
		bold   int
		italic int
		mono   int
	)

	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Emphasis:
			delta := 1
			if !entering {
				delta = -1
			}
			if node.Level >= 2 {
				bold += delta
			} else {
				italic += delta
			}

		case *ast.CodeSpan:
			if entering {
				mono++
			} else {
				mono--
			}

		case *ast.Text:
			if !entering {
				break
			}
			runs = append(runs, Run{
				Text:   string(node.Segment.Value(src)),
				Bold:   bold > 0,
				Italic: italic > 0,
				Mono:   mono > 0,
			})
			switch {
			case node.HardLineBreak():
				runs = append(runs, Run{Break: true})
			case node.SoftLineBreak():
				runs = append(runs, Run{Text: " "})
			}

		case *ast.String:
			if entering {
				runs = append(runs, Run{Text: string(node.Value), Bold: bold > 0, Italic: italic > 0})
			}

		case *ast.AutoLink:
			if entering {
				runs = append(runs, Run{Text: string(node.URL(src))})
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})

	return runs
}

func codeRuns(block ast.Node, src []byte) []Run {
	lines := block.Lines()
	runs := make([]Run, 0, lines.Len()*2)
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			runs = append(runs, Run{Break: true})
		}
		seg := lines.At(i)
		runs = append(runs, Run{Text: strings.TrimRight(string(seg.Value(src)), "\n"), Mono: true})
	}
	return runs
}
