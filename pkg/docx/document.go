// Package docx gera documentos Word (WordprocessingML) simples a partir de texto e markdown.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Run é um trecho de texto com a mesma formatação
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Mono   bool
	Break  bool
}

type paragraph struct {
	style  string
	indent int
	before int
	after  int
	prefix string
	runs   []Run
}

// Document acumula os parágrafos de um documento Word
type Document struct {
	paragraphs []paragraph
}

// New cria um documento vazio
func New() *Document {
	return &Document{}
}

// Heading adiciona um título de nível 1 a 3
func (d *Document) Heading(level int, text string) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	d.paragraphs = append(d.paragraphs, paragraph{
		style:  fmt.Sprintf("Heading%d", level),
		before: 240,
		after:  120,
		runs:   []Run{{Text: text}},
	})
}

// Text adiciona um ou mais parágrafos de texto simples, quebrando nas linhas em branco
func (d *Document) Text(text string) {
	d.TextIndented(text, 0)
}

// TextIndented adiciona texto com recuo à esquerda em twips
func (d *Document) TextIndented(text string, indent int) {
	for _, block := range strings.Split(normalizeNewlines(text), "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		d.paragraphs = append(d.paragraphs, paragraph{
			indent: indent,
			before: 100,
			after:  200,
			runs:   lineRuns(block),
		})
	}
}

// Bullet adiciona um item de lista
func (d *Document) Bullet(text string) {
	d.paragraphs = append(d.paragraphs, paragraph{
		indent: 360,
		before: 200,
		after:  100,
		prefix: "• ",
		runs:   lineRuns(normalizeNewlines(text)),
	})
}

// Paragraph adiciona um parágrafo com trechos formatados
func (d *Document) Paragraph(runs ...Run) {
	d.paragraphs = append(d.paragraphs, paragraph{after: 120, runs: runs})
}

// Len retorna a quantidade de parágrafos
func (d *Document) Len() int {
	return len(d.paragraphs)
}

// Write grava o pacote .docx no writer
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/document.xml", d.documentXML()},
	}

	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("erro ao criar %s: %w", p.name, err)
		}
		if _, err := f.Write(p.body); err != nil {
			return fmt.Errorf("erro ao escrever %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("erro ao finalizar documento: %w", err)
	}
	return nil
}

// Bytes retorna o conteúdo do arquivo .docx
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) documentXML() []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	for _, p := range d.paragraphs {
		b.WriteString(`<w:p><w:pPr>`)
		if p.style != "" {
			fmt.Fprintf(&b, `<w:pStyle w:val="%s"/>`, p.style)
		}
		fmt.Fprintf(&b, `<w:spacing w:before="%d" w:after="%d"/>`, p.before, p.after)
		if p.indent > 0 {
			fmt.Fprintf(&b, `<w:ind w:left="%d"/>`, p.indent)
		}
		b.WriteString(`</w:pPr>`)

		if p.prefix != "" {
			writeRun(&b, Run{Text: p.prefix})
		}
		for _, r := range p.runs {
			writeRun(&b, r)
		}
		b.WriteString(`</w:p>`)
	}

	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>`)
	b.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>`)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.Bytes()
}

func writeRun(b *bytes.Buffer, r Run) {
	if r.Break {
		b.WriteString(`<w:r><w:br/></w:r>`)
		return
	}
	if r.Text == "" {
		return
	}

	b.WriteString(`<w:r>`)
	if r.Bold || r.Italic || r.Mono {
		b.WriteString(`<w:rPr>`)
		if r.Mono {
			b.WriteString(`<w:rFonts w:ascii="Consolas" w:hAnsi="Consolas" w:cs="Consolas"/>`)
		}
		if r.Bold {
			b.WriteString(`<w:b/>`)
		}
		if r.Italic {
			b.WriteString(`<w:i/>`)
		}
		b.WriteString(`</w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(r.Text))
	b.WriteString(`</w:t></w:r>`)
}

// lineRuns converte quebras de linha simples em quebras de linha do Word
func lineRuns(text string) []Run {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	runs := make([]Run, 0, len(lines)*2)
	for i, line := range lines {
		if i > 0 {
			runs = append(runs, Run{Break: true})
		}
		runs = append(runs, Run{Text: line})
	}
	return runs
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
