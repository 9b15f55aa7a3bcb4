package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// lineClasses are the hOCR classes treated as text lines
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// ParseHOCR converts raw hOCR data into a structured Document.
func ParseHOCR(data []byte) (*Document, error) {
	decoded, err := decode(data)
	if err != nil {
		return nil, err
	}

	root, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR HTML: %w", err)
	}

	doc := &Document{Metadata: make(map[string]string)}
	extractDocumentMeta(doc, root)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			doc.Pages = append(doc.Pages, parsePage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(root)

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return doc, nil
}

// decode converts ISO-8859-1 documents to UTF-8 based on the declared charset
func decode(data []byte) ([]byte, error) {
	charset := "utf-8"
	if i := bytes.Index(data, []byte("charset=")); i >= 0 {
		rest := string(data[i+len("charset="):])
		fields := strings.FieldsFunc(rest, func(r rune) bool {
			return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
		})
		if len(fields) > 0 {
			charset = strings.ToLower(fields[0])
		}
	}

	switch charset {
	case "utf-8", "utf8":
		return data, nil
	case "iso-8859-1", "latin1", "latin-1", "windows-1252":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", charset, err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unsupported hOCR charset %q", charset)
	}
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	return bboxFromProps(ParseTitle(title))
}

func bboxFromProps(props map[string][]string) *BoundingBox {
	v, ok := floats(props["bbox"], 4)
	if !ok {
		return nil
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// floats parses the first n values, reporting false if any is missing or invalid
func floats(values []string, n int) ([]float64, bool) {
	if len(values) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// extractDocumentMeta reads the html lang attribute and the head section
func extractDocumentMeta(doc *Document, root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := attr(n, "lang"); lang != "" {
					doc.Language = lang
				} else if lang := attr(n, "xml:lang"); lang != "" {
					doc.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, content := attr(n, "name"), attr(n, "content")
				switch {
				case name == "" || content == "":
				case strings.HasPrefix(name, "ocr-"):
					doc.Metadata[name] = content
				case name == "description":
					doc.Description = content
				case name == "dc.language":
					doc.Language = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// parsePage extracts page properties and groups its lines into blocks.
// Lines outside any ocr_carea are collected into one trailing block.
func parsePage(n *html.Node) Page {
	page := Page{ID: attr(n, "id"), Lang: attr(n, "lang")}
	props := ParseTitle(attr(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		page.BBox = *bbox
	}
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"`)
	}
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		page.Number, _ = strconv.Atoi(ppageno[0])
	}

	loose := Block{ID: page.ID + "_loose"}
	var walk func(node *html.Node, block *Block)
	walk = func(node *html.Node, block *Block) {
		if node.Type == html.ElementNode {
			if hasClass(node, "ocr_carea") {
				area := Block{ID: attr(node, "id")}
				if bbox := ParseBoundingBoxFromTitle(attr(node, "title")); bbox != nil {
					area.BBox = *bbox
				}
				for c := node.FirstChild; c != nil; c = c.NextSibling {
					walk(c, &area)
				}
				if len(area.Lines) > 0 {
					page.Blocks = append(page.Blocks, area)
				}
				return
			}
			if class := lineClass(node); class != "" {
				block.Lines = append(block.Lines, parseLine(node, class))
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c, block)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, &loose)
	}
	if len(loose.Lines) > 0 {
		page.Blocks = append(page.Blocks, loose)
	}
	return page
}

// parseLine extracts line geometry and its words
func parseLine(n *html.Node, class string) Line {
	line := Line{ID: attr(n, "id"), Kind: class, Lang: attr(n, "lang")}
	props := ParseTitle(attr(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		line.BBox = *bbox
	}
	if v, ok := floats(props["baseline"], 2); ok {
		line.Baseline = &Baseline{Slope: v[0], Offset: v[1]}
	}
	if v, ok := floats(props["textangle"], 1); ok {
		line.TextAngle = v[0]
	}

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && hasClass(node, "ocrx_word") {
			line.Words = append(line.Words, parseWord(node, line.Lang))
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return line
}

// parseWord extracts a word's text, box and confidence
func parseWord(n *html.Node, lang string) Word {
	word := Word{ID: attr(n, "id"), Lang: lang, Text: textContent(n)}
	if l := attr(n, "lang"); l != "" {
		word.Lang = l
	}
	props := ParseTitle(attr(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		word.BBox = *bbox
	}
	if v, ok := floats(props["x_wconf"], 1); ok {
		word.Confidence = v[0]
	}
	return word
}

// textContent concatenates all text below n
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func lineClass(n *html.Node) string {
	for _, class := range lineClasses {
		if hasClass(n, class) {
			return class
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// attr returns the value of a node attribute or ""
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
