package boxes

import (
	"regexp"
	"strings"
	"unicode"

	pr "github.com/benoitkugler/printlayout/css/properties"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	reLineFeeds = regexp.MustCompile(`[\t ]*\n[\t ]*`)
	reSpaces    = regexp.MustCompile(` +`)
)

// collapsesSpaces returns true for the `white-space` values collapsing
// sequences of spaces.
func collapsesSpaces(style pr.ElementStyle) bool {
	switch style.GetWhiteSpace() {
	case "normal", "nowrap", "pre-line":
		return true
	}
	return false
}

// transformText applies the `text-transform` property, after
// normalizing `text` to the NFC form.
func transformText(text string, style pr.ElementStyle) string {
	text = norm.NFC.String(text)
	transform := style.GetTextTransform()
	if transform == "none" {
		return text
	}
	tag := language.Und
	if lang := string(style.GetLang()); lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	switch transform {
	case "uppercase":
		return cases.Upper(tag).String(text)
	case "lowercase":
		return cases.Lower(tag).String(text)
	case "capitalize":
		return cases.Title(tag, cases.NoLower).String(text)
	}
	return text
}

// processWhitespace implements the first part of
// http://www.w3.org/TR/CSS21/text.html#white-space-model
// It returns true if the text of `id` ends with a collapsible space.
func (b *builder) processWhitespace(id BoxID, followingCollapsibleSpace bool) bool {
	box := &b.boxes[id]
	if box.Kind == TextT {
		if !collapsesSpaces(box.Style) {
			return false
		}
		text := reLineFeeds.ReplaceAllString(box.Text, "\n")
		if ws := box.Style.GetWhiteSpace(); ws == "normal" || ws == "nowrap" {
			text = strings.ReplaceAll(text, "\n", " ")
		}
		text = strings.ReplaceAll(text, "\t", " ")
		text = reSpaces.ReplaceAllString(text, " ")
		previousText := text
		if followingCollapsibleSpace && strings.HasPrefix(text, " ") {
			text = text[1:]
		}
		box.Text = text
		return strings.HasSuffix(previousText, " ")
	}

	for _, child := range box.Children {
		c := &b.boxes[child]
		if c.Kind == TextT || c.IsInlineBox() {
			followingCollapsibleSpace = b.processWhitespace(child, followingCollapsibleSpace)
		} else {
			b.processWhitespace(child, false)
			if c.IsInNormalFlow() {
				followingCollapsibleSpace = false
			}
		}
	}
	return followingCollapsibleSpace
}

// normalize enforces the rules on mixed content, starting from the leaves :
// empty text boxes are removed, inline boxes containing block-level boxes
// are split and consecutive inline-level boxes in a block container
// with block-level children are wrapped in anonymous blocks.
func (b *builder) normalize(id BoxID) {
	children := b.boxes[id].Children[:0:0]
	for _, child := range b.boxes[id].Children {
		if c := &b.boxes[child]; c.Kind == TextT && c.Text == "" {
			continue
		}
		b.normalize(child)
		children = append(children, child)
	}
	b.boxes[id].Children = children

	if b.boxes[id].IsBlockContainer() {
		b.blockInInline(id)
		b.inlineInBlock(id)
	}
}

// containsBlock returns true if the inline box `id` has block-level
// descendants in its inline content.
func (b *builder) containsBlock(id BoxID) bool {
	for _, child := range b.boxes[id].Children {
		c := &b.boxes[child]
		if c.IsInNormalFlow() && c.IsBlockLevel() {
			return true
		}
		if c.IsInlineBox() && b.containsBlock(child) {
			return true
		}
	}
	return false
}

// blockInInline replaces the inline children of the block container `id`
// containing block-level boxes by their split parts.
//
// Eg.
//
//	BlockBox[
//	    InlineBox[
//	        TextBox["Hello "],
//	        BlockBox[TextBox["World"]],
//	        TextBox["!"],
//	    ],
//	]
//
// is turned into
//
//	BlockBox[
//	    InlineBox[TextBox["Hello "]],
//	    BlockBox[TextBox["World"]],
//	    InlineBox[TextBox["!"]],
//	]
//
// The inline parts are then wrapped by [inlineInBlock].
func (b *builder) blockInInline(id BoxID) {
	var (
		children []BoxID
		changed  bool
	)
	for _, child := range b.boxes[id].Children {
		if b.boxes[child].IsInlineBox() && b.containsBlock(child) {
			children = append(children, b.splitInline(child)...)
			changed = true
		} else {
			children = append(children, child)
		}
	}
	if changed {
		b.boxes[id].Children = children
	}
}

// splitInline splits the inline box `id` around its block-level descendants,
// returning the sequence of inline parts and block-level boxes replacing it.
// The first part reuses `id`.
func (b *builder) splitInline(id BoxID) []BoxID {
	var (
		out, parts, current []BoxID
	)
	flush := func() {
		part := id
		if len(parts) != 0 {
			part = b.cloneBox(id)
		}
		b.boxes[part].Children = current
		current = nil
		parts = append(parts, part)
		out = append(out, part)
	}
	for _, child := range b.boxes[id].Children {
		isBlock := b.boxes[child].IsInNormalFlow() && b.boxes[child].IsBlockLevel()
		switch {
		case isBlock:
			flush()
			out = append(out, child)
		case b.boxes[child].IsInlineBox() && b.containsBlock(child):
			for _, part := range b.splitInline(child) {
				if b.boxes[part].IsBlockLevel() {
					flush()
					out = append(out, part)
				} else {
					current = append(current, part)
				}
			}
		default:
			current = append(current, child)
		}
	}
	flush()

	for i, part := range parts {
		if i > 0 {
			b.boxes[part].SplitBefore = true
		}
		if i < len(parts)-1 {
			b.boxes[part].SplitAfter = true
		}
	}
	return out
}

// isCollapsibleWhitespace returns true for text boxes
// only containing collapsible spaces.
func (b *builder) isCollapsibleWhitespace(id BoxID) bool {
	box := &b.boxes[id]
	return box.Kind == TextT && collapsesSpaces(box.Style) && strings.Trim(box.Text, " ") == ""
}

// inlineInBlock wraps the consecutive inline-level children of the block container `id`
// in anonymous blocks, if it also has block-level children.
// Leading whitespace of such inline runs is dropped, so that
// whitespace between blocks does not generate boxes.
// Boxes out of the normal flow join the current run, if any.
//
// Eg.
//
//	BlockBox[
//	    TextBox["Some "],
//	    InlineBox[TextBox["text"]],
//	    BlockBox[
//	        TextBox["More text"],
//	    ]
//	]
//
// is turned into
//
//	BlockBox[
//	    AnonymousBlockBox[
//	        TextBox["Some "],
//	        InlineBox[TextBox["text"]],
//	    ]
//	    BlockBox[
//	        TextBox["More text"],
//	    ]
//	]
func (b *builder) inlineInBlock(id BoxID) {
	hasBlock := false
	for _, child := range b.boxes[id].Children {
		if c := &b.boxes[child]; c.IsInNormalFlow() && c.IsBlockLevel() {
			hasBlock = true
			break
		}
	}
	if !hasBlock {
		return
	}

	var newChildren, run []BoxID
	flushRun := func() {
		if len(run) == 0 {
			return
		}
		parent := &b.boxes[id]
		element, style := parent.Element, b.anonymousStyle(parent.Style)
		anonymous := b.newBox(AnonymousBlockT, element, "", style)
		b.boxes[anonymous].Children = run
		newChildren = append(newChildren, anonymous)
		run = nil
	}
	for _, child := range b.boxes[id].Children {
		c := &b.boxes[child]
		switch {
		case c.IsInNormalFlow() && c.IsBlockLevel():
			flushRun()
			newChildren = append(newChildren, child)
		case c.IsInNormalFlow():
			if len(run) == 0 && b.isCollapsibleWhitespace(child) {
				continue
			}
			run = append(run, child)
		default:
			if len(run) != 0 {
				run = append(run, child)
			} else {
				newChildren = append(newChildren, child)
			}
		}
	}
	flushRun()
	b.boxes[id].Children = newChildren
}

// stripBlockWhitespace removes the collapsible spaces at the start and at the end
// of the inline content of each block container.
func (b *builder) stripBlockWhitespace(id BoxID) {
	box := &b.boxes[id]
	if box.IsBlockContainer() {
		b.stripLeading(id)
		b.stripTrailing(id)
	}
	for _, child := range b.boxes[id].Children {
		b.stripBlockWhitespace(child)
	}
}

// stripLeading returns true when the first visible inline content has been found.
func (b *builder) stripLeading(id BoxID) bool {
	for _, child := range b.boxes[id].Children {
		c := &b.boxes[child]
		switch {
		case !c.IsInNormalFlow():
		case c.Kind == TextT:
			if !collapsesSpaces(c.Style) {
				return true
			}
			c.Text = strings.TrimPrefix(c.Text, " ")
			if c.Text != "" {
				return true
			}
		case c.IsInlineBox():
			if b.stripLeading(child) {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func (b *builder) stripTrailing(id BoxID) bool {
	children := b.boxes[id].Children
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		c := &b.boxes[child]
		switch {
		case !c.IsInNormalFlow():
		case c.Kind == TextT:
			if !collapsesSpaces(c.Style) {
				return true
			}
			c.Text = strings.TrimSuffix(c.Text, " ")
			if c.Text != "" {
				return true
			}
		case c.IsInlineBox():
			if b.stripTrailing(child) {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func (b *builder) removeEmptyText(id BoxID) {
	children := b.boxes[id].Children[:0]
	for _, child := range b.boxes[id].Children {
		if c := &b.boxes[child]; c.Kind == TextT && c.Text == "" {
			continue
		}
		b.removeEmptyText(child)
		children = append(children, child)
	}
	b.boxes[id].Children = children
}

// insertFirstLetters wraps the first letter of the block containers
// having a ::first-letter style into an inline box.
func (b *builder) insertFirstLetters(id BoxID) {
	box := &b.boxes[id]
	if box.IsBlockContainer() && box.PseudoType == "" && box.Kind != AnonymousBlockT && box.Element != nil {
		if style := b.styleFor.Get(box.Element, "first-letter"); style != nil {
			if parent, index, ok := b.firstText(id); ok {
				b.splitFirstLetter(parent, index, style)
			}
		}
	}
	for _, child := range b.boxes[id].Children {
		b.insertFirstLetters(child)
	}
}

// assignFirstLineStyles sets the ::first-line style of the block containers.
// The first line of a container starting with a block child is the first
// line of that child, so `passed` is the style given by the parent, if any.
func (b *builder) assignFirstLineStyles(id BoxID, passed pr.ElementStyle) {
	box := &b.boxes[id]
	style := passed
	if box.IsBlockContainer() && box.PseudoType == "" && box.Kind != AnonymousBlockT && box.Element != nil {
		if own := b.styleFor.Get(box.Element, "first-line"); own != nil {
			style = own
		}
	}
	if box.IsBlockContainer() {
		box.FirstLineStyle = style
	}
	first := true
	for _, child := range box.Children {
		c := &b.boxes[child]
		var down pr.ElementStyle
		if first && c.IsInNormalFlow() {
			first = false
			if c.IsBlockLevel() && c.IsBlockContainer() && !c.EstablishesFormattingContext() {
				down = style
			}
		}
		b.assignFirstLineStyles(child, down)
	}
}

// firstText returns the parent and index of the text box
// starting the first line of `id`, if any.
func (b *builder) firstText(id BoxID) (parent BoxID, index int, ok bool) {
	for i, child := range b.boxes[id].Children {
		c := &b.boxes[child]
		switch {
		case !c.IsInNormalFlow():
		case c.Kind == TextT:
			return id, i, true
		case c.IsInlineBox() && c.PseudoType != "marker", c.Kind == AnonymousBlockT,
			c.Kind == BlockContainerT && !c.EstablishesFormattingContext():
			if parent, index, ok = b.firstText(child); ok {
				return parent, index, ok
			}
			if c.IsBlockLevel() {
				return NoBox, 0, false
			}
		case c.IsInlineBox():
			// markers are skipped
		default:
			return NoBox, 0, false
		}
	}
	return NoBox, 0, false
}

// splitFirstLetter extracts the leading punctuation and the first
// letter of the text box at `index`.
func (b *builder) splitFirstLetter(parent BoxID, index int, style pr.ElementStyle) {
	textID := b.boxes[parent].Children[index]
	runes := []rune(b.boxes[textID].Text)
	end := 0
	for end < len(runes) && (unicode.IsPunct(runes[end]) || unicode.IsSpace(runes[end])) {
		end++
	}
	if end < len(runes) {
		end++
	}
	if end == 0 {
		return
	}
	textBox := b.boxes[textID]

	letter := b.newBox(AnonymousInlineT, textBox.Element, "first-letter", style)
	letterText := b.newTextBox(textBox.Element, "first-letter", style, string(runes[:end]))
	b.boxes[letter].Children = []BoxID{letterText}

	children := append([]BoxID(nil), b.boxes[parent].Children[:index]...)
	children = append(children, letter)
	if end < len(runes) {
		b.boxes[textID].Text = string(runes[end:])
		children = append(children, textID)
	}
	children = append(children, b.boxes[parent].Children[index+1:]...)
	b.boxes[parent].Children = children
}
