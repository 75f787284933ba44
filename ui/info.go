package ui

// InfoPanel shows the description of the selected entity.
type InfoPanel struct {
	renderer *Renderer
	width    int32
}

// NewInfoPanel creates an info panel width pixels wide.
func NewInfoPanel(width int32) *InfoPanel {
	return &InfoPanel{renderer: NewRenderer(), width: width}
}

// Draw renders lines in the top-right corner. Nothing is drawn for an
// empty selection.
func (p *InfoPanel) Draw(screenWidth int32, lines []string) {
	if len(lines) == 0 {
		return
	}
	r := p.renderer
	pad := r.Theme.Padding
	x := screenWidth - p.width - pad
	y := pad
	r.DrawPanel(x, y, p.width, int32(len(lines))*r.Theme.LineHeight+pad*2)

	y += pad
	y = r.DrawSectionHeader(x+pad, y, lines[0])
	for _, l := range lines[1:] {
		y = r.DrawLine(x+pad, y, l)
	}
}
