package ui

import "strings"

// frameWidth is the width of interruption frame rules, indent included.
const frameWidth = 48

// StartFrame opens a block of output written on behalf of name, usually a
// plugin interrupting the command: "  -- name ------...".
func (u *UI) StartFrame(name string) {
	head := "  -- " + name + " "
	u.println(u.render(u.styles.faint, head+strings.Repeat("-", max(frameWidth-len(head), 3))))
}

// EndFrame closes the block opened by StartFrame.
func (u *UI) EndFrame() {
	u.println(u.render(u.styles.faint, "  "+strings.Repeat("-", frameWidth-2)))
}
