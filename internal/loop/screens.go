package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/velocityridge/internal/draw"
	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/loop/config"
)

var (
	hudStyle    = draw.Bold + draw.Fg(51)
	titleStyle  = draw.Bold + draw.Fg(51)
	promptStyle = draw.Bold + draw.Fg(220)
	textStyle   = draw.Fg(255)
	dimStyle    = draw.Fg(245)
)

var titleArt = []string{
	`╔═══════════════════════════════════╗`,
	`║   V E L O C I T Y   R I D G E     ║`,
	`╚═══════════════════════════════════╝`,
}

// drawUI draws the text layer on top of the canvas.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.shuttingDown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	c.drawHUD(termWidth, termHeight)
	if !c.session.OverlayVisible() {
		return
	}
	switch c.session.State().Phase {
	case game.PhaseEnded:
		c.drawGameOverScreen(centerX, centerY)
	default:
		c.drawStartScreen(centerX, centerY)
	}
}

// centered writes s centered on row and marks the cells for repaint.
func (c *Client) centered(centerX, row int, style, s string) {
	col := centerX - len([]rune(s))/2
	c.chunkWriter.WriteStyled(col, row, style, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// blinkPrompt shows s on alternating 600ms phases.
func (c *Client) blinkPrompt(centerX, row int, s string) {
	if time.Now().UnixMilli()/600%2 == 0 {
		c.centered(centerX, row, promptStyle, s)
		return
	}
	c.canvas.MarkTextDirty(centerX-len(s)/2, row, len(s))
}

// drawHUD draws time, distance and best on the top row. Fields are padded to
// fixed widths so a shrinking value leaves nothing behind.
func (c *Client) drawHUD(termWidth, termHeight int) {
	hud := c.session.HUD()
	cw := c.chunkWriter

	left := fmt.Sprintf(" TIME %-7s", hud.Time)
	cw.WriteStyled(2, 1, hudStyle, left)

	mid := fmt.Sprintf(" DIST %-8s", hud.Distance)
	cw.WriteStyled(termWidth/2-len(mid)/2, 1, hudStyle, mid)

	right := fmt.Sprintf(" BEST %-7s", hud.Best)
	cw.WriteStyled(termWidth-len(right)-1, 1, hudStyle, right)

	if c.hub != nil {
		players := fmt.Sprintf(" Players: %-4d", c.hub.Players())
		cw.WriteStyled(termWidth-len(players)-1, termHeight, dimStyle, players)
	}
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	top := centerY - 9
	for i, line := range titleArt {
		c.centered(centerX, top+i, titleStyle, line)
	}

	row := top + len(titleArt) + 1
	c.centered(centerX, row, textStyle, " ~ Outrun the clock ~ ")

	row += 2
	controls := []string{
		" A D / < >  . . . . . Steer ",
		" Click + drag . . . . Steer ",
		" SPACE  . . . . . . . Start ",
		" Q  . . . . . . . . .  Quit ",
	}
	for i, line := range controls {
		c.centered(centerX, row+i, textStyle, line)
	}
	row += len(controls) + 1

	c.centered(centerX, row, textStyle, fmt.Sprintf(" Best time: %s ", game.FormatSeconds(c.session.Best())))
	row += 2

	if len(c.leaderboard) > 0 {
		c.centered(centerX, row, titleStyle, " Top times ")
		for i, st := range c.leaderboard {
			line := fmt.Sprintf(" %d. %-16s %7s ", i+1, truncate(st.Username, 16), game.FormatSeconds(st.Best))
			c.centered(centerX, row+1+i, textStyle, line)
		}
		row += len(c.leaderboard) + 2
	}

	c.blinkPrompt(centerX, row, ">>  Press SPACE or click to Start  <<")
}

// drawGameOverScreen draws the end-of-session summary.
func (c *Client) drawGameOverScreen(centerX, centerY int) {
	st := c.session.State()
	top := centerY - 5

	c.centered(centerX, top, titleStyle, "  T I M E ' S   U P  ")
	c.centered(centerX, top+2, textStyle, fmt.Sprintf(" Score: %s ", game.FormatSeconds(st.MaxTimeAchieved)))
	c.centered(centerX, top+3, textStyle, fmt.Sprintf(" Distance: %s ", game.FormatDistance(st.Distance)))
	c.centered(centerX, top+4, textStyle, fmt.Sprintf(" Best: %s ", game.FormatSeconds(c.session.Best())))
	if c.session.Best() > c.bestAtStart {
		c.centered(centerX, top+6, promptStyle, " New best time! ")
	}
	c.blinkPrompt(centerX, top+8, ">>  Press SPACE or click to Restart  <<")
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.centered(centerX, centerY-2, titleStyle, " INACTIVITY WARNING ")

	remaining := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	msg := fmt.Sprintf(" You have been inactive for too long. You will be disconnected in %d seconds. ", max(remaining, 0))
	c.centered(centerX, centerY, textStyle, msg)

	c.centered(centerX, centerY+2, dimStyle, " Press any key to continue ")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.centered(centerX, centerY-3, titleStyle, " SERVER SHUTTING DOWN ")
	c.centered(centerX, centerY-1, textStyle, " The server is restarting for maintenance. ")
	c.centered(centerX, centerY, textStyle, " Your best time has been saved. Please reconnect in a moment. ")

	remaining := int(c.shutdownTimer) + 1
	c.centered(centerX, centerY+2, textStyle, fmt.Sprintf(" Disconnecting in %d seconds... ", remaining))
	c.centered(centerX, centerY+4, dimStyle, " Press Q to disconnect now ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
