package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Tick           int32
	FPS            int32
	StepsPerUpdate int
	Paused         bool

	Waypoints int
	Corners   int
	Islands   int

	Enemies     int
	Chasing     int     // enemies holding a path
	HitRate     float64 // found / queries over the last window
	SearchP90us float64

	ShowNavMesh   bool
	ShowEnemyPath bool

	Phases []PhaseRow
}

// PhaseRow is one tick phase's share of the average tick, in percent.
type PhaseRow struct {
	Name string
	Pct  float64
}

// HUDActions reports which controls were clicked this frame.
type HUDActions struct {
	ToggleNavMesh   bool
	ToggleEnemyPath bool
	RebuildNavMesh  bool
}

// HUD renders the status panel and the debug controls.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at the top-left corner.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), x: 10, y: 10, width: 260}
}

// Draw renders the HUD and returns the clicked controls.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	th := r.Theme
	height := int32(14+len(data.Phases))*th.LineHeight + 3*int32(th.ButtonHeight) + 5*th.Padding
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + th.Padding
	y := h.y + th.Padding
	y = r.DrawSectionHeader(x, y, "Arena")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx", data.StepsPerUpdate))
	if data.Paused {
		y = r.DrawWarning(x, y, "PAUSED")
	}

	y = r.DrawSectionHeader(x, y+th.Padding/2, "Navmesh")
	y = r.DrawLabelValue(x, y, "Waypoints", fmt.Sprintf("%d", data.Waypoints))
	y = r.DrawLabelValue(x, y, "Corners", fmt.Sprintf("%d", data.Corners))
	y = r.DrawLabelValue(x, y, "Islands", fmt.Sprintf("%d", data.Islands))
	if data.Islands > 1 {
		y = r.DrawWarning(x, y, "unreachable regions")
	}

	y = r.DrawSectionHeader(x, y+th.Padding/2, "Pathfinding")
	y = r.DrawLabelValue(x, y, "Chasing", fmt.Sprintf("%d / %d", data.Chasing, data.Enemies))
	y = r.DrawBar(x, y, "Hit rate", data.HitRate, h.width-2*th.Padding)
	y = r.DrawLabelValue(x, y, "Search p90", fmt.Sprintf("%.0f us", data.SearchP90us))

	if len(data.Phases) > 0 {
		y = r.DrawSectionHeader(x, y+th.Padding/2, "Tick")
		for _, ph := range data.Phases {
			y = r.DrawLabelValue(x, y, ph.Name, fmt.Sprintf("%.1f%%", ph.Pct))
		}
	}

	var act HUDActions
	bw := float32(h.width - 2*th.Padding)
	bx := float32(x)
	by := float32(y + th.Padding)
	act.ToggleNavMesh = gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw, Height: th.ButtonHeight},
		toggleText(data.ShowNavMesh, "Hide navmesh [N]", "Show navmesh [N]"))
	by += th.ButtonHeight + 4
	act.ToggleEnemyPath = gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw, Height: th.ButtonHeight},
		toggleText(data.ShowEnemyPath, "Hide enemy path [P]", "Show enemy path [P]"))
	by += th.ButtonHeight + 4
	act.RebuildNavMesh = gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw, Height: th.ButtonHeight}, "Rebuild navmesh [B]")
	return act
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func toggleText(on bool, ifOn, ifOff string) string {
	if on {
		return ifOn
	}
	return ifOff
}
