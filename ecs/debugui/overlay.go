package debugui

import (
	"github.com/plus3/excess/ecs"
)

// Overlay bundles the debug windows for one world. Clicking a row in the
// component viewer filters the entity browser, and the inspector follows the
// browser's selection.
type Overlay struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	timer     *FrameTimer

	Browser    *EntityBrowser
	Inspector  *ComponentInspector
	Components *ComponentViewer
	Stats      *PerformanceStats
	Queries    *QueryDebugger
}

// NewOverlay creates the debug windows for world. The scheduler may be nil.
func NewOverlay(world *ecs.World, scheduler *ecs.Scheduler) *Overlay {
	return &Overlay{
		world:      world,
		scheduler:  scheduler,
		timer:      NewFrameTimer(),
		Browser:    NewEntityBrowser(100),
		Inspector:  NewComponentInspector(),
		Components: NewComponentViewer(),
		Stats:      NewPerformanceStats(120),
		Queries:    NewQueryDebugger(),
	}
}

// Install adds the overlay to an ImguiSystem.
func (o *Overlay) Install(system *ImguiSystem) {
	system.Add(o.Render)
}

// Render draws every window. It must run between the backend's BeginFrame
// and EndFrame.
func (o *Overlay) Render() {
	dt := o.timer.GetDeltaTime()

	if o.Components.Render(o.world) != nil {
		o.Browser.FilterByComponent(o.Components.Selected())
	}
	o.Browser.Render(o.world)
	o.Inspector.Render(o.world, o.Browser.Selected())
	o.Stats.Render(o.world, o.scheduler, dt)
	o.Queries.Render(o.world)
}
