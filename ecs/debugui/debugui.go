// Package debugui provides Dear ImGui debug windows for ecs worlds.
// It renders through an ImguiSystem and publishes ImGui's input capture state
// into the world as a singleton component.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/excess/ecs"
)

// InputComponent is the name of the singleton component holding ImGui's
// input capture state.
const InputComponent = "ImguiInput"

// RegisterComponents defines the components debugui keeps in a world. It must
// run on the manager before any world that renders through an ImguiSystem is
// used.
func RegisterComponents(m *ecs.Manager) error {
	_, err := m.DefineComponent(InputComponent, ecs.SchemaEntry{
		ecs.Scalar("mouse", ecs.UI8),
		ecs.Scalar("keyboard", ecs.UI8),
	})
	return err
}

// Item is a Dear ImGui render function run once per frame.
type Item func()

// ImguiSystem defers its render functions until after the frame's systems
// have run. It also updates the ImguiInput singleton with the current input
// capture state.
type ImguiSystem struct {
	Items []Item
	input *ecs.Singleton
}

// Add appends render functions to the system.
func (i *ImguiSystem) Add(items ...Item) {
	i.Items = append(i.Items, items...)
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if i.input == nil {
		i.input = inputSingleton(frame.World)
	}
	if i.input != nil {
		io := imgui.CurrentIO()
		state := i.input.Get()
		state.Set("mouse", flag(io.WantCaptureMouse()))
		state.Set("keyboard", flag(io.WantCaptureKeyboard()))
	}

	for _, item := range i.Items {
		frame.Commands.Defer(item)
	}
}

// WantsInput reports whether ImGui captured the mouse or keyboard during the
// last frame. Game input handlers should ignore events ImGui consumed.
func WantsInput(w *ecs.World) (mouse, keyboard bool) {
	s := inputSingleton(w)
	if s == nil {
		return false, false
	}
	state := s.Get()
	return state.Get("mouse") != 0, state.Get("keyboard") != 0
}

func inputSingleton(w *ecs.World) *ecs.Singleton {
	c, ok := w.Manager().Component(InputComponent)
	if !ok {
		return nil
	}
	s, err := ecs.NewSingleton(w, c, nil)
	if err != nil {
		return nil
	}
	return s
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
