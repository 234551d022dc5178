package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/excess/ecs"
)

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{
		layouts: NewLayoutCache(),
	}
}

func (ci *ComponentInspector) Render(world *ecs.World, selected ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selected = selected

	if ci.selected == (ecs.Entity{}) {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !world.Alive(ci.selected) {
		imgui.Text(fmt.Sprintf("%s no longer exists", ci.selected))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selected.ID()))
	imgui.Text(fmt.Sprintf("Version: %d", ci.selected.Version()))
	imgui.SameLine()
	if imgui.Button("Remove Entity") {
		_ = world.RemoveEntity(ci.selected)
		imgui.End()
		return
	}
	imgui.Separator()

	for _, c := range world.Manager().Components() {
		if !c.Has(ci.selected) {
			continue
		}

		if c.IsMarker() {
			imgui.BulletText(c.Name())
			continue
		}

		if imgui.TreeNodeStr(c.Name()) {
			view, err := c.ViewOf(ci.selected)
			if err == nil {
				ci.renderComponent(view)
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(view ecs.View) {
	for _, field := range ci.layouts.Fields(view.Component()) {
		if field.Len == 0 {
			imgui.Text(fmt.Sprintf("%s:", field.Name))
			imgui.SameLine()
			if v, changed := renderNumber(field.Label, field.IsFloat, view.Get(field.Name)); changed {
				view.Set(field.Name, v)
			}
			continue
		}

		if imgui.TreeNodeStr(fmt.Sprintf("%s [%s, %d]", field.Name, field.Type, field.Len)) {
			for i := 0; i < field.Len; i++ {
				imgui.Text(fmt.Sprintf("[%d]:", i))
				imgui.SameLine()
				label := fmt.Sprintf("%s[%d]", field.Label, i)
				if v, changed := renderNumber(label, field.IsFloat, view.At(field.Name, i)); changed {
					view.SetAt(field.Name, i, v)
				}
			}
			imgui.TreePop()
		}
	}
}

// renderNumber draws an input for one stored value. The result is converted
// to the field's type when written.
func renderNumber(label string, isFloat bool, value float64) (float64, bool) {
	imgui.SetNextItemWidth(150)
	if isFloat {
		v := float32(value)
		if imgui.InputFloat(label, &v) {
			return float64(v), true
		}
		return value, false
	}

	v := int32(value)
	if imgui.InputInt(label, &v) {
		return float64(v), true
	}
	return value, false
}
