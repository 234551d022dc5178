package debugui

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/excess/ecs"
)

type ComponentInfo struct {
	ID          ecs.ComponentID
	Name        string
	Fields      string
	FieldCount  int
	EntityCount int
}

type ComponentViewerCache struct {
	components []ComponentInfo
	sortColumn int
	ascending  bool
}

func NewComponentViewer() *ComponentViewer {
	return &ComponentViewer{
		cache: &ComponentViewerCache{
			sortColumn: 3,
			ascending:  false,
		},
		sortColumn:    3,
		sortAscending: false,
	}
}

// Render draws the viewer and returns the component clicked this frame, if
// any.
func (cv *ComponentViewer) Render(world *ecs.World) *ecs.ComponentID {
	if !imgui.BeginV("Component Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	cv.rebuildCache(world)

	maxEntityCount := 0
	for _, info := range cv.cache.components {
		maxEntityCount = max(maxEntityCount, info.EntityCount)
	}

	var clicked *ecs.ComponentID

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ComponentTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Fields")
		imgui.TableSetupColumn("Field Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			cv.sortColumn = int(spec.ColumnIndex())
			cv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			cv.cache.sortColumn = cv.sortColumn
			cv.cache.ascending = cv.sortAscending
			sortComponents(cv.cache.components, cv.sortColumn, cv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, info := range cv.cache.components {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := cv.selectedID != nil && *cv.selectedID == info.ID
			if imgui.SelectableBoolV(info.Name, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				id := info.ID
				if isSelected {
					cv.selectedID = nil
				} else {
					cv.selectedID = &id
				}
				clicked = &id
			}

			imgui.TableNextColumn()
			imgui.Text(info.Fields)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.FieldCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(info.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

// Selected returns the highlighted component, or nil.
func (cv *ComponentViewer) Selected() *ecs.ComponentID {
	return cv.selectedID
}

func (cv *ComponentViewer) rebuildCache(world *ecs.World) {
	cv.cache.components = collectComponents(world.Stats())
	sortComponents(cv.cache.components, cv.cache.sortColumn, cv.cache.ascending)
}

func collectComponents(stats ecs.WorldStats) []ComponentInfo {
	components := make([]ComponentInfo, 0, len(stats.Components))
	for _, s := range stats.Components {
		fields := s.Component.Fields()
		summary := "marker"
		if len(fields) > 0 {
			summary = fmt.Sprint(fields)
		}
		components = append(components, ComponentInfo{
			ID:          s.Component.ID(),
			Name:        s.Component.Name(),
			Fields:      summary,
			FieldCount:  len(fields),
			EntityCount: s.Count,
		})
	}
	return components
}

func sortComponents(components []ComponentInfo, column int, ascending bool) {
	sort.SliceStable(components, func(i, j int) bool {
		a, b := components[i], components[j]
		var order int

		switch column {
		case 0:
			order = cmp.Compare(a.Name, b.Name)
		case 1:
			order = cmp.Compare(a.Fields, b.Fields)
		case 2:
			order = cmp.Compare(a.FieldCount, b.FieldCount)
		default:
			order = cmp.Compare(a.EntityCount, b.EntityCount)
		}

		if !ascending {
			return order > 0
		}
		return order < 0
	})
}
