package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/excess/ecs"
)

// refreshFrames bounds how long the browser shows stale component lists
// while the entity count stays the same.
const refreshFrames = 30

type EntityInfo struct {
	Entity         ecs.Entity
	ComponentIDs   []ecs.ComponentID
	ComponentNames []string
}

type EntityBrowserCache struct {
	entities        []EntityInfo
	lastEntityCount int
	framesSinceLoad int
	sortColumn      int
	sortAscending   bool
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(world *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(world)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterComponent = nil
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.reload(world)
	}

	filteredEntities := filterEntities(eb.cache.entities, eb.filterText, eb.filterComponent)
	if eb.currentPage*eb.maxEntitiesPerPage >= len(filteredEntities) {
		eb.currentPage = 0
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, -30), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Version")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selected == entity.Entity
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.Entity.ID()), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.Entity
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.Entity.Version()))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentNames, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.ComponentIDs)))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// FilterByComponent limits the browser to entities carrying the component.
// A nil id clears the filter.
func (eb *EntityBrowser) FilterByComponent(id *ecs.ComponentID) {
	eb.filterComponent = id
	eb.currentPage = 0
}

// Selected returns the selected entity. It is the zero Entity until a row
// has been clicked and may have been removed since.
func (eb *EntityBrowser) Selected() ecs.Entity {
	return eb.selected
}

func (eb *EntityBrowser) rebuildCacheIfNeeded(world *ecs.World) {
	eb.cache.framesSinceLoad++
	if eb.cache.lastEntityCount != world.Len() || eb.cache.framesSinceLoad >= refreshFrames {
		eb.cache.entities = nil
	}

	if eb.cache.entities == nil {
		eb.reload(world)
	}
}

func (eb *EntityBrowser) reload(world *ecs.World) {
	eb.cache.entities = collectEntities(world)
	eb.cache.lastEntityCount = world.Len()
	eb.cache.framesSinceLoad = 0
	sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
}

func collectEntities(world *ecs.World) []EntityInfo {
	components := world.Manager().Components()
	entities := make([]EntityInfo, 0, world.Len())

	for _, e := range world.Entities() {
		info := EntityInfo{Entity: e}
		for _, c := range components {
			if c.Has(e) {
				info.ComponentIDs = append(info.ComponentIDs, c.ID())
				info.ComponentNames = append(info.ComponentNames, c.Name())
			}
		}
		entities = append(entities, info)
	}

	return entities
}

func sortEntities(entities []EntityInfo, column int, ascending bool) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		var order int

		switch column {
		case 1:
			order = cmp.Compare(a.Entity.Version(), b.Entity.Version())
		case 2:
			order = cmp.Compare(strings.Join(a.ComponentNames, ","), strings.Join(b.ComponentNames, ","))
		case 3:
			order = cmp.Compare(len(a.ComponentIDs), len(b.ComponentIDs))
		default:
			order = cmp.Compare(a.Entity.ID(), b.Entity.ID())
		}

		if !ascending {
			return order > 0
		}
		return order < 0
	})
}

func filterEntities(entities []EntityInfo, text string, component *ecs.ComponentID) []EntityInfo {
	if text == "" && component == nil {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		if component != nil && !slices.Contains(entity.ComponentIDs, *component) {
			continue
		}

		if text != "" {
			idStr := fmt.Sprintf("%d", entity.Entity.ID())
			componentsStr := strings.ToLower(strings.Join(entity.ComponentNames, " "))

			if !strings.Contains(idStr, filterLower) && !strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}
