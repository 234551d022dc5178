package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/excess/ecs"
)

// maxListedMatches caps the entity list shown for an ad-hoc query.
const maxListedMatches = 50

type QueryDebuggerCache struct {
	matches       []ecs.Entity
	lastSelection string
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{
		with:    make(map[ecs.ComponentID]bool),
		without: make(map[ecs.ComponentID]bool),
		cache:   &QueryDebuggerCache{},
	}
}

func (qd *QueryDebugger) Render(world *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if imgui.TreeNodeStr(fmt.Sprintf("Defined Queries (%d)", len(world.Queries()))) {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("DefinedQueryTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Query")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, q := range world.Queries() {
				imgui.TableNextRow()
				imgui.TableSetColumnIndex(0)
				imgui.Text(q.String())
				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("%d", q.Count()))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.Separator()
	imgui.Text("Select Component Types:")

	if imgui.Button("Clear All") {
		qd.with = make(map[ecs.ComponentID]bool)
		qd.without = make(map[ecs.ComponentID]bool)
	}

	components := world.Manager().Components()
	const selectFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("QuerySelectTable", 3, selectFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("With")
		imgui.TableSetupColumn("Without")
		imgui.TableHeadersRow()

		for _, c := range components {
			imgui.TableNextRow()
			imgui.TableSetColumnIndex(0)
			imgui.Text(c.Name())

			imgui.TableSetColumnIndex(1)
			with := qd.with[c.ID()]
			if imgui.Checkbox("##with."+c.Name(), &with) {
				qd.toggle(qd.with, qd.without, c.ID(), with)
			}

			imgui.TableSetColumnIndex(2)
			without := qd.without[c.ID()]
			if imgui.Checkbox("##without."+c.Name(), &without) {
				qd.toggle(qd.without, qd.with, c.ID(), without)
			}
		}

		imgui.EndTable()
	}

	imgui.Separator()

	with, without := qd.selection(components)
	if len(with) == 0 {
		imgui.Text("No required component types selected")
		imgui.End()
		return
	}

	key := selectionKey(with, without)
	refresh := imgui.Button("Refresh")
	if refresh || key != qd.cache.lastSelection {
		qd.cache.matches = matchEntities(world, with, without)
		qd.cache.lastSelection = key
	}

	imgui.Text(key)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(qd.cache.matches)))

	if imgui.TreeNodeStr("Matching Entity Details") {
		for i, e := range qd.cache.matches {
			if i == maxListedMatches {
				imgui.Text(fmt.Sprintf("... %d more", len(qd.cache.matches)-maxListedMatches))
				break
			}
			imgui.BulletText(e.String())
		}
		imgui.TreePop()
	}

	imgui.End()
}

// toggle sets id in set and clears it from other, since a component cannot be
// both required and excluded.
func (qd *QueryDebugger) toggle(set, other map[ecs.ComponentID]bool, id ecs.ComponentID, on bool) {
	if on {
		set[id] = true
		delete(other, id)
	} else {
		delete(set, id)
	}
}

func (qd *QueryDebugger) selection(components []*ecs.Component) (with, without []*ecs.Component) {
	for _, c := range components {
		switch {
		case qd.with[c.ID()]:
			with = append(with, c)
		case qd.without[c.ID()]:
			without = append(without, c)
		}
	}
	return with, without
}

func selectionKey(with, without []*ecs.Component) string {
	key := "with " + joinNames(with)
	if len(without) > 0 {
		key += "; without " + joinNames(without)
	}
	return key
}

func joinNames(components []*ecs.Component) string {
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name()
	}
	return strings.Join(names, ",")
}

// matchEntities evaluates a selection without registering a query in the
// world.
func matchEntities(world *ecs.World, with, without []*ecs.Component) []ecs.Entity {
	var matches []ecs.Entity
	for _, e := range world.Entities() {
		if matchesAll(e, with) && !matchesAny(e, without) {
			matches = append(matches, e)
		}
	}
	return matches
}

func matchesAll(e ecs.Entity, components []*ecs.Component) bool {
	for _, c := range components {
		if !c.Has(e) {
			return false
		}
	}
	return true
}

func matchesAny(e ecs.Entity, components []*ecs.Component) bool {
	for _, c := range components {
		if c.Has(e) {
			return true
		}
	}
	return false
}
