package debugui

import (
	"github.com/plus3/excess/ecs"
)

type EntityBrowser struct {
	cache              *EntityBrowserCache
	selected           ecs.Entity
	filterText         string
	filterComponent    *ecs.ComponentID
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspector struct {
	selected ecs.Entity
	layouts  *LayoutCache
}

type ComponentViewer struct {
	cache         *ComponentViewerCache
	selectedID    *ecs.ComponentID
	sortColumn    int
	sortAscending bool
}

type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type QueryDebugger struct {
	with    map[ecs.ComponentID]bool
	without map[ecs.ComponentID]bool
	cache   *QueryDebuggerCache
}
