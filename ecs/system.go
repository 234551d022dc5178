package ecs

// System represents a behavior that runs once per tick.
// A system struct may declare *Query fields tagged with the components they
// select, which the scheduler builds on registration:
//
//	type Movement struct {
//		Moving *ecs.Query `ecs:"with=Position,Velocity;without=Static"`
//		Spawned *ecs.Query `ecs:"with=Position;notify"`
//	}
//
// The notify option makes the scheduler poll the query's enter and exit
// listeners after every tick.
type System interface {
	Execute(frame *UpdateFrame)
}
