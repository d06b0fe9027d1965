package systems

import (
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/arena/components"
)

// Collision categories. Line-of-sight queries only see obstacles; walls sit
// on the arena boundary where corner waypoints also lie.
const (
	categoryObstacle uint = 1 << iota
	categoryWall
	categoryAgent
)

// PhysicsParams configures the arena physics space.
type PhysicsParams struct {
	Iterations int
	Logger     *slog.Logger
}

// agentMaxForce bounds the steering joint. Contacts are unbounded, so an
// agent driven into a wall stops at its face instead of pushing through.
const agentMaxForce = 2000.0

// agentBody is a dynamic circle dragged toward its control body's velocity
// by a pivot joint with no positional correction.
type agentBody struct {
	body    *cp.Body
	shape   *cp.Shape
	control *cp.Body
	pivot   *cp.Constraint
}

// PhysicsSystem owns the 2-D physics space of the arena floor. Physics X
// maps to world x and physics Y maps to world z.
type PhysicsSystem struct {
	space  *cp.Space
	static []*cp.Shape
	agents map[ecs.Entity]*agentBody
	log    *slog.Logger
}

// NewPhysicsSystem creates an empty space with no gravity.
func NewPhysicsSystem(p PhysicsParams) *PhysicsSystem {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	space := cp.NewSpace()
	if p.Iterations > 0 {
		space.Iterations = uint(p.Iterations)
	}
	return &PhysicsSystem{
		space:  space,
		agents: make(map[ecs.Entity]*agentBody),
		log:    p.Logger,
	}
}

func floorVec(v r3.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

// AddArena adds a static box per obstacle and a segment per wall tile.
func (ps *PhysicsSystem) AddArena(tm *TileMap) {
	obstacles := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categoryObstacle, Mask: cp.ALL_CATEGORIES}
	walls := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categoryWall, Mask: cp.ALL_CATEGORIES}
	for _, o := range tm.Obstacles() {
		hx, hz := o.Size.X/2, o.Size.Z/2
		bb := cp.BB{L: o.Center.X - hx, B: o.Center.Z - hz, R: o.Center.X + hx, T: o.Center.Z + hz}
		ps.addStatic(cp.NewBox2(ps.space.StaticBody, bb, 0), obstacles)
	}
	for _, w := range tm.Walls() {
		half := w.Length / 2
		a, b := cp.Vector{X: w.Center.X - half, Y: w.Center.Z}, cp.Vector{X: w.Center.X + half, Y: w.Center.Z}
		if w.Rotated {
			a, b = cp.Vector{X: w.Center.X, Y: w.Center.Z - half}, cp.Vector{X: w.Center.X, Y: w.Center.Z + half}
		}
		ps.addStatic(cp.NewSegment(ps.space.StaticBody, a, b, w.Thickness/2), walls)
	}
	ps.log.Debug("physics arena added", "static_shapes", len(ps.static))
}

func (ps *PhysicsSystem) addStatic(shape *cp.Shape, filter cp.ShapeFilter) {
	shape.SetFilter(filter)
	shape.SetFriction(0)
	ps.space.AddShape(shape)
	ps.static = append(ps.static, shape)
}

// AddAgent creates a circle body for e at pos.
func (ps *PhysicsSystem) AddAgent(e ecs.Entity, pos r3.Vec, radius float64) {
	if _, ok := ps.agents[e]; ok {
		return
	}
	const mass = 1.0
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(floorVec(pos))

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: categoryAgent, Mask: cp.ALL_CATEGORIES})
	shape.SetFriction(0)

	control := cp.NewKinematicBody()
	control.SetPosition(floorVec(pos))
	pivot := cp.NewPivotJoint2(control, body, cp.Vector{}, cp.Vector{})
	pivot.SetMaxBias(0)
	pivot.SetMaxForce(agentMaxForce * mass)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	ps.space.AddBody(control)
	ps.space.AddConstraint(pivot)
	ps.agents[e] = &agentBody{body: body, shape: shape, control: control, pivot: pivot}
}

// RemoveAgent drops e's body from the space.
func (ps *PhysicsSystem) RemoveAgent(e ecs.Entity) {
	ab, ok := ps.agents[e]
	if !ok {
		return
	}
	ps.space.RemoveConstraint(ab.pivot)
	ps.space.RemoveBody(ab.control)
	ps.space.RemoveShape(ab.shape)
	ps.space.RemoveBody(ab.body)
	delete(ps.agents, e)
}

// SetVelocity sets the planar velocity e steers toward. The body reaches it
// within a few steps unless a contact holds it back.
func (ps *PhysicsSystem) SetVelocity(e ecs.Entity, v components.Velocity) {
	if ab, ok := ps.agents[e]; ok {
		ab.control.SetVelocity(v.X, v.Z)
	}
}

// Teleport moves e's body without simulating the path in between.
func (ps *PhysicsSystem) Teleport(e ecs.Entity, pos r3.Vec) {
	if ab, ok := ps.agents[e]; ok {
		ab.body.SetPosition(floorVec(pos))
		ab.body.SetVelocity(0, 0)
		ab.control.SetPosition(floorVec(pos))
		ab.control.SetVelocity(0, 0)
	}
}

// AgentPosition returns e's floor position.
func (ps *PhysicsSystem) AgentPosition(e ecs.Entity) (r3.Vec, bool) {
	ab, ok := ps.agents[e]
	if !ok {
		return r3.Vec{}, false
	}
	p := ab.body.Position()
	return r3.Vec{X: p.X, Z: p.Y}, true
}

// Step advances the simulation by dt seconds. Agent bodies do not keep
// angular motion.
func (ps *PhysicsSystem) Step(dt float64) {
	ps.space.Step(dt)
	for _, ab := range ps.agents {
		ab.body.SetAngularVelocity(0)
	}
}

// Sync copies body positions into the ECS position components.
func (ps *PhysicsSystem) Sync(posMap *ecs.Map[components.Position]) {
	for e, ab := range ps.agents {
		if !posMap.Has(e) {
			continue
		}
		pos := posMap.Get(e)
		p := ab.body.Position()
		pos.X, pos.Z = p.X, p.Y
	}
}

// Obstructed reports whether an obstacle crosses the floor segment a-b.
func (ps *PhysicsSystem) Obstructed(a, b r3.Vec) bool {
	filter := cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: categoryObstacle}
	info := ps.space.SegmentQueryFirst(floorVec(a), floorVec(b), 0, filter)
	return info.Shape != nil
}

// Dispose removes every shape and body from the space.
func (ps *PhysicsSystem) Dispose() {
	for e := range ps.agents {
		ps.RemoveAgent(e)
	}
	for _, s := range ps.static {
		ps.space.RemoveShape(s)
	}
	ps.static = nil
}
