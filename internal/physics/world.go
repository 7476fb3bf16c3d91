package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/integrators"
	"github.com/san-kum/ragdoll/internal/spatial"
)

// JointKind names the passive joint families the world can build.
type JointKind string

const (
	BallAndSocket JointKind = "ball_and_socket"
	Hinge         JointKind = "hinge"
)

// JointInfo is a read-only view of a created joint.
type JointInfo struct {
	Kind   JointKind
	Child  dynamo.BodyID
	Parent dynamo.BodyID
	Pivot  mgl64.Mat4
	Ball   dynamo.BallSocketParams
	Hinge  dynamo.HingeParams
}

type joint struct {
	JointInfo
	localChild  mgl64.Mat4
	localParent mgl64.Mat4
}

type aggregate struct {
	bodies        []dynamo.BodyID
	selfCollision bool
}

// World is the reference dynamo.World.
type World struct {
	opts        Options
	integrator  dynamo.Integrator
	bodies      []*body
	joints      []*joint
	controllers []*Kinematic
	aggregates  []aggregate
	time        float64
	steps       int
}

var _ dynamo.World = (*World)(nil)

func NewWorld(opts Options) (*World, error) {
	name := opts.Integrator
	if name == "" {
		name = "symplectic"
	}
	integ, err := integrators.ByName(name)
	if err != nil {
		return nil, err
	}
	if opts.ProjectionIterations < 0 {
		return nil, fmt.Errorf("projection iterations must be non-negative, got %d", opts.ProjectionIterations)
	}
	return &World{opts: opts, integrator: integ}, nil
}

func (w *World) get(b dynamo.BodyID) *body {
	if b < 0 || int(b) >= len(w.bodies) {
		panic(fmt.Errorf("%w: %d", dynamo.ErrUnknownBody, b))
	}
	return w.bodies[b]
}

func (w *World) matrixOf(b dynamo.BodyID) mgl64.Mat4 {
	if b == dynamo.NoBody {
		return mgl64.Ident4()
	}
	return w.get(b).matrix
}

// CreateBody creates a dynamic box body. The mass equals massFraction and
// inertia is that of a solid box; the normalizer rescales both later.
func (w *World) CreateBody(shape dynamo.Shape, matrix mgl64.Mat4, massFraction float64, userData any) dynamo.BodyID {
	b := &body{
		shape:     shape,
		matrix:    matrix,
		mass:      boxInertia(massFraction, shape),
		userData:  userData,
		callback:  w.DefaultForceCallback,
		aggregate: -1,
	}
	w.bodies = append(w.bodies, b)
	return dynamo.BodyID(len(w.bodies) - 1)
}

func (w *World) BodyCount() int { return len(w.bodies) }

func (w *World) BodyMatrix(b dynamo.BodyID) mgl64.Mat4 { return w.get(b).matrix }

// SetBodyMatrix teleports a body. Used by tests and scene resets.
func (w *World) SetBodyMatrix(b dynamo.BodyID, m mgl64.Mat4) { w.get(b).matrix = m }

func (w *World) BodyMass(b dynamo.BodyID) dynamo.MassProperties { return w.get(b).mass }

func (w *World) SetBodyMass(b dynamo.BodyID, mp dynamo.MassProperties) { w.get(b).mass = mp }

func (w *World) BodyCentreOfMass(b dynamo.BodyID) mgl64.Vec3 { return w.get(b).com }

func (w *World) BodyOmega(b dynamo.BodyID) mgl64.Vec3 { return w.get(b).omega }

func (w *World) SetBodyOmega(b dynamo.BodyID, omega mgl64.Vec3) { w.get(b).omega = omega }

func (w *World) BodyVelocity(b dynamo.BodyID) mgl64.Vec3 { return w.get(b).vel }

func (w *World) AddBodyForce(b dynamo.BodyID, force mgl64.Vec3) {
	bd := w.get(b)
	bd.force = bd.force.Add(force)
}

func (w *World) BodyUserData(b dynamo.BodyID) any { return w.get(b).userData }

func (w *World) SetForceCallback(b dynamo.BodyID, cb dynamo.ForceCallback) { w.get(b).callback = cb }

func (w *World) Gravity() mgl64.Vec3 { return w.opts.Gravity }

// Time returns the simulated time.
func (w *World) Time() float64 { return w.time }

// DefaultForceCallback clamps the body's angular speed and applies gravity.
// It only touches the body it is handed.
func (w *World) DefaultForceCallback(_ dynamo.World, b dynamo.BodyID, _ float64, _ int) {
	ClampAngularVelocity(w, b, w.opts.MaxOmega)
	ApplyGravity(w, b)
}

// ClampAngularVelocity limits |ω| to maxOmega.
func ClampAngularVelocity(w dynamo.World, b dynamo.BodyID, maxOmega float64) {
	if maxOmega <= 0 {
		return
	}
	omega := w.BodyOmega(b)
	if omega.Dot(omega) > maxOmega*maxOmega {
		w.SetBodyOmega(b, omega.Normalize().Mul(maxOmega))
	}
}

// ApplyGravity adds m·g to the body.
func ApplyGravity(w dynamo.World, b dynamo.BodyID) {
	w.AddBodyForce(b, w.Gravity().Mul(w.BodyMass(b).Mass))
}

func (w *World) CreateBallAndSocket(pivot mgl64.Mat4, child, parent dynamo.BodyID, p dynamo.BallSocketParams) dynamo.JointID {
	return w.addJoint(JointInfo{Kind: BallAndSocket, Child: child, Parent: parent, Pivot: pivot, Ball: p})
}

func (w *World) CreateHinge(pivot mgl64.Mat4, child, parent dynamo.BodyID, p dynamo.HingeParams) dynamo.JointID {
	return w.addJoint(JointInfo{Kind: Hinge, Child: child, Parent: parent, Pivot: pivot, Hinge: p})
}

func (w *World) addJoint(info JointInfo) dynamo.JointID {
	j := &joint{
		JointInfo:   info,
		localChild:  spatial.Relative(info.Pivot, w.matrixOf(info.Child)),
		localParent: spatial.Relative(info.Pivot, w.matrixOf(info.Parent)),
	}
	w.joints = append(w.joints, j)
	return dynamo.JointID(len(w.joints) - 1)
}

// Joints returns a snapshot of every passive joint in creation order.
func (w *World) Joints() []JointInfo {
	out := make([]JointInfo, len(w.joints))
	for i, j := range w.joints {
		out[i] = j.JointInfo
	}
	return out
}

func (w *World) CreateKinematicController(b dynamo.BodyID, attachment mgl64.Mat4, reference dynamo.BodyID, p dynamo.KinematicParams) dynamo.KinematicController {
	k := &Kinematic{
		body:        b,
		reference:   reference,
		params:      p,
		localAttach: spatial.Relative(attachment, w.matrixOf(b)),
		target:      spatial.Relative(attachment, w.matrixOf(reference)),
	}
	w.controllers = append(w.controllers, k)
	return k
}

// Controllers returns every kinematic controller in creation order.
func (w *World) Controllers() []*Kinematic {
	return append([]*Kinematic(nil), w.controllers...)
}

func (w *World) CreateAggregate(bodies []dynamo.BodyID, selfCollision bool) int {
	id := len(w.aggregates)
	w.aggregates = append(w.aggregates, aggregate{bodies: append([]dynamo.BodyID(nil), bodies...), selfCollision: selfCollision})
	for _, b := range bodies {
		w.get(b).aggregate = id
	}
	return id
}

// Aggregate reports the members of an aggregate and whether they collide
// with each other.
func (w *World) Aggregate(id int) ([]dynamo.BodyID, bool) {
	a := w.aggregates[id]
	return append([]dynamo.BodyID(nil), a.bodies...), a.selfCollision
}

// BodyAggregate returns the aggregate a body belongs to, or -1.
func (w *World) BodyAggregate(b dynamo.BodyID) int { return w.get(b).aggregate }

func (w *World) Contacts(b dynamo.BodyID) int { return w.get(b).contacts }

// Step advances the world by dt.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}

	for _, b := range w.bodies {
		b.force = mgl64.Vec3{}
	}

	dynamo.ParallelFor(len(w.bodies), 8, w.opts.Workers, func(start, end, worker int) {
		for i := start; i < end; i++ {
			if cb := w.bodies[i].callback; cb != nil {
				cb(w, dynamo.BodyID(i), dt, worker)
			}
		}
	})

	for _, k := range w.controllers {
		w.drive(k, dt)
	}

	for _, b := range w.bodies {
		w.integrate(b, dt)
	}

	for it := 0; it < w.opts.ProjectionIterations; it++ {
		for _, j := range w.joints {
			w.project(j)
		}
	}

	w.collideGround()

	w.time += dt
	w.steps++

	for i, b := range w.bodies {
		if !dynamo.State(b.matrix[:]).IsValid() {
			return fmt.Errorf("%w: %v", dynamo.ErrInvalidState, dynamo.SimError{
				Time: w.time, Step: w.steps, Message: fmt.Sprintf("body %d", i),
			})
		}
	}
	return nil
}

func (w *World) integrate(b *body, dt float64) {
	if b.static() {
		return
	}
	p := spatial.Position(b.matrix)
	acc := b.force.Mul(1 / b.mass.Mass)
	x := dynamo.State{p.X(), p.Y(), p.Z(), b.vel.X(), b.vel.Y(), b.vel.Z()}
	next := w.integrator.Step(linearMotion{}, x, dynamo.Control{acc.X(), acc.Y(), acc.Z()}, w.time, dt)
	b.vel = mgl64.Vec3{next[3], next[4], next[5]}

	q, _ := spatial.Decompose(b.matrix)
	angle := b.omega.Len() * dt
	if angle > 1e-12 {
		q = mgl64.QuatRotate(angle, b.omega.Normalize()).Mul(q)
	}
	b.matrix = spatial.Compose(q, mgl64.Vec3{next[0], next[1], next[2]})
}

// drive changes the controlled body's velocities so that its attachment
// frame reaches the target, capped by the controller's friction limits.
func (w *World) drive(k *Kinematic, dt float64) {
	b := w.get(k.body)
	if b.static() {
		return
	}
	desired := w.matrixOf(k.reference).Mul4(k.target)
	current := b.matrix.Mul4(k.localAttach)

	linErr := spatial.Position(desired).Sub(spatial.Position(current))
	dv := linErr.Mul(1 / dt).Sub(b.vel)
	maxDv := k.params.MaxLinearFriction / b.mass.Mass * dt
	if l := dv.Len(); l > maxDv && l > 0 {
		dv = dv.Mul(maxDv / l)
	}
	b.vel = b.vel.Add(dv)

	qd, _ := spatial.Decompose(desired)
	qc, _ := spatial.Decompose(current)
	axis, angle := axisAngle(qd.Mul(qc.Inverse()))
	wantOmega := axis.Mul(angle / dt)
	if k.params.Mode == dynamo.LinearAndTwist {
		pin := spatial.RotateVector(desired, mgl64.Vec3{1, 0, 0})
		wantOmega = pin.Mul(wantOmega.Dot(pin)).Add(b.omega.Sub(pin.Mul(b.omega.Dot(pin))))
	}
	dw := wantOmega.Sub(b.omega)
	inertia := (b.mass.Ixx + b.mass.Iyy + b.mass.Izz) / 3
	if inertia > 0 {
		maxDw := k.params.MaxAngularFriction / inertia * dt
		if l := dw.Len(); l > maxDw && l > 0 {
			dw = dw.Mul(maxDw / l)
		}
	}
	b.omega = b.omega.Add(dw)
}

func axisAngle(q mgl64.Quat) (mgl64.Vec3, float64) {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	s := q.V.Len()
	if s < 1e-12 {
		return mgl64.Vec3{1, 0, 0}, 0
	}
	return q.V.Mul(1 / s), 2 * math.Atan2(s, q.W)
}

// project moves child and parent so their pivots coincide, weighted by
// inverse mass.
func (w *World) project(j *joint) {
	child := w.get(j.Child)
	childPivot := spatial.Position(child.matrix.Mul4(j.localChild))
	parentPivot := spatial.Position(w.matrixOf(j.Parent).Mul4(j.localParent))
	delta := parentPivot.Sub(childPivot)

	invC := inverseMass(child)
	invP := 0.0
	var parent *body
	if j.Parent != dynamo.NoBody {
		parent = w.get(j.Parent)
		invP = inverseMass(parent)
	}
	total := invC + invP
	if total == 0 {
		return
	}
	child.matrix = spatial.WithPosition(child.matrix, spatial.Position(child.matrix).Add(delta.Mul(invC/total)))
	if parent != nil {
		parent.matrix = spatial.WithPosition(parent.matrix, spatial.Position(parent.matrix).Sub(delta.Mul(invP/total)))
	}
}

func inverseMass(b *body) float64 {
	if b.static() {
		return 0
	}
	return 1 / b.mass.Mass
}

func (w *World) collideGround() {
	for _, b := range w.bodies {
		b.contacts = 0
		if b.static() {
			continue
		}
		lowest := math.Inf(1)
		for _, c := range b.corners() {
			lowest = math.Min(lowest, c.Y())
		}
		depth := w.opts.GroundHeight - lowest
		if depth <= 0 {
			continue
		}
		b.contacts = 1
		p := spatial.Position(b.matrix)
		b.matrix = spatial.WithPosition(b.matrix, p.Add(mgl64.Vec3{0, depth, 0}))
		v := b.vel
		if v.Y() < 0 {
			v[1] = 0
		}
		v[0] *= 1 - w.opts.GroundFriction
		v[2] *= 1 - w.opts.GroundFriction
		b.vel = v
	}
}
