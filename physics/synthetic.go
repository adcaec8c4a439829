package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// ShapeKind discriminates the collider shapes the synthetic backend models.
type ShapeKind uint8

const (
	ShapePlane ShapeKind = iota
	ShapeBox
	ShapeSphere
)

// planeExtent is the half-size of the finite quad used to approximate an
// infinite plane collider. Builds are always bounded to a padded cell range
// (§4.9), so anything this large behaves as infinite for our purposes.
const planeExtent = float32(1e5)

type transformComp struct {
	Position rl.Vector3
	Velocity rl.Vector3 // world-space, units/second; zero for static colliders
}

type shapeComp struct {
	Kind        ShapeKind
	Normal      rl.Vector3 // plane only, unit length
	HalfExtents rl.Vector3 // box only
	Radius      float32    // sphere only
}

type layerComp struct {
	Mask uint32
}

type colliderIDComp struct {
	ID uint64
}

// Handle identifies a collider previously added to a Synthetic scene. A
// collider's velocity is fixed when it is added (AddKinematicBox for a
// moving platform).
type Handle struct {
	entity ecs.Entity
	id     uint64
}

// Synthetic is an in-memory Port implementation backed by an ark ECS world,
// the way the teacher's systems package holds all simulation state as ark
// components rather than a slice of interfaces. It exists for tests,
// property checks, and the demo CLI — never for production use (§1, §4.2).
type Synthetic struct {
	world  *ecs.World
	mapper *ecs.Map4[transformComp, shapeComp, layerComp, colliderIDComp]
	filter *ecs.Filter4[transformComp, shapeComp, layerComp, colliderIDComp]

	// transformMap is a second view over the same world used to resolve a
	// single entity's transform by ID (Transform/IsStatic below), the way
	// the teacher's spatial.go keeps a dedicated *ecs.Map1[Position] query
	// view alongside its filter for point lookups.
	transformMap *ecs.Map1[transformComp]
	colliders    map[uint64]ecs.Entity

	nextColliderID uint64
	pendingDT      float32 // accumulated time since the last SyncTransforms
}

// NewSynthetic creates an empty synthetic scene.
func NewSynthetic() *Synthetic {
	world := ecs.NewWorld()
	return &Synthetic{
		world:        world,
		mapper:       ecs.NewMap4[transformComp, shapeComp, layerComp, colliderIDComp](world),
		filter:       ecs.NewFilter4[transformComp, shapeComp, layerComp, colliderIDComp](world),
		transformMap: ecs.NewMap1[transformComp](world),
		colliders:    make(map[uint64]ecs.Entity),
	}
}

func (s *Synthetic) add(t transformComp, sh shapeComp, layer uint32) Handle {
	s.nextColliderID++
	id := colliderIDComp{ID: s.nextColliderID}
	l := layerComp{Mask: layer}
	entity := s.mapper.NewEntity(&t, &sh, &l, &id)
	s.colliders[id.ID] = entity
	return Handle{entity: entity, id: id.ID}
}

// Transform implements physics.TransformProvider. Synthetic colliders never
// rotate, so the reported forward direction is always +Z; callers that carry
// rotation (Controller's rotateWithColliders) see a constant heading against
// this backend.
func (s *Synthetic) Transform(colliderID uint64) (position, forward rl.Vector3, ok bool) {
	entity, found := s.colliders[colliderID]
	if !found {
		return rl.Vector3{}, rl.Vector3{}, false
	}
	t := s.transformMap.Get(entity)
	return t.Position, rl.Vector3{X: 0, Y: 0, Z: 1}, true
}

// IsStatic implements physics.VelocityProvider.
func (s *Synthetic) IsStatic(colliderID uint64) bool {
	entity, found := s.colliders[colliderID]
	if !found {
		return true
	}
	t := s.transformMap.Get(entity)
	return t.Velocity == (rl.Vector3{})
}

// AddPlane adds a (conceptually infinite) flat collider through point with
// the given outward unit normal.
func (s *Synthetic) AddPlane(point, normal rl.Vector3, layer uint32) Handle {
	return s.add(transformComp{Position: point}, shapeComp{Kind: ShapePlane, Normal: rl.Vector3Normalize(normal)}, layer)
}

// AddBox adds an axis-aligned box collider centered at center.
func (s *Synthetic) AddBox(center, halfExtents rl.Vector3, layer uint32) Handle {
	return s.add(transformComp{Position: center}, shapeComp{Kind: ShapeBox, HalfExtents: halfExtents}, layer)
}

// AddKinematicBox is AddBox for a collider that translates at velocity
// units/second once Advance+SyncTransforms are called (§8 scenario 6).
func (s *Synthetic) AddKinematicBox(center, halfExtents, velocity rl.Vector3, layer uint32) Handle {
	return s.add(transformComp{Position: center, Velocity: velocity}, shapeComp{Kind: ShapeBox, HalfExtents: halfExtents}, layer)
}

// AddSphere adds a sphere collider.
func (s *Synthetic) AddSphere(center rl.Vector3, radius float32, layer uint32) Handle {
	return s.add(transformComp{Position: center}, shapeComp{Kind: ShapeSphere, Radius: radius}, layer)
}

// Advance accumulates dt seconds of kinematic motion, applied on the next
// SyncTransforms call. Tests and the demo CLI call this to simulate time
// passing for moving platforms; it is not part of the Port interface.
func (s *Synthetic) Advance(dt float32) {
	s.pendingDT += dt
}

// SyncTransforms applies any accumulated kinematic motion and resets the
// pending-time accumulator, satisfying Port's sync contract.
func (s *Synthetic) SyncTransforms() {
	if s.pendingDT == 0 {
		return
	}
	dt := s.pendingDT
	s.pendingDT = 0

	query := s.filter.Query()
	for query.Next() {
		transform, _, _, _ := query.Get()
		if transform.Velocity == (rl.Vector3{}) {
			continue
		}
		transform.Position = rl.Vector3Add(transform.Position, rl.Vector3Scale(transform.Velocity, dt))
	}
}

// RaycastDown implements Port.
func (s *Synthetic) RaycastDown(origin rl.Vector3, maxDistance float32, layerMask uint32) (Hit, bool) {
	ray := rl.Ray{Position: origin, Direction: rl.Vector3{X: 0, Y: -1, Z: 0}}

	var (
		best    Hit
		found   bool
		bestDst = maxDistance
	)

	query := s.filter.Query()
	for query.Next() {
		transform, shape, layer, id := query.Get()
		if layer.Mask&layerMask == 0 {
			continue
		}

		collision, ok := s.castAgainst(ray, *transform, *shape)
		if !ok || collision.Distance < 0 || collision.Distance > bestDst {
			continue
		}

		best = Hit{
			Point:      collision.Point,
			Normal:     collision.Normal,
			ColliderID: id.ID,
			Layer:      layer.Mask,
			Distance:   collision.Distance,
		}
		bestDst = collision.Distance
		found = true
	}

	return best, found
}

func (s *Synthetic) castAgainst(ray rl.Ray, t transformComp, sh shapeComp) (rl.RayCollision, bool) {
	switch sh.Kind {
	case ShapePlane:
		p1, p2, p3, p4 := planeQuad(t.Position, sh.Normal)
		c := rl.GetRayCollisionQuad(ray, p1, p2, p3, p4)
		return c, c.Hit
	case ShapeBox:
		box := rl.BoundingBox{
			Min: rl.Vector3Subtract(t.Position, sh.HalfExtents),
			Max: rl.Vector3Add(t.Position, sh.HalfExtents),
		}
		c := rl.GetRayCollisionBox(ray, box)
		return c, c.Hit
	case ShapeSphere:
		c := rl.GetRayCollisionSphere(ray, t.Position, sh.Radius)
		return c, c.Hit
	default:
		return rl.RayCollision{}, false
	}
}

// planeQuad builds a large finite quad lying in the plane through point with
// unit normal, used to approximate an infinite plane for raycasting.
func planeQuad(point, normal rl.Vector3) (p1, p2, p3, p4 rl.Vector3) {
	up := rl.Vector3{X: 0, Y: 1, Z: 0}
	if absF(normal.Y) > 0.99 {
		up = rl.Vector3{X: 1, Y: 0, Z: 0}
	}
	tangent := rl.Vector3Normalize(rl.Vector3CrossProduct(up, normal))
	bitangent := rl.Vector3Normalize(rl.Vector3CrossProduct(normal, tangent))

	t := rl.Vector3Scale(tangent, planeExtent)
	b := rl.Vector3Scale(bitangent, planeExtent)

	// Wound so that raylib's triangle normal (edge1 x edge2) equals +normal.
	p1 = rl.Vector3Subtract(rl.Vector3Subtract(point, t), b)
	p2 = rl.Vector3Subtract(rl.Vector3Add(point, t), b)
	p3 = rl.Vector3Add(rl.Vector3Add(point, t), b)
	p4 = rl.Vector3Add(rl.Vector3Subtract(point, t), b)
	return
}

// CapsuleOccupied implements Port. The closest-point geometry for each shape
// kind is hand-written: no example/pack library exposes capsule-vs-primitive
// overlap tests (see DESIGN.md), though the capsule's segment+radius
// representation follows the same shape the viamrobotics-rdk spatialmath
// capsule geometry uses.
func (s *Synthetic) CapsuleOccupied(pointA, pointB rl.Vector3, radius float32, layerMask uint32) bool {
	query := s.filter.Query()
	for query.Next() {
		transform, shape, layer, _ := query.Get()
		if layer.Mask&layerMask == 0 {
			continue
		}
		if segmentOverlapsShape(pointA, pointB, radius, *transform, *shape) {
			return true
		}
	}
	return false
}

func segmentOverlapsShape(a, b rl.Vector3, radius float32, t transformComp, sh shapeComp) bool {
	switch sh.Kind {
	case ShapePlane:
		da := rl.Vector3DotProduct(rl.Vector3Subtract(a, t.Position), sh.Normal)
		db := rl.Vector3DotProduct(rl.Vector3Subtract(b, t.Position), sh.Normal)
		if da*db <= 0 {
			return true // segment crosses the plane
		}
		return minF(absF(da), absF(db)) < radius
	case ShapeSphere:
		cp := closestPointOnSegment(a, b, t.Position)
		return rl.Vector3Distance(cp, t.Position) < radius+sh.Radius
	case ShapeBox:
		box := rl.BoundingBox{
			Min: rl.Vector3Subtract(t.Position, sh.HalfExtents),
			Max: rl.Vector3Add(t.Position, sh.HalfExtents),
		}
		return segmentToBoxDistance(a, b, box) < radius
	default:
		return false
	}
}

// closestPointOnSegment returns the point on segment ab closest to p.
func closestPointOnSegment(a, b, p rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	lenSq := rl.Vector3DotProduct(ab, ab)
	if lenSq < 1e-12 {
		return a
	}
	t := rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab) / lenSq
	t = clamp01(t)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

func closestPointOnBox(p rl.Vector3, box rl.BoundingBox) rl.Vector3 {
	return rl.Vector3{
		X: clampF(p.X, box.Min.X, box.Max.X),
		Y: clampF(p.Y, box.Min.Y, box.Max.Y),
		Z: clampF(p.Z, box.Min.Z, box.Max.Z),
	}
}

// segmentToBoxDistance estimates the distance between segment ab and box by
// alternating closest-point projections (each set is convex, so the
// projections converge quickly), the same fixed-point technique GJK-style
// narrow-phase tests use.
func segmentToBoxDistance(a, b rl.Vector3, box rl.BoundingBox) float32 {
	point := rl.Vector3Lerp(a, b, 0.5)
	for i := 0; i < 8; i++ {
		boxPoint := closestPointOnBox(point, box)
		segPoint := closestPointOnSegment(a, b, boxPoint)
		if rl.Vector3Distance(segPoint, point) < 1e-6 {
			point = segPoint
			break
		}
		point = segPoint
	}
	return rl.Vector3Distance(point, closestPointOnBox(point, box))
}

func clamp01(v float32) float32 { return clampF(v, 0, 1) }

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func absF(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}
