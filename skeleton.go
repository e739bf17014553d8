package skel

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"
)

// DefaultInterval is the tick length in seconds used when no interval is set.
const DefaultInterval = 0.1

// clockEpsilon absorbs floating-point drift when comparing the clock against
// end-times.
const clockEpsilon = 0.001

// Motion is one segment of the skeleton's whole-assembly track.
type Motion struct {
	Target Transform // total motion to reach by End
	End    float64   // absolute end-time in seconds
	Step   Transform // per-tick increment
}

// Skeleton is an animated assembly: one root Bone plus a track of rigid
// motion applied to the whole tree.
//
// A Skeleton is driven by a single timer callback. Nothing else may mutate
// it while an animation is running.
type Skeleton struct {
	name   string
	scene  Scene
	sched  Scheduler
	group  Definition
	placed Instance

	interval  float64
	tolerance float64

	root      *Bone
	track     []Motion
	maxPeriod float64

	start     float64
	ticks     int
	instanced bool

	mu       sync.Mutex // guards timer handoff between Animate and the callback
	timer    TimerID
	running  bool
	finished bool
	err      error
	done     chan struct{}

	logger     *slog.Logger
	sink       EventSink
	debug      bool
	boneIDs    uint32
	placements []Placement
}

// Option configures a Skeleton at construction.
type Option func(*Skeleton)

// WithInterval sets the tick length in seconds. It must be positive.
func WithInterval(seconds float64) Option {
	return func(s *Skeleton) {
		s.interval = seconds
	}
}

// WithLogger sets the logger used for lifecycle and per-tick debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Skeleton) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventSink forwards instancing, tick and finish events to sink.
func WithEventSink(sink EventSink) Option {
	return func(s *Skeleton) {
		s.sink = sink
	}
}

// WithDebug enables tree sanity warnings while bones are added.
func WithDebug(enabled bool) Option {
	return func(s *Skeleton) {
		s.debug = enabled
	}
}

// NewSkeleton creates a skeleton and its grouping definition in scene. sched
// may be nil when the caller steps the animation with Tick.
func NewSkeleton(name string, scene Scene, sched Scheduler, opts ...Option) (*Skeleton, error) {
	if scene == nil {
		return nil, fmt.Errorf("skeleton %q: nil scene: %w", name, ErrInvalidArgument)
	}
	s := &Skeleton{
		name:     name,
		scene:    scene,
		sched:    sched,
		interval: DefaultInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !(s.interval > 0) || math.IsInf(s.interval, 0) {
		return nil, fmt.Errorf("skeleton %q: interval %v: %w", name, s.interval, ErrInvalidArgument)
	}
	s.tolerance = math.Min(clockEpsilon, s.interval/2)

	group, err := scene.NewGroup(name)
	if err != nil {
		return nil, fmt.Errorf("skel: create group %q: %w", name, err)
	}
	s.group = group
	return s, nil
}

// SetRoot creates the root bone showing def. It fails with
// ErrInvalidArgument, leaving the skeleton untouched, if def is not a shape
// definition of the scene. Calling SetRoot again replaces the previous root.
func (s *Skeleton) SetRoot(def Definition, opts ...BoneOption) (*Bone, error) {
	if def == nil || !s.scene.IsDefinition(def) {
		return nil, fmt.Errorf("skeleton %q: root must be a shape definition, got %T: %w", s.name, def, ErrInvalidArgument)
	}
	if s.root != nil && s.debug {
		s.logger.Warn("replacing root bone", "skeleton", s.name, "old", s.root.Name)
	}
	s.root = newBone(s, nil, def, opts)
	return s.root, nil
}

// AddKeyframe appends a whole-assembly motion. t is the total motion to reach
// by endSeconds; it is stored as the per-tick increment obtained by
// interpolating from the identity toward t by interval/endSeconds.
func (s *Skeleton) AddKeyframe(t Transform, endSeconds float64) {
	fraction := 0.0
	if endSeconds > 0 {
		fraction = s.interval / endSeconds
	}
	s.track = append(s.track, Motion{
		Target: t,
		End:    endSeconds,
		Step:   Interpolate(Identity(), t, fraction),
	})
	if endSeconds > s.maxPeriod {
		s.maxPeriod = endSeconds
	}
}

// --- Instancing phase ---

// Instantiate runs the instancing pass: every bone, parents first, is placed
// in the skeleton's group at its rest transform, its joint is moved into the
// placed frame and its track is normalized into per-tick steps. It runs at
// most once; a collaborator failure stops the pass where it happened.
func (s *Skeleton) Instantiate() error {
	if s.root == nil {
		return ErrNoRoot
	}
	if s.instanced {
		return ErrAlreadyInstanced
	}
	s.instanced = true
	if err := s.createInstance(s.root); err != nil {
		return err
	}
	s.logger.Debug("instanced", "skeleton", s.name, "max_period", s.maxPeriod)
	s.emit(Event{Type: EventInstanced})
	return nil
}

func (s *Skeleton) createInstance(b *Bone) error {
	if err := b.bind(s.scene, s.group); err != nil {
		return err
	}
	b.normalizeTrack(s.interval)
	if n := len(b.track); n > 0 && b.track[n-1].End > s.maxPeriod {
		s.maxPeriod = b.track[n-1].End
	}
	for _, child := range b.children {
		if err := s.createInstance(child); err != nil {
			return err
		}
	}
	return nil
}

// --- Stepping phase ---

// Animate instances the skeleton, places its group at the top level of the
// scene and starts a repeating timer that calls Tick every interval until
// the animation completes. startTime offsets the clock; segments that end
// before it are skipped.
func (s *Skeleton) Animate(startTime float64) error {
	if s.sched == nil {
		return fmt.Errorf("skeleton %q: no scheduler: %w", s.name, ErrInvalidArgument)
	}
	if s.root == nil {
		return ErrNoRoot
	}
	if s.instanced {
		return ErrAlreadyInstanced
	}
	s.start = startTime
	if err := s.Instantiate(); err != nil {
		return err
	}
	placed, err := s.scene.CreateInstance(s.group, Identity(), nil)
	if err != nil {
		return fmt.Errorf("skel: place group %q: %w", s.name, err)
	}
	s.placed = placed

	s.mu.Lock()
	s.running = true
	s.timer = s.sched.StartTimer(s.intervalDuration(), s.onTick)
	s.mu.Unlock()

	s.logger.Info("animation started", "skeleton", s.name,
		"interval", s.interval, "max_period", s.maxPeriod, "start", startTime)
	return nil
}

func (s *Skeleton) onTick() {
	done, err := s.Tick()
	if err != nil {
		s.logger.Error("tick failed", "skeleton", s.name, "tick", s.ticks, "err", err)
	}
	if !done {
		return
	}
	s.mu.Lock()
	if s.running {
		s.running = false
		s.sched.StopTimer(s.timer)
	}
	s.mu.Unlock()
}

// Tick advances the animation by one interval and reports whether it is
// complete. The tick that first finds the clock past the longest track
// completes the animation without moving anything; later calls return true
// immediately.
func (s *Skeleton) Tick() (done bool, err error) {
	if s.finished {
		return true, s.err
	}
	if !s.instanced {
		return false, ErrNotInstanced
	}
	if s.Clock()+s.tolerance > s.maxPeriod {
		s.finish(nil)
		return true, nil
	}

	s.ticks++
	clock := s.Clock()

	t := Identity()
	if m, ok := s.activeMotion(clock); ok {
		t = m.Step.Mul4(t)
	}

	s.placements = s.placements[:0]
	if err := s.animateKernel(s.root, t, clock); err != nil {
		s.finish(err)
		return true, err
	}

	s.logger.Debug("tick", "skeleton", s.name, "tick", s.ticks, "clock", clock, "placements", len(s.placements))
	s.emit(Event{Type: EventTick, Placements: s.placements})
	return false, nil
}

// animateKernel moves b's joint by the inherited per-tick transform t, adds
// the active keyframe's rotation about that joint, accumulates the result into
// b's pose and passes the combined transform on to the children.
func (s *Skeleton) animateKernel(b *Bone, t Transform, clock float64) error {
	b.joint = TransformPoint(b.joint, t)

	if k, ok := b.activeKeyframe(clock, s.tolerance); ok {
		t = Rotation(b.joint, k.Axis, k.Step).Mul4(t)
	}

	b.pose = t.Mul4(b.pose)
	inst, ok := b.Instance()
	if !ok {
		return fmt.Errorf("skel: bone %q not instanced: %w", b.Name, ErrNotInstanced)
	}
	if err := s.scene.SetInstanceTransform(inst, b.pose); err != nil {
		return fmt.Errorf("skel: place bone %q at tick %d: %w", b.Name, s.ticks, err)
	}
	s.placements = append(s.placements, Placement{Bone: b, Transform: b.pose, Joint: b.joint})

	for _, child := range b.children {
		if err := s.animateKernel(child, t, clock); err != nil {
			return err
		}
	}
	return nil
}

// activeMotion returns the first motion whose end-time has not passed.
func (s *Skeleton) activeMotion(clock float64) (Motion, bool) {
	for _, m := range s.track {
		if clock <= m.End+s.tolerance {
			return m, true
		}
	}
	return Motion{}, false
}

func (s *Skeleton) finish(err error) {
	if s.finished {
		return
	}
	s.finished = true
	s.err = err
	if err != nil {
		s.logger.Error("animation aborted", "skeleton", s.name, "tick", s.ticks, "err", err)
	} else {
		s.logger.Info("animation finished", "skeleton", s.name, "ticks", s.ticks, "clock", s.Clock())
	}
	s.emit(Event{Type: EventFinished, Err: err})
	close(s.done)
}

func (s *Skeleton) intervalDuration() time.Duration {
	return time.Duration(math.Round(s.interval * float64(time.Second)))
}

func (s *Skeleton) nextBoneID() uint32 {
	s.boneIDs++
	return s.boneIDs
}

// --- Accessors ---

// Name returns the skeleton's name.
func (s *Skeleton) Name() string {
	return s.name
}

// Root returns the root bone, or nil before SetRoot.
func (s *Skeleton) Root() *Bone {
	return s.root
}

// Group returns the definition the bones are placed into.
func (s *Skeleton) Group() Definition {
	return s.group
}

// Placed returns the top-level instance of the group created by Animate, or
// nil before Animate.
func (s *Skeleton) Placed() Instance {
	return s.placed
}

// Interval returns the tick length in seconds.
func (s *Skeleton) Interval() float64 {
	return s.interval
}

// Clock returns the elapsed animation time in seconds.
func (s *Skeleton) Clock() float64 {
	return s.start + float64(s.ticks)*s.interval
}

// Ticks returns the number of ticks that moved the skeleton.
func (s *Skeleton) Ticks() int {
	return s.ticks
}

// MaxPeriod returns the latest end-time across all normalized tracks.
func (s *Skeleton) MaxPeriod() float64 {
	return s.maxPeriod
}

// Track returns the whole-assembly motions. The returned slice MUST NOT be mutated by the caller.
func (s *Skeleton) Track() []Motion {
	return s.track
}

// Done is closed when the animation completes or aborts.
func (s *Skeleton) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that aborted the animation, if any. Only meaningful
// after Done is closed.
func (s *Skeleton) Err() error {
	return s.err
}
