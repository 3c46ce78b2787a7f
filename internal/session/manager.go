package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/greenread/backend/internal/config"
	"github.com/greenread/backend/internal/models"
	"github.com/greenread/backend/internal/putt"
	"github.com/greenread/backend/internal/store"
)

// Redis key layout.
const (
	greenKeyPrefix = "green:" // serialized field JSON
	planKeyPrefix  = "plan:"  // session summary JSON
	expiryZSet     = "plan_expiry"
	eventsChannel  = "plan_events"
)

var ErrGreenExpired = errors.New("green field not in cache; rebuild it from fresh samples")

// RendererFactory produces a renderer bound to one session, so viewers of
// that session receive the winning path. Set by the websocket layer at
// startup; defaults to no rendering.
type RendererFactory func(sessionToken string) putt.Renderer

// PlanManager owns planning sessions: it builds and caches terrain fields,
// runs the planner with per-session search state, and persists results.
type PlanManager struct {
	db  *sqlx.DB
	rdb *redis.Client
	cfg *config.Config

	mu          sync.RWMutex
	active      map[string]bool // session tokens currently running
	newRenderer RendererFactory
}

// Manager is the process-wide plan manager, set by InitializeManager.
var Manager *PlanManager

// InitializeManager creates the global manager.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = &PlanManager{
		db:     db,
		rdb:    rdb,
		cfg:    cfg,
		active: make(map[string]bool),
	}
	log.Println("[PLAN] Plan manager initialized")
}

// SetRendererFactory wires the websocket render streamer in.
func (m *PlanManager) SetRendererFactory(f RendererFactory) {
	m.mu.Lock()
	m.newRenderer = f
	m.mu.Unlock()
}

func newToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in serious trouble
		panic(fmt.Sprintf("token generation failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// GreenSummary is returned to the caller after a field build.
type GreenSummary struct {
	Token    string  `json:"token"`
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	Coverage float64 `json:"coverage"`
}

// BuildGreen builds a terrain field from scanned samples, caches it, and
// records its metadata.
func (m *PlanManager) BuildGreen(ctx context.Context, start, target putt.Vec3, samples []putt.Vec3, resolution, width float64) (*GreenSummary, error) {
	if resolution <= 0 {
		resolution = m.cfg.GridResolutionM
	}
	if width <= 0 {
		width = m.cfg.GridWidthM
	}

	provider := &putt.SampleProvider{Samples: samples, MaxRange: 2 * resolution}
	field := putt.BuildField(start, target, provider, resolution, width)
	coverage := putt.Coverage(field)

	token := newToken()
	g := &models.Green{
		Token:  token,
		StartX: start.X, StartY: start.Y, StartZ: start.Z,
		TargetX: target.X, TargetY: target.Y, TargetZ: target.Z,
		Rows:       field.Rows(),
		Cols:       field.Cols(),
		Resolution: resolution,
		Coverage:   coverage,
	}
	if err := store.InsertGreen(m.db, g); err != nil {
		return nil, fmt.Errorf("insert green: %w", err)
	}

	if err := m.cacheField(ctx, token, field); err != nil {
		return nil, err
	}

	log.Printf("[PLAN] Green %s built: %dx%d cells, coverage=%.2f", token, field.Rows(), field.Cols(), coverage)
	return &GreenSummary{Token: token, Rows: field.Rows(), Cols: field.Cols(), Coverage: coverage}, nil
}

// RefreshGreen re-queries heights from fresh samples over the cached field
// and updates the stored coverage.
func (m *PlanManager) RefreshGreen(ctx context.Context, token string, samples []putt.Vec3) (*GreenSummary, error) {
	field, err := m.LoadField(ctx, token)
	if err != nil {
		return nil, err
	}

	provider := &putt.SampleProvider{Samples: samples, MaxRange: 2 * field.Resolution()}
	field.RefreshHeights(provider)
	coverage := putt.Coverage(field)

	if err := m.cacheField(ctx, token, field); err != nil {
		return nil, err
	}
	if err := store.UpdateGreenCoverage(m.db, token, coverage); err != nil {
		log.Printf("[PLAN] coverage update failed for green %s: %v", token, err)
	}
	return &GreenSummary{Token: token, Rows: field.Rows(), Cols: field.Cols(), Coverage: coverage}, nil
}

func (m *PlanManager) cacheField(ctx context.Context, token string, field *putt.Field) error {
	data, err := json.Marshal(field)
	if err != nil {
		return fmt.Errorf("marshal field: %w", err)
	}
	ttl := time.Duration(m.cfg.FieldCacheTTLMinutes) * time.Minute
	if err := m.rdb.Set(ctx, greenKeyPrefix+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache field: %w", err)
	}
	return nil
}

// LoadField fetches a cached field by green token.
func (m *PlanManager) LoadField(ctx context.Context, token string) (*putt.Field, error) {
	data, err := m.rdb.Get(ctx, greenKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrGreenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("load field: %w", err)
	}
	var field putt.Field
	if err := json.Unmarshal(data, &field); err != nil {
		return nil, fmt.Errorf("decode field: %w", err)
	}
	return &field, nil
}

// PlanSummary is the caller-facing result of a planning run.
type PlanSummary struct {
	Token          string      `json:"token"`
	Success        bool        `json:"success"`
	ShotCount      int         `json:"shot_count"`
	BoostCount     int         `json:"boost_count"`
	BestDistance   float64     `json:"best_distance"`
	BestTrajectory []putt.Vec3 `json:"best_trajectory"`
	Shots          []putt.Shot `json:"-"`
}

// RunPlan creates a session over a green and executes the full multi-shot
// search synchronously. Fresh simulator and finder state per session keeps
// runs independent and deterministic.
func (m *PlanManager) RunPlan(ctx context.Context, greenToken string, speed putt.GreenSpeed, maxShots int) (*PlanSummary, error) {
	green, err := store.GetGreenByToken(m.db, greenToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("green %s not found", greenToken)
		}
		return nil, fmt.Errorf("lookup green: %w", err)
	}

	field, err := m.LoadField(ctx, greenToken)
	if err != nil {
		return nil, err
	}

	if !speed.Valid() {
		speed = putt.GreenSpeed(m.cfg.DefaultGreenSpeed)
	}
	if maxShots <= 0 {
		maxShots = m.cfg.MaxShots
	}

	token := newToken()
	sess := &models.PlanSession{
		Token:      token,
		GreenID:    green.ID,
		GreenSpeed: string(speed),
		MaxShots:   maxShots,
		Status:     models.SessionPending,
		ExpiresAt:  time.Now().Add(time.Duration(m.cfg.SessionExpiryMinutes) * time.Minute),
	}
	if err := store.InsertSession(m.db, sess); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	m.rdb.ZAdd(ctx, expiryZSet, redis.Z{Score: float64(sess.ExpiresAt.Unix()), Member: token})

	m.mu.Lock()
	m.active[token] = true
	renderer := m.newRenderer
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.active, token)
		m.mu.Unlock()
	}()

	sim := putt.NewSimulator(field, speed)
	finder := putt.NewPathFinder()
	planner := putt.NewPlanner(sim, finder, field, maxShots)
	if renderer != nil {
		planner.Renderer = renderer(token)
	}

	start, target := field.Start(), field.Target()
	started := time.Now()
	shots := planner.PlanShots(start, target)
	log.Printf("[PLAN] Session %s: %d attempts, %d boosts in %s", token, len(shots), planner.TotalBoosts(), time.Since(started).Round(time.Millisecond))

	summary := &PlanSummary{Token: token, ShotCount: len(shots), BoostCount: planner.TotalBoosts(), Shots: shots}
	if best, ok := planner.Best(); ok {
		summary.Success = best.Success
		summary.BestTrajectory = best.Trajectory
		if closest, ok := best.ClosestApproach(); ok {
			summary.BestDistance = closest.PlanarDistance(target)
		}
	}

	if err := store.InsertShots(m.db, sess.ID, target, shots, start); err != nil {
		log.Printf("[PLAN] Session %s: persisting shots failed: %v", token, err)
	}
	if err := store.CompleteSession(m.db, sess.ID, len(shots), planner.TotalBoosts(), summary.Success, summary.BestDistance); err != nil {
		log.Printf("[PLAN] Session %s: completing failed: %v", token, err)
	}

	m.cacheSummary(ctx, summary)
	m.publishComplete(ctx, summary)
	return summary, nil
}

// RunSingleShot executes one adaptive attempt over a green at the given
// power scale, without creating a session.
func (m *PlanManager) RunSingleShot(ctx context.Context, greenToken string, speed putt.GreenSpeed, powerScale float64) (*putt.Shot, error) {
	field, err := m.LoadField(ctx, greenToken)
	if err != nil {
		return nil, err
	}
	if !speed.Valid() {
		speed = putt.GreenSpeed(m.cfg.DefaultGreenSpeed)
	}

	sim := putt.NewSimulator(field, speed)
	finder := putt.NewPathFinder()
	if powerScale <= 0 {
		powerScale = putt.InitialPower(field.Start(), field.Target(), field, speed)
	}
	shot := putt.FindBestShot(field.Start(), field.Target(), sim, finder, field, powerScale)
	return &shot, nil
}

func (m *PlanManager) cacheSummary(ctx context.Context, s *PlanSummary) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("[PLAN] summary marshal failed: %v", err)
		return
	}
	ttl := time.Duration(m.cfg.SessionExpiryMinutes) * time.Minute
	if err := m.rdb.Set(ctx, planKeyPrefix+s.Token, data, ttl).Err(); err != nil {
		log.Printf("[PLAN] summary cache failed: %v", err)
	}
}

func (m *PlanManager) publishComplete(ctx context.Context, s *PlanSummary) {
	payload := map[string]interface{}{
		"type":          "plan_complete",
		"session_token": s.Token,
		"success":       s.Success,
		"shot_count":    s.ShotCount,
		"best_distance": s.BestDistance,
	}
	b, _ := json.Marshal(payload)
	if n, err := m.rdb.Publish(ctx, eventsChannel, b).Result(); err != nil {
		log.Printf("[PLAN] publish plan_complete failed for %s: %v", s.Token, err)
	} else {
		log.Printf("[PLAN] published plan_complete for %s (subscribers=%d)", s.Token, n)
	}
}

// CachedSummary fetches a completed session summary from Redis.
func (m *PlanManager) CachedSummary(ctx context.Context, token string) (*PlanSummary, error) {
	data, err := m.rdb.Get(ctx, planKeyPrefix+token).Bytes()
	if err != nil {
		return nil, err
	}
	var s PlanSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// IsActive reports whether a session is currently computing.
func (m *PlanManager) IsActive(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[token]
}
