package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/ecs"
)

// 测试辅助函数

type levelFixture struct {
	ls       *LevelSystem
	clock    *fakeClock
	sink     *recordingSink
	assets   *fakeAssets
	outcomes []OutcomeReport
}

// newLevelFixture 创建关卡系统测试环境
// 关卡 "l1" 刷出一个 "a"（速度 1，伤害 damage），时长 4 秒；下一关为 "l2"
func newLevelFixture(t *testing.T, damage int) *levelFixture {
	t.Helper()

	a := newTestTarget("a", 1)
	a.Damage = damage
	a.Sounds.Spawn = []config.SoundRef{{Path: "spawn.wav"}}
	a.Sounds.Hurt = []config.SoundRef{{Path: "hurt.wav", Volume: 0.5}}

	levels := []*config.LevelConfig{
		{
			ID:      "l1",
			Name:    "Level 1",
			Next:    "l2",
			Enemies: map[string]config.SpawnEntry{"a": {Count: 1}},
			Track:   config.TrackConfig{Path: "track1.mp3", Volume: 0.4},
		},
		{
			ID:      "l2",
			Name:    "Level 2",
			Enemies: map[string]config.SpawnEntry{"a": {Count: 3, Interval: 500}},
		},
	}

	f := &levelFixture{
		clock:  newFakeClock(),
		sink:   &recordingSink{},
		assets: newFakeAssets(100, 100),
	}
	f.ls = NewLevelSystem(config.NewCatalog(levels, []*config.TargetTypeConfig{a}), f.assets, f.sink, f.clock.Now, rand.New(rand.NewSource(42)))
	f.ls.SetOutcomeListener(OutcomeListenerFunc(func(r OutcomeReport) {
		f.outcomes = append(f.outcomes, r)
	}))
	return f
}

// step 推进真实时间后执行一帧
func (f *levelFixture) step(seconds float64) *FrameSnapshot {
	f.clock.Advance(seconds)
	return f.ls.Frame()
}

func TestLevelSystem_LoadUnknownLevel(t *testing.T) {
	f := newLevelFixture(t, 10)

	err := f.ls.Load("missing")
	if !errors.Is(err, config.ErrInvalidLevelReference) {
		t.Errorf("Expected ErrInvalidLevelReference, got %v", err)
	}
	if f.ls.State() != StateIdle {
		t.Errorf("Expected state to stay idle, got %v", f.ls.State())
	}
	if f.ls.Frame() != nil {
		t.Error("Expected no frame without a loaded level")
	}
}

func TestLevelSystem_LoadStartsRun(t *testing.T) {
	f := newLevelFixture(t, 10)
	if err := f.ls.Load("l1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.ls.State() != StateLoading {
		t.Errorf("Expected loading state, got %v", f.ls.State())
	}

	s := f.ls.Session()
	if s.Run.Duration != 4 {
		t.Errorf("Expected duration 4, got %v", s.Run.Duration)
	}

	snap := f.ls.Frame()
	if snap == nil {
		t.Fatal("Expected first frame")
	}
	if f.ls.State() != StatePlaying {
		t.Errorf("Expected playing after first frame, got %v", f.ls.State())
	}
	if s.Run.ElapsedTime != config.NominalFrameTime {
		t.Errorf("Expected nominal first frame, got %v", s.Run.ElapsedTime)
	}
	if f.ls.Targets().Count() != 1 {
		t.Errorf("Expected target spawned at t=0, got %d", f.ls.Targets().Count())
	}
	if snap.HUD.Health != "100 HP" || snap.HUD.Score != "000000 PTS" {
		t.Errorf("Unexpected HUD: %+v", snap.HUD)
	}

	music, ok := f.sink.last(SoundMusic)
	if !ok || music.Path != "track1.mp3" || music.Volume != 0.4 {
		t.Errorf("Expected level track request, got %+v", music)
	}
	if f.sink.count(SoundSpawn) != 1 {
		t.Errorf("Expected 1 spawn sound, got %d", f.sink.count(SoundSpawn))
	}
	spawn, _ := f.sink.last(SoundSpawn)
	if spawn.Volume != 0.05 || spawn.Pitch < 0.9 || spawn.Pitch >= 1.1 {
		t.Errorf("Unexpected spawn sound parameters: %+v", spawn)
	}
}

func TestLevelSystem_ExpiryDamagesThenWins(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l1")
	f.ls.Frame()

	for i := 0; i < 7; i++ {
		f.step(0.5)
	}
	s := f.ls.Session()
	// 经过 ~3.52 秒，目标已超时
	if s.Player.Health != 90 {
		t.Errorf("Expected 90 health after timeout, got %d", s.Player.Health)
	}
	if f.ls.Targets().Count() != 0 {
		t.Errorf("Expected expired target removed, got %d", f.ls.Targets().Count())
	}
	if f.sink.count(SoundPlayerHurt) != 1 {
		t.Errorf("Expected 1 player hurt sound, got %d", f.sink.count(SoundPlayerHurt))
	}
	if f.ls.State() != StatePlaying {
		t.Fatalf("Expected still playing, got %v", f.ls.State())
	}

	f.step(0.5)
	if f.ls.State() != StateWon {
		t.Fatalf("Expected won after duration, got %v", f.ls.State())
	}
	if len(f.outcomes) != 1 {
		t.Fatalf("Expected 1 outcome report, got %d", len(f.outcomes))
	}
	report := f.outcomes[0]
	if report.Result != components.OutcomeWon || !report.HasNext || report.NextLevelID != "l2" {
		t.Errorf("Unexpected report: %+v", report)
	}
	if music, _ := f.sink.last(SoundMusic); music.Path != config.MusicWin {
		t.Errorf("Expected win track, got %+v", music)
	}
	if f.ls.PrimaryActionLevel() != "l2" {
		t.Errorf("Expected primary action to load l2, got %q", f.ls.PrimaryActionLevel())
	}
	if f.ls.Scheduler().Pending() != 0 {
		t.Errorf("Expected scheduler stopped, got %d pending", f.ls.Scheduler().Pending())
	}

	// 结束后继续跑帧不会重复结算
	f.step(0.5)
	f.step(0.5)
	if len(f.outcomes) != 1 {
		t.Errorf("Expected outcome reported once, got %d", len(f.outcomes))
	}
	snap := f.ls.LastSnapshot()
	if snap.BackgroundAlpha != 0.1 || snap.EndTintAlpha < 0.4 {
		t.Errorf("Unexpected end overlays: bg=%v tint=%v", snap.BackgroundAlpha, snap.EndTintAlpha)
	}
}

// 同一帧内致命超时与时长耗尽同时发生时，判负优先
func TestLevelSystem_LethalTimeoutBeatsWinInSameFrame(t *testing.T) {
	f := newLevelFixture(t, 100)
	f.ls.SetDefaultTimescale(2)
	f.ls.Load("l1")

	f.ls.Frame()
	f.step(1) // ~2.02
	if f.ls.State() != StatePlaying {
		t.Fatalf("Expected playing, got %v", f.ls.State())
	}
	f.step(1) // ~4.02：目标超时且时长耗尽

	if f.ls.State() != StateLost {
		t.Fatalf("Expected lost, got %v", f.ls.State())
	}
	if len(f.outcomes) != 1 || f.outcomes[0].Result != components.OutcomeLost {
		t.Errorf("Expected a single lost report, got %+v", f.outcomes)
	}
	if f.ls.Session().Player.Health != 0 {
		t.Errorf("Expected 0 health, got %d", f.ls.Session().Player.Health)
	}
	if f.ls.PrimaryActionLevel() != "l1" {
		t.Errorf("Expected retry of l1, got %q", f.ls.PrimaryActionLevel())
	}
}

func TestLevelSystem_DamageResolvesSynchronously(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l1")
	f.ls.Frame()

	f.ls.Damage(250)
	s := f.ls.Session()
	if s.Player.Health != 0 {
		t.Errorf("Expected health floored at 0, got %d", s.Player.Health)
	}
	if f.ls.State() != StateLost || !s.Run.IsResolved() {
		t.Fatalf("Expected lost immediately, got %v", f.ls.State())
	}

	lastHurt := s.Player.LastHurtTime
	f.step(0.1)
	f.ls.Damage(10)
	if s.Player.Health != 0 || s.Player.LastHurtTime != lastHurt {
		t.Error("Expected damage after resolution to be a no-op")
	}
	if f.ls.CheckWin() {
		t.Error("Expected no win after loss")
	}

	if f.ls.Fire() {
		t.Error("Expected fire to be rejected after loss")
	}
	if f.sink.count(SoundFire) != 0 {
		t.Error("Expected no fire sound after loss")
	}
	if f.sink.count(SoundLose) != 1 {
		t.Errorf("Expected 1 lose sound, got %d", f.sink.count(SoundLose))
	}
}

func TestLevelSystem_DamageShakesCamera(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l1")
	f.ls.Frame()

	s := f.ls.Session()
	s.Recoil.X.Velocity, s.Recoil.Y.Velocity, s.Recoil.Rot.Velocity = 0, 0, 0
	f.ls.Damage(50)

	if s.Recoil.X.Velocity == 0 && s.Recoil.Y.Velocity == 0 && s.Recoil.Rot.Velocity == 0 {
		t.Error("Expected damage to impulse the recoil springs")
	}
	// scale = 50/100·10 = 5，冲量不超过 5·200
	for _, v := range []float64{s.Recoil.X.Velocity, s.Recoil.Y.Velocity, s.Recoil.Rot.Velocity} {
		if v < -1000 || v > 1000 {
			t.Errorf("Impulse %v out of range", v)
		}
	}
	if s.Player.LastHurtTime != s.Run.ElapsedTime {
		t.Error("Expected last hurt time recorded")
	}

	// 音效请求在下一帧统一发出
	f.step(0.01)
	hurt, _ := f.sink.last(SoundPlayerHurt)
	if hurt.Volume != 0.7 {
		t.Errorf("Expected hurt volume 0.7, got %v", hurt.Volume)
	}
}

func TestLevelSystem_FireKillsTargetAndScores(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l1")
	f.ls.Frame()
	f.step(1)

	s := f.ls.Session()
	order := f.ls.Targets().Order()
	if len(order) != 1 {
		t.Fatalf("Expected 1 target, got %d", len(order))
	}
	box, _ := ecs.GetComponent[*components.CollisionComponent](s.EntityManager, order[0])
	f.ls.SetPointerTarget(box.X+box.Width/2, box.Y+box.Height/2)

	if !f.ls.Fire() {
		t.Fatal("Expected fire at box center to hit")
	}
	if s.Run.GunLastFire != s.Run.ElapsedTime {
		t.Error("Expected gun fire time recorded")
	}

	snap := f.step(1.0 / 60)
	if f.ls.Targets().Count() != 0 {
		t.Errorf("Expected killed target removed, got %d", f.ls.Targets().Count())
	}
	if s.Player.TargetScore != 100 {
		t.Errorf("Expected score 100, got %d", s.Player.TargetScore)
	}
	if s.Player.DisplayedScore <= 0 || s.Player.DisplayedScore > 100 {
		t.Errorf("Expected displayed score counting up, got %d", s.Player.DisplayedScore)
	}
	if snap.Gun.Image != config.GunRecoilImage {
		t.Errorf("Expected recoil sprite right after firing, got %s", snap.Gun.Image)
	}
	if !snap.HasFlash {
		t.Error("Expected muzzle flash in the frame after firing")
	}
	if len(snap.Shells) != 1 {
		t.Errorf("Expected 1 shell, got %d", len(snap.Shells))
	}

	for _, kind := range []SoundKind{SoundFire, SoundTargetHurt, SoundKill} {
		if f.sink.count(kind) != 1 {
			t.Errorf("Expected 1 %v sound, got %d", kind, f.sink.count(kind))
		}
	}
	hurt, _ := f.sink.last(SoundTargetHurt)
	if hurt.Path != "hurt.wav" || !almostEqual(hurt.Volume, 0.2) {
		t.Errorf("Expected hurt.wav at 0.4·0.5, got %+v", hurt)
	}
}

func TestLevelSystem_MissStillRecoils(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l1")
	f.ls.Frame()

	f.ls.SetPointerTarget(1, 1)
	s := f.ls.Session()
	s.Recoil.Y.Velocity = 0
	if f.ls.Fire() {
		t.Error("Expected miss at canvas corner")
	}
	if s.Recoil.Y.Velocity != config.GunRecoilImpulse {
		t.Errorf("Expected vertical recoil %v, got %v", config.GunRecoilImpulse, s.Recoil.Y.Velocity)
	}

	// 画布外的指针位置被忽略
	f.ls.SetPointerTarget(-5, 10)
	if s.Pointer.TargetX != 1 {
		t.Errorf("Expected out-of-canvas pointer ignored, got %v", s.Pointer.TargetX)
	}
}

// 重新加载后除弹簧外的所有状态都回到初始值
func TestLevelSystem_ReloadResetsEverything(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l2")
	f.ls.Frame()
	f.step(0.6)
	f.ls.Fire()
	f.ls.Damage(30)
	f.step(0.1)

	s := f.ls.Session()
	if s.Run.ElapsedTime == 0 || f.ls.Targets().Count() == 0 {
		t.Fatal("Expected a run in progress before reload")
	}

	if err := f.ls.Load("l2"); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if s.Player.Health != config.PlayerMaxHealth {
		t.Errorf("Expected full health, got %d", s.Player.Health)
	}
	if s.Player.TargetScore != 0 || s.Player.DisplayedScore != 0 {
		t.Errorf("Expected scores reset, got %d / %d", s.Player.TargetScore, s.Player.DisplayedScore)
	}
	if s.Run.ElapsedTime != 0 || s.Run.IsResolved() {
		t.Errorf("Expected fresh run, got %+v", s.Run)
	}
	if f.ls.Targets().Count() != 0 || s.EntityManager.Count() != 0 {
		t.Errorf("Expected no entities, got %d targets / %d entities", f.ls.Targets().Count(), s.EntityManager.Count())
	}
	if f.ls.Scheduler().Pending() != 4 {
		t.Errorf("Expected full schedule (3 spawns + deadline), got %d", f.ls.Scheduler().Pending())
	}
	if f.ls.State() != StateLoading {
		t.Errorf("Expected loading, got %v", f.ls.State())
	}

	f.ls.Frame()
	if s.Run.ElapsedTime != config.NominalFrameTime {
		t.Errorf("Expected nominal first frame after reload, got %v", s.Run.ElapsedTime)
	}
}

func TestLevelSystem_FocusSuspendsFrames(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l1")
	f.ls.Frame()
	f.step(0.1)

	s := f.ls.Session()
	before := s.Run.ElapsedTime

	f.ls.SetFocused(false)
	if f.step(5) != nil {
		t.Error("Expected no frame while unfocused")
	}
	if s.Run.ElapsedTime != before {
		t.Errorf("Expected time frozen, got %v -> %v", before, s.Run.ElapsedTime)
	}

	f.ls.SetFocused(true)
	f.step(0.1)
	if !almostEqual(s.Run.ElapsedTime, before+0.1) {
		t.Errorf("Expected only 0.1s to pass after refocus, got %v", s.Run.ElapsedTime-before)
	}
}

func TestLevelSystem_TimescaleAffectsPitch(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.SetDefaultTimescale(2)
	f.ls.Load("l1")
	f.ls.Frame()

	f.ls.Fire()
	f.step(0.01)

	fire, ok := f.sink.last(SoundFire)
	if !ok {
		t.Fatal("Expected fire sound")
	}
	if fire.Pitch < 2 || fire.Pitch >= 2.2 {
		t.Errorf("Expected pitch scaled into [2, 2.2), got %v", fire.Pitch)
	}
}

func TestLevelSystem_Unload(t *testing.T) {
	f := newLevelFixture(t, 10)
	f.ls.Load("l2")
	f.ls.Frame()

	f.ls.Unload()
	if f.ls.State() != StateIdle {
		t.Errorf("Expected idle, got %v", f.ls.State())
	}
	if f.ls.Frame() != nil {
		t.Error("Expected no frames after unload")
	}
	if music, _ := f.sink.last(SoundMusic); music.Path != "" {
		t.Errorf("Expected music stop request, got %+v", music)
	}
	if f.ls.Scheduler().Pending() != 0 {
		t.Errorf("Expected scheduler stopped, got %d", f.ls.Scheduler().Pending())
	}
}

func TestLevelSystem_SkipsMissingTargetTypes(t *testing.T) {
	a := newTestTarget("a", 1)
	level := &config.LevelConfig{
		ID:      "l1",
		Enemies: map[string]config.SpawnEntry{"a": {Count: 1}, "ghost": {Count: 2}},
	}
	ls := NewLevelSystem(newTestCatalog(level, a), newFakeAssets(10, 10), nil, newFakeClock().Now, rand.New(rand.NewSource(1)))

	if err := ls.Load("l1"); err != nil {
		t.Fatalf("Expected load to succeed despite missing type, got %v", err)
	}
	ls.Frame()
	if ls.Targets().Count() != 1 {
		t.Errorf("Expected only the known type to spawn, got %d", ls.Targets().Count())
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatHealth(7); got != "007 HP" {
		t.Errorf("FormatHealth = %q", got)
	}
	if got := FormatCountdown(5.1234); got != "ETA: 05.123 SECONDS" {
		t.Errorf("FormatCountdown = %q", got)
	}
	if got := FormatCountdown(-1); got != "ETA: 00.000 SECONDS" {
		t.Errorf("FormatCountdown negative = %q", got)
	}
	if got := FormatScore(150); got != "000150 PTS" {
		t.Errorf("FormatScore = %q", got)
	}
}

func TestOverlayAlphas(t *testing.T) {
	player := &components.PlayerComponent{Health: 50, MaxHealth: 100, LastHurtTime: 10}
	run := &components.RunComponent{ElapsedTime: 10.25}

	if got := BackgroundAlpha(player, run); got != 0.5 {
		t.Errorf("Expected background alpha 0.5, got %v", got)
	}
	if got := HurtAlpha(player, 10.25); got != 0.75 {
		t.Errorf("Expected hurt alpha 0.75, got %v", got)
	}
	if got := HurtAlpha(player, 20); got != 0.5 {
		t.Errorf("Expected hurt alpha floor 0.5, got %v", got)
	}
	if got := EndTintAlpha(run); got != 0 {
		t.Errorf("Expected no end tint while playing, got %v", got)
	}

	player.Health = 5
	if got := BackgroundAlpha(player, run); got != 0.2 {
		t.Errorf("Expected background alpha floor 0.2, got %v", got)
	}

	run.Outcome = components.OutcomeWon
	run.EndTime = 10.25
	if got := EndTintAlpha(run); got != 1 {
		t.Errorf("Expected full tint at resolution, got %v", got)
	}
	run.ElapsedTime = 20
	if got := EndTintAlpha(run); got != 0.4 {
		t.Errorf("Expected tint floor 0.4, got %v", got)
	}
}
