package systems

import (
	"log"
	"math/rand"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/ecs"
)

// LevelCatalog 关卡系统需要的目录查询
type LevelCatalog interface {
	TargetLookup
	Level(id string) (*config.LevelConfig, error)
}

// LevelSystem 关卡状态机，驱动一局游戏的完整生命周期
//
// 职责：
//   - 加载关卡：重置会话、排期刷怪、切换关卡音乐
//   - 每帧按固定顺序推进各子系统并生成 FrameSnapshot
//   - 处理开火、玩家受伤、胜负判定
//   - 关卡结束时通知 OutcomeListener
//
// 帧内顺序：时间源 → 后坐力弹簧 → 准星平滑 → 刷怪 → 目标更新与移除
// → 胜利判定 → 分数滚动 → 生成绘制数据与音效 → 悬停检测。
//
// 状态转换：
//
//	Idle ──Load──▶ Loading ──首帧──▶ Playing ──生命归零──▶ Lost
//	                                    └────时长耗尽────▶ Won
//	任意状态 ──Load──▶ Loading；任意状态 ──Unload──▶ Idle
type LevelSystem struct {
	session  *GameSession
	catalog  LevelCatalog
	assets   AssetSource
	sounds   SoundSink
	outcomes OutcomeListener

	time      *TimeSource
	scheduler *SpawnScheduler
	targets   *TargetSystem
	hits      *HitDetector
	score     *ScoreAnimator
	effects   *EffectSystem

	state            LevelState
	loopRunning      bool
	parallax         bool
	defaultTimescale float64

	pendingSounds []SoundRequest
	snapshot      *FrameSnapshot
}

// NewLevelSystem 创建关卡系统
//
// 参数：
//   - catalog: 关卡与目标类型目录
//   - assets: 贴图尺寸查询（可为 nil）
//   - sounds: 音效播放端（可为 nil）
//   - clock: 时钟（nil 时使用 time.Now）
//   - rng: 随机源（nil 时自动创建）
func NewLevelSystem(catalog LevelCatalog, assets AssetSource, sounds SoundSink, clock Clock, rng *rand.Rand) *LevelSystem {
	session := NewGameSession(rng)
	em := session.EntityManager

	ls := &LevelSystem{
		session:          session,
		catalog:          catalog,
		assets:           assets,
		sounds:           sounds,
		time:             NewTimeSource(clock),
		score:            NewScoreAnimator(),
		state:            StateIdle,
		parallax:         true,
		defaultTimescale: 1,
	}
	ls.targets = NewTargetSystem(em, assets)
	ls.hits = NewHitDetector(em, ls.targets)
	ls.effects = NewEffectSystem(em, assets)
	ls.scheduler = NewSpawnScheduler(ls.spawnTarget)
	return ls
}

// SetOutcomeListener 设置关卡结果监听者
func (ls *LevelSystem) SetOutcomeListener(l OutcomeListener) {
	ls.outcomes = l
}

// SetCameraParallax 开关镜头视差
func (ls *LevelSystem) SetCameraParallax(enabled bool) {
	ls.parallax = enabled
}

// SetDefaultTimescale 设置每次加载关卡时恢复的时间缩放系数
func (ls *LevelSystem) SetDefaultTimescale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	ls.defaultTimescale = scale
}

// SetTimescale 立即修改当前关卡的时间缩放系数
func (ls *LevelSystem) SetTimescale(scale float64) {
	ls.time.SetTimescale(scale)
}

// Timescale 返回当前时间缩放系数
func (ls *LevelSystem) Timescale() float64 {
	return ls.time.Timescale()
}

// Session 返回会话状态（只读使用）
func (ls *LevelSystem) Session() *GameSession {
	return ls.session
}

// State 返回当前状态
func (ls *LevelSystem) State() LevelState {
	return ls.state
}

// Targets 返回目标系统
func (ls *LevelSystem) Targets() *TargetSystem {
	return ls.targets
}

// Scheduler 返回刷怪调度器
func (ls *LevelSystem) Scheduler() *SpawnScheduler {
	return ls.scheduler
}

// LastSnapshot 返回最近一帧的绘制数据（可能为 nil）
func (ls *LevelSystem) LastSnapshot() *FrameSnapshot {
	return ls.snapshot
}

// Load 加载（或重新加载）关卡
//
// 关卡ID不存在时返回包装了 config.ErrInvalidLevelReference 的错误，当前状态不变。
// 刷怪表中引用不存在的目标类型只会跳过对应条目并记录日志，不影响加载。
// 后坐力弹簧不重置，上一局的余震会延续到新关卡。
func (ls *LevelSystem) Load(levelID string) error {
	level, err := ls.catalog.Level(levelID)
	if err != nil {
		log.Printf("[LevelSystem] Load rejected: %v", err)
		return err
	}

	ls.scheduler.Stop()
	ls.targets.Clear()
	ls.effects.Clear()
	ls.session.reset(level)
	ls.pendingSounds = nil
	ls.snapshot = nil

	duration, err := ls.scheduler.Start(level, ls.catalog)
	if err != nil {
		log.Printf("[LevelSystem] Level %s loaded with skipped spawns: %v", level.ID, err)
	}
	ls.session.Run.Duration = duration

	ls.time.Reset()
	ls.time.SetTimescale(ls.defaultTimescale)

	ls.emit(SoundMusic, level.Track.Path, level.Track.Volume, 1)

	ls.state = StateLoading
	ls.loopRunning = true
	log.Printf("[LevelSystem] Loaded level %s (%s), duration %.3fs", level.ID, level.Name, duration)
	return nil
}

// Unload 离开当前关卡（返回关卡选择）
// 停止刷怪和音乐，清空场上实体，帧循环停止
func (ls *LevelSystem) Unload() {
	if ls.state == StateIdle {
		return
	}
	ls.scheduler.Stop()
	ls.targets.Clear()
	ls.effects.Clear()
	ls.emit(SoundMusic, "", 0, 1)
	ls.flushSounds()

	ls.state = StateIdle
	ls.loopRunning = false
	ls.snapshot = nil
	log.Printf("[LevelSystem] Unloaded level %s", ls.session.Run.LevelID)
}

// SetFocused 转发窗口焦点状态给时间源
func (ls *LevelSystem) SetFocused(focused bool) {
	ls.time.SetFocused(focused)
}

// SetPointerTarget 更新指针位置（画布坐标）
// 指针在画布外或关卡已结束时忽略
func (ls *LevelSystem) SetPointerTarget(x, y float64) {
	if !ls.state.IsActive() {
		return
	}
	if x < 0 || x > config.CanvasWidth || y < 0 || y > config.CanvasHeight {
		return
	}
	ls.session.Pointer.TargetX = x
	ls.session.Pointer.TargetY = y
}

// Fire 在当前指针位置开一枪
//
// 生命值为 0 或关卡已结束时不做任何事。每次开火都会产生后坐力、火光和弹壳，
// 至多命中一个目标（最上层）。
//
// 返回：
//   - bool: 是否命中目标
func (ls *LevelSystem) Fire() bool {
	s := ls.session
	if !ls.state.IsActive() || s.Player.Health == 0 || s.Run.IsResolved() {
		return false
	}

	now := s.Run.ElapsedTime
	s.Run.GunLastFire = now
	ls.emit(SoundFire, config.SoundGunFire, 0.2, 1+s.Rand.Float64()*0.1)

	impulseX := s.Rand.Float64()*2*config.GunRecoilSpreadX - config.GunRecoilSpreadX
	s.Recoil.Kick(impulseX)

	ls.effects.AddFlash(s.Rand)
	gunX, gunY := GunPosition(&s.Pointer, s.Recoil)
	ls.effects.AddShell(gunX, gunY, now, s.Rand)

	id, hit := ls.hits.Fire(s.Pointer.TargetX, s.Pointer.TargetY, now, s.Rand.Float64())
	if !hit {
		return false
	}
	if target, ok := ecs.GetComponent[*components.TargetComponent](s.EntityManager, id); ok {
		ls.emitRandom(SoundTargetHurt, target.Type.Sounds.Hurt, 0.4, 1+s.Rand.Float64()*0.2)
	}
	return true
}

// Damage 对玩家造成伤害
//
// 关卡已结束时无效果。伤害会冲击后坐力弹簧产生屏幕震动，
// 生命值不低于 0；归零时在本次调用内立即判负。
func (ls *LevelSystem) Damage(amount int) {
	s := ls.session
	if !ls.state.IsActive() || s.Run.IsResolved() {
		return
	}

	s.Player.LastHurtTime = s.Run.ElapsedTime

	scale := float64(amount) / float64(s.Player.MaxHealth) * config.HurtShakeScale
	s.Recoil.X.Impulse((s.Rand.Float64()*2 - 1) * scale * config.HurtShakeImpulse)
	s.Recoil.Y.Impulse((s.Rand.Float64()*2 - 1) * scale * config.HurtShakeImpulse)
	s.Recoil.Rot.Impulse((s.Rand.Float64()*2 - 1) * scale * config.HurtShakeImpulse)

	if n := len(config.PlayerHurtSounds); n > 0 {
		ls.emit(SoundPlayerHurt, config.PlayerHurtSounds[s.Rand.Intn(n)], 0.7, 1)
	}

	s.Player.Health -= amount
	if s.Player.Health < 0 {
		s.Player.Health = 0
	}
	if s.Player.Health == 0 {
		ls.resolve(components.OutcomeLost)
	}
}

// CheckWin 时长耗尽且未失败时判定胜利
//
// 返回：
//   - bool: 本次调用是否判定了胜利
func (ls *LevelSystem) CheckWin() bool {
	s := ls.session
	if !ls.state.IsActive() || s.Run.IsResolved() {
		return false
	}
	if s.Run.Duration-s.Run.ElapsedTime > 0 {
		return false
	}
	ls.resolve(components.OutcomeWon)
	return true
}

// resolve 结束关卡：记录结束时间、停止刷怪、切换音乐并通知监听者
func (ls *LevelSystem) resolve(outcome components.Outcome) {
	s := ls.session
	s.Run.Outcome = outcome
	s.Run.EndTime = s.Run.ElapsedTime
	ls.scheduler.Stop()

	report := OutcomeReport{
		Result:  outcome,
		LevelID: s.Level.ID,
		Score:   s.Player.TargetScore,
	}

	if outcome == components.OutcomeWon {
		ls.state = StateWon
		ls.emit(SoundMusic, config.MusicWin, 1, 1)
		ls.emit(SoundWin, config.SoundPlayerWin, 0.5, 1)
		if s.Level.Next != "" {
			report.NextLevelID = s.Level.Next
			report.HasNext = true
		}
	} else {
		ls.state = StateLost
		ls.emit(SoundMusic, config.MusicLose, 1, 1)
		ls.emit(SoundLose, config.SoundPlayerLose, 0.5, 1)
	}

	log.Printf("[LevelSystem] Level %s %s at %.3fs (score %d)", s.Level.ID, outcome, s.Run.EndTime, s.Player.TargetScore)
	if ls.outcomes != nil {
		ls.outcomes.OnOutcome(report)
	}
}

// PrimaryActionLevel 返回结算界面主按钮要加载的关卡
// 胜利且有下一关时进入下一关，否则重玩当前关卡
func (ls *LevelSystem) PrimaryActionLevel() string {
	s := ls.session
	if s.Level == nil {
		return ""
	}
	if ls.state == StateWon && s.Level.Next != "" {
		return s.Level.Next
	}
	return s.Level.ID
}

// OnTargetExpired 目标超时：对玩家造成伤害（关卡结束后无效果）
func (ls *LevelSystem) OnTargetExpired(id ecs.EntityID, target *components.TargetComponent) {
	if ls.session.Run.IsResolved() {
		return
	}
	ls.Damage(target.Type.Damage)
}

// OnTargetKilled 目标被击杀：加分并播放击杀音效（关卡结束后无效果）
func (ls *LevelSystem) OnTargetKilled(id ecs.EntityID, target *components.TargetComponent) {
	s := ls.session
	if s.Run.IsResolved() {
		return
	}
	s.Player.TargetScore += target.Type.Score
	ls.emit(SoundKill, config.SoundTargetKill, 0.5, 0.9+s.Rand.Float64()*0.2)
}

// spawnTarget 刷怪事件回调
func (ls *LevelSystem) spawnTarget(targetType *config.TargetTypeConfig, at float64) {
	s := ls.session
	ls.targets.Spawn(targetType, at, s.Rand.Float64())
	ls.emitRandom(SoundSpawn, targetType.Sounds.Spawn, 0.05, 0.9+s.Rand.Float64()*0.2)
}

// Frame 推进一帧并返回绘制数据
//
// 没有加载关卡或窗口失焦时返回 nil，调用方应继续显示上一帧。
func (ls *LevelSystem) Frame() *FrameSnapshot {
	if !ls.loopRunning || ls.state == StateIdle {
		return nil
	}

	dt := ls.time.NextFrame()
	if ls.time.Waiting() {
		return nil
	}
	if ls.state == StateLoading {
		ls.state = StatePlaying
	}

	s := ls.session
	s.Run.ElapsedTime += dt
	now := s.Run.ElapsedTime

	s.Recoil.Advance(dt)
	UpdatePointer(&s.Pointer, dt)

	ls.scheduler.Advance(now)
	cam := ComputeCamera(&s.Pointer, s.Recoil, ls.parallax)
	ls.targets.Update(now, cam)
	ls.targets.Prune(ls)
	ls.effects.Update(now)

	ls.CheckWin()
	ls.score.Update(&s.Player, &s.Run, dt)

	snap := ls.buildSnapshot(cam)
	ls.flushSounds()
	snap.Hover = ls.hits.Hover(s.Pointer.TargetX, s.Pointer.TargetY)

	ls.snapshot = snap
	return snap
}

// buildSnapshot 汇总本帧的绘制数据
func (ls *LevelSystem) buildSnapshot(cam Camera) *FrameSnapshot {
	s := ls.session
	now := s.Run.ElapsedTime

	snap := &FrameSnapshot{
		LevelID:         s.Level.ID,
		LevelName:       s.Level.Name,
		State:           ls.state,
		Time:            now,
		Camera:          cam,
		Background:      s.Level.Display.Background,
		BackgroundAlpha: BackgroundAlpha(&s.Player, &s.Run),
		HurtAlpha:       HurtAlpha(&s.Player, now),
		EndTintAlpha:    EndTintAlpha(&s.Run),
		Outcome:         s.Run.Outcome,
		SinceEnd:        s.Run.SinceEnd(),
		HasNext:         s.Level.Next != "",
		PointerX:        s.Pointer.TargetX,
		PointerY:        s.Pointer.TargetY,
		HUD: HUDText{
			Health:    FormatHealth(s.Player.Health),
			Countdown: FormatCountdown(s.Run.Remaining()),
			Score:     FormatScore(s.Player.DisplayedScore),
		},
	}

	for _, id := range ls.targets.Order() {
		target, ok := ecs.GetComponent[*components.TargetComponent](s.EntityManager, id)
		if !ok {
			continue
		}
		box, ok := ecs.GetComponent[*components.CollisionComponent](s.EntityManager, id)
		if !ok {
			continue
		}
		if draw, ok := targetDraw(id, target, box, ls.assets, now); ok {
			snap.Targets = append(snap.Targets, draw)
		}
	}

	gunX, gunY := GunPosition(&s.Pointer, s.Recoil)
	snap.Gun = GunDraw{
		Image:    GunImage(&s.Run),
		X:        gunX,
		Y:        gunY,
		Width:    config.CanvasWidth * 0.5,
		Height:   config.CanvasHeight * 0.5,
		Rotation: s.Pointer.DiffX + s.Recoil.Rot.Position,
	}
	snap.Flash, snap.HasFlash = ls.effects.NextFlash(gunX, gunY, s.Rand)
	snap.Shells = ls.effects.Shells(now, s.Pointer.DiffX)
	return snap
}

// emit 排入一条音效请求，音调随时间缩放系数变化
func (ls *LevelSystem) emit(kind SoundKind, path string, volume, pitch float64) {
	if path == "" && kind != SoundMusic {
		return
	}
	ls.pendingSounds = append(ls.pendingSounds, SoundRequest{
		Kind:   kind,
		Path:   path,
		Volume: volume,
		Pitch:  pitch * ls.time.Timescale(),
	})
}

// emitRandom 从候选列表中随机选一个音效排入
// 候选项自带音量时与请求音量相乘
func (ls *LevelSystem) emitRandom(kind SoundKind, refs []config.SoundRef, volume, pitch float64) {
	if len(refs) == 0 {
		return
	}
	ref := refs[ls.session.Rand.Intn(len(refs))]
	if ref.Volume > 0 {
		volume *= ref.Volume
	}
	ls.emit(kind, ref.Path, volume, pitch)
}

// flushSounds 把本帧积累的音效请求交给播放端
func (ls *LevelSystem) flushSounds() {
	if ls.sounds != nil {
		for _, req := range ls.pendingSounds {
			ls.sounds.PlaySound(req)
		}
	}
	ls.pendingSounds = ls.pendingSounds[:0]
}
