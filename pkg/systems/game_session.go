package systems

import (
	"math/rand"

	"github.com/gonewx/whack/pkg/components"
	"github.com/gonewx/whack/pkg/config"
	"github.com/gonewx/whack/pkg/ecs"
)

// LevelState 关卡状态机的状态
type LevelState int

const (
	// StateIdle 没有加载任何关卡（关卡选择界面）
	StateIdle LevelState = iota
	// StateLoading 关卡已加载，等待第一帧
	StateLoading
	// StatePlaying 关卡进行中
	StatePlaying
	// StateWon 坚持到时长结束
	StateWon
	// StateLost 生命值归零
	StateLost
)

// String 返回状态名称（用于日志）
func (s LevelState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// IsActive 关卡是否处于进行中（可以开火、受伤）
func (s LevelState) IsActive() bool {
	return s == StateLoading || s == StatePlaying
}

// IsResolved 关卡是否已分出胜负
func (s LevelState) IsResolved() bool {
	return s == StateWon || s == StateLost
}

// GameSession 单局游戏的全部可变状态
//
// 由关卡系统持有并传递给各子系统，替代全局变量。
// 加载关卡时除后坐力弹簧外的所有状态都会重置。
type GameSession struct {
	EntityManager *ecs.EntityManager
	Rand          *rand.Rand

	Level   *config.LevelConfig
	Player  components.PlayerComponent
	Run     components.RunComponent
	Pointer components.PointerComponent
	Recoil  *RecoilSprings
}

// NewGameSession 创建空会话
// rng 为 nil 时使用以当前时间为种子的随机源
func NewGameSession(rng *rand.Rand) *GameSession {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &GameSession{
		EntityManager: ecs.NewEntityManager(),
		Rand:          rng,
		Recoil:        NewRecoilSprings(),
		Player: components.PlayerComponent{
			Health:    config.PlayerMaxHealth,
			MaxHealth: config.PlayerMaxHealth,
		},
	}
}

// reset 为新关卡重置会话状态
func (s *GameSession) reset(level *config.LevelConfig) {
	s.Level = level
	s.Player = components.PlayerComponent{
		Health:       config.PlayerMaxHealth,
		MaxHealth:    config.PlayerMaxHealth,
		LastHurtTime: -100,
	}
	s.Run = components.RunComponent{
		LevelID:     level.ID,
		GunLastFire: -100,
	}
	s.Pointer = NewPointer()
}
