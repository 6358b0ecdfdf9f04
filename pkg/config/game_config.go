package config

// 游戏调参常量
// 本文件集中定义模拟核心使用的固定参数，运行时不会修改

// 画布配置
const (
	// CanvasWidth 逻辑画布宽度（像素）
	CanvasWidth = 560

	// CanvasHeight 逻辑画布高度（像素）
	CanvasHeight = 420
)

// 关卡与目标配置
const (
	// TargetMaxLifetime 目标在未被击杀前可以存活的最长（速度缩放后的）时间（秒）
	// 超时的目标会对玩家造成伤害
	TargetMaxLifetime = 3.0

	// LevelDurationBuffer 关卡时长的额外缓冲（秒）
	LevelDurationBuffer = 1.0

	// PlayerMaxHealth 玩家最大生命值
	PlayerMaxHealth = 100

	// NominalFrameTime 首帧使用的假定帧时长（秒）
	NominalFrameTime = 1.0 / 60.0

	// MaxFrameTime 单帧 dt 上限（秒），避免长时间卡顿后积分步长过大
	MaxFrameTime = 1.0

	// ResultRevealDelay 关卡结束后分数归零展示的时长（秒）
	ResultRevealDelay = 1.0

	// ScoreCountRate 分数滚动速率系数
	ScoreCountRate = 5.0
)

// 目标运动参数
const (
	// TargetGrowthFactor 目标缩放系数：scale = TargetGrowthFactor * elapsed²
	TargetGrowthFactor = 0.1

	// TargetBounceFrequency 目标弹跳/摇摆角频率
	TargetBounceFrequency = 10.0

	// TargetSwayDegrees 目标左右摇摆幅度（度）
	TargetSwayDegrees = 6.0

	// TargetOffsetScale 运动偏移量相对于缩放的放大倍数
	TargetOffsetScale = 100.0

	// TargetHitWobbleDegrees 受击抖动最大幅度（度）
	TargetHitWobbleDegrees = 20.0
)

// 后坐力弹簧参数
const (
	// GunRecoilImpulse 开火时施加在Y轴弹簧上的冲量
	GunRecoilImpulse = -800.0

	// GunRecoilSpreadX 开火时X轴随机冲量的范围 [-GunRecoilSpreadX, GunRecoilSpreadX)
	GunRecoilSpreadX = 400.0

	// GunRecoilRotationRatio 旋转冲量相对X冲量的比例
	GunRecoilRotationRatio = 0.2

	// GunRecoilSpriteTime 开火后显示后坐力贴图的时长（秒）
	GunRecoilSpriteTime = 0.1

	// HurtShakeImpulse 受伤抖动的基础冲量
	HurtShakeImpulse = 200.0

	// HurtShakeScale 受伤抖动的伤害比例放大系数
	HurtShakeScale = 10.0

	// SpringRotStiffness/SpringRotDamping 枪械旋转弹簧
	SpringRotStiffness = 100.0
	SpringRotDamping   = 10.0

	// SpringXStiffness/SpringXDamping 枪械X轴弹簧
	SpringXStiffness = 200.0
	SpringXDamping   = 10.0

	// SpringYStiffness/SpringYDamping 枪械Y轴弹簧
	SpringYStiffness = 200.0
	SpringYDamping   = 10.0

	// DefaultSpringStiffness/DefaultSpringDamping 未指定参数时的默认弹簧
	DefaultSpringStiffness = 200.0
	DefaultSpringDamping   = 20.0
)

// 镜头与指针参数
const (
	// CameraParallax 背景视差系数
	CameraParallax = 0.1

	// CameraSwayRatio 指针横向速度对镜头旋转的影响
	CameraSwayRatio = 0.1

	// BackgroundScale 背景图相对画布的缩放
	BackgroundScale = 1.2

	// PointerFollowRate 指针位置平滑系数（每 1/60 秒）
	PointerFollowRate = 0.1

	// PointerSwayRate 指针横向差值平滑系数（每 1/60 秒）
	PointerSwayRate = 0.2

	// PointerStartY 关卡开始时瞄准点的Y坐标
	PointerStartY = 200.0

	// PointerStartDrop 关卡开始时枪械从画布下方升起的距离
	PointerStartDrop = 1200.0

	// GunBaseOffsetY 枪械相对画布中心的Y偏移
	GunBaseOffsetY = 110.0

	// GunPointerFollowY 枪械Y坐标跟随指针的比例
	GunPointerFollowY = 0.2
)

// 弹壳特效参数
const (
	// ShellSpeedX 弹壳X方向速度
	ShellSpeedX = 400.0

	// ShellSpeedY 弹壳Y方向速度
	ShellSpeedY = 400.0

	// ShellLift 弹壳额外的向上速度
	ShellLift = 600.0

	// ShellLifetime 弹壳存活时间（秒）
	ShellLifetime = 4.0

	// ShellGravity 弹壳重力加速度
	ShellGravity = 2400.0

	// ShellSpinMin/ShellSpinRange 弹壳旋转速度（度/秒）
	ShellSpinMin   = 720.0
	ShellSpinRange = 360.0

	// ShellScale 弹壳贴图缩放
	ShellScale = 0.1

	// ShellVariants 弹壳贴图种类数
	ShellVariants = 2

	// MuzzleFlashVariants 枪口火焰贴图种类数（tile000 ~ tile014）
	MuzzleFlashVariants = 15
)

// 固定资源路径（相对于资源根目录）
const (
	GunDefaultImage    = "images/gun_default.png"
	GunRecoilImage     = "images/gun_recoil.png"
	MuzzleFlashPattern = "images/flash/tile%03d.png"
	ShellImagePattern  = "images/shells/shell%d.png"

	SoundGunFire    = "sounds/weapons/pl_gun3.wav"
	SoundTargetKill = "sounds/buttons/bell1.wav"
	SoundPlayerLose = "sounds/common/bodysplat.wav"
	SoundPlayerWin  = "sounds/common/bodysplat.wav"
	MusicLose       = "sounds/unslept.mp3"
	MusicWin        = "sounds/qwerty.mp3"
	MusicMenu       = "sounds/chase.mp3"

	SoundButtonClick = "sounds/buttons/button3.wav"
	SoundButtonHover = "sounds/common/launch_glow1.wav"
	SoundLevelSelect = "sounds/buttons/button1.wav"
)

// 菜单音量
const (
	MusicMenuVolume   = 0.1
	ButtonSoundVolume = 0.1
)

// PlayerHurtSounds 玩家受伤音效（随机选择一个播放）
var PlayerHurtSounds = []string{
	"sounds/player/pl_pain2.wav",
	"sounds/player/pl_pain4.wav",
	"sounds/player/pl_pain5.wav",
	"sounds/player/pl_pain6.wav",
	"sounds/player/pl_pain7.wav",
}
