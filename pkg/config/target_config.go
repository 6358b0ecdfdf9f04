package config

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// TargetTypeConfig 目标类型配置
// 每个目标类型（打地鼠中冒出来的角色）加载一次，之后只读
type TargetTypeConfig struct {
	ID           string       `yaml:"id"`           // 类型ID，关卡刷怪表通过它引用
	Name         string       `yaml:"name"`         // 显示名称
	Image        string       `yaml:"image"`        // 贴图路径
	Speed        float64      `yaml:"speed"`        // 时间流速倍率，越大越快超时
	BounceHeight float64      `yaml:"bounceHeight"` // 弹跳高度
	Damage       int          `yaml:"damage"`       // 超时后对玩家造成的伤害
	Health       int          `yaml:"health"`       // 击杀所需命中次数
	Score        int          `yaml:"score"`        // 击杀得分
	HitboxAdjust HitboxAdjust `yaml:"hitboxAdjust"` // 碰撞盒相对贴图尺寸的修正
	Sounds       TargetSounds `yaml:"sounds"`       // 音效
}

// HitboxAdjust 碰撞盒尺寸修正（像素，缩放前）
type HitboxAdjust struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// TargetSounds 目标音效列表，播放时随机选择一个
type TargetSounds struct {
	Spawn []SoundRef `yaml:"spawn"`
	Hurt  []SoundRef `yaml:"hurt"`
}

// SoundRef 音效引用
type SoundRef struct {
	Path   string  `yaml:"path"`
	Volume float64 `yaml:"volume"` // 片段自身音量（0 表示使用请求方给出的音量）
}

// LoadTargetTypeConfig 从文件系统加载目标类型配置
func LoadTargetTypeConfig(fsys fs.FS, path string) (*TargetTypeConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read target config file %s: %w", path, err)
	}

	var targetConfig TargetTypeConfig
	if err := yaml.Unmarshal(data, &targetConfig); err != nil {
		return nil, fmt.Errorf("failed to parse target config YAML from %s: %w", path, err)
	}

	if targetConfig.Name == "" {
		targetConfig.Name = targetConfig.ID
	}

	if err := targetConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target config in %s: %w", path, err)
	}

	return &targetConfig, nil
}

// Validate 验证目标类型配置
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *TargetTypeConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("target ID is required")
	}
	if c.Image == "" {
		return fmt.Errorf("target %q: image is required", c.ID)
	}
	// speed 作为除数参与关卡时长计算
	if c.Speed <= 0 {
		return fmt.Errorf("target %q: speed must be positive, got %v", c.ID, c.Speed)
	}
	if c.Health < 1 {
		return fmt.Errorf("target %q: health must be at least 1, got %d", c.ID, c.Health)
	}
	if c.Damage < 0 {
		return fmt.Errorf("target %q: damage cannot be negative", c.ID)
	}
	if c.Score < 0 {
		return fmt.Errorf("target %q: score cannot be negative", c.ID)
	}
	if c.BounceHeight < 0 {
		return fmt.Errorf("target %q: bounceHeight cannot be negative", c.ID)
	}
	for _, s := range append(append([]SoundRef{}, c.Sounds.Spawn...), c.Sounds.Hurt...) {
		if s.Path == "" {
			return fmt.Errorf("target %q: sound path is required", c.ID)
		}
		if s.Volume < 0 || s.Volume > 1 {
			return fmt.Errorf("target %q: sound volume must be between 0 and 1, got %v", c.ID, s.Volume)
		}
	}
	return nil
}

// Lifetime 返回目标在未被击杀时的最长真实存活时间（秒）
func (c *TargetTypeConfig) Lifetime() float64 {
	return TargetMaxLifetime / c.Speed
}
