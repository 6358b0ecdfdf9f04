package config

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// LevelConfig 关卡配置数据结构
// 定义了关卡的基本信息、刷怪表以及显示/音乐资源
type LevelConfig struct {
	ID      string                `yaml:"id"`      // 关卡ID，如 "backyard"
	Name    string                `yaml:"name"`    // 关卡显示名称
	Order   int                   `yaml:"order"`   // 关卡选择列表中的排序（可选）
	Next    string                `yaml:"next"`    // 下一关ID（可选，空表示最后一关）
	Enemies map[string]SpawnEntry `yaml:"enemies"` // 刷怪表：目标类型ID -> 刷新参数
	Display DisplayConfig         `yaml:"display"` // 显示资源
	Track   TrackConfig           `yaml:"track"`   // 关卡音乐
}

// SpawnEntry 单个目标类型的刷新参数
// 时间单位为毫秒（与关卡数据文件保持一致）
type SpawnEntry struct {
	Count    int     `yaml:"count"`    // 刷新数量
	Interval float64 `yaml:"interval"` // 相邻两次刷新的间隔（毫秒）
	Delay    float64 `yaml:"delay"`    // 首次刷新前的延迟（毫秒）
}

// DisplayConfig 关卡显示资源
type DisplayConfig struct {
	Background string `yaml:"background"` // 背景图片路径
}

// TrackConfig 关卡音乐配置
type TrackConfig struct {
	Path   string  `yaml:"path"`   // 音乐文件路径
	Volume float64 `yaml:"volume"` // 音量 0.0 ~ 1.0
}

// IntervalSeconds 返回刷新间隔（秒）
func (e SpawnEntry) IntervalSeconds() float64 {
	return e.Interval / 1000
}

// DelaySeconds 返回首次刷新延迟（秒）
func (e SpawnEntry) DelaySeconds() float64 {
	return e.Delay / 1000
}

// LoadLevelConfig 从文件系统加载关卡配置
// 参数：
//
//	fsys - 数据文件系统（嵌入资源或磁盘目录）
//	path - 关卡配置文件路径
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取、解析或验证失败，返回错误信息
func LoadLevelConfig(fsys fs.FS, path string) (*LevelConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", path, err)
	}

	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", path, err)
	}

	applyLevelDefaults(&levelConfig)

	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", path, err)
	}

	return &levelConfig, nil
}

// applyLevelDefaults 为缺失的可选字段设置默认值
func applyLevelDefaults(config *LevelConfig) {
	// 名称缺省时使用ID
	if config.Name == "" {
		config.Name = config.ID
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
// 注意：刷怪表中引用的目标类型是否存在不在这里检查，由刷怪调度器在开局时处理
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}

	if len(config.Enemies) == 0 {
		return fmt.Errorf("at least one enemy spawn entry is required")
	}

	for targetID, entry := range config.Enemies {
		if targetID == "" {
			return fmt.Errorf("enemy spawn entry with empty target type")
		}
		if entry.Count < 1 {
			return fmt.Errorf("enemies[%s]: count must be at least 1, got %d", targetID, entry.Count)
		}
		if entry.Interval < 0 {
			return fmt.Errorf("enemies[%s]: interval cannot be negative", targetID)
		}
		if entry.Delay < 0 {
			return fmt.Errorf("enemies[%s]: delay cannot be negative", targetID)
		}
	}

	if config.Track.Volume < 0 || config.Track.Volume > 1 {
		return fmt.Errorf("track volume must be between 0 and 1, got %v", config.Track.Volume)
	}

	if config.Next == config.ID {
		return fmt.Errorf("level %q lists itself as next level", config.ID)
	}

	return nil
}
