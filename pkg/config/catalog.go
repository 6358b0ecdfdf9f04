package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sort"
)

// 默认数据文件匹配模式
const (
	LevelFilesPattern  = "data/levels/*.yaml"
	TargetFilesPattern = "data/targets/*.yaml"
)

// Catalog 关卡与目标类型目录
// 加载完成后只读；关卡与目标类型均已通过验证
type Catalog struct {
	levels   map[string]*LevelConfig
	targets  map[string]*TargetTypeConfig
	levelIDs []string // 关卡选择列表顺序
}

// NewCatalog 使用已验证的配置创建目录
// 重复ID以后出现的为准
func NewCatalog(levels []*LevelConfig, targets []*TargetTypeConfig) *Catalog {
	c := &Catalog{
		levels:  make(map[string]*LevelConfig, len(levels)),
		targets: make(map[string]*TargetTypeConfig, len(targets)),
	}
	for _, l := range levels {
		c.levels[l.ID] = l
	}
	for _, t := range targets {
		c.targets[t.ID] = t
	}

	c.levelIDs = make([]string, 0, len(c.levels))
	for id := range c.levels {
		c.levelIDs = append(c.levelIDs, id)
	}
	sort.Slice(c.levelIDs, func(i, j int) bool {
		a, b := c.levels[c.levelIDs[i]], c.levels[c.levelIDs[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return c
}

// LoadCatalog 从文件系统加载全部关卡和目标类型
//
// 单个文件加载失败不会中断整体加载：失败的文件被跳过并记录日志，
// 所有失败原因通过 errors.Join 合并后与目录一起返回。
// 只有在完全没有可用关卡时，返回的目录才为 nil。
//
// 参数：
//   - fsys: 数据文件系统
//   - levelPattern: 关卡文件匹配模式（如 LevelFilesPattern）
//   - targetPattern: 目标文件匹配模式（如 TargetFilesPattern）
func LoadCatalog(fsys fs.FS, levelPattern, targetPattern string) (*Catalog, error) {
	var errs []error

	targetFiles, err := fs.Glob(fsys, targetPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list target files: %w", err)
	}
	targets := make([]*TargetTypeConfig, 0, len(targetFiles))
	for _, path := range targetFiles {
		t, err := LoadTargetTypeConfig(fsys, path)
		if err != nil {
			log.Printf("[Catalog] Skipping target file: %v", err)
			errs = append(errs, err)
			continue
		}
		targets = append(targets, t)
	}

	levelFiles, err := fs.Glob(fsys, levelPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list level files: %w", err)
	}
	levels := make([]*LevelConfig, 0, len(levelFiles))
	for _, path := range levelFiles {
		l, err := LoadLevelConfig(fsys, path)
		if err != nil {
			log.Printf("[Catalog] Skipping level file: %v", err)
			errs = append(errs, err)
			continue
		}
		levels = append(levels, l)
	}

	if len(levels) == 0 {
		errs = append(errs, fmt.Errorf("no levels found matching %s", levelPattern))
		return nil, errors.Join(errs...)
	}

	log.Printf("[Catalog] Loaded %d levels, %d target types", len(levels), len(targets))
	return NewCatalog(levels, targets), errors.Join(errs...)
}

// Level 根据ID查找关卡
// 找不到时返回包装了 ErrInvalidLevelReference 的错误
func (c *Catalog) Level(id string) (*LevelConfig, error) {
	if l, ok := c.levels[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("level %q: %w", id, ErrInvalidLevelReference)
}

// Target 根据ID查找目标类型
// 找不到时返回包装了 ErrMissingEntityDefinition 的错误
func (c *Catalog) Target(id string) (*TargetTypeConfig, error) {
	if t, ok := c.targets[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("target type %q: %w", id, ErrMissingEntityDefinition)
}

// LevelIDs 返回按显示顺序排列的关卡ID列表
func (c *Catalog) LevelIDs() []string {
	return append([]string(nil), c.levelIDs...)
}

// HasLevel 检查关卡是否存在
func (c *Catalog) HasLevel(id string) bool {
	_, ok := c.levels[id]
	return ok
}
