package game

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/gonewx/whack/pkg/config"
	"gopkg.in/yaml.v3"
)

// AssetManifestPath 资源清单在数据文件系统中的路径
const AssetManifestPath = "data/assets.yaml"

// ResourceConfig 资源清单（data/assets.yaml）
//
// 结构：
//
//	basePath: assets
//	font: fonts/hud.ttf
//	groups:
//	  common:
//	    images: [images/gun_default.png, ...]
//	    sounds: [sounds/weapons/pl_gun3.wav, ...]
//
// 清单中的路径均相对于 basePath；关卡与目标类型配置中引用的路径同样如此。
type ResourceConfig struct {
	BasePath string                   `yaml:"basePath"` // 资源根目录
	Font     string                   `yaml:"font"`     // HUD 字体（可选，缺省使用内置点阵字体）
	Groups   map[string]ResourceGroup `yaml:"groups"`   // 资源组
}

// ResourceGroup 一组需要一起预加载的资源
type ResourceGroup struct {
	Images []string `yaml:"images"`
	Sounds []string `yaml:"sounds"`
}

// LoadResourceConfig 从文件系统读取资源清单
func LoadResourceConfig(fsys fs.FS, manifestPath string) (*ResourceConfig, error) {
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource manifest %s: %w", manifestPath, err)
	}

	var rc ResourceConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse resource manifest %s: %w", manifestPath, err)
	}
	if rc.Groups == nil {
		rc.Groups = make(map[string]ResourceGroup)
	}
	return &rc, nil
}

// GroupNames 返回排序后的资源组名称
func (rc *ResourceConfig) GroupNames() []string {
	names := make([]string, 0, len(rc.Groups))
	for name := range rc.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LevelResourceGroup 汇总一个关卡开局需要的全部资源
//
// 包括背景、关卡音乐、刷怪表中每个目标类型的贴图与音效。
// 找不到的目标类型被忽略（开局时由刷怪调度器报告）。
//
// 参数：
//   - level: 关卡配置
//   - catalog: 用于查找目标类型的目录
//
// 返回：
//   - ResourceGroup: 去重后的资源列表
func LevelResourceGroup(level *config.LevelConfig, catalog *config.Catalog) ResourceGroup {
	var group ResourceGroup
	seen := make(map[string]bool)
	addImage := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			group.Images = append(group.Images, p)
		}
	}
	addSound := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			group.Sounds = append(group.Sounds, p)
		}
	}

	addImage(level.Display.Background)
	addSound(level.Track.Path)

	ids := make([]string, 0, len(level.Enemies))
	for id := range level.Enemies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		target, err := catalog.Target(id)
		if err != nil {
			continue
		}
		addImage(target.Image)
		for _, s := range target.Sounds.Spawn {
			addSound(s.Path)
		}
		for _, s := range target.Sounds.Hurt {
			addSound(s.Path)
		}
	}
	return group
}

// buildFullPath 把相对资源路径拼接到资源根目录下
// fs.FS 路径不能以 "/" 开头，多余的分隔符会被清理
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" || basePath == "." {
		return path.Clean(relativePath)
	}
	return path.Join(basePath, relativePath)
}
