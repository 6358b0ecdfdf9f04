package game

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	legacyaudio "github.com/gonewx/whack/internal/audio"
	"github.com/gonewx/whack/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"
)

// preloadConcurrency 预加载时同时解码的文件数
const preloadConcurrency = 4

// ResourceManager is responsible for centralized management of game resources.
//
// Images and sound effects are decoded in background goroutines. The first
// request for a resource starts its decode and reports config.ErrResourceNotReady;
// later requests return the cached result. Conversion to *ebiten.Image happens
// lazily in GetImage, which must be called from the game loop.
//
// ImageSize makes ResourceManager usable as a systems.AssetSource.
//
// Usage:
//
//	rm := NewResourceManager(os.DirFS("."), audioContext)
//	rm.LoadResourceConfig(embedded.FS, AssetManifestPath)
//	rm.Preload(ctx, "common")
type ResourceManager struct {
	fsys         fs.FS          // File system resources are read from
	audioContext *audio.Context // Global audio context, may be nil in tests
	config       *ResourceConfig

	mu     sync.Mutex
	images map[string]*imageEntry // Decoded images: relative path -> entry
	sounds map[string]*soundEntry // Decoded PCM: relative path -> entry

	// Main-thread caches
	ebitenImages  map[string]*ebiten.Image
	fontFaceCache map[float64]*text.GoTextFace
	fontSource    *text.GoTextFaceSource
	fallbackFace  *text.GoXFace
	musicCache    map[string][]byte // Raw encoded music files: relative path -> bytes
}

// imageEntry 一张贴图的解码状态
type imageEntry struct {
	ready  chan struct{} // 解码结束时关闭
	done   bool
	img    image.Image
	width  int
	height int
	err    error
}

// soundEntry 一个音效的解码状态
// pcm 为 16 位立体声小端数据，采样率为 sampleRate
type soundEntry struct {
	ready      chan struct{}
	done       bool
	pcm        []byte
	sampleRate int
	err        error
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - fsys: The file system holding the asset tree (os.DirFS or an embed.FS).
//   - audioContext: The global audio context used for music decoding. May be nil
//     when only images are needed.
func NewResourceManager(fsys fs.FS, audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		fsys:          fsys,
		audioContext:  audioContext,
		config:        &ResourceConfig{Groups: make(map[string]ResourceGroup)},
		images:        make(map[string]*imageEntry),
		sounds:        make(map[string]*soundEntry),
		ebitenImages:  make(map[string]*ebiten.Image),
		fontFaceCache: make(map[float64]*text.GoTextFace),
		musicCache:    make(map[string][]byte),
	}
}

// LoadResourceConfig reads the asset manifest from manifestFS.
// The manifest usually lives in the embedded data tree while the assets
// themselves come from disk, hence the separate file system.
func (rm *ResourceManager) LoadResourceConfig(manifestFS fs.FS, manifestPath string) error {
	rc, err := LoadResourceConfig(manifestFS, manifestPath)
	if err != nil {
		return err
	}
	rm.config = rc
	log.Printf("[ResourceManager] Loaded manifest: base=%q groups=%v", rc.BasePath, rc.GroupNames())
	return nil
}

// fullPath 返回资源在文件系统中的实际路径
func (rm *ResourceManager) fullPath(relativePath string) string {
	return buildFullPath(rm.config.BasePath, relativePath)
}

// ImageSize 返回贴图尺寸
//
// 第一次请求时启动后台解码并返回 ErrResourceNotReady；
// 解码失败时返回具体错误（之后不会重试）。
func (rm *ResourceManager) ImageSize(path string) (int, int, error) {
	entry, fresh := rm.claimImage(path)
	if fresh {
		go rm.decodeImage(path, entry)
		return 0, 0, fmt.Errorf("image %s: %w", path, config.ErrResourceNotReady)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if !entry.done {
		return 0, 0, fmt.Errorf("image %s: %w", path, config.ErrResourceNotReady)
	}
	if entry.err != nil {
		return 0, 0, entry.err
	}
	return entry.width, entry.height, nil
}

// decodeImage 解码贴图并写入 entry
func (rm *ResourceManager) decodeImage(path string, entry *imageEntry) {
	img, err := rm.readImage(path)

	rm.mu.Lock()
	defer rm.mu.Unlock()
	defer close(entry.ready)
	entry.done = true
	if err != nil {
		entry.err = err
		log.Printf("[ResourceManager] Failed to load image: %v", err)
		return
	}
	entry.img = img
	entry.width = img.Bounds().Dx()
	entry.height = img.Bounds().Dy()
}

func (rm *ResourceManager) readImage(path string) (image.Image, error) {
	file, err := rm.fsys.Open(rm.fullPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// GetImage returns the ebiten image for path, or nil while it is still decoding
// (or failed to decode). Must be called from the game loop goroutine.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	if img, ok := rm.ebitenImages[path]; ok {
		return img
	}
	if _, _, err := rm.ImageSize(path); err != nil {
		return nil
	}

	rm.mu.Lock()
	entry := rm.images[path]
	src := entry.img
	entry.img = nil // 转换后不再需要 CPU 侧副本
	rm.mu.Unlock()
	if src == nil {
		return nil
	}

	img := ebiten.NewImageFromImage(src)
	rm.ebitenImages[path] = img
	return img
}

// SoundPCM 返回已解码的音效数据
//
// 与 ImageSize 相同：第一次请求启动后台解码并返回 ErrResourceNotReady。
func (rm *ResourceManager) SoundPCM(path string) ([]byte, int, error) {
	entry, fresh := rm.claimSound(path)
	if fresh {
		go rm.decodeSound(path, entry)
		return nil, 0, fmt.Errorf("sound %s: %w", path, config.ErrResourceNotReady)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if !entry.done {
		return nil, 0, fmt.Errorf("sound %s: %w", path, config.ErrResourceNotReady)
	}
	if entry.err != nil {
		return nil, 0, entry.err
	}
	return entry.pcm, entry.sampleRate, nil
}

// decodeSound 解码音效并写入 entry
func (rm *ResourceManager) decodeSound(path string, entry *soundEntry) {
	pcm, sampleRate, err := rm.readSound(path)

	rm.mu.Lock()
	defer rm.mu.Unlock()
	defer close(entry.ready)
	entry.done = true
	if err != nil {
		entry.err = err
		log.Printf("[ResourceManager] Failed to load sound: %v", err)
		return
	}
	entry.pcm = pcm
	entry.sampleRate = sampleRate
}

// readSound 读取并解码音效文件（不重采样）
// Supported formats: WAV (.wav), MP3 (.mp3), OGG Vorbis (.ogg) and Sun audio (.au).
func (rm *ResourceManager) readSound(path string) ([]byte, int, error) {
	data, err := fs.ReadFile(rm.fsys, rm.fullPath(path))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sound effect file %s: %w", path, err)
	}
	reader := bytes.NewReader(data)

	var stream io.Reader
	var sampleRate int
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, err := wav.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode WAV sound effect %s: %w", path, err)
		}
		stream, sampleRate = s, s.SampleRate()
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode MP3 sound effect %s: %w", path, err)
		}
		stream, sampleRate = s, s.SampleRate()
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode OGG sound effect %s: %w", path, err)
		}
		stream, sampleRate = s, s.SampleRate()
	case ".au":
		pcm, sr, err := legacyaudio.DecodeAU(data)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode AU sound effect %s: %w", path, err)
		}
		return pcm, sr, nil
	default:
		return nil, 0, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .ogg, .au)", ext)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode sound effect %s: %w", path, err)
	}
	return pcm, sampleRate, nil
}

// MusicStream opens path as an infinitely looping stream at the audio
// context's sample rate. The encoded file is cached, the decoder is not, so
// every call returns an independent stream.
func (rm *ResourceManager) MusicStream(path string) (io.ReadSeeker, error) {
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio context not initialized")
	}

	data, ok := rm.musicCache[path]
	if !ok {
		var err error
		data, err = fs.ReadFile(rm.fsys, rm.fullPath(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
		}
		rm.musicCache[path] = data
	}

	reader := bytes.NewReader(data)
	sampleRate := rm.audioContext.SampleRate()

	var stream interface {
		io.ReadSeeker
		Length() int64
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		stream = s
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		stream = s
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", path, err)
		}
		stream = s
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}

	return audio.NewInfiniteLoop(stream, stream.Length()), nil
}

// Preload decodes every image and sound effect of a manifest group.
// It blocks until the group is decoded or ctx is cancelled.
func (rm *ResourceManager) Preload(ctx context.Context, groupName string) error {
	group, ok := rm.config.Groups[groupName]
	if !ok {
		return fmt.Errorf("resource group not found: %s", groupName)
	}
	if err := rm.PreloadGroup(ctx, group); err != nil {
		return fmt.Errorf("failed to preload group %s: %w", groupName, err)
	}
	return nil
}

// PreloadGroup decodes the resources of group concurrently.
// Resources that another caller already started decoding are awaited
// instead of decoded twice. Once ctx is cancelled no new decodes are started.
func (rm *ResourceManager) PreloadGroup(ctx context.Context, group ResourceGroup) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadConcurrency)

	for _, path := range group.Images {
		if gctx.Err() != nil {
			break
		}
		entry, fresh := rm.claimImage(path)
		g.Go(func() error {
			if fresh {
				rm.decodeImage(path, entry)
			} else if err := awaitDecode(gctx, entry.ready); err != nil {
				return err
			}
			return entry.err
		})
	}

	for _, path := range group.Sounds {
		if gctx.Err() != nil {
			break
		}
		entry, fresh := rm.claimSound(path)
		g.Go(func() error {
			if fresh {
				rm.decodeSound(path, entry)
			} else if err := awaitDecode(gctx, entry.ready); err != nil {
				return err
			}
			return entry.err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// awaitDecode 等待其他调用方启动的解码结束
func awaitDecode(ctx context.Context, ready <-chan struct{}) error {
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// claimImage 登记一张待解码贴图，fresh 表示此前未登记
func (rm *ResourceManager) claimImage(path string) (*imageEntry, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if entry, ok := rm.images[path]; ok {
		return entry, false
	}
	entry := &imageEntry{ready: make(chan struct{})}
	rm.images[path] = entry
	return entry, true
}

func (rm *ResourceManager) claimSound(path string) (*soundEntry, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if entry, ok := rm.sounds[path]; ok {
		return entry, false
	}
	entry := &soundEntry{ready: make(chan struct{})}
	rm.sounds[path] = entry
	return entry, true
}

// Font 返回指定字号的 HUD 字体
//
// 资源清单配置了 TTF 字体且可读取时使用矢量字体，scale 为 1；
// 否则使用内置点阵字体，scale 为需要的放大倍数。
// Must be called from the game loop goroutine.
func (rm *ResourceManager) Font(size float64) (face text.Face, scale float64) {
	if rm.fontSource == nil && rm.config.Font != "" {
		data, err := fs.ReadFile(rm.fsys, rm.fullPath(rm.config.Font))
		if err == nil {
			rm.fontSource, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		}
		if err != nil {
			log.Printf("[ResourceManager] Failed to load font %s: %v (using bitmap font)", rm.config.Font, err)
			rm.config.Font = ""
		}
	}

	if rm.fontSource != nil {
		if f, ok := rm.fontFaceCache[size]; ok {
			return f, 1
		}
		f := &text.GoTextFace{
			Source:    rm.fontSource,
			Size:      size,
			Direction: text.DirectionLeftToRight,
		}
		rm.fontFaceCache[size] = f
		return f, 1
	}

	if rm.fallbackFace == nil {
		rm.fallbackFace = text.NewGoXFace(basicfont.Face7x13)
	}
	return rm.fallbackFace, size / float64(basicfont.Face7x13.Height)
}
