package systems

import (
	"fmt"

	"github.com/gonewx/whack/pkg/config"
)

// fakeAssets 测试用贴图尺寸查询
// pending 中的路径返回 ErrResourceNotReady；未登记的路径使用默认尺寸
type fakeAssets struct {
	sizes    map[string][2]int
	pending  map[string]bool
	defaultW int
	defaultH int
}

func newFakeAssets(w, h int) *fakeAssets {
	return &fakeAssets{
		sizes:    map[string][2]int{},
		pending:  map[string]bool{},
		defaultW: w,
		defaultH: h,
	}
}

func (f *fakeAssets) ImageSize(path string) (int, int, error) {
	if f.pending[path] {
		return 0, 0, fmt.Errorf("image %s: %w", path, config.ErrResourceNotReady)
	}
	if s, ok := f.sizes[path]; ok {
		return s[0], s[1], nil
	}
	if f.defaultW > 0 {
		return f.defaultW, f.defaultH, nil
	}
	return 0, 0, fmt.Errorf("image %s not found", path)
}

// recordingSink 记录所有音效请求
type recordingSink struct {
	requests []SoundRequest
}

func (r *recordingSink) PlaySound(req SoundRequest) {
	r.requests = append(r.requests, req)
}

func (r *recordingSink) count(kind SoundKind) int {
	n := 0
	for _, req := range r.requests {
		if req.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recordingSink) last(kind SoundKind) (SoundRequest, bool) {
	for i := len(r.requests) - 1; i >= 0; i-- {
		if r.requests[i].Kind == kind {
			return r.requests[i], true
		}
	}
	return SoundRequest{}, false
}
