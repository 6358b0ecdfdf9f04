package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	name         string
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	entered      int
	left         int
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) OnEnter() { m.entered++ }
func (m *MockScene) OnLeave() { m.left++ }

// plainScene 不实现任何可选接口
type plainScene struct{}

func (plainScene) Update(float64)     {}
func (plainScene) Draw(*ebiten.Image) {}

// TestSceneManagerUpdateDraw verifies that Update and Draw reach the current scene.
func TestSceneManagerUpdateDraw(t *testing.T) {
	sm := NewSceneManager()

	// 没有场景时不应 panic
	sm.Update(0.016)
	sm.Draw(ebiten.NewImage(10, 10))

	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)
	sm.Update(0.016)
	sm.Draw(ebiten.NewImage(10, 10))

	if !mockScene.updateCalled || !mockScene.drawCalled {
		t.Error("Scene's Update/Draw method was not called")
	}
	if mockScene.deltaTime != 0.016 {
		t.Errorf("Expected deltaTime 0.016, got %.3f", mockScene.deltaTime)
	}
}

// TestSceneManagerLifecycle verifies enter/leave hooks when switching scenes.
func TestSceneManagerLifecycle(t *testing.T) {
	sm := NewSceneManager()
	scene1 := &MockScene{}
	scene2 := &MockScene{}

	sm.SwitchTo(scene1)
	if scene1.entered != 1 {
		t.Errorf("Expected scene1 entered once, got %d", scene1.entered)
	}

	// 重复切换到同一场景不触发钩子
	sm.SwitchTo(scene1)
	if scene1.entered != 1 || scene1.left != 0 {
		t.Error("Switching to the current scene should be a no-op")
	}

	sm.SwitchTo(scene2)
	if scene1.left != 1 || scene2.entered != 1 {
		t.Errorf("Expected scene1 left and scene2 entered, got left=%d entered=%d", scene1.left, scene2.entered)
	}

	// 不实现钩子的场景也可以切换
	sm.SwitchTo(plainScene{})
	if scene2.left != 1 {
		t.Error("Expected scene2 to be left")
	}

	sm.SwitchTo(scene1)
	sm.Close()
	if scene1.left != 2 || sm.GetCurrentScene() != nil {
		t.Error("Close should leave the current scene and clear it")
	}
}

// TestSceneManagerLoadLevel verifies the level factory wiring.
func TestSceneManagerLoadLevel(t *testing.T) {
	sm := NewSceneManager()

	if sm.LoadLevel("l1") {
		t.Error("Expected LoadLevel to fail without a factory")
	}

	var requested string
	sm.SetLevelSceneFactory(func(levelID string) (Scene, error) {
		requested = levelID
		if levelID == "missing" {
			return nil, errors.New("no such level")
		}
		return &MockScene{name: levelID}, nil
	})

	if !sm.LoadLevel("l1") {
		t.Fatal("Expected LoadLevel to succeed")
	}
	current, ok := sm.GetCurrentScene().(*MockScene)
	if !ok || current.name != "l1" || requested != "l1" {
		t.Errorf("Expected level scene l1, got %+v", sm.GetCurrentScene())
	}

	if sm.LoadLevel("missing") {
		t.Error("Expected LoadLevel to fail for a missing level")
	}
	if sm.GetCurrentScene() != current {
		t.Error("Failed LoadLevel must keep the current scene")
	}
}

// TestSceneManagerShowMenu verifies the menu factory wiring.
func TestSceneManagerShowMenu(t *testing.T) {
	sm := NewSceneManager()
	sm.ShowMenu() // 没有工厂时不应 panic

	menu := &MockScene{name: "menu"}
	sm.SetMenuSceneFactory(func() Scene { return menu })
	sm.ShowMenu()

	if sm.GetCurrentScene() != menu || menu.entered != 1 {
		t.Error("Expected menu scene to become current")
	}
}
