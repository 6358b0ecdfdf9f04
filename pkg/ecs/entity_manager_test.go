package ecs

import (
	"testing"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testVelocityComponent struct {
	VX, VY float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 100, Y: 200})

	pos, found := GetComponent[*testPositionComponent](em, id)
	if !found {
		t.Fatal("Component should be found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", pos.X, pos.Y)
	}

	// 未添加的类型
	if _, found := GetComponent[*testVelocityComponent](em, id); found {
		t.Error("Velocity component should not be found")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	// 标记删除后实体仍然存在
	em.DestroyEntity(id)
	if em.Count() != 1 {
		t.Errorf("Entity should still exist before RemoveMarkedEntities, count=%d", em.Count())
	}

	em.RemoveMarkedEntities()
	if em.Count() != 0 {
		t.Errorf("Entity should be removed after RemoveMarkedEntities, count=%d", em.Count())
	}
	if _, found := GetComponent[*testPositionComponent](em, id); found {
		t.Error("Components of removed entity should be gone")
	}

	// 对已删除实体添加组件被忽略
	AddComponent(em, id, &testPositionComponent{})
	if em.Count() != 0 {
		t.Error("AddComponent should not resurrect a removed entity")
	}
}

func TestGetEntitiesWithOrdered(t *testing.T) {
	em := NewEntityManager()

	var both []EntityID
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPositionComponent{X: float64(i)})
		if i%2 == 0 {
			AddComponent(em, id, &testVelocityComponent{})
			both = append(both, id)
		}
	}

	all := GetEntitiesWith1[*testPositionComponent](em)
	if len(all) != 20 {
		t.Fatalf("Expected 20 entities, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("Expected ascending IDs, got %v", all)
		}
	}

	withVel := GetEntitiesWith2[*testPositionComponent, *testVelocityComponent](em)
	if len(withVel) != len(both) {
		t.Fatalf("Expected %d entities, got %d", len(both), len(withVel))
	}
	for i := range both {
		if withVel[i] != both[i] {
			t.Errorf("Index %d: expected %d, got %d", i, both[i], withVel[i])
		}
	}
}

func TestRemoveMarkedEntities_IDsNotReused(t *testing.T) {
	em := NewEntityManager()
	em.CreateEntity()
	last := em.CreateEntity()
	em.DestroyEntity(last)
	em.RemoveMarkedEntities()

	if em.Count() != 1 {
		t.Errorf("Expected 1 entity left, got %d", em.Count())
	}
	if id := em.CreateEntity(); id <= last {
		t.Errorf("Expected new ID > %d, got %d", last, id)
	}
}
