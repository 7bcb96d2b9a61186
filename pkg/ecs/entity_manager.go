// Package ecs 提供展示句柄的实体-组件存储
//
// 标记层（presentation layer）把区块里的每个元素（标题、单词、水滴、粒子、波纹）
// 登记为一个实体，序列器通过组件读写它们的可视属性。
package ecs

import "reflect"

// EntityID 是实体的唯一标识符
// 0 保留为无效 ID，表示"标记中不存在该元素"
type EntityID uint64

// EntityManager 管理所有实体和组件
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]any
	// 按创建顺序记录的实体，保证查询结果确定
	order []EntityID
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1,
		components: make(map[EntityID]map[reflect.Type]any),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	em.order = append(em.order, id)
	return id
}

// Exists 检查实体是否存在（未被清理）
func (em *EntityManager) Exists(id EntityID) bool {
	if id == 0 {
		return false
	}
	_, ok := em.components[id]
	return ok
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.entitiesToDestroy) == 0 {
		return
	}
	for _, id := range em.entitiesToDestroy {
		delete(em.components, id)
	}
	kept := em.order[:0]
	for _, id := range em.order {
		if _, ok := em.components[id]; ok {
			kept = append(kept, id)
		}
	}
	em.order = kept
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}

// Count 返回当前存活的实体数量
func (em *EntityManager) Count() int {
	return len(em.components)
}

// AddComponent 为实体添加组件，同类型组件会被覆盖
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if compMap, exists := em.components[id]; exists {
		compMap[reflect.TypeOf(component)] = component
	}
}

func (em *EntityManager) get(id EntityID, t reflect.Type) (any, bool) {
	compMap, exists := em.components[id]
	if !exists {
		return nil, false
	}
	comp, found := compMap[t]
	return comp, found
}

// GetComponent 获取实体的特定类型组件
//
//	vis, ok := ecs.GetComponent[*components.VisualComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.get(id, reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	_, ok := em.get(id, reflect.TypeFor[T]())
	return ok
}

// RemoveComponent 从实体移除指定类型的组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, reflect.TypeFor[T]())
	}
}

// GetEntitiesWith1 按创建顺序返回拥有组件 A 的实体
func GetEntitiesWith1[A any](em *EntityManager) []EntityID {
	ta := reflect.TypeFor[A]()
	result := make([]EntityID, 0)
	for _, id := range em.order {
		if _, ok := em.components[id][ta]; ok {
			result = append(result, id)
		}
	}
	return result
}

// GetEntitiesWith2 按创建顺序返回同时拥有组件 A、B 的实体
func GetEntitiesWith2[A, B any](em *EntityManager) []EntityID {
	ta, tb := reflect.TypeFor[A](), reflect.TypeFor[B]()
	result := make([]EntityID, 0)
	for _, id := range em.order {
		compMap := em.components[id]
		if _, ok := compMap[ta]; !ok {
			continue
		}
		if _, ok := compMap[tb]; !ok {
			continue
		}
		result = append(result, id)
	}
	return result
}
