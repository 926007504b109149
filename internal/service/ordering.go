package service

import (
	"fmt"

	"github.com/bandhub/server/internal/domain"
)

// 位置序列维护的纯逻辑部分。实际的多行移位语句在仓储层的单个事务内
// 执行，这里负责追加位置计算与调用方输入的排列校验

// NextPosition 计算追加到序列末尾的位置（空曲目单从 1 开始）
func NextPosition(maxPosition int) int {
	return maxPosition + 1
}

// ValidateReorder 校验调用方给出的新顺序是当前行集的完整排列：
// 数量一致、无重复、无外来 id、无遗漏
func ValidateReorder(currentIDs, orderedIDs []string) error {
	if len(orderedIDs) != len(currentIDs) {
		return fmt.Errorf("reorder must include all %d songs, got %d", len(currentIDs), len(orderedIDs))
	}

	current := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}

	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return fmt.Errorf("duplicate song id in reorder: %s", id)
		}
		seen[id] = true
		if !current[id] {
			return fmt.Errorf("song id not in setlist: %s", id)
		}
	}
	return nil
}

// ValidateBatch 校验批量删除的 id 集：非空、无重复，且每个 id 都属于
// 当前行集。任一 id 外来则整批拒绝，不做部分删除
func ValidateBatch(currentIDs, batch []string) error {
	if len(batch) == 0 {
		return domain.ErrEmptySongBatch
	}

	current := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}

	seen := make(map[string]bool, len(batch))
	for _, id := range batch {
		if seen[id] {
			return fmt.Errorf("duplicate song id in batch: %s", id)
		}
		seen[id] = true
		if !current[id] {
			return fmt.Errorf("song id not in setlist: %s", id)
		}
	}
	return nil
}

// PositionsAreContiguous 校验位置集合恰为 {1..N}，无重复无空洞
func PositionsAreContiguous(positions []int) bool {
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
