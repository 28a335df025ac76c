// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"flag"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 说明：基于golang.org/x/exp/rand库，非Safe后缀的方法不是线程安全的
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 参数：seed-随机数种子（实际种子会加上命令行给出的偏移量）
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Shuffled 返回打乱顺序后的副本（线程安全），原切片不变
func Shuffled[T any](e *Engine, s []T) []T {
	res := append([]T(nil), s...)
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.Shuffle(len(res), func(i, j int) { res[i], res[j] = res[j], res[i] })
	return res
}
