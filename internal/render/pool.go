package render

import "sync"

// BlockPool recycles push-constant blocks across frames.
type BlockPool struct {
	pool sync.Pool
}

func NewBlockPool() *BlockPool {
	return &BlockPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(PushConstants)
			},
		},
	}
}

func (p *BlockPool) Get() *PushConstants {
	return p.pool.Get().(*PushConstants)
}

func (p *BlockPool) Put(pc *PushConstants) {
	*pc = PushConstants{}
	p.pool.Put(pc)
}
