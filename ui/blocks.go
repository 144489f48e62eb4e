package ui

import (
	"fmt"

	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/rs/zerolog"
)

type block struct {
	x, y  int
	piece tetris.PieceType
}

// blockTable hands out block handles and remembers where each one was last
// drawn. Terminal renderers repaint from snapshots, so the table only tracks
// handle lifetimes.
type blockTable struct {
	next   tetris.BlockHandle
	blocks map[tetris.BlockHandle]block
	log    zerolog.Logger
}

func newBlockTable(log zerolog.Logger) blockTable {
	return blockTable{blocks: make(map[tetris.BlockHandle]block), log: log}
}

func (b *blockTable) add(x, y int, t tetris.PieceType) tetris.BlockHandle {
	b.next++
	b.blocks[b.next] = block{x: x, y: y, piece: t}
	return b.next
}

func (b *blockTable) place(p tetris.Preview, handles [4]tetris.BlockHandle) [4]tetris.BlockHandle {
	for i, c := range p.Cells() {
		if handles[i] == 0 {
			handles[i] = b.add(c.X, c.Y, p.Type)
			continue
		}
		b.blocks[handles[i]] = block{x: c.X, y: c.Y, piece: p.Type}
	}
	return handles
}

func (b *blockTable) get(h tetris.BlockHandle) (block, error) {
	blk, ok := b.blocks[h]
	if !ok {
		return block{}, fmt.Errorf("handle %d: %w", h, tetris.ErrBlockNotFound)
	}
	return blk, nil
}

func (b *blockTable) release(removed []tetris.BlockHandle) {
	for _, h := range removed {
		if _, err := b.get(h); err != nil {
			b.log.Warn().Err(err).Msg("release skipped")
			continue
		}
		delete(b.blocks, h)
	}
}

// redrawQueue releases the previous next-queue blocks and draws every cell of
// the upcoming pieces through draw.
func (b *blockTable) redrawQueue(old []tetris.BlockHandle, next []tetris.Preview, draw func(x, y int, t tetris.PieceType) tetris.BlockHandle) []tetris.BlockHandle {
	b.release(old)
	handles := make([]tetris.BlockHandle, 0, 4*len(next))
	for _, p := range next {
		for _, c := range p.Cells() {
			handles = append(handles, draw(c.X, c.Y, p.Type))
		}
	}
	return handles
}

func (b *blockTable) reset() {
	clear(b.blocks)
}

func (b *blockTable) len() int { return len(b.blocks) }
