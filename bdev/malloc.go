// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import "sync"

// mallocDisk is the RAM store of a malloc device. Channels of one device
// run their own device goroutines, so access is serialized here.
type mallocDisk struct {
	mu   sync.RWMutex
	data []byte
}

func newMallocDisk(size uint64) *mallocDisk {
	return &mallocDisk{data: make([]byte, size)}
}

// do performs req and returns its completion status.
func (m *mallocDisk) do(req *ioRequest) int {
	end := req.offset + req.length
	switch req.typ {
	case IoRead:
		m.mu.RLock()
		copy(req.buf[:req.length], m.data[req.offset:end])
		m.mu.RUnlock()
	case IoWrite:
		m.mu.Lock()
		copy(m.data[req.offset:end], req.buf[:req.length])
		m.mu.Unlock()
	}
	return 0
}
