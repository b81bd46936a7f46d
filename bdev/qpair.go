// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bdev

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// queueDepth bounds the requests in flight on one channel. Both rings
// hold a full window, so the device never blocks on a full completion ring.
const queueDepth = 128

// qpair is the submission and completion ring pair between a channel on
// the reactor goroutine and its device goroutine. Each ring has exactly
// one producer and one consumer.
type qpair struct {
	sq     lfq.SPSC[ioRequest]
	cq     lfq.SPSC[ioRequest]
	closed atomix.Uint32
	done   chan struct{}
}

func newQpair() *qpair {
	qp := &qpair{done: make(chan struct{})}
	qp.sq.Init(queueDepth)
	qp.cq.Init(queueDepth)
	return qp
}

// serve performs submitted requests on disk until close, backing off
// adaptively while the submission ring is empty.
func (qp *qpair) serve(disk *mallocDisk) {
	defer close(qp.done)
	var bo iox.Backoff
	for {
		req, err := qp.sq.Dequeue()
		if err != nil {
			if qp.closed.Load() != 0 {
				return
			}
			bo.Wait()
			continue
		}
		bo.Reset()
		req.status = disk.do(&req)
		for qp.cq.Enqueue(&req) != nil {
			if qp.closed.Load() != 0 {
				return
			}
			bo.Wait()
		}
	}
}

// close stops the device goroutine and waits for it to exit.
func (qp *qpair) close() {
	if qp.closed.Add(1) == 1 {
		<-qp.done
	}
}
