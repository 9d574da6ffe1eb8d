// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	applog "liveshift/internal/log"
	"liveshift/internal/spectrum"
)

// Publisher periodically reads the latest magnitude frame from a spectrum
// processor, packs it into a binary packet, and sends it through a Sender.
// Packet layout (big endian):
//
//	sequence  uint32
//	timestamp int64  nanoseconds since epoch
//	count     uint16 number of magnitudes
//	values    count * float32
type Publisher struct {
	sender   *Sender
	proc     *spectrum.Processor
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // protects ticker and doneChan across Start/Stop

	sequenceNum uint32

	// Reused across ticks to keep the publish loop allocation free.
	magBuffer    []float64
	f32Buffer    []float32
	packetBuffer *bytes.Buffer
}

// NewPublisher wires a sender to a spectrum processor. A non-positive
// interval defaults to ~30 Hz.
func NewPublisher(interval time.Duration, sender *Sender, proc *spectrum.Processor) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("udp publisher: sender cannot be nil")
	}
	if proc == nil {
		return nil, fmt.Errorf("udp publisher: spectrum processor cannot be nil")
	}
	if interval <= 0 {
		interval = 33 * time.Millisecond
		applog.Warnf("udp: invalid publish interval, defaulting to %s", interval)
	}

	bins := proc.BinCount()
	applog.Infof("udp: publisher initialized (interval %s, %d bins)", interval, bins)

	return &Publisher{
		sender:       sender,
		proc:         proc,
		interval:     interval,
		magBuffer:    make([]float64, bins),
		f32Buffer:    make([]float32, bins),
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Start launches the publish loop. Calling Start on a running publisher is
// a no-op.
func (p *Publisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("udp: publisher already running")
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-ticker.C:
				p.publishFrame()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop terminates the publish loop and waits for it to exit. Repeat calls
// are no-ops.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

func (p *Publisher) publishFrame() {
	if err := p.proc.GetMagnitudesInto(p.magBuffer); err != nil {
		applog.Errorf("udp: error reading magnitudes: %v", err)
		return
	}
	for i, v := range p.magBuffer {
		p.f32Buffer[i] = float32(v)
	}

	p.sequenceNum++
	p.packetBuffer.Reset()
	binary.Write(p.packetBuffer, binary.BigEndian, p.sequenceNum)
	binary.Write(p.packetBuffer, binary.BigEndian, time.Now().UnixNano())
	binary.Write(p.packetBuffer, binary.BigEndian, uint16(len(p.f32Buffer)))
	binary.Write(p.packetBuffer, binary.BigEndian, p.f32Buffer)

	if err := p.sender.Send(p.packetBuffer.Bytes()); err != nil {
		applog.Errorf("udp: error sending packet: %v", err)
	}
}
