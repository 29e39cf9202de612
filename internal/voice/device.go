package voice

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DevicePool bounds how many capture sessions may hold a device at once.
type DevicePool struct {
	sem    *semaphore.Weighted
	size   int64
	inUse  atomic.Int64
	nextID atomic.Int64
}

func NewDevicePool(size int64) *DevicePool {
	if size < 1 {
		size = 1
	}
	return &DevicePool{sem: semaphore.NewWeighted(size), size: size}
}

// TryAcquire hands out a device without waiting. It reports false when every
// device is taken.
func (p *DevicePool) TryAcquire() (*Device, bool) {
	if !p.sem.TryAcquire(1) {
		return nil, false
	}
	p.inUse.Add(1)
	return &Device{pool: p, id: p.nextID.Add(1)}, true
}

func (p *DevicePool) Size() int64 { return p.size }

func (p *DevicePool) InUse() int64 { return p.inUse.Load() }

// Device is an exclusive capture slot. Release is idempotent.
type Device struct {
	pool *DevicePool
	id   int64
	once sync.Once
}

func (d *Device) ID() int64 { return d.id }

func (d *Device) Release() {
	d.once.Do(func() {
		d.pool.inUse.Add(-1)
		d.pool.sem.Release(1)
	})
}
