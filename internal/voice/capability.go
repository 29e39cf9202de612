package voice

import "learn-assist/internal/domain"

// Capability is the outcome of probing for speech recognition at startup.
// It is either Available or Unavailable.
type Capability interface {
	isCapability()
}

// Available carries everything a recognition session needs.
type Available struct {
	Devices     *DevicePool
	Transcriber domain.Transcriber
}

// Unavailable disables recognition; Reason is for logs only.
type Unavailable struct {
	Reason string
}

func (Available) isCapability()   {}
func (Unavailable) isCapability() {}

// Probe decides the recognition capability from the configured backend.
func Probe(enabled bool, transcriber domain.Transcriber, devices int64) Capability {
	switch {
	case !enabled:
		return Unavailable{Reason: "voice input disabled by configuration"}
	case transcriber == nil:
		return Unavailable{Reason: "no speech recognition backend configured"}
	default:
		return Available{Devices: NewDevicePool(devices), Transcriber: transcriber}
	}
}
