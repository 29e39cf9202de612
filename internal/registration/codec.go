package registration

import (
	"encoding/json"
	"fmt"
)

type envelope struct {
	Step StepName        `json:"step"`
	Data json.RawMessage `json:"data"`
}

// Marshal encodes a step together with its variant name.
func Marshal(s Step) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Step: s.Name(), Data: data})
}

// Unmarshal is the inverse of Marshal.
func Unmarshal(b []byte) (Step, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode registration envelope: %w", err)
	}

	var step Step
	var err error
	switch env.Step {
	case StepAccount:
		step = AwaitingAccount{}
	case StepVerification:
		var v AwaitingVerification
		err = json.Unmarshal(env.Data, &v)
		step = v
	case StepOccupation:
		var v AwaitingOccupation
		err = json.Unmarshal(env.Data, &v)
		step = v
	case StepEducation:
		var v AwaitingEducation
		err = json.Unmarshal(env.Data, &v)
		step = v
	case StepDegree:
		var v AwaitingDegree
		err = json.Unmarshal(env.Data, &v)
		step = v
	case StepFeedback:
		var v AwaitingFeedback
		err = json.Unmarshal(env.Data, &v)
		step = v
	case StepDone:
		var v Completed
		err = json.Unmarshal(env.Data, &v)
		step = v
	default:
		return nil, fmt.Errorf("unknown registration step %q", env.Step)
	}
	if err != nil {
		return nil, fmt.Errorf("decode registration step %s: %w", env.Step, err)
	}
	return step, nil
}
