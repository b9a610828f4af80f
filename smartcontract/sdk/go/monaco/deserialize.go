package monaco

import "fmt"

func DeserializeDepositState(data []byte) (*DepositState, error) {
	if len(data) < DepositStateMinSize {
		return nil, fmt.Errorf("deposit state data too short: %d < %d", len(data), DepositStateMinSize)
	}
	var state DepositState
	if err := state.Deserialize(data); err != nil {
		return nil, err
	}
	return &state, nil
}

func DeserializeDidSwap(data []byte) (*DidSwap, error) {
	var event DidSwap
	if err := event.Deserialize(data); err != nil {
		return nil, err
	}
	return &event, nil
}
